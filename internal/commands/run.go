package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/splitbill/internal/billing"
	"github.com/cleared-dev/splitbill/internal/export"
	"github.com/cleared-dev/splitbill/internal/extract"
	"github.com/cleared-dev/splitbill/internal/model"
	"github.com/cleared-dev/splitbill/internal/notify"
	"github.com/cleared-dev/splitbill/internal/runlog"
)

type runFlags struct {
	export  bool
	format  string
	notify  bool
	confirm bool
}

func newRunCommand(opts *globalOptions) *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "run <statement>",
		Short: "Split one statement (.pdf or .txt) and print each owner's amount",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatement(cmd, opts, flags, args[0])
		},
	}

	cmd.Flags().BoolVar(&flags.export, "export", false, "write the report to the export directory")
	cmd.Flags().StringVar(&flags.format, "format", "", "export format: csv or xlsx (default from config)")
	cmd.Flags().BoolVar(&flags.notify, "notify", false, "email the owner amounts to the household")
	cmd.Flags().BoolVarP(&flags.confirm, "yes", "y", false, "send without asking for confirmation")

	return cmd
}

func runStatement(cmd *cobra.Command, opts *globalOptions, flags runFlags, path string) error {
	root, err := opts.root()
	if err != nil {
		return err
	}
	cfg, err := opts.load(root)
	if err != nil {
		return err
	}
	log := opts.logger(cfg)

	svc, err := billing.NewFromConfig(cfg, log)
	if err != nil {
		return err
	}

	var n *notify.Notifier
	if flags.notify {
		if n, err = notifier(root, cfg); err != nil {
			return err
		}
	}

	report, err := process(svc, path)
	if err != nil {
		if lerr := runlog.Append(root, runlog.FromError(filepath.Base(path), time.Now(), err)); lerr != nil {
			log.Warn().Err(lerr).Msg("failed to write run log")
		}
		if n != nil {
			if nerr := n.AnnounceFailure(err); nerr != nil {
				log.Error().Err(nerr).Msg("failure notice not sent")
			}
		}
		return err
	}

	out := cmd.OutOrStdout()
	printReport(out, report)

	if err := runlog.Append(root, runlog.FromReport(report)); err != nil {
		log.Warn().Err(err).Msg("failed to write run log")
	}

	if flags.export {
		format := flags.format
		if format == "" {
			format = cfg.Export.Format
		}
		files, err := export.Save(exportDir(root, cfg), report, format)
		if err != nil {
			return err
		}
		for _, f := range files {
			fmt.Fprintf(out, "Exported %s\n", f)
		}
	}

	if n == nil {
		return nil
	}
	if !report.Reconciliation.OK {
		fmt.Fprintln(out, "Not sending email: report is not reconciled")
		return nil
	}
	if !flags.confirm {
		ok, err := confirm(cmd.InOrStdin(), out, fmt.Sprintf("Send to %s?", strings.Join(cfg.Notify.To, ", ")))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(out, "Email not sent")
			return nil
		}
	}
	if err := n.Announce(report); err != nil {
		return err
	}
	fmt.Fprintln(out, "Email sent")
	return nil
}

// process extracts and runs one statement file.
func process(svc *billing.Service, path string) (*model.Report, error) {
	text, err := extract.File(path)
	if err != nil {
		return nil, err
	}
	return svc.Run(filepath.Base(path), text)
}

// confirm asks a yes/no question; anything but y or yes is no.
func confirm(in io.Reader, out io.Writer, question string) (bool, error) {
	fmt.Fprintf(out, "%s [y/N] ", question)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("reading answer: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
