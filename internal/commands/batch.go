package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/splitbill/internal/billing"
	"github.com/cleared-dev/splitbill/internal/config"
	"github.com/cleared-dev/splitbill/internal/export"
	"github.com/cleared-dev/splitbill/internal/inbox"
	"github.com/cleared-dev/splitbill/internal/logger"
	"github.com/cleared-dev/splitbill/internal/money"
	"github.com/cleared-dev/splitbill/internal/runlog"
)

func newBatchCommand(opts *globalOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Split every statement in inbox/ and move the processed ones aside",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := opts.root()
			if err != nil {
				return err
			}
			cfg, err := opts.load(root)
			if err != nil {
				return err
			}
			if format != "" {
				cfg.Export.Format = format
			}
			log := opts.logger(cfg)
			svc, err := billing.NewFromConfig(cfg, log)
			if err != nil {
				return err
			}
			ctx := logger.WithContext(cmd.Context(), log)
			return runBatch(ctx, cmd.OutOrStdout(), root, cfg, svc)
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "export format: csv or xlsx (default from config)")

	return cmd
}

// runBatch processes each inbox file independently. A failing statement is
// logged and left in the inbox; the rest still run.
func runBatch(ctx context.Context, out io.Writer, root string, cfg *config.Config, svc *billing.Service) error {
	log := logger.FromContext(ctx)

	files, err := inbox.Scan(root)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Fprintln(out, "No statements in inbox")
		return nil
	}

	failed := 0
	for _, f := range files {
		report, err := process(svc, f.Path)
		if err != nil {
			failed++
			log.Error().Err(err).Str("file", f.Name).Msg("statement failed")
			fmt.Fprintf(out, "%s: FAILED: %v\n", f.Name, err)
			if lerr := runlog.Append(root, runlog.FromError(f.Name, time.Now(), err)); lerr != nil {
				log.Warn().Err(lerr).Msg("failed to write run log")
			}
			continue
		}

		if _, err := export.Save(exportDir(root, cfg), report, cfg.Export.Format); err != nil {
			return err
		}
		if err := runlog.Append(root, runlog.FromReport(report)); err != nil {
			log.Warn().Err(err).Msg("failed to write run log")
		}
		if err := inbox.MarkProcessed(root, f.Name); err != nil {
			return err
		}

		status := "reconciled"
		if !report.Reconciliation.OK {
			status = "NOT reconciled, difference " + money.Format(report.Reconciliation.Difference)
		}
		fmt.Fprintf(out, "%s: %d owners, %s allocated, %s\n",
			f.Name, len(report.Allocation.Owners), money.Format(report.Reconciliation.Allocated), status)
	}

	fmt.Fprintf(out, "Processed %d of %d statements\n", len(files)-failed, len(files))
	if failed > 0 {
		return fmt.Errorf("%d of %d statements failed", failed, len(files))
	}
	return nil
}
