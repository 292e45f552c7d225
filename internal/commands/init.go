package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/splitbill/internal/config"
	"github.com/cleared-dev/splitbill/internal/inbox"
	"github.com/cleared-dev/splitbill/internal/runlog"
)

func newInitCommand() *cobra.Command {
	var household string

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new splitbill project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			if err := runInit(absDir, household); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Initialized splitbill project at %s\n", absDir)
			return nil
		},
	}

	cmd.Flags().StringVar(&household, "household", "", "household name (required)")
	_ = cmd.MarkFlagRequired("household")

	return cmd
}

func runInit(dir, household string) error {
	cfgPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil {
		return fmt.Errorf("%s already exists", cfgPath)
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("checking %s: %w", cfgPath, err)
	}

	cfg := config.Default(household)

	dirs := []string{
		inbox.Dir,
		inbox.ProcessedDir,
		cfg.Export.Dir,
		"logs",
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	if err := config.Save(cfgPath, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// Statements and exports carry phone numbers and amounts.
	gitignore := ".env\ninbox/\nexports/\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	env := "SMTP_USERNAME=\nSMTP_PASSWORD=\n"
	if err := os.WriteFile(filepath.Join(dir, ".env.example"), []byte(env), 0o644); err != nil {
		return fmt.Errorf("writing .env.example: %w", err)
	}

	return runlog.Append(dir)
}
