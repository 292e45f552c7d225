package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/splitbill/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:     "splitbill",
		Short:   "Split a family phone bill between the people who pay it",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.repo, "repo", ".", "project directory")
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default <repo>/"+configFileName+")")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override log.level from the config")

	rootCmd.AddCommand(
		newInitCommand(),
		newRunCommand(opts),
		newBatchCommand(opts),
		newServeCommand(opts),
		newHistoryCommand(opts),
		newHouseholdCommand(opts),
	)

	return rootCmd
}
