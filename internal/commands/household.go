package commands

import (
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func newHouseholdCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "household",
		Short: "List the configured lines and who pays for each",
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
			household, err := cfg.Table()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if cfg.Household.Name != "" {
				fmt.Fprintf(out, "Household: %s\n", cfg.Household.Name)
			}

			table := tablewriter.NewWriter(out)
			table.SetHeader([]string{"Number", "Name", "Owner", "Billing"})
			table.SetAutoWrapText(false)
			for _, e := range household.Entries() {
				billing := "shared plan"
				if household.Reclassified(e.Number) {
					billing = "plan billed as equipment"
				}
				table.Append([]string{e.Number, e.Name, e.Owner, billing})
			}
			table.Render()

			fmt.Fprintf(out, "Owners: %s\n", strings.Join(household.Owners(), ", "))
			return nil
		},
	}
}
