package commands

import (
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/splitbill/internal/money"
	"github.com/cleared-dev/splitbill/internal/runlog"
)

func newHistoryCommand(opts *globalOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List previous runs from logs/runs.csv",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := opts.root()
			if err != nil {
				return err
			}
			entries, err := runlog.Read(root)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}
			if limit > 0 && len(entries) > limit {
				entries = entries[len(entries)-limit:]
			}

			table := tablewriter.NewWriter(out)
			table.SetHeader([]string{"Time", "Source", "Owners", "Allocated", "Billed", "Status"})
			table.SetAutoWrapText(false)
			for _, e := range entries {
				status := "ok"
				switch {
				case e.Failed():
					status = "error: " + e.Error
				case !e.Reconciled:
					status = "off by " + money.Format(e.Difference)
				}
				table.Append([]string{
					e.Timestamp.Local().Format("2006-01-02 15:04"), e.Source, strconv.Itoa(e.Owners),
					money.Format(e.Allocated), money.Format(e.Billed), status,
				})
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "show only the last n runs")

	return cmd
}
