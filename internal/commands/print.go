package commands

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/cleared-dev/splitbill/internal/model"
	"github.com/cleared-dev/splitbill/internal/money"
	"github.com/cleared-dev/splitbill/internal/notify"
)

// printReport writes the line detail, the owner table and the
// reconciliation result.
func printReport(w io.Writer, r *model.Report) {
	fmt.Fprintf(w, "Statement: %s (run %s)\n\n", r.Source, r.RunID)

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Line", "Name", "Owner", "Plan", "Equipment", "Services", "Individual", "Note"})
	table.SetAutoWrapText(false)
	for _, l := range r.Allocation.Lines {
		note := ""
		switch {
		case l.Reclassified:
			note = "plan billed as equipment"
		case !l.Mapped():
			note = "unmapped"
		}
		table.Append([]string{
			l.Identifier, dash(l.Name), dash(l.Owner),
			money.Format(l.Plan), money.Format(l.Equipment), money.Format(l.Service),
			money.Format(l.Individual), note,
		})
	}
	table.Render()

	fmt.Fprintf(w, "\nShared pool %s across %d lines: %s per line\n\n",
		money.Format(r.Allocation.SharedPool), r.Allocation.Eligible, money.Format(r.Allocation.PerHead))

	fmt.Fprint(w, notify.OwnerTable(r.Allocation.Owners))
	fmt.Fprintln(w)

	rec := r.Reconciliation
	fmt.Fprintf(w, "Total allocated: %s\n", money.Format(rec.Allocated))
	if rec.TotalFound {
		fmt.Fprintf(w, "Total billed:    %s\n", money.Format(rec.Billed))
	} else {
		fmt.Fprintln(w, "Total billed:    not found on statement")
	}
	if !rec.OK {
		fmt.Fprintf(w, "WARNING: allocated total differs from billed total by %s\n", money.Format(rec.Difference))
	}
	for _, id := range r.Allocation.Unmapped {
		fmt.Fprintf(w, "WARNING: line %s has no owner in %s\n", id, configFileName)
	}
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
