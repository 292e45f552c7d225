package export

import (
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/cleared-dev/splitbill/internal/model"
	"github.com/cleared-dev/splitbill/internal/money"
)

const (
	sheetOwners  = "Owners"
	sheetLines   = "Lines"
	sheetSummary = "Summary"

	// numFmtTwoDecimals is excelize's built-in "0.00" format.
	numFmtTwoDecimals = 2
)

// WriteXLSX writes the report as a workbook with Owners, Lines and Summary sheets.
func WriteXLSX(w io.Writer, report *model.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetOwners); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}
	for _, name := range []string{sheetLines, sheetSummary} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("creating sheet %s: %w", name, err)
		}
	}

	style, err := f.NewStyle(&excelize.Style{NumFmt: numFmtTwoDecimals})
	if err != nil {
		return fmt.Errorf("creating style: %w", err)
	}

	ownerRows := [][]any{{"Owner", "Individual amount"}}
	for _, o := range report.Allocation.Owners {
		ownerRows = append(ownerRows, []any{o.Owner, o.Individual.InexactFloat64()})
	}
	if err := writeRows(f, sheetOwners, ownerRows); err != nil {
		return err
	}
	if err := styleColumn(f, sheetOwners, "B", len(ownerRows), style); err != nil {
		return err
	}

	lineRows := [][]any{{"Identifier", "Name", "Owner", "Category", "Plan", "Equipment", "Service", "Statement total", "Individual amount", "Shared", "Reclassified"}}
	for _, l := range report.Allocation.Lines {
		lineRows = append(lineRows, []any{
			l.Identifier, l.Name, l.Owner, l.Category,
			l.Plan.InexactFloat64(), l.Equipment.InexactFloat64(), l.Service.InexactFloat64(),
			l.Total.InexactFloat64(), l.Individual.InexactFloat64(),
			l.Eligible, l.Reclassified,
		})
	}
	if err := writeRows(f, sheetLines, lineRows); err != nil {
		return err
	}
	for _, col := range []string{"E", "F", "G", "H", "I"} {
		if err := styleColumn(f, sheetLines, col, len(lineRows), style); err != nil {
			return err
		}
	}

	rec := report.Reconciliation
	summaryRows := [][]any{
		{"Run ID", report.RunID},
		{"Source", report.Source},
		{"Generated at", report.GeneratedAt.Format("2006-01-02 15:04:05")},
		{"Per-head charge", money.Format(report.Allocation.PerHead)},
		{"Shared lines", strconv.Itoa(report.Allocation.Eligible)},
		{"Total allocated", money.Format(rec.Allocated)},
		{"Total billed", money.Format(rec.Billed)},
		{"Difference", money.Format(rec.Difference)},
		{"Reconciled", strconv.FormatBool(rec.OK)},
	}
	for _, id := range report.Allocation.Unmapped {
		summaryRows = append(summaryRows, []any{"Unmapped line", id})
	}
	if err := writeRows(f, sheetSummary, summaryRows); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("writing %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

func styleColumn(f *excelize.File, sheet, col string, rows, style int) error {
	if rows < 2 {
		return nil
	}
	if err := f.SetCellStyle(sheet, col+"2", col+strconv.Itoa(rows), style); err != nil {
		return fmt.Errorf("styling %s!%s: %w", sheet, col, err)
	}
	return nil
}
