package statement

import (
	"fmt"
	"regexp"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/splitbill/internal/model"
	"github.com/cleared-dev/splitbill/internal/money"
)

// TMobileParser parses the "THIS BILL SUMMARY" table of T-Mobile statements.
type TMobileParser struct{}

const amount = `\$(\d[\d,]*(?:\.\d{1,2})?)`

var (
	// Account $50.00 - $0.00 $50.00  (plan, service, total)
	tmobileAccount = regexp.MustCompile(`Account\s+` + amount + `\s+-\s+` + amount + `\s+` + amount)

	// (111) 222-3333 - New Voice Line $20.00 $0.00 $0.00 $20.00
	// Only the plan figure is required.
	tmobileLine = regexp.MustCompile(
		`\((\d{3})\)\s(\d{3})-(\d{4})(?:\s-\sNew)?\s+([A-Za-z]+(?:[ \t][A-Za-z]+)*)[ \t]+` + amount +
			`(?:[ \t]+` + amount + `)?` +
			`(?:[ \t]+` + amount + `)?` +
			`(?:[ \t]+` + amount + `)?`)

	// Totals $0.00 $0.00 $0.00 $100.00  (the fourth figure is the bill total)
	tmobileTotals = regexp.MustCompile(`Totals\s+` + amount + `\s+` + amount + `\s+` + amount + `\s+` + amount)
)

const (
	lineColArea     = 1
	lineColExchange = 2
	lineColNumber   = 3
	lineColCategory = 4
	lineColPlan     = 5
	lineColEquip    = 6
	lineColService  = 7
	lineColTotal    = 8
)

// Format returns the parser name.
func (p *TMobileParser) Format() string { return "tmobile" }

// Markers returns the anchors around the bill summary table.
func (p *TMobileParser) Markers() Markers {
	return Markers{Start: "THIS BILL SUMMARY", End: "DETAILED CHARGES"}
}

// Parse extracts the account row, the device lines and the statement total.
// A missing account row or totals row is not an error.
func (p *TMobileParser) Parse(summary string) (model.Bill, error) {
	var bill model.Bill

	if m := tmobileAccount.FindStringSubmatch(summary); m != nil {
		line, err := parseAccountRow(m)
		if err != nil {
			return model.Bill{}, fmt.Errorf("account row: %w", err)
		}
		bill.Lines = append(bill.Lines, line)
	}

	for i, m := range tmobileLine.FindAllStringSubmatch(summary, -1) {
		line, err := parseDeviceRow(m)
		if err != nil {
			return model.Bill{}, fmt.Errorf("line %d: %w", i+1, err)
		}
		bill.Lines = append(bill.Lines, line)
	}

	if m := tmobileTotals.FindStringSubmatch(summary); m != nil {
		total, err := money.Parse(m[4])
		if err != nil {
			return model.Bill{}, fmt.Errorf("totals row: %w", err)
		}
		bill.Total = total
		bill.TotalFound = true
	}

	return bill, nil
}

func parseAccountRow(m []string) (model.ChargeLine, error) {
	amounts, err := parseAmounts(m[1], m[2], m[3])
	if err != nil {
		return model.ChargeLine{}, err
	}
	return model.ChargeLine{
		Identifier: model.AccountIdentifier,
		Category:   model.AccountIdentifier,
		Plan:       amounts[0],
		Equipment:  decimal.Zero,
		Service:    amounts[1],
		Total:      amounts[2],
	}, nil
}

func parseDeviceRow(m []string) (model.ChargeLine, error) {
	amounts, err := parseAmounts(m[lineColPlan], m[lineColEquip], m[lineColService], m[lineColTotal])
	if err != nil {
		return model.ChargeLine{}, err
	}
	return model.ChargeLine{
		Identifier: FormatPhone(m[lineColArea], m[lineColExchange], m[lineColNumber]),
		Category:   m[lineColCategory],
		Plan:       amounts[0],
		Equipment:  amounts[1],
		Service:    amounts[2],
		Total:      amounts[3],
	}, nil
}

func parseAmounts(figures ...string) ([]decimal.Decimal, error) {
	out := make([]decimal.Decimal, len(figures))
	for i, f := range figures {
		d, err := money.ParseOptional(f)
		if err != nil {
			return nil, err
		}
		out[i] = d
	}
	return out, nil
}

// FormatPhone returns a number in the statement's "(AAA) EEE-NNNN" form.
func FormatPhone(area, exchange, number string) string {
	return fmt.Sprintf("(%s) %s-%s", area, exchange, number)
}
