package model

import "github.com/shopspring/decimal"

// AccountIdentifier is the identifier of the account-level charge row.
const AccountIdentifier = "Account"

// ChargeLine is one row of the bill summary.
type ChargeLine struct {
	Identifier string // AccountIdentifier or a phone number like "(111) 222-3333"
	Category   string // line type as printed, e.g. "Voice"; "Account" on the account row
	Plan       decimal.Decimal
	Equipment  decimal.Decimal
	Service    decimal.Decimal
	Total      decimal.Decimal // read verbatim from the statement, never recomputed

	// Reclassified is set once the plan charge has been moved to equipment.
	Reclassified bool
}

// IsAccount reports whether the line is the account-level charge.
func (l ChargeLine) IsAccount() bool {
	return l.Identifier == AccountIdentifier
}

// Individual returns plan + equipment + service.
func (l ChargeLine) Individual() decimal.Decimal {
	return l.Plan.Add(l.Equipment).Add(l.Service)
}

// Bill is the parsed bill summary of one statement.
type Bill struct {
	Lines []ChargeLine // document order; account row first when present

	// Total is the authoritative statement total from the "Totals" row.
	// Zero with TotalFound false when the row was absent.
	Total      decimal.Decimal
	TotalFound bool
}

// Account returns the account-level line, if the statement has one.
func (b Bill) Account() (ChargeLine, bool) {
	for _, l := range b.Lines {
		if l.IsAccount() {
			return l, true
		}
	}
	return ChargeLine{}, false
}

// DeviceLines returns every line except the account row.
func (b Bill) DeviceLines() []ChargeLine {
	var lines []ChargeLine
	for _, l := range b.Lines {
		if !l.IsAccount() {
			lines = append(lines, l)
		}
	}
	return lines
}
