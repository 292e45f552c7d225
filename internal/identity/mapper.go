package identity

import (
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/splitbill/internal/model"
)

// Mapper resolves charge lines to owners and applies reclassification.
type Mapper struct {
	table *Table
}

// NewMapper creates a Mapper over table.
func NewMapper(table *Table) *Mapper {
	return &Mapper{table: table}
}

// Resolve returns the identity entry for a line. The account row and
// unknown numbers resolve to nothing.
func (m *Mapper) Resolve(line model.ChargeLine) (Entry, bool) {
	if line.IsAccount() {
		return Entry{}, false
	}
	return m.table.Lookup(line.Identifier)
}

// Excluded reports whether a line is kept out of the per-head split.
func (m *Mapper) Excluded(line model.ChargeLine) bool {
	return line.IsAccount() || m.table.Reclassified(line.Identifier)
}

// Normalize returns a copy of lines with reclassification applied.
func (m *Mapper) Normalize(lines []model.ChargeLine) []model.ChargeLine {
	out := make([]model.ChargeLine, len(lines))
	for i, l := range lines {
		if !l.IsAccount() && m.table.Reclassified(l.Identifier) {
			l = Reclassify(l)
		}
		out[i] = l
	}
	return out
}

// Reclassify bills the plan charge as the line's equipment charge,
// replacing any equipment figure the statement printed, and zeroes the plan.
// A line already reclassified is returned unchanged.
func Reclassify(line model.ChargeLine) model.ChargeLine {
	if line.Reclassified {
		return line
	}
	line.Equipment = line.Plan
	line.Plan = decimal.Zero
	line.Reclassified = true
	return line
}
