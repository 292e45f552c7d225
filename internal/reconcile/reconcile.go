package reconcile

import (
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/splitbill/internal/model"
)

// DefaultTolerance returns the largest difference, exclusive, still treated
// as a match: 0.05.
func DefaultTolerance() decimal.Decimal {
	return decimal.New(5, -2)
}

// Check compares the owner allocations against the statement total. A
// mismatch is reported in the result, never as an error; callers decide
// whether to proceed.
func Check(owners []model.OwnerAllocation, bill model.Bill, tolerance decimal.Decimal) model.Reconciliation {
	allocated := decimal.Zero
	for _, o := range owners {
		allocated = allocated.Add(o.Individual)
	}
	diff := allocated.Sub(bill.Total)

	return model.Reconciliation{
		OK:         diff.Abs().LessThan(tolerance),
		Allocated:  allocated,
		Billed:     bill.Total,
		Difference: diff,
		Tolerance:  tolerance,
		TotalFound: bill.TotalFound,
	}
}
