package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OwnerAllocation is one owner's share of the bill.
type OwnerAllocation struct {
	Owner      string
	Individual decimal.Decimal
}

// AllocatedLine is a normalized charge line after reclassification and
// per-head redistribution.
type AllocatedLine struct {
	ChargeLine
	Name       string // display name from the identity table; empty when unmapped
	Owner      string // empty when unmapped
	Eligible   bool   // took part in the per-head split
	Individual decimal.Decimal
}

// Mapped reports whether the line resolved to an owner.
func (l AllocatedLine) Mapped() bool {
	return l.Owner != ""
}

// Allocation is the output of the charge allocator.
type Allocation struct {
	Lines        []AllocatedLine
	Owners       []OwnerAllocation // sorted by owner name
	AccountTotal decimal.Decimal
	PooledPlan   decimal.Decimal
	SharedPool   decimal.Decimal
	PerHead      decimal.Decimal
	Eligible     int
	Unmapped     []string // identifiers with no owner, in document order
}

// OwnersTotal sums every owner's individual amount.
func (a Allocation) OwnersTotal() decimal.Decimal {
	total := decimal.Zero
	for _, o := range a.Owners {
		total = total.Add(o.Individual)
	}
	return total
}

// Reconciliation compares allocated owner totals against the statement total.
type Reconciliation struct {
	OK         bool
	Allocated  decimal.Decimal
	Billed     decimal.Decimal
	Difference decimal.Decimal // Allocated - Billed
	Tolerance  decimal.Decimal
	TotalFound bool
}

// Report is the finished result of one pipeline run.
type Report struct {
	RunID          string
	Source         string
	GeneratedAt    time.Time
	Bill           Bill
	Allocation     Allocation
	Reconciliation Reconciliation
}
