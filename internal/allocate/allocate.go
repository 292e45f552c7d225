package allocate

import (
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/splitbill/internal/identity"
	"github.com/cleared-dev/splitbill/internal/model"
	"github.com/cleared-dev/splitbill/internal/money"
)

// ErrEmptyEligibleSet means no line qualifies for the per-head split.
var ErrEmptyEligibleSet = errors.New("no lines eligible for per-head allocation")

// Allocate pools the account charge with the plan charges of every eligible
// line, splits the pool evenly across those lines, and sums each owner's
// lines. lines must already be normalized by the mapper.
//
// Eligible lines are all device lines that are not reclassified, mapped or
// not: the split is by line count, not owner count. Unmapped lines are left
// out of the owner totals and listed in Allocation.Unmapped.
func Allocate(lines []model.ChargeLine, m *identity.Mapper) (model.Allocation, error) {
	var alloc model.Allocation

	pooled := decimal.Zero
	for _, l := range lines {
		if l.IsAccount() {
			alloc.AccountTotal = alloc.AccountTotal.Add(l.Total)
			continue
		}
		if m.Excluded(l) {
			continue
		}
		pooled = pooled.Add(l.Plan)
		alloc.Eligible++
	}
	alloc.PooledPlan = pooled
	alloc.SharedPool = alloc.AccountTotal.Add(pooled)

	if alloc.Eligible == 0 {
		return model.Allocation{}, fmt.Errorf("%w: %d lines parsed", ErrEmptyEligibleSet, len(lines))
	}
	alloc.PerHead = money.Round(alloc.SharedPool.Div(decimal.NewFromInt(int64(alloc.Eligible))))

	byOwner := make(map[string]decimal.Decimal)
	for _, l := range lines {
		if l.IsAccount() {
			continue
		}

		out := model.AllocatedLine{ChargeLine: l}
		if !m.Excluded(l) {
			out.Eligible = true
			out.Plan = alloc.PerHead
		}
		out.Individual = out.ChargeLine.Individual()

		if e, ok := m.Resolve(l); ok {
			out.Name = e.Name
			out.Owner = e.Owner
			byOwner[e.Owner] = byOwner[e.Owner].Add(out.Individual)
		} else {
			alloc.Unmapped = append(alloc.Unmapped, l.Identifier)
		}
		alloc.Lines = append(alloc.Lines, out)
	}

	alloc.Owners = make([]model.OwnerAllocation, 0, len(byOwner))
	for owner, amt := range byOwner {
		alloc.Owners = append(alloc.Owners, model.OwnerAllocation{Owner: owner, Individual: amt})
	}
	sort.Slice(alloc.Owners, func(i, j int) bool {
		return alloc.Owners[i].Owner < alloc.Owners[j].Owner
	})

	return alloc, nil
}
