package reconcile

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/cleared-dev/splitbill/internal/model"
	"github.com/cleared-dev/splitbill/internal/money"
)

func owners(amounts ...string) []model.OwnerAllocation {
	out := make([]model.OwnerAllocation, len(amounts))
	for i, a := range amounts {
		out[i] = model.OwnerAllocation{Owner: string(rune('A' + i)), Individual: money.MustParse(a)}
	}
	return out
}

func bill(total string) model.Bill {
	return model.Bill{Total: money.MustParse(total), TotalFound: true}
}

func TestCheck_Exact(t *testing.T) {
	r := Check(owners("50.00", "50.00"), bill("100.00"), DefaultTolerance())
	assert.True(t, r.OK)
	assert.True(t, r.Difference.IsZero())
	assert.Equal(t, "100.00", money.Format(r.Allocated))
	assert.Equal(t, "100.00", money.Format(r.Billed))
	assert.True(t, r.TotalFound)
}

func TestCheck_Monotonicity(t *testing.T) {
	tests := []struct {
		billed string
		ok     bool
	}{
		{"100.04", true},
		{"99.96", true},
		{"100.01", true},
		{"100.05", false},
		{"99.95", false},
		{"100.06", false},
		{"150.00", false},
		{"0.00", false},
	}
	for _, tt := range tests {
		r := Check(owners("60.00", "40.00"), bill(tt.billed), DefaultTolerance())
		assert.Equal(t, tt.ok, r.OK, "billed %s", tt.billed)
	}
}

func TestCheck_DifferenceSign(t *testing.T) {
	r := Check(owners("50.00"), bill("100.00"), DefaultTolerance())
	assert.False(t, r.OK)
	assert.Equal(t, "-50.00", money.Format(r.Difference))

	r = Check(owners("120.00"), bill("100.00"), DefaultTolerance())
	assert.Equal(t, "20.00", money.Format(r.Difference))
}

func TestCheck_MissingTotal(t *testing.T) {
	r := Check(owners("50.00", "50.00"), model.Bill{}, DefaultTolerance())
	assert.False(t, r.OK)
	assert.False(t, r.TotalFound)
	assert.Equal(t, "100.00", money.Format(r.Difference))
}

func TestCheck_CustomTolerance(t *testing.T) {
	r := Check(owners("100.00"), bill("101.00"), decimal.NewFromInt(2))
	assert.True(t, r.OK)
	assert.Equal(t, "2", r.Tolerance.String())
}
