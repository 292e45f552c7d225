package billing

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/splitbill/internal/allocate"
	"github.com/cleared-dev/splitbill/internal/config"
	"github.com/cleared-dev/splitbill/internal/logger"
	"github.com/cleared-dev/splitbill/internal/money"
	"github.com/cleared-dev/splitbill/internal/statement"
)

const statementText = `T-Mobile
THIS BILL SUMMARY
Account $50.00 - $0.00 $50.00
(111) 222-3333 Plan $20.00 $0.00 $0.00 $20.00
(444) 555-6666 Plan $30.00 $0.00 $0.00 $30.00
Totals $0.00 $0.00 $0.00 $100.00
DETAILED CHARGES
`

func testConfig() *config.Config {
	cfg := config.Default("Test Household")
	cfg.Household.Lines = []config.LineConfig{
		{Number: "(111) 222-3333", Owner: "Alex"},
		{Number: "(444) 555-6666", Owner: "Sam"},
	}
	return cfg
}

func newService(t *testing.T, cfg *config.Config, buf *bytes.Buffer) *Service {
	t.Helper()
	svc, err := NewFromConfig(cfg, logger.NewWithWriter(buf, "debug"))
	require.NoError(t, err)
	return svc
}

func TestRun_TwoLinesReconcile(t *testing.T) {
	var logs bytes.Buffer
	svc := newService(t, testConfig(), &logs)

	report, err := svc.Run("october.pdf", statementText)
	require.NoError(t, err)

	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, "october.pdf", report.Source)
	assert.False(t, report.GeneratedAt.IsZero())

	require.Len(t, report.Allocation.Owners, 2)
	assert.Equal(t, "50.00", money.Format(report.Allocation.Owners[0].Individual))
	assert.Equal(t, "50.00", money.Format(report.Allocation.Owners[1].Individual))
	assert.True(t, report.Reconciliation.OK)
	assert.True(t, report.Reconciliation.Difference.IsZero())

	assert.Contains(t, logs.String(), report.RunID)
	assert.Contains(t, logs.String(), "reconciliation")
}

func TestRun_UnmappedIsReported(t *testing.T) {
	var logs bytes.Buffer
	cfg := testConfig()
	cfg.Household.Lines = cfg.Household.Lines[:1]
	svc := newService(t, cfg, &logs)

	report, err := svc.Run("october.pdf", statementText)
	require.NoError(t, err)

	assert.Equal(t, []string{"(444) 555-6666"}, report.Allocation.Unmapped)
	require.Len(t, report.Allocation.Owners, 1)
	assert.False(t, report.Reconciliation.OK)
	assert.Equal(t, "-50.00", money.Format(report.Reconciliation.Difference))
	assert.Contains(t, logs.String(), "no owner")
	assert.Contains(t, logs.String(), `"level":"warn"`)
}

func TestRun_Reclassified(t *testing.T) {
	cfg := testConfig()
	cfg.Household.Lines = append(cfg.Household.Lines, config.LineConfig{Number: "(777) 888-9999", Name: "Kid Watch", Owner: "Alex"})
	cfg.Household.Reclassify = []string{"Kid Watch"}
	svc := newService(t, cfg, &bytes.Buffer{})

	text := strings.Replace(statementText,
		"Totals $0.00 $0.00 $0.00 $100.00",
		"(777) 888-9999 Wearable $15.00 $0.00 $0.00 $15.00\nTotals $0.00 $0.00 $0.00 $115.00", 1)

	report, err := svc.Run("november.pdf", text)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Allocation.Eligible)
	assert.Equal(t, "50.00", money.Format(report.Allocation.PerHead))
	require.Len(t, report.Allocation.Owners, 2)
	assert.Equal(t, "Alex", report.Allocation.Owners[0].Owner)
	assert.Equal(t, "65.00", money.Format(report.Allocation.Owners[0].Individual))
	assert.True(t, report.Reconciliation.OK)

	// The parsed bill keeps the statement's own figures.
	assert.Equal(t, "15.00", money.Format(report.Bill.Lines[3].Plan))
}

func TestRun_ReclassifiedReplacesEquipment(t *testing.T) {
	cfg := testConfig()
	cfg.Household.Lines = append(cfg.Household.Lines, config.LineConfig{Number: "(777) 888-9999", Name: "Kid Watch", Owner: "Kid"})
	cfg.Household.Reclassify = []string{"Kid Watch"}
	svc := newService(t, cfg, &bytes.Buffer{})

	text := strings.Replace(statementText,
		"Totals $0.00 $0.00 $0.00 $100.00",
		"(777) 888-9999 Wearable $15.00 $5.00 $2.00 $22.00\nTotals $0.00 $0.00 $0.00 $122.00", 1)

	report, err := svc.Run("november.pdf", text)
	require.NoError(t, err)

	require.Len(t, report.Allocation.Owners, 3)
	kid := report.Allocation.Owners[1]
	assert.Equal(t, "Kid", kid.Owner)
	assert.Equal(t, "17.00", money.Format(kid.Individual))

	line := report.Allocation.Lines[2]
	assert.True(t, line.Reclassified)
	assert.False(t, line.Eligible)
	assert.Equal(t, "0.00", money.Format(line.Plan))
	assert.Equal(t, "15.00", money.Format(line.Equipment))
	assert.Equal(t, "2.00", money.Format(line.Service))
}

func TestRun_MissingTotals(t *testing.T) {
	svc := newService(t, testConfig(), &bytes.Buffer{})
	text := strings.Replace(statementText, "Totals $0.00 $0.00 $0.00 $100.00\n", "", 1)

	report, err := svc.Run("december.pdf", text)
	require.NoError(t, err)
	assert.False(t, report.Reconciliation.OK)
	assert.False(t, report.Reconciliation.TotalFound)
	assert.True(t, report.Reconciliation.Billed.IsZero())
	assert.Equal(t, "100.00", money.Format(report.Reconciliation.Difference))
}

func TestRun_SegmentNotFound(t *testing.T) {
	var logs bytes.Buffer
	svc := newService(t, testConfig(), &logs)

	_, err := svc.Run("receipt.pdf", "Thanks for shopping with us")
	require.Error(t, err)
	assert.True(t, errors.Is(err, statement.ErrSegmentNotFound))
	assert.Contains(t, err.Error(), "receipt.pdf")
	assert.Contains(t, logs.String(), `"level":"error"`)
}

func TestRun_EmptyEligibleSet(t *testing.T) {
	svc := newService(t, testConfig(), &bytes.Buffer{})
	_, err := svc.Run("empty.pdf", "THIS BILL SUMMARY\nAccount $50.00 - $0.00 $50.00\nDETAILED CHARGES")
	assert.ErrorIs(t, err, allocate.ErrEmptyEligibleSet)
}

func TestRun_IndependentRuns(t *testing.T) {
	svc := newService(t, testConfig(), &bytes.Buffer{})
	r1, err := svc.Run("a.pdf", statementText)
	require.NoError(t, err)
	r2, err := svc.Run("b.pdf", statementText)
	require.NoError(t, err)

	assert.NotEqual(t, r1.RunID, r2.RunID)
	assert.Equal(t, money.Format(r1.Allocation.OwnersTotal()), money.Format(r2.Allocation.OwnersTotal()))
}

func TestNewFromConfig_Errors(t *testing.T) {
	cfg := testConfig()
	cfg.Layout.Format = "verizon"
	_, err := NewFromConfig(cfg, logger.Nop())
	assert.ErrorIs(t, err, statement.ErrUnknownFormat)

	cfg = testConfig()
	cfg.Reconcile.Tolerance = "lots"
	_, err = NewFromConfig(cfg, logger.Nop())
	assert.Error(t, err)

	cfg = testConfig()
	cfg.Household.Lines = append(cfg.Household.Lines, cfg.Household.Lines[0])
	_, err = NewFromConfig(cfg, logger.Nop())
	assert.Error(t, err)
}
