package runlog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/splitbill/internal/model"
	"github.com/cleared-dev/splitbill/internal/money"
)

var testTime = time.Date(2025, 10, 18, 9, 30, 0, 0, time.UTC)

func testEntry() Entry {
	return Entry{
		Timestamp:  testTime,
		RunID:      "3f2a9c1d-0000-4000-8000-000000000000",
		Source:     "inbox/october.pdf",
		Owners:     2,
		Allocated:  money.MustParse("115.00"),
		Billed:     money.MustParse("120.00"),
		Difference: money.MustParse("5.00").Neg(),
		Reconciled: false,
	}
}

func TestAppend_NewFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Append(dir, testEntry()))

	entries, err := Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "inbox/october.pdf", entries[0].Source)
}

func TestAppend_ExistingFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Append(dir, testEntry()))
	require.NoError(t, Append(dir, FromError("inbox/bad.txt", testTime, errors.New("summary section not found"))))

	entries, err := Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.False(t, entries[0].Failed())
	assert.True(t, entries[1].Failed())
	assert.Equal(t, "summary section not found", entries[1].Error)
	assert.True(t, entries[1].Allocated.IsZero())
}

func TestMarshalUnmarshal(t *testing.T) {
	e := testEntry()
	row := MarshalEntry(e)
	require.Len(t, row, numFields)
	assert.Equal(t, "2025-10-18T09:30:00Z", row[colTimestamp])
	assert.Equal(t, "115.00", row[colAllocated])
	assert.Equal(t, "-5.00", row[colDifference])
	assert.Equal(t, "false", row[colReconciled])

	got, err := UnmarshalEntry(row)
	require.NoError(t, err)
	assert.True(t, e.Timestamp.Equal(got.Timestamp))
	assert.Equal(t, e.RunID, got.RunID)
	assert.Equal(t, e.Owners, got.Owners)
	assert.True(t, e.Allocated.Equal(got.Allocated))
	assert.True(t, e.Billed.Equal(got.Billed))
	assert.True(t, e.Difference.Equal(got.Difference))
	assert.Equal(t, e.Reconciled, got.Reconciled)
}

func TestUnmarshalEntry_BadFieldCount(t *testing.T) {
	_, err := UnmarshalEntry([]string{"one", "two"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected 9 fields")
}

func TestUnmarshalEntry_BadOwners(t *testing.T) {
	row := MarshalEntry(testEntry())
	row[colOwners] = "two"
	_, err := UnmarshalEntry(row)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing owners")
}

func TestFromReport(t *testing.T) {
	r := &model.Report{
		RunID:       "abc",
		Source:      "bill.txt",
		GeneratedAt: testTime,
		Allocation: model.Allocation{Owners: []model.OwnerAllocation{
			{Owner: "Alex", Individual: money.MustParse("65.00")},
			{Owner: "Blake", Individual: money.MustParse("50.00")},
		}},
		Reconciliation: model.Reconciliation{
			OK:        true,
			Allocated: money.MustParse("115.00"),
			Billed:    money.MustParse("115.00"),
		},
	}
	e := FromReport(r)
	assert.Equal(t, "abc", e.RunID)
	assert.Equal(t, 2, e.Owners)
	assert.True(t, e.Reconciled)
	assert.False(t, e.Failed())
}

func TestRead_NotFound(t *testing.T) {
	entries, err := Read(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, entries)
}

func TestRead_HeaderOnly(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "logs"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "logs", "runs.csv"), []byte(Header+"\n"), 0o644))

	entries, err := Read(dir)
	require.NoError(t, err)
	assert.Nil(t, entries)
}
