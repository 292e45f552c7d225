package runlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/splitbill/internal/model"
	"github.com/cleared-dev/splitbill/internal/money"
)

// Entry is one row in the run history.
type Entry struct {
	Timestamp  time.Time
	RunID      string
	Source     string
	Owners     int
	Allocated  decimal.Decimal
	Billed     decimal.Decimal
	Difference decimal.Decimal
	Reconciled bool
	Error      string
}

// Failed reports whether the run stopped before producing a report.
func (e Entry) Failed() bool {
	return e.Error != ""
}

// Header is the CSV header for runs.csv.
const Header = "timestamp,run_id,source,owners,allocated,billed,difference,reconciled,error"

const (
	numFields     = 9
	logDir        = "logs"
	logFile       = "logs/runs.csv"
	colTimestamp  = 0
	colRunID      = 1
	colSource     = 2
	colOwners     = 3
	colAllocated  = 4
	colBilled     = 5
	colDifference = 6
	colReconciled = 7
	colError      = 8
)

// FromReport records a completed run.
func FromReport(r *model.Report) Entry {
	return Entry{
		Timestamp:  r.GeneratedAt,
		RunID:      r.RunID,
		Source:     r.Source,
		Owners:     len(r.Allocation.Owners),
		Allocated:  r.Reconciliation.Allocated,
		Billed:     r.Reconciliation.Billed,
		Difference: r.Reconciliation.Difference,
		Reconciled: r.Reconciliation.OK,
	}
}

// FromError records a run that failed before reconciliation.
func FromError(source string, at time.Time, err error) Entry {
	return Entry{
		Timestamp: at,
		Source:    source,
		Error:     err.Error(),
	}
}

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.UTC().Format(time.RFC3339)
	row[colRunID] = e.RunID
	row[colSource] = e.Source
	row[colOwners] = strconv.Itoa(e.Owners)
	row[colAllocated] = money.Format(e.Allocated)
	row[colBilled] = money.Format(e.Billed)
	row[colDifference] = e.Difference.StringFixed(money.Places)
	row[colReconciled] = strconv.FormatBool(e.Reconciled)
	row[colError] = e.Error
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}
	owners, err := strconv.Atoi(record[colOwners])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing owners %q: %w", record[colOwners], err)
	}
	allocated, err := money.Parse(record[colAllocated])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing allocated: %w", err)
	}
	billed, err := money.Parse(record[colBilled])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing billed: %w", err)
	}
	diff, err := decimal.NewFromString(record[colDifference])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing difference %q: %w", record[colDifference], err)
	}
	reconciled, err := strconv.ParseBool(record[colReconciled])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing reconciled %q: %w", record[colReconciled], err)
	}

	return Entry{
		Timestamp:  ts,
		RunID:      record[colRunID],
		Source:     record[colSource],
		Owners:     owners,
		Allocated:  allocated,
		Billed:     billed,
		Difference: diff,
		Reconciled: reconciled,
		Error:      record[colError],
	}, nil
}

// Append writes entries to <root>/logs/runs.csv, creating the file and header if needed.
func Append(root string, entries ...Entry) error {
	dir := filepath.Join(root, logDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := filepath.Join(root, logFile)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Read returns all entries from <root>/logs/runs.csv.
// Returns an empty slice if the file does not exist.
func Read(root string) ([]Entry, error) {
	f, err := os.Open(filepath.Join(root, logFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading run log CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	entries := make([]Entry, 0, len(records)-1)
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
