package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/splitbill/internal/model"
	"github.com/cleared-dev/splitbill/internal/money"
)

// OwnersHeader is the CSV header of the per-owner table.
const OwnersHeader = "owner,individual_amount"

// LinesHeader is the CSV header of the per-line detail table.
const LinesHeader = "identifier,name,owner,category,plan,equipment,service,statement_total,individual_amount,shared,reclassified"

const (
	numOwnerFields = 2
	colOwner       = 0
	colOwnerAmount = 1

	numLineFields    = 11
	colLineID        = 0
	colLineName      = 1
	colLineOwner     = 2
	colLineCategory  = 3
	colLinePlan      = 4
	colLineEquipment = 5
	colLineService   = 6
	colLineTotal     = 7
	colLineAmount    = 8
	colLineShared    = 9
	colLineReclass   = 10
)

// WriteOwners writes the per-owner allocation table, including the header.
func WriteOwners(w io.Writer, owners []model.OwnerAllocation) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(OwnersHeader, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, o := range owners {
		if err := cw.Write(MarshalOwner(o)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteLines writes the per-line detail table, including the header.
func WriteLines(w io.Writer, lines []model.AllocatedLine) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(LinesHeader, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, l := range lines {
		if err := cw.Write(MarshalLine(l)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadOwners reads a per-owner table written by WriteOwners.
func ReadOwners(r io.Reader) ([]model.OwnerAllocation, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numOwnerFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading owners CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	owners := make([]model.OwnerAllocation, 0, len(records)-1)
	for i, rec := range records[1:] {
		amt, err := decimal.NewFromString(rec[colOwnerAmount])
		if err != nil {
			return nil, fmt.Errorf("row %d: parsing amount %q: %w", i+2, rec[colOwnerAmount], err)
		}
		owners = append(owners, model.OwnerAllocation{Owner: rec[colOwner], Individual: amt})
	}
	return owners, nil
}

// MarshalOwner converts an OwnerAllocation to a CSV row.
func MarshalOwner(o model.OwnerAllocation) []string {
	row := make([]string, numOwnerFields)
	row[colOwner] = o.Owner
	row[colOwnerAmount] = money.Format(o.Individual)
	return row
}

// MarshalLine converts an AllocatedLine to a CSV row.
func MarshalLine(l model.AllocatedLine) []string {
	row := make([]string, numLineFields)
	row[colLineID] = l.Identifier
	row[colLineName] = l.Name
	row[colLineOwner] = l.Owner
	row[colLineCategory] = l.Category
	row[colLinePlan] = money.Format(l.Plan)
	row[colLineEquipment] = money.Format(l.Equipment)
	row[colLineService] = money.Format(l.Service)
	row[colLineTotal] = money.Format(l.Total)
	row[colLineAmount] = money.Format(l.Individual)
	row[colLineShared] = strconv.FormatBool(l.Eligible)
	row[colLineReclass] = strconv.FormatBool(l.Reclassified)
	return row
}
