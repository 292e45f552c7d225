package api

import (
	"time"

	"github.com/cleared-dev/splitbill/internal/model"
	"github.com/cleared-dev/splitbill/internal/money"
)

// OwnerResponse is one owner's amount. Amounts are fixed two-decimal strings.
type OwnerResponse struct {
	Owner  string `json:"owner"`
	Amount string `json:"amount"`
}

// LineResponse is one allocated statement line.
type LineResponse struct {
	Identifier   string `json:"identifier"`
	Name         string `json:"name,omitempty"`
	Owner        string `json:"owner,omitempty"`
	Category     string `json:"category,omitempty"`
	Plan         string `json:"plan"`
	Equipment    string `json:"equipment"`
	Service      string `json:"service"`
	Total        string `json:"statement_total"`
	Individual   string `json:"individual_amount"`
	Shared       bool   `json:"shared"`
	Reclassified bool   `json:"reclassified"`
}

// ReconciliationResponse is the allocated-vs-billed check.
type ReconciliationResponse struct {
	OK         bool   `json:"ok"`
	Allocated  string `json:"total_allocated"`
	Billed     string `json:"total_billed"`
	Difference string `json:"difference"`
	Tolerance  string `json:"tolerance"`
	TotalFound bool   `json:"total_found"`
}

// StatementResponse is returned by POST /api/v1/statements.
type StatementResponse struct {
	RunID          string                 `json:"run_id"`
	Source         string                 `json:"source"`
	GeneratedAt    time.Time              `json:"generated_at"`
	Owners         []OwnerResponse        `json:"owners"`
	Lines          []LineResponse         `json:"lines"`
	PerHead        string                 `json:"per_head"`
	Unmapped       []string               `json:"unmapped"`
	Reconciliation ReconciliationResponse `json:"reconciliation"`
}

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

func newStatementResponse(r *model.Report) StatementResponse {
	resp := StatementResponse{
		RunID:       r.RunID,
		Source:      r.Source,
		GeneratedAt: r.GeneratedAt,
		Owners:      make([]OwnerResponse, 0, len(r.Allocation.Owners)),
		Lines:       make([]LineResponse, 0, len(r.Allocation.Lines)),
		PerHead:     money.Format(r.Allocation.PerHead),
		Unmapped:    append([]string{}, r.Allocation.Unmapped...),
		Reconciliation: ReconciliationResponse{
			OK:         r.Reconciliation.OK,
			Allocated:  money.Format(r.Reconciliation.Allocated),
			Billed:     money.Format(r.Reconciliation.Billed),
			Difference: money.Format(r.Reconciliation.Difference),
			Tolerance:  money.Format(r.Reconciliation.Tolerance),
			TotalFound: r.Reconciliation.TotalFound,
		},
	}
	for _, o := range r.Allocation.Owners {
		resp.Owners = append(resp.Owners, OwnerResponse{Owner: o.Owner, Amount: money.Format(o.Individual)})
	}
	for _, l := range r.Allocation.Lines {
		resp.Lines = append(resp.Lines, LineResponse{
			Identifier:   l.Identifier,
			Name:         l.Name,
			Owner:        l.Owner,
			Category:     l.Category,
			Plan:         money.Format(l.Plan),
			Equipment:    money.Format(l.Equipment),
			Service:      money.Format(l.Service),
			Total:        money.Format(l.Total),
			Individual:   money.Format(l.Individual),
			Shared:       l.Eligible,
			Reclassified: l.Reclassified,
		})
	}
	return resp
}
