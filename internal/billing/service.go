package billing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/splitbill/internal/allocate"
	"github.com/cleared-dev/splitbill/internal/config"
	"github.com/cleared-dev/splitbill/internal/identity"
	"github.com/cleared-dev/splitbill/internal/model"
	"github.com/cleared-dev/splitbill/internal/money"
	"github.com/cleared-dev/splitbill/internal/reconcile"
	"github.com/cleared-dev/splitbill/internal/statement"
)

// Service runs the statement pipeline: segment, parse, reclassify, allocate,
// reconcile. It holds no per-run state; one Service may process many
// documents, concurrently if the caller wishes.
type Service struct {
	parser    statement.Parser
	markers   statement.Markers
	mapper    *identity.Mapper
	tolerance decimal.Decimal
	log       zerolog.Logger
	now       func() time.Time
}

// NewService creates a pipeline Service.
func NewService(parser statement.Parser, markers statement.Markers, table *identity.Table, tolerance decimal.Decimal, log zerolog.Logger) *Service {
	return &Service{
		parser:    parser,
		markers:   markers,
		mapper:    identity.NewMapper(table),
		tolerance: tolerance,
		log:       log,
		now:       time.Now,
	}
}

// NewFromConfig wires a Service from a loaded configuration.
func NewFromConfig(cfg *config.Config, log zerolog.Logger) (*Service, error) {
	parser, err := statement.DefaultRegistry().Lookup(cfg.Layout.Format)
	if err != nil {
		return nil, err
	}
	table, err := cfg.Table()
	if err != nil {
		return nil, err
	}
	tolerance, err := cfg.Tolerance()
	if err != nil {
		return nil, err
	}
	return NewService(parser, cfg.Markers(parser), table, tolerance, log), nil
}

// Run processes the extracted text of one statement. Structural failures
// (missing summary, nothing to split) return an error. Unmapped lines and
// reconciliation mismatches are reported in the Report.
func (s *Service) Run(source, text string) (*model.Report, error) {
	runID := uuid.NewString()
	log := s.log.With().Str("run_id", runID).Str("source", source).Logger()

	bill, err := statement.Extract(s.parser, text, s.markers)
	if err != nil {
		log.Error().Err(err).Msg("statement rejected")
		return nil, fmt.Errorf("%s: %w", source, err)
	}
	log.Debug().
		Int("lines", len(bill.Lines)).
		Bool("total_found", bill.TotalFound).
		Str("total", money.Format(bill.Total)).
		Msg("parsed bill summary")

	normalized := s.mapper.Normalize(bill.Lines)
	alloc, err := allocate.Allocate(normalized, s.mapper)
	if err != nil {
		log.Error().Err(err).Msg("allocation failed")
		return nil, fmt.Errorf("%s: %w", source, err)
	}
	log.Debug().
		Int("eligible", alloc.Eligible).
		Str("shared_pool", money.Format(alloc.SharedPool)).
		Str("per_head", money.Format(alloc.PerHead)).
		Msg("allocated charges")

	for _, id := range alloc.Unmapped {
		log.Warn().Str("identifier", id).Msg("line has no owner; excluded from owner totals")
	}

	rec := reconcile.Check(alloc.Owners, bill, s.tolerance)
	ev := log.Info()
	if !rec.OK {
		ev = log.Warn()
	}
	ev.Bool("reconciled", rec.OK).
		Bool("total_found", rec.TotalFound).
		Str("allocated", money.Format(rec.Allocated)).
		Str("billed", money.Format(rec.Billed)).
		Str("difference", money.Format(rec.Difference)).
		Msg("reconciliation")

	return &model.Report{
		RunID:          runID,
		Source:         source,
		GeneratedAt:    s.now().UTC(),
		Bill:           bill,
		Allocation:     alloc,
		Reconciliation: rec,
	}, nil
}
