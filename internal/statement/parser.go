package statement

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/cleared-dev/splitbill/internal/model"
)

// ErrUnknownFormat is returned when no parser is registered for a layout.
var ErrUnknownFormat = errors.New("unknown statement format")

// Parser turns a bill summary segment into typed charge lines. Each carrier
// layout gets its own Parser so that layout drift touches only one type.
type Parser interface {
	Format() string
	Markers() Markers
	Parse(summary string) (model.Bill, error)
}

// Registry holds named parsers.
type Registry struct {
	parsers map[string]Parser
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate format.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Format())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser format: " + key)
	}
	r.parsers[key] = p
}

// Get returns the parser for format, or nil.
func (r *Registry) Get(format string) Parser {
	return r.parsers[strings.ToLower(format)]
}

// Lookup is Get with an error for unknown formats.
func (r *Registry) Lookup(format string) (Parser, error) {
	p := r.Get(format)
	if p == nil {
		return nil, fmt.Errorf("%w: %q (known: %s)", ErrUnknownFormat, format, strings.Join(r.Formats(), ", "))
	}
	return p, nil
}

// Formats lists registered format names, sorted.
func (r *Registry) Formats() []string {
	names := make([]string, 0, len(r.parsers))
	for name := range r.parsers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry returns a registry with all built-in parsers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&TMobileParser{})
	return r
}

// Extract segments text with markers and parses the summary with p.
func Extract(p Parser, text string, m Markers) (model.Bill, error) {
	summary, err := Segment(text, m)
	if err != nil {
		return model.Bill{}, err
	}
	bill, err := p.Parse(summary)
	if err != nil {
		return model.Bill{}, fmt.Errorf("parsing %s summary: %w", p.Format(), err)
	}
	return bill, nil
}
