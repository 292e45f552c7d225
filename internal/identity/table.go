package identity

import (
	"fmt"
	"sort"
	"strings"
)

// Entry maps one phone line to the person who pays for it.
type Entry struct {
	Number string // formatted as on the statement, e.g. "(111) 222-3333"
	Name   string // display name of the line; defaults to Owner
	Owner  string
}

// Table is an immutable phone-number → owner lookup plus the set of line
// names whose plan charge is accounted as equipment. Safe for concurrent use.
type Table struct {
	entries    []Entry
	byNumber   map[string]Entry
	reclassify map[string]bool
}

// NewTable validates entries and builds a Table. Numbers must be unique,
// every entry needs an owner, and every reclassify name must match a line.
func NewTable(entries []Entry, reclassify []string) (*Table, error) {
	t := &Table{
		entries:    make([]Entry, 0, len(entries)),
		byNumber:   make(map[string]Entry, len(entries)),
		reclassify: make(map[string]bool, len(reclassify)),
	}

	names := make(map[string]bool)
	for i, e := range entries {
		e.Number = strings.TrimSpace(e.Number)
		e.Owner = strings.TrimSpace(e.Owner)
		e.Name = strings.TrimSpace(e.Name)
		if e.Number == "" {
			return nil, fmt.Errorf("line %d: missing number", i+1)
		}
		if e.Owner == "" {
			return nil, fmt.Errorf("line %d (%s): missing owner", i+1, e.Number)
		}
		if e.Name == "" {
			e.Name = e.Owner
		}
		if _, dup := t.byNumber[e.Number]; dup {
			return nil, fmt.Errorf("line %d: duplicate number %s", i+1, e.Number)
		}
		t.byNumber[e.Number] = e
		t.entries = append(t.entries, e)
		names[e.Name] = true
	}

	for _, name := range reclassify {
		name = strings.TrimSpace(name)
		if !names[name] {
			return nil, fmt.Errorf("reclassify: no line named %q", name)
		}
		t.reclassify[name] = true
	}
	return t, nil
}

// Lookup returns the entry for an exact phone number.
func (t *Table) Lookup(number string) (Entry, bool) {
	e, ok := t.byNumber[number]
	return e, ok
}

// Reclassified reports whether the line with this number has its plan charge
// moved to equipment.
func (t *Table) Reclassified(number string) bool {
	e, ok := t.byNumber[number]
	return ok && t.reclassify[e.Name]
}

// Entries returns all entries in configuration order.
func (t *Table) Entries() []Entry {
	return append([]Entry(nil), t.entries...)
}

// Owners returns the distinct owner names, sorted.
func (t *Table) Owners() []string {
	seen := make(map[string]bool)
	var owners []string
	for _, e := range t.entries {
		if !seen[e.Owner] {
			seen[e.Owner] = true
			owners = append(owners, e.Owner)
		}
	}
	sort.Strings(owners)
	return owners
}
