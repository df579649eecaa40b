// Package symtab implements the lexical-layer Symbol Table: a keyed
// mapping from identifier lexeme to its first-seen position metadata
// (spec section 4.5). It is deliberately not scope-aware — richer,
// scope-aware tables belong to the later semantic phase.
package symtab

import (
	"encoding/json"
	"sort"

	"github.com/flangless/flpylex/token"
)

// Entry is a single symbol table record: the symbol text, the position of
// its first occurrence, and the token kind it was classified as at that
// point (always token.ID at insertion time; kept for diagnostic symmetry
// with spec section 3's Symbol Entry).
type Entry struct {
	Symbol string
	Line   int
	Column int
	Kind   token.Kind
}

// Table is an insert-if-absent mapping from symbol to its first Entry.
type Table struct {
	entries map[string]Entry
	order   []string // insertion order, for stable dumps
}

// New returns an empty Table.
func New() *Table {
	return &Table{entries: make(map[string]Entry)}
}

// Add inserts sym if it is not already present. Subsequent calls for the
// same symbol are no-ops (idempotent insert).
func (t *Table) Add(sym string, line, col int, kind token.Kind) {
	if t.entries == nil {
		t.entries = make(map[string]Entry)
	}
	if _, ok := t.entries[sym]; ok {
		return
	}
	t.entries[sym] = Entry{Symbol: sym, Line: line, Column: col, Kind: kind}
	t.order = append(t.order, sym)
}

// Exists reports whether sym has been recorded.
func (t *Table) Exists(sym string) bool {
	_, ok := t.entries[sym]
	return ok
}

// Get returns the first-seen Entry for sym, if any.
func (t *Table) Get(sym string) (Entry, bool) {
	e, ok := t.entries[sym]
	return e, ok
}

// Remove deletes sym from the table, if present.
func (t *Table) Remove(sym string) {
	if _, ok := t.entries[sym]; !ok {
		return
	}
	delete(t.entries, sym)
	for i, s := range t.order {
		if s == sym {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
}

// Len reports how many symbols are recorded.
func (t *Table) Len() int {
	return len(t.entries)
}

// Reset clears the table for reuse (mirrors input(src) resetting lexer
// state, spec section 6).
func (t *Table) Reset() {
	t.entries = make(map[string]Entry)
	t.order = nil
}

// Entries returns all recorded entries in first-seen order.
func (t *Table) Entries() []Entry {
	out := make([]Entry, 0, len(t.order))
	for _, sym := range t.order {
		out = append(out, t.entries[sym])
	}
	return out
}

// Dump renders the table as a sorted, human-readable diagnostic string:
// one "symbol\tkind\t{"line":L,"column":C}" line per entry.
func (t *Table) Dump() string {
	symbols := make([]string, 0, len(t.entries))
	for sym := range t.entries {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)

	var out []byte
	for _, sym := range symbols {
		e := t.entries[sym]
		out = append(out, []byte(e.Symbol)...)
		out = append(out, '\t')
		out = append(out, []byte(e.Kind.String())...)
		out = append(out, '\t')
		out = append(out, []byte(jsonPos(e.Line, e.Column))...)
		out = append(out, '\n')
	}
	return string(out)
}

func jsonPos(line, col int) string {
	b, _ := json.Marshal(struct {
		Line   int `json:"line"`
		Column int `json:"column"`
	}{line, col})
	return string(b)
}

// MarshalJSON renders the table as a stable, first-seen-ordered JSON array,
// in the style of the teacher's ast/json.go custom marshalers.
func (t *Table) MarshalJSON() ([]byte, error) {
	type jsonEntry struct {
		Symbol string `json:"symbol"`
		Line   int    `json:"line"`
		Column int    `json:"column"`
		Kind   string `json:"kind"`
	}
	out := make([]jsonEntry, 0, len(t.order))
	for _, sym := range t.order {
		e := t.entries[sym]
		out = append(out, jsonEntry{Symbol: e.Symbol, Line: e.Line, Column: e.Column, Kind: e.Kind.String()})
	}
	return json.Marshal(out)
}
