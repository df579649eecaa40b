// Package diag implements the shared, ordered, append-only error log
// described in spec section 3 ("Error") and section 5 ("Shared-resource
// policy"): the lexer and any later syntactic analyzer append to the same
// Log by reference; neither side removes or reorders the other's entries.
package diag

import "fmt"

// Type is the coarse diagnostic tag from the error taxonomy (spec section 7).
type Type string

const (
	Lexical     Type = "LEXICAL"
	Indent      Type = "INDENT"
	StringErr   Type = "STRING"
	Escape      Type = "ESCAPE"
	UnknownChar Type = "UNKNOWN_CHAR"
	Bracket     Type = "BRACKET"
)

// Entry is a single structured lexical (or, later, syntactic) diagnostic.
type Entry struct {
	Message string
	Line    int
	Column  int
	Type    Type
	Data    string // offending lexeme, verbatim
}

// String renders an Entry as "line L, col C: <message> [<type>]", the
// user-visible format from spec section 7.
func (e Entry) String() string {
	return fmt.Sprintf("line %d, col %d: %s [%s]", e.Line, e.Column, e.Message, e.Type)
}

// Log is the shared append-only diagnostic sink. The zero value is ready
// to use. A *Log is safe to alias between a lexer and any consumer that
// only ever appends (per spec section 5, no locking is required because
// the overall pipeline is single-threaded).
type Log struct {
	entries   []Entry
	maxErrors int
	capped    bool
}

// SetMaxErrors installs the hard cap from spec section 7's duplicate
// suppression policy: once the log holds max diagnostics, further Appends
// collapse into a single "too many errors" entry instead of growing
// without bound. A non-positive max disables the cap (the default).
func (l *Log) SetMaxErrors(max int) {
	l.maxErrors = max
}

// Append records a new diagnostic. Scanning always continues after an
// Append; nothing in this package aborts on error. Once the configured
// max-errors cap is reached, further diagnostics collapse into one
// trailing "too many errors" entry rather than being appended individually.
func (l *Log) Append(e Entry) {
	if l.maxErrors > 0 && len(l.entries) >= l.maxErrors {
		if !l.capped {
			l.entries = append(l.entries, Entry{
				Message: fmt.Sprintf("too many errors (stopped after %d)", l.maxErrors),
				Line:    e.Line,
				Column:  e.Column,
				Type:    Lexical,
			})
			l.capped = true
		}
		return
	}
	l.entries = append(l.entries, e)
}

// Appendf is a convenience wrapper building an Entry from a format string.
func (l *Log) Appendf(typ Type, line, col int, data, format string, args ...interface{}) {
	l.Append(Entry{
		Message: fmt.Sprintf(format, args...),
		Line:    line,
		Column:  col,
		Type:    typ,
		Data:    data,
	})
}

// Entries returns the accumulated diagnostics in detection order.
func (l *Log) Entries() []Entry {
	return l.entries
}

// Len reports how many diagnostics have been recorded.
func (l *Log) Len() int {
	return len(l.entries)
}

// Failed reports whether this run should be considered failed: the log is
// non-empty. Token output is unaffected either way (spec section 7).
func (l *Log) Failed() bool {
	return len(l.entries) > 0
}

// Reset clears the log for reuse, mirroring input(src) resetting all
// lexer-owned state (spec section 6). The max-errors cap survives a Reset;
// it is a run configuration, not accumulated state.
func (l *Log) Reset() {
	l.entries = nil
	l.capped = false
}
