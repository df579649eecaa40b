package invariants

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flangless/flpylex/diag"
	"github.com/flangless/flpylex/lexer"
)

func TestCheckCleanProgramHasNoViolations(t *testing.T) {
	l := lexer.New()
	l.Input("def add(x, y):\n    return x + y\n")
	toks := l.AllTokens()

	var out diag.Log
	n := Check(toks, l.SymbolTable(), &out)
	assert.Equal(t, 0, n)
	assert.Empty(t, out.Entries())
}

func TestCheckFlagsUnclosedBracketAtEOF(t *testing.T) {
	l := lexer.New()
	l.Input("a = (1, 2\n")
	toks := l.AllTokens()

	var out diag.Log
	n := Check(toks, l.SymbolTable(), &out)
	require.Equal(t, 1, n)
	assert.Equal(t, diag.Lexical, out.Entries()[0].Type)
}

func TestCheckFlagsMissingSymbolTableEntry(t *testing.T) {
	l := lexer.New()
	l.Input("x = 1\n")
	toks := l.AllTokens()

	empty := l.SymbolTable()
	empty.Reset() // simulate a token stream whose symbols were never recorded

	var out diag.Log
	n := Check(toks, empty, &out)
	assert.Equal(t, 1, n)
}

func TestCheckAcceptsNilSymbolTableAsMissingEverything(t *testing.T) {
	l := lexer.New()
	l.Input("x\n")
	toks := l.AllTokens()

	var out diag.Log
	n := Check(toks, nil, &out)
	assert.Equal(t, 1, n)
}

func TestCheckNestedIndentUnwindsCleanly(t *testing.T) {
	l := lexer.New()
	l.Input("a:\n    b:\n        c\n")
	toks := l.AllTokens()

	var out diag.Log
	n := Check(toks, l.SymbolTable(), &out)
	assert.Equal(t, 0, n)
}
