package lexer

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flangless/flpylex/diag"
	"github.com/flangless/flpylex/token"
)

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestKeywords(t *testing.T) {
	input := "if elif else while for def return class True False None and or not in is break continue pass import from as"
	expected := []token.Kind{
		token.IF, token.ELIF, token.ELSE, token.WHILE, token.FOR, token.DEF,
		token.RETURN, token.CLASS, token.TRUE, token.FALSE, token.NONE,
		token.AND, token.OR, token.NOT, token.IN, token.IS, token.BREAK,
		token.CONTINUE, token.PASS, token.IMPORT, token.FROM, token.AS,
		token.EOF,
	}
	l := New()
	l.Input(input)
	for i, exp := range expected {
		tok := l.NextToken()
		if tok.Kind != exp {
			t.Fatalf("token[%d]: expected %s, got %s (%q)", i, exp, tok.Kind, tok.Lexeme)
		}
	}
}

func TestIdentifierVsKeyword(t *testing.T) {
	l := New()
	l.Input("definitely")
	tok := l.NextToken()
	assert.Equal(t, token.ID, tok.Kind)
	assert.Equal(t, "definitely", tok.Lexeme)
}

func TestScenarioFunctionDef(t *testing.T) {
	l := New()
	l.Input("def add(x, y):\n    return x + y\n")
	got := kinds(l.AllTokens())
	want := []token.Kind{
		token.DEF, token.ID, token.LPAREN, token.ID, token.COMMA, token.ID, token.RPAREN,
		token.COLON, token.NEWLINE,
		token.INDENT, token.RETURN, token.ID, token.PLUS, token.ID, token.NEWLINE,
		token.DEDENT, token.EOF,
	}
	require.Empty(t, l.Errors().Entries())
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("token kinds mismatch (-want +got):\n%s", diff)
	}
}

func TestScenarioWhileLoop(t *testing.T) {
	l := New()
	l.Input("while x < 10:\n    x += 1\n")
	got := kinds(l.AllTokens())
	want := []token.Kind{
		token.WHILE, token.ID, token.LT, token.NUMBER, token.COLON, token.NEWLINE,
		token.INDENT, token.ID, token.PLUSEQ, token.NUMBER, token.NEWLINE,
		token.DEDENT, token.EOF,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("token kinds mismatch (-want +got):\n%s", diff)
	}
}

func TestScenarioBracketSuppressesIndentAndNewline(t *testing.T) {
	l := New()
	l.Input("a = (1 +\n     2)\n")
	toks := l.AllTokens()
	got := kinds(toks)
	want := []token.Kind{
		token.ID, token.ASSIGN, token.LPAREN, token.NUMBER, token.PLUS,
		token.NUMBER, token.RPAREN, token.NEWLINE, token.EOF,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("token kinds mismatch (-want +got):\n%s", diff)
	}
	assert.Empty(t, l.Errors().Entries())
}

func TestScenarioUnterminatedString(t *testing.T) {
	l := New()
	l.Input("s = \"oops\n")
	got := kinds(l.AllTokens())
	want := []token.Kind{token.ID, token.ASSIGN, token.NEWLINE, token.EOF}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("token kinds mismatch (-want +got):\n%s", diff)
	}
	entries := l.Errors().Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, diag.StringErr, entries[0].Type)
	assert.Equal(t, 1, entries[0].Line)
	assert.Equal(t, 5, entries[0].Column)
}

func TestScenarioInconsistentDedent(t *testing.T) {
	l := New()
	l.Input("if a:\n    b\n  c\n")
	toks := l.AllTokens()
	got := kinds(toks)
	// through "b" NEWLINE the stream is ordinary; the dedent to column 2
	// (stack is [0,4]) doesn't match any level, so one DEDENT still fires
	// and an INDENT-type error is logged, then scanning resumes.
	wantPrefix := []token.Kind{
		token.IF, token.ID, token.COLON, token.NEWLINE,
		token.INDENT, token.ID, token.NEWLINE,
	}
	if len(got) < len(wantPrefix) {
		t.Fatalf("token stream too short: %v", got)
	}
	if diff := cmp.Diff(wantPrefix, got[:len(wantPrefix)]); diff != "" {
		t.Fatalf("prefix mismatch (-want +got):\n%s", diff)
	}
	entries := l.Errors().Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, diag.Indent, entries[0].Type)
}

func TestScenarioEscapedQuoteInString(t *testing.T) {
	l := New()
	l.Input(`def f():
    s1 = "Quote\"mark"
    return s1
`)
	toks := l.AllTokens()
	got := kinds(toks)
	want := []token.Kind{
		token.DEF, token.ID, token.LPAREN, token.RPAREN, token.COLON, token.NEWLINE,
		token.INDENT, token.ID, token.ASSIGN, token.STRING, token.NEWLINE,
		token.RETURN, token.ID, token.NEWLINE,
		token.DEDENT, token.EOF,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("token kinds mismatch (-want +got):\n%s", diff)
	}
	for _, tok := range toks {
		if tok.Kind == token.STRING {
			assert.Equal(t, `Quote\"mark`, tok.Lexeme)
			assert.Equal(t, `STRING "Quote\"mark"`, tok.String())
		}
	}
}

func TestEmptyInput(t *testing.T) {
	l := New()
	l.Input("")
	toks := l.AllTokens()
	require.Len(t, toks, 1)
	assert.Equal(t, token.EOF, toks[0].Kind)
	assert.Empty(t, l.Errors().Entries())
}

func TestTrailingNewlineOnly(t *testing.T) {
	l := New()
	l.Input("\n")
	got := kinds(l.AllTokens())
	want := []token.Kind{token.NEWLINE, token.EOF}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("token kinds mismatch (-want +got):\n%s", diff)
	}
	assert.Empty(t, l.Errors().Entries())
}

func TestTabExpansion(t *testing.T) {
	// A tab at column 1 expands to column 5 (TabWidth=4); mixing a tab and
	// spaces must land on the same indent level as four spaces.
	l := New()
	l.Input("if a:\n\tb\nif c:\n    d\n")
	toks := l.AllTokens()
	var indents []int
	for _, tk := range toks {
		if tk.Kind == token.INDENT {
			indents = append(indents, tk.Column)
		}
	}
	require.Len(t, indents, 2)
	assert.Equal(t, indents[0], indents[1])
}

func TestRepeatedInputIsIdempotent(t *testing.T) {
	src := "def f(x):\n    if x:\n        return x\n    return 0\n"
	l := New()
	l.Input(src)
	first := l.AllTokens()
	l.Input(src)
	second := l.AllTokens()
	if diff := cmp.Diff(kinds(first), kinds(second)); diff != "" {
		t.Fatalf("repeated input produced different token streams (-first +second):\n%s", diff)
	}
}

func TestUnknownCharacterRecovers(t *testing.T) {
	l := New()
	l.Input("a = 1 $ 2\n")
	toks := l.AllTokens()
	got := kinds(toks)
	want := []token.Kind{
		token.ID, token.ASSIGN, token.NUMBER, token.NUMBER, token.NEWLINE, token.EOF,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("token kinds mismatch (-want +got):\n%s", diff)
	}
	entries := l.Errors().Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, diag.UnknownChar, entries[0].Type)
}

func TestMalformedNumericLiteral(t *testing.T) {
	l := New()
	l.Input("x = 123abc\n")
	toks := l.AllTokens()
	got := kinds(toks)
	want := []token.Kind{token.ID, token.ASSIGN, token.NUMBER, token.NEWLINE, token.EOF}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("token kinds mismatch (-want +got):\n%s", diff)
	}
	entries := l.Errors().Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, diag.Lexical, entries[0].Type)
}

func TestBracketDepthNeverNegative(t *testing.T) {
	l := New()
	l.Input(")\n")
	toks := l.AllTokens()
	got := kinds(toks)
	want := []token.Kind{token.RPAREN, token.NEWLINE, token.EOF}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("token kinds mismatch (-want +got):\n%s", diff)
	}
	entries := l.Errors().Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, diag.Bracket, entries[0].Type)
}

func TestUnclosedBracketAtEOF(t *testing.T) {
	l := New()
	l.Input("a = (1, 2\n")
	l.AllTokens()
	entries := l.Errors().Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, diag.Bracket, entries[0].Type)
}

func TestSymbolTableRecordsFirstOccurrence(t *testing.T) {
	l := New()
	l.Input("x = 1\nx = x + 1\n")
	l.AllTokens()
	st := l.SymbolTable()
	require.True(t, st.Exists("x"))
	entry, ok := st.Get("x")
	require.True(t, ok)
	assert.Equal(t, 1, entry.Line)
	assert.Equal(t, 1, entry.Column)
}

func TestNestedIndentDedent(t *testing.T) {
	l := New()
	l.Input("a:\n    b:\n        c\n")
	got := kinds(l.AllTokens())
	want := []token.Kind{
		token.ID, token.COLON, token.NEWLINE,
		token.INDENT, token.ID, token.COLON, token.NEWLINE,
		token.INDENT, token.ID, token.NEWLINE,
		token.DEDENT, token.DEDENT, token.EOF,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("token kinds mismatch (-want +got):\n%s", diff)
	}
}

func TestBlankAndCommentLinesDoNotAffectIndentStack(t *testing.T) {
	l := New()
	l.Input("if a:\n    b\n\n    # a comment\n    c\n")
	got := kinds(l.AllTokens())
	want := []token.Kind{
		token.IF, token.ID, token.COLON, token.NEWLINE,
		token.INDENT, token.ID, token.NEWLINE,
		token.NEWLINE, // the blank line still produces its own NEWLINE
		token.ID, token.NEWLINE,
		token.DEDENT, token.EOF,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("token kinds mismatch (-want +got):\n%s", diff)
	}
	assert.Empty(t, l.Errors().Entries())
}
