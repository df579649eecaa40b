// Package lexer implements the Raw Scanner, Indentation Engine, and Token
// Assembler described in spec sections 4.2-4.4: it consumes raw Fangless
// Python source and emits a stream of Token values, translating leading
// whitespace into virtual INDENT/DEDENT tokens and suppressing logical
// newlines while a bracket pair is open.
package lexer

import (
	"github.com/flangless/flpylex/diag"
	"github.com/flangless/flpylex/symtab"
	"github.com/flangless/flpylex/token"
)

// Lexer drives the scanner, the indentation engine, and the pending-token
// queue behind a single NextToken operation (spec section 4.4).
type Lexer struct {
	input []byte
	pos   int // 0-based byte offset
	line  int // 1-based
	col   int // 1-based, tab-expanded

	atBOL   bool
	pending []token.Token

	indentStack  []int // strictly increasing, starts at [0]
	expectIndent bool
	delimDepth   int
	doneEOF      bool

	errs *diag.Log
	syms *symtab.Table
}

// New builds a Lexer with empty state. Equivalent to the library surface's
// build() plus an initial input(""); call Input to install real source.
func New() *Lexer {
	l := &Lexer{}
	l.Input("")
	return l
}

// Input installs a new source buffer, clearing the Error Log and resetting
// the Indent Stack to [0], Delimiter Depth to 0, the Pending Queue to
// empty, and the Expect-Indent Flag to false (spec section 6).
func (l *Lexer) Input(src string) {
	l.input = []byte(src)
	l.pos = 0
	l.line = 1
	l.col = 1
	l.atBOL = true
	l.pending = nil
	l.indentStack = []int{0}
	l.expectIndent = false
	l.delimDepth = 0
	l.doneEOF = false
	if l.errs == nil {
		l.errs = &diag.Log{}
	} else {
		l.errs.Reset()
	}
	if l.syms == nil {
		l.syms = symtab.New()
	} else {
		l.syms.Reset()
	}
}

// Errors returns the shared Error Log, aliased by reference to any later
// syntactic analyzer.
func (l *Lexer) Errors() *diag.Log { return l.errs }

// SymbolTable returns the shared Symbol Table.
func (l *Lexer) SymbolTable() *symtab.Table { return l.syms }

// NextToken returns the next logical token, or token.EOF once input is
// exhausted. Calling NextToken after EOF has been returned keeps returning
// EOF.
func (l *Lexer) NextToken() token.Token {
	for {
		if len(l.pending) > 0 {
			tok := l.pending[0]
			l.pending = l.pending[1:]
			return tok
		}

		if l.atBOL {
			l.atBOL = false
			if l.delimDepth == 0 {
				l.handleLineStart()
			} else {
				// Bracket-aware line continuation: leading whitespace on a
				// continuation line is ordinary whitespace, not indentation.
				l.skipSpacesAndTabs()
			}
			continue
		}

		l.skipSpacesAndTabs()

		if l.pos >= len(l.input) {
			l.enqueueEOF()
			continue
		}

		ch := l.input[l.pos]
		var tok token.Token
		var ok = true

		switch {
		case ch == '\n':
			suppressed := l.delimDepth > 0
			tok = l.makeToken(token.NEWLINE, "")
			l.advanceNewline()
			if suppressed {
				continue
			}
			l.atBOL = true

		case ch == '#':
			l.skipComment()
			continue

		case ch == '"' || ch == '\'':
			var scanned token.Token
			scanned, ok = l.scanString(ch)
			if !ok {
				continue
			}
			tok = scanned

		case isDigit(ch) || (ch == '.' && l.pos+1 < len(l.input) && isDigit(l.input[l.pos+1])):
			tok = l.scanNumber()

		case isIdentStart(ch):
			tok = l.scanIdentifier()

		default:
			var scanned token.Token
			scanned, ok = l.scanOperatorOrDelim()
			if !ok {
				l.errs.Appendf(diag.UnknownChar, l.line, l.col, string(ch), "unexpected character %q", string(ch))
				l.advance()
				continue
			}
			tok = scanned
		}

		l.applyAssemblerRules(tok)
		return tok
	}
}

// AllTokens drains the lexer, returning every token through EOF inclusive.
func (l *Lexer) AllTokens() []token.Token {
	var out []token.Token
	for {
		tok := l.NextToken()
		out = append(out, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	return out
}

// applyAssemblerRules implements Token Assembler steps 4, 5, and 7: bracket
// depth bookkeeping and the expect-indent flag. Step 6 (symbol table
// insertion) happens inline in scanIdentifier for locality.
func (l *Lexer) applyAssemblerRules(tok token.Token) {
	switch {
	case token.IsOpenBracket(tok.Kind):
		l.delimDepth++
	case token.IsCloseBracket(tok.Kind):
		if l.delimDepth == 0 {
			l.errs.Appendf(diag.Bracket, tok.Line, tok.Column, tok.Lexeme,
				"closing %q has no matching opener", tok.Lexeme)
		} else {
			l.delimDepth--
		}
	case tok.Kind == token.COLON && l.delimDepth == 0:
		l.expectIndent = true
	}
}

// handleLineStart processes the leading whitespace of a fresh logical line:
// blank and comment-only lines are skipped without disturbing the indent
// stack; real content lines are handed to the Indentation Engine.
func (l *Lexer) handleLineStart() {
	col := l.consumeLeadingWhitespace()

	if l.pos >= len(l.input) {
		l.enqueueEOF()
		return
	}
	if l.input[l.pos] == '\n' {
		// A blank logical line still produces the physical NEWLINE; only
		// INDENT/DEDENT are suppressed for it (spec section 4.3).
		l.pending = append(l.pending, l.makeToken(token.NEWLINE, ""))
		l.advanceNewline()
		l.atBOL = true
		return
	}
	if l.input[l.pos] == '#' {
		l.skipComment()
		if l.pos >= len(l.input) {
			l.enqueueEOF()
			return
		}
		if l.input[l.pos] == '\n' {
			l.advanceNewline()
			l.atBOL = true
		}
		return
	}

	l.processIndent(col)
}

// processIndent is the Indentation Engine (spec section 4.3): given the
// tab-expanded leading column count of a real content line, emit zero or
// more INDENT/DEDENT tokens and adjust the Indent Stack.
func (l *Lexer) processIndent(c int) {
	top := l.indentStack[len(l.indentStack)-1]

	switch {
	case c == top:
		// no change

	case c > top:
		if !l.expectIndent {
			l.errs.Appendf(diag.Indent, l.line, l.col, "", "unexpected indentation")
		}
		l.indentStack = append(l.indentStack, c)
		l.pending = append(l.pending, l.makeToken(token.INDENT, ""))

	default: // c < top
		for len(l.indentStack) > 1 && l.indentStack[len(l.indentStack)-1] > c {
			l.indentStack = l.indentStack[:len(l.indentStack)-1]
			l.pending = append(l.pending, l.makeToken(token.DEDENT, ""))
		}
		if l.indentStack[len(l.indentStack)-1] != c {
			l.errs.Appendf(diag.Indent, l.line, l.col, "", "inconsistent dedent — does not match any outer level")
		}
	}

	l.expectIndent = false
}

// enqueueEOF emits one DEDENT per remaining indent-stack level above 0,
// then EOF. Later calls enqueue only a bare EOF, so repeated NextToken
// calls after EOF keep returning EOF.
func (l *Lexer) enqueueEOF() {
	if l.doneEOF {
		l.pending = append(l.pending, l.makeToken(token.EOF, ""))
		return
	}
	l.doneEOF = true
	for len(l.indentStack) > 1 {
		l.indentStack = l.indentStack[:len(l.indentStack)-1]
		l.pending = append(l.pending, l.makeToken(token.DEDENT, ""))
	}
	if l.delimDepth > 0 {
		l.errs.Appendf(diag.Bracket, l.line, l.col, "", "unclosed bracket at end of input")
	}
	l.pending = append(l.pending, l.makeToken(token.EOF, ""))
}

func (l *Lexer) scanNumber() token.Token {
	startLine, startCol, startPos := l.line, l.col, l.pos

	for l.pos < len(l.input) && isDigit(l.input[l.pos]) {
		l.advance()
	}
	if l.pos < len(l.input) && l.input[l.pos] == '.' {
		l.advance()
		for l.pos < len(l.input) && isDigit(l.input[l.pos]) {
			l.advance()
		}
	}
	if l.pos < len(l.input) && (l.input[l.pos] == 'e' || l.input[l.pos] == 'E') {
		savePos, saveLine, saveCol := l.pos, l.line, l.col
		l.advance()
		if l.pos < len(l.input) && (l.input[l.pos] == '+' || l.input[l.pos] == '-') {
			l.advance()
		}
		digitsStart := l.pos
		for l.pos < len(l.input) && isDigit(l.input[l.pos]) {
			l.advance()
		}
		if l.pos == digitsStart {
			// 'e'/'E' wasn't followed by a valid exponent; it's not part
			// of this number.
			l.pos, l.line, l.col = savePos, saveLine, saveCol
		}
	}

	lit := string(l.input[startPos:l.pos])

	// A numeric literal immediately followed by an identifier character
	// (e.g. "123abc") is malformed; record it and resync past the run.
	if l.pos < len(l.input) && isIdentStart(l.input[l.pos]) {
		for l.pos < len(l.input) && isIdentContinue(l.input[l.pos]) {
			l.advance()
		}
		lit = string(l.input[startPos:l.pos])
		l.errs.Appendf(diag.Lexical, startLine, startCol, lit, "invalid numeric literal %q", lit)
	}

	return token.Token{Kind: token.NUMBER, Lexeme: lit, Line: startLine, Column: startCol, AbsPos: startPos}
}

func (l *Lexer) scanString(quote byte) (token.Token, bool) {
	startLine, startCol, startPos := l.line, l.col, l.pos
	l.advance() // consume opening quote
	contentStart := l.pos

	for l.pos < len(l.input) && l.input[l.pos] != quote && l.input[l.pos] != '\n' {
		if l.input[l.pos] == '\\' && l.pos+1 < len(l.input) && l.input[l.pos+1] != '\n' {
			l.advance()
			l.advance()
			continue
		}
		l.advance()
	}

	if l.pos >= len(l.input) || l.input[l.pos] == '\n' {
		lit := string(l.input[contentStart:l.pos])
		l.errs.Appendf(diag.StringErr, startLine, startCol, lit, "unterminated string literal")
		return token.Token{}, false
	}

	lit := string(l.input[contentStart:l.pos])
	l.advance() // consume closing quote
	return token.Token{Kind: token.STRING, Lexeme: lit, Line: startLine, Column: startCol, AbsPos: startPos}, true
}

func (l *Lexer) scanIdentifier() token.Token {
	startLine, startCol, startPos := l.line, l.col, l.pos
	for l.pos < len(l.input) && isIdentContinue(l.input[l.pos]) {
		l.advance()
	}
	lit := string(l.input[startPos:l.pos])
	kind := token.LookupIdent(lit)
	if kind == token.ID {
		l.syms.Add(lit, startLine, startCol, token.ID)
	}
	return token.Token{Kind: kind, Lexeme: lit, Line: startLine, Column: startCol, AbsPos: startPos}
}

func (l *Lexer) scanOperatorOrDelim() (token.Token, bool) {
	for _, op := range token.Operators() {
		n := len(op.Lexeme)
		if l.pos+n <= len(l.input) && string(l.input[l.pos:l.pos+n]) == op.Lexeme {
			tok := l.makeToken(op.Kind, op.Lexeme)
			for i := 0; i < n; i++ {
				l.advance()
			}
			return tok, true
		}
	}
	ch := l.input[l.pos]
	if kind, ok := token.LookupSingleChar(ch); ok {
		tok := l.makeToken(kind, string(ch))
		l.advance()
		return tok, true
	}
	return token.Token{}, false
}

func (l *Lexer) skipComment() {
	for l.pos < len(l.input) && l.input[l.pos] != '\n' {
		l.advance()
	}
}

// consumeLeadingWhitespace advances past a run of leading spaces/tabs and
// returns the tab-expanded column width consumed (0-based).
func (l *Lexer) consumeLeadingWhitespace() int {
	for l.pos < len(l.input) && (l.input[l.pos] == ' ' || l.input[l.pos] == '\t') {
		l.advance()
	}
	return l.col - 1
}

func (l *Lexer) skipSpacesAndTabs() {
	for l.pos < len(l.input) && (l.input[l.pos] == ' ' || l.input[l.pos] == '\t') {
		l.advance()
	}
}

func (l *Lexer) makeToken(kind token.Kind, lexeme string) token.Token {
	return token.Token{Kind: kind, Lexeme: lexeme, Line: l.line, Column: l.col, AbsPos: l.pos}
}

// advance consumes one input byte, expanding tabs to the next TabWidth
// column boundary.
func (l *Lexer) advance() {
	if l.pos >= len(l.input) {
		return
	}
	if l.input[l.pos] == '\t' {
		l.col = ((l.col-1)/token.TabWidth+1)*token.TabWidth + 1
	} else {
		l.col++
	}
	l.pos++
}

func (l *Lexer) advanceNewline() {
	l.pos++
	l.line++
	l.col = 1
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentStart(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
}

func isIdentContinue(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}
