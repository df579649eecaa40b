// Package invariants plays the role spec section 1 reserves for the
// syntactic analyzer: "the consumer of the token stream and a sibling
// contributor to the shared error list". It builds no grammar and no AST —
// that is explicitly out of scope — but it does walk the finished token
// stream exactly the way a first consumer would, cross-checking the six
// testable properties from spec section 8 and appending any violation to
// the shared Error Log. It makes a single pass over the token stream,
// tracking indent depth and bracket depth as it goes.
package invariants

import (
	"github.com/flangless/flpylex/diag"
	"github.com/flangless/flpylex/symtab"
	"github.com/flangless/flpylex/token"
)

// Check walks tokens (the full stream through EOF) and symbols (the lexer's
// Symbol Table for the same run), appending a diag.Entry to out for every
// violated invariant. It returns the number of violations found.
func Check(tokens []token.Token, symbols *symtab.Table, out *diag.Log) int {
	c := &checker{symbols: symbols, out: out}
	c.run(tokens)
	return c.violations
}

type checker struct {
	symbols    *symtab.Table
	out        *diag.Log
	violations int
}

func (c *checker) fail(tok token.Token, format string, args ...interface{}) {
	c.violations++
	c.out.Appendf(diag.Lexical, tok.Line, tok.Column, tok.Lexeme, format, args...)
}

func (c *checker) run(tokens []token.Token) {
	indentDepth := 0  // invariant 3: #INDENT - #DEDENT
	bracketDepth := 0 // invariant 2
	sawEOF := false

	for _, tok := range tokens {
		switch tok.Kind {
		case token.INDENT:
			indentDepth++

		case token.DEDENT:
			indentDepth--
			if indentDepth < 0 {
				c.fail(tok, "DEDENT without a matching INDENT (invariant 1/3 violated)")
				indentDepth = 0
			}

		case token.NEWLINE:
			if bracketDepth > 0 {
				c.fail(tok, "NEWLINE emitted while delimiter depth is %d (invariant 5 violated)", bracketDepth)
			}

		case token.ID:
			if c.symbols == nil || !c.symbols.Exists(tok.Lexeme) {
				c.fail(tok, "identifier %q emitted with no Symbol Table entry (invariant 6 violated)", tok.Lexeme)
			}

		case token.EOF:
			sawEOF = true
			if bracketDepth != 0 {
				// Invariant 4 only requires depth==0 OR a BRACKET error was
				// logged; the lexer itself is responsible for logging that
				// error, so this checker just flags depth imbalance for
				// visibility in --lenient reports.
				c.fail(tok, "delimiter depth is %d at EOF (invariant 4: verify a BRACKET error was logged)", bracketDepth)
			}
			if indentDepth != 0 {
				c.fail(tok, "indent depth is %d at EOF; DEDENTs did not fully unwind (invariant 3 violated)", indentDepth)
			}

		default:
			if token.IsOpenBracket(tok.Kind) {
				bracketDepth++
			} else if token.IsCloseBracket(tok.Kind) {
				if bracketDepth > 0 {
					bracketDepth--
				}
			}
		}

		if bracketDepth < 0 {
			c.fail(tok, "delimiter depth went negative (invariant 2 violated)")
			bracketDepth = 0
		}
	}

	if !sawEOF {
		c.violations++
		c.out.Appendf(diag.Lexical, 0, 0, "", "token stream did not terminate in EOF")
	}
}
