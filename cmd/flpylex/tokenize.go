package main

import (
	"strings"

	"github.com/google/go-cmp/cmp"

	"github.com/flangless/flpylex/token"
)

// renderTokens formats a token stream one token per line, matching the
// golden-file format from the external interfaces: each non-layout token
// renders as `KIND "lexeme"`, layout tokens render bare.
func renderTokens(tokens []token.Token) string {
	var b strings.Builder
	for _, tok := range tokens {
		b.WriteString(tok.String())
		b.WriteByte('\n')
	}
	return b.String()
}

// diffLines compares two token-stream renderings line by line and returns a
// human-readable diff, or "" if they match.
func diffLines(want, got string) string {
	wantLines := splitNonEmpty(want)
	gotLines := splitNonEmpty(got)
	return cmp.Diff(wantLines, gotLines)
}

// splitNonEmpty splits s into lines and drops blank ones: spec section 6
// says blank lines separating groups in an expected-tokens file are
// ignored, so they must never turn into spurious "" entries to diff.
func splitNonEmpty(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}
