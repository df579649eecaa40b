package lspserver

import (
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/flangless/flpylex/token"
)

// Semantic token type indices (must match the legend order in server.go).
const (
	semKeyword  = 0
	semIdent    = 1
	semString   = 2
	semNumber   = 3
	semOperator = 4
)

func semanticTokensHandler(store *DocumentStore) protocol.TextDocumentSemanticTokensFullFunc {
	return func(context *glsp.Context, params *protocol.SemanticTokensParams) (*protocol.SemanticTokens, error) {
		doc := store.Get(params.TextDocument.URI)
		if doc == nil {
			return nil, nil
		}
		return &protocol.SemanticTokens{Data: buildSemanticTokens(doc.Tokens)}, nil
	}
}

// buildSemanticTokens returns delta-encoded semantic token data straight off
// the raw token stream; there is no AST to walk, so classification is a
// direct function of each token's Kind.
func buildSemanticTokens(tokens []token.Token) []uint32 {
	var data []uint32
	var prevLine, prevCol uint32

	for _, tok := range tokens {
		tokenType, ok := classifyToken(tok.Kind)
		if !ok {
			continue
		}

		line := uint32(tok.Line - 1)
		col := uint32(tok.Column - 1)
		length := uint32(len(tok.Lexeme))

		deltaLine := line - prevLine
		var deltaCol uint32
		if deltaLine == 0 {
			deltaCol = col - prevCol
		} else {
			deltaCol = col
		}

		data = append(data, deltaLine, deltaCol, length, tokenType, 0)
		prevLine, prevCol = line, col
	}

	return data
}

func classifyToken(k token.Kind) (tokenType uint32, ok bool) {
	switch k {
	case token.ID:
		return semIdent, true
	case token.STRING:
		return semString, true
	case token.NUMBER:
		return semNumber, true
	case token.PLUS, token.MINUS, token.STAR, token.SLASH, token.DOUBLESLASH,
		token.PERCENT, token.DOUBLESTAR, token.EQ, token.NEQ, token.LT, token.GT,
		token.LE, token.GE, token.ASSIGN, token.PLUSEQ, token.MINUSEQ,
		token.STAREQ, token.SLASHEQ:
		return semOperator, true
	case token.IF, token.ELIF, token.ELSE, token.WHILE, token.FOR, token.DEF,
		token.RETURN, token.CLASS, token.TRUE, token.FALSE, token.NONE,
		token.AND, token.OR, token.NOT, token.IN, token.IS, token.BREAK,
		token.CONTINUE, token.PASS, token.IMPORT, token.FROM, token.AS,
		token.LAMBDA, token.TRY, token.EXCEPT, token.FINALLY, token.RAISE,
		token.WITH, token.YIELD, token.DEL, token.GLOBAL, token.NONLOCAL,
		token.ASSERT:
		return semKeyword, true
	default:
		return 0, false
	}
}
