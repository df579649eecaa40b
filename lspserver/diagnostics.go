package lspserver

import (
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func didOpenHandler(store *DocumentStore) protocol.TextDocumentDidOpenFunc {
	return func(context *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
		doc := store.Open(params.TextDocument.URI, params.TextDocument.Text)
		return publishDiagnostics(context, doc)
	}
}

func didChangeHandler(store *DocumentStore) protocol.TextDocumentDidChangeFunc {
	return func(context *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
		// Full sync: the last content change carries the whole document.
		text := params.ContentChanges[len(params.ContentChanges)-1].(protocol.TextDocumentContentChangeEventWhole).Text
		doc := store.Update(params.TextDocument.URI, text)
		return publishDiagnostics(context, doc)
	}
}

func didCloseHandler(store *DocumentStore) protocol.TextDocumentDidCloseFunc {
	return func(context *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
		store.Close(params.TextDocument.URI)
		context.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
			URI:         params.TextDocument.URI,
			Diagnostics: []protocol.Diagnostic{},
		})
		return nil
	}
}

func publishDiagnostics(context *glsp.Context, doc *Document) error {
	var diags []protocol.Diagnostic

	if doc.Errs != nil {
		for _, e := range doc.Errs.Entries() {
			diags = append(diags, protocol.Diagnostic{
				Range:    posToRange(e.Line, e.Column),
				Severity: ptrTo(protocol.DiagnosticSeverityError),
				Source:   ptrTo("flpylex"),
				Message:  e.Message,
			})
		}
	}

	if diags == nil {
		diags = []protocol.Diagnostic{}
	}

	context.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         doc.URI,
		Diagnostics: diags,
	})
	return nil
}

// posToRange converts a 1-based lexer position to an LSP 0-based range.
// Tokens carry no end position, so the range highlights to a fixed offset
// past the start column.
func posToRange(line, column int) protocol.Range {
	l := uint32(0)
	if line > 0 {
		l = uint32(line - 1)
	}
	c := uint32(0)
	if column > 0 {
		c = uint32(column - 1)
	}
	return protocol.Range{
		Start: protocol.Position{Line: l, Character: c},
		End:   protocol.Position{Line: l, Character: c + 1},
	}
}
