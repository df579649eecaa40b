package lspserver

import (
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// NewHandler creates a protocol.Handler with the diagnostics and semantic
// tokens methods registered. There is no grammar behind this server, so
// hover, completion, definition, references, rename, folding, code actions,
// and signature help are not offered — those need an AST this repo never
// builds.
func NewHandler(name, version string) (*protocol.Handler, *DocumentStore) {
	store := NewDocumentStore()

	handler := &protocol.Handler{
		Initialize:  initializeHandler(name, version),
		Initialized: initializedHandler(),
		Shutdown:    shutdownHandler(),
		SetTrace:    setTraceHandler(),

		TextDocumentDidOpen:   didOpenHandler(store),
		TextDocumentDidChange: didChangeHandler(store),
		TextDocumentDidClose:  didCloseHandler(store),

		TextDocumentSemanticTokensFull: semanticTokensHandler(store),
	}

	return handler, store
}

func initializeHandler(name, version string) protocol.InitializeFunc {
	return func(context *glsp.Context, params *protocol.InitializeParams) (any, error) {
		capabilities := protocol.InitializeResult{
			Capabilities: protocol.ServerCapabilities{
				TextDocumentSync: protocol.TextDocumentSyncOptions{
					OpenClose: boolPtr(true),
					Change:    ptrTo(protocol.TextDocumentSyncKindFull),
				},
				SemanticTokensProvider: &protocol.SemanticTokensOptions{
					Legend: protocol.SemanticTokensLegend{
						TokenTypes: []string{"keyword", "variable", "string", "number", "operator"},
					},
					Full: true,
				},
			},
			ServerInfo: &protocol.InitializeResultServerInfo{
				Name:    name,
				Version: &version,
			},
		}
		return capabilities, nil
	}
}

func initializedHandler() protocol.InitializedFunc {
	return func(context *glsp.Context, params *protocol.InitializedParams) error {
		return nil
	}
}

func shutdownHandler() protocol.ShutdownFunc {
	return func(context *glsp.Context) error {
		return nil
	}
}

func setTraceHandler() protocol.SetTraceFunc {
	return func(context *glsp.Context, params *protocol.SetTraceParams) error {
		return nil
	}
}

func boolPtr(b bool) *bool {
	return &b
}

func ptrTo[T any](v T) *T {
	return &v
}
