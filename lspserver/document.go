// Package lspserver adapts the lexical front end to the Language Server
// Protocol: it re-lexes an open document on every change and publishes the
// shared Error Log as diagnostics. There is no grammar behind it, so the
// handler set is deliberately the diagnostics/semantic-tokens subset of
// what a full analyzer's server would register.
package lspserver

import (
	"sync"

	"github.com/flangless/flpylex/diag"
	"github.com/flangless/flpylex/invariants"
	"github.com/flangless/flpylex/lexer"
	"github.com/flangless/flpylex/symtab"
	"github.com/flangless/flpylex/token"
)

// Document holds the content and analysis results for a single open file.
type Document struct {
	URI     string
	Content string
	Tokens  []token.Token
	Errs    *diag.Log
	Symbols *symtab.Table
}

// analyze re-lexes the document content and runs the property checker over
// the resulting token stream, mirroring the teacher's parse-then-resolve
// document.analyze but with a lexer and invariants.Check standing in for
// the parser and resolver.
func (d *Document) analyze() {
	l := lexer.New()
	l.Input(d.Content)
	d.Tokens = l.AllTokens()
	d.Errs = l.Errors()
	d.Symbols = l.SymbolTable()
	invariants.Check(d.Tokens, d.Symbols, d.Errs)
}

// DocumentStore is a thread-safe store of open documents.
type DocumentStore struct {
	mu   sync.RWMutex
	docs map[string]*Document
}

// NewDocumentStore creates an empty document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		docs: make(map[string]*Document),
	}
}

// Open adds or replaces a document in the store and analyzes it.
func (s *DocumentStore) Open(uri, content string) *Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc := &Document{URI: uri, Content: content}
	doc.analyze()
	s.docs[uri] = doc
	return doc
}

// Update updates the content of an existing document and re-analyzes it.
func (s *DocumentStore) Update(uri, content string) *Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[uri]
	if !ok {
		doc = &Document{URI: uri}
		s.docs[uri] = doc
	}
	doc.Content = content
	doc.analyze()
	return doc
}

// Get returns a document by URI.
func (s *DocumentStore) Get(uri string) *Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.docs[uri]
}

// Close removes a document from the store.
func (s *DocumentStore) Close(uri string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, uri)
}
