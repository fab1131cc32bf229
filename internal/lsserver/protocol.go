// Package lsserver implements the server loop and dispatch, the
// per-method query handlers, and configuration ingestion. It owns the
// process-wide server state and wires together the document store, compile
// driver, AST locator, and reference collector.
//
// The wire types below follow the published LSP 3.18 shapes, modeling only
// the fields this server consults.
package lsserver

import "encoding/json"

// Position is a zero-based (line, character) pair. Character is treated as
// a byte offset within the line, not a UTF-16 code unit count; see
// internal/buffer.
type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// Range is a half-open [Start, End) span of Positions.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// Location identifies a Range within one document.
type Location struct {
	URI   string `json:"uri"`
	Range Range  `json:"range"`
}

// TextDocumentIdentifier names a document by URI.
type TextDocumentIdentifier struct {
	URI string `json:"uri"`
}

// VersionedTextDocumentIdentifier adds a version number, used by didChange.
type VersionedTextDocumentIdentifier struct {
	URI     string `json:"uri"`
	Version int    `json:"version"`
}

// TextDocumentItem is the full document payload sent with didOpen.
type TextDocumentItem struct {
	URI        string `json:"uri"`
	LanguageID string `json:"languageId"`
	Version    int    `json:"version"`
	Text       string `json:"text"`
}

// TextDocumentPositionParams is the common shape shared by every
// position-addressed query: definition, implementation, references,
// documentHighlight, hover.
type TextDocumentPositionParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
	Position     Position               `json:"position"`
}

// DefinitionParams, ImplementationParams, DocumentHighlightParams, and
// HoverParams share TextDocumentPositionParams's shape exactly.
type (
	DefinitionParams        = TextDocumentPositionParams
	ImplementationParams    = TextDocumentPositionParams
	DocumentHighlightParams = TextDocumentPositionParams
	HoverParams             = TextDocumentPositionParams
)

// ReferenceContext carries the one references-specific option LSP defines.
// It is accepted on the wire but does not filter results: the declaration
// is always included.
type ReferenceContext struct {
	IncludeDeclaration bool `json:"includeDeclaration"`
}

// ReferenceParams is TextDocumentPositionParams plus a ReferenceContext.
type ReferenceParams struct {
	TextDocumentPositionParams
	Context ReferenceContext `json:"context"`
}

// DocumentHighlightKind classifies one DocumentHighlight.
type DocumentHighlightKind int

const (
	HighlightUnspecified DocumentHighlightKind = 0
	HighlightText        DocumentHighlightKind = 1
	HighlightRead        DocumentHighlightKind = 2
	HighlightWrite       DocumentHighlightKind = 3
)

// DocumentHighlight is one textDocument/documentHighlight result entry.
type DocumentHighlight struct {
	Range Range                 `json:"range"`
	Kind  DocumentHighlightKind `json:"kind,omitempty"`
}

// MarkupContent is hover's markdown reply body.
type MarkupContent struct {
	Kind  string `json:"kind"`
	Value string `json:"value"`
}

// Hover is the textDocument/hover response.
type Hover struct {
	Contents MarkupContent `json:"contents"`
	Range    *Range        `json:"range,omitempty"`
}

// DiagnosticRelatedInformation is one `relatedInformation` entry.
type DiagnosticRelatedInformation struct {
	Location Location `json:"location"`
	Message  string   `json:"message"`
}

// Diagnostic is one published compiler finding.
type Diagnostic struct {
	Severity           int                            `json:"severity"`
	Code               *uint64                        `json:"code,omitempty"`
	Source             string                         `json:"source"`
	Message            string                         `json:"message"`
	Range              Range                          `json:"range"`
	RelatedInformation []DiagnosticRelatedInformation `json:"relatedInformation,omitempty"`
}

// PublishDiagnosticsParams is the textDocument/publishDiagnostics
// notification body.
type PublishDiagnosticsParams struct {
	URI         string       `json:"uri"`
	Diagnostics []Diagnostic `json:"diagnostics"`
}

// TextDocumentContentChangeEvent is one entry of didChange's
// contentChanges array: either a full-document replacement (Range nil) or
// a ranged patch.
type TextDocumentContentChangeEvent struct {
	Range *Range `json:"range,omitempty"`
	Text  string `json:"text"`
}

// DidOpenTextDocumentParams is textDocument/didOpen's body.
type DidOpenTextDocumentParams struct {
	TextDocument TextDocumentItem `json:"textDocument"`
}

// DidChangeTextDocumentParams is textDocument/didChange's body.
type DidChangeTextDocumentParams struct {
	TextDocument   VersionedTextDocumentIdentifier  `json:"textDocument"`
	ContentChanges []TextDocumentContentChangeEvent `json:"contentChanges"`
}

// DidCloseTextDocumentParams is textDocument/didClose's body.
type DidCloseTextDocumentParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
}

// DidChangeConfigurationParams is workspace/didChangeConfiguration's body.
type DidChangeConfigurationParams struct {
	Settings json.RawMessage `json:"settings"`
}

// TextDocumentSyncOptions advertises the server's document-sync
// capabilities: open/close notifications plus incremental changes.
type TextDocumentSyncOptions struct {
	OpenClose bool `json:"openClose"`
	Change    int  `json:"change"`
}

// TextDocumentSyncKindIncremental is LSP's numeric code for incremental
// sync, advertised by this server.
const TextDocumentSyncKindIncremental = 2

// ServerCapabilities is the capabilities object in InitializeResult.
type ServerCapabilities struct {
	HoverProvider             bool                    `json:"hoverProvider"`
	TextDocumentSync          TextDocumentSyncOptions `json:"textDocumentSync"`
	DefinitionProvider        bool                    `json:"definitionProvider"`
	ImplementationProvider    bool                    `json:"implementationProvider"`
	DocumentHighlightProvider bool                    `json:"documentHighlightProvider"`
	ReferencesProvider        bool                    `json:"referencesProvider"`
}

// ServerInfo names this implementation in the initialize reply.
type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// InitializeParams is the initialize request's body. Only the fields this
// server consults are modeled.
type InitializeParams struct {
	RootURI               *string         `json:"rootUri,omitempty"`
	RootPath              *string         `json:"rootPath,omitempty"`
	Trace                 string          `json:"trace,omitempty"`
	InitializationOptions json.RawMessage `json:"initializationOptions,omitempty"`
}

// InitializeResult is the initialize response body.
type InitializeResult struct {
	Capabilities ServerCapabilities `json:"capabilities"`
	ServerInfo   ServerInfo         `json:"serverInfo"`
}
