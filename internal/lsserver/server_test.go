package lsserver_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glyphlang/glyph-ls/internal/logtrace"
	"github.com/glyphlang/glyph-ls/internal/lsserver"
	"github.com/glyphlang/glyph-ls/jsonrpc2"
)

// fakeReplier records every message a Server sends back, in order, so
// tests can assert on the reply stream without a real transport.
type fakeReplier struct {
	sent []jsonrpc2.Message
}

func (f *fakeReplier) Send(m jsonrpc2.Message) error {
	f.sent = append(f.sent, m)
	return nil
}

func (f *fakeReplier) lastResponse() *jsonrpc2.Response {
	for i := len(f.sent) - 1; i >= 0; i-- {
		if r, ok := f.sent[i].(*jsonrpc2.Response); ok {
			return r
		}
	}
	return nil
}

func newTestServer(t *testing.T) (*lsserver.Server, *fakeReplier) {
	t.Helper()
	replier := &fakeReplier{}
	srv := lsserver.New(replier, logtrace.New(&discardWriter{}, logtrace.Off))
	return srv, replier
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

func mustCall(t *testing.T, id int64, method string, params any) *jsonrpc2.Call {
	t.Helper()
	raw, err := json.Marshal(params)
	require.NoError(t, err)
	return &jsonrpc2.Call{ID: jsonrpc2.NewNumberID(id), Method: method, Params: raw}
}

func mustNotification(t *testing.T, method string, params any) *jsonrpc2.Notification {
	t.Helper()
	raw, err := json.Marshal(params)
	require.NoError(t, err)
	return &jsonrpc2.Notification{Method: method, Params: raw}
}

func initializeServer(t *testing.T, srv *lsserver.Server, replier *fakeReplier) {
	t.Helper()
	call := mustCall(t, 1, "initialize", lsserver.InitializeParams{})
	require.NoError(t, srv.HandleMessage(call))
	resp := replier.lastResponse()
	require.NotNil(t, resp)
	require.Nil(t, resp.Error)
}

const tokenSource = `pragma glyph ^0.8.0;

contract Token {
  uint balance;

  function get() {
    return balance;
  }
}
`

func openDocument(t *testing.T, srv *lsserver.Server, uri, text string) {
	t.Helper()
	n := mustNotification(t, "textDocument/didOpen", lsserver.DidOpenTextDocumentParams{
		TextDocument: lsserver.TextDocumentItem{URI: uri, LanguageID: "glyph", Version: 1, Text: text},
	})
	require.NoError(t, srv.HandleMessage(n))
}

func lastDiagnostics(t *testing.T, replier *fakeReplier) []lsserver.Diagnostic {
	t.Helper()
	for i := len(replier.sent) - 1; i >= 0; i-- {
		if n, ok := replier.sent[i].(*jsonrpc2.Notification); ok && n.Method == "textDocument/publishDiagnostics" {
			var params lsserver.PublishDiagnosticsParams
			require.NoError(t, json.Unmarshal(n.Params, &params))
			return params.Diagnostics
		}
	}
	t.Fatal("no publishDiagnostics notification sent")
	return nil
}

func TestInitializeAdvertisesCapabilities(t *testing.T) {
	srv, replier := newTestServer(t)
	initializeServer(t, srv, replier)

	resp := replier.lastResponse()
	var result lsserver.InitializeResult
	require.NoError(t, json.Unmarshal(resp.Result, &result))
	assert.True(t, result.Capabilities.HoverProvider)
	assert.True(t, result.Capabilities.DefinitionProvider)
	assert.True(t, result.Capabilities.ReferencesProvider)
	assert.True(t, result.Capabilities.DocumentHighlightProvider)
	assert.Equal(t, 2, result.Capabilities.TextDocumentSync.Change)
}

func TestRequestBeforeInitializeIsServerNotInitialized(t *testing.T) {
	srv, replier := newTestServer(t)
	call := mustCall(t, 1, "textDocument/hover", lsserver.HoverParams{})
	require.NoError(t, srv.HandleMessage(call))

	resp := replier.lastResponse()
	require.NotNil(t, resp.Error)
	assert.Equal(t, jsonrpc2.CodeServerNotInitialized, resp.Error.Code)
}

func TestDidOpenTriggersCompileAndPublishesDiagnostics(t *testing.T) {
	srv, replier := newTestServer(t)
	initializeServer(t, srv, replier)
	openDocument(t, srv, "file:///token.glyph", tokenSource)

	var found bool
	for _, m := range replier.sent {
		if n, ok := m.(*jsonrpc2.Notification); ok && n.Method == "textDocument/publishDiagnostics" {
			found = true
			var params lsserver.PublishDiagnosticsParams
			require.NoError(t, json.Unmarshal(n.Params, &params))
			assert.Empty(t, params.Diagnostics)
		}
	}
	assert.True(t, found, "expected a publishDiagnostics notification")
}

func TestDidChangeRangePatchReportsAndClearsDiagnostics(t *testing.T) {
	srv, replier := newTestServer(t)
	initializeServer(t, srv, replier)
	openDocument(t, srv, "file:///token.glyph", tokenSource)
	require.Empty(t, lastDiagnostics(t, replier))

	change := func(startLine, startCol, endLine, endCol int, text string) {
		n := mustNotification(t, "textDocument/didChange", lsserver.DidChangeTextDocumentParams{
			TextDocument: lsserver.VersionedTextDocumentIdentifier{URI: "file:///token.glyph", Version: 2},
			ContentChanges: []lsserver.TextDocumentContentChangeEvent{{
				Range: &lsserver.Range{
					Start: lsserver.Position{Line: startLine, Character: startCol},
					End:   lsserver.Position{Line: endLine, Character: endCol},
				},
				Text: text,
			}},
		})
		require.NoError(t, srv.HandleMessage(n))
	}

	// Replace the use of balance inside get() with an undefined name.
	change(6, 11, 6, 18, "bogus")
	diags := lastDiagnostics(t, replier)
	require.NotEmpty(t, diags)
	assert.Equal(t, 1, diags[0].Severity)

	// Revert the edit: the next publish clears the marker.
	change(6, 11, 6, 16, "balance")
	assert.Empty(t, lastDiagnostics(t, replier))
}

func TestHoverOnDeclarationShowsTypeString(t *testing.T) {
	srv, replier := newTestServer(t)
	initializeServer(t, srv, replier)
	openDocument(t, srv, "file:///token.glyph", tokenSource)

	// Position of "balance" in "uint balance;" on line 3 (0-based).
	call := mustCall(t, 2, "textDocument/hover", lsserver.HoverParams{
		TextDocument: lsserver.TextDocumentIdentifier{URI: "file:///token.glyph"},
		Position:     lsserver.Position{Line: 3, Character: 7},
	})
	require.NoError(t, srv.HandleMessage(call))

	resp := replier.lastResponse()
	require.Nil(t, resp.Error)
	var hover lsserver.Hover
	require.NoError(t, json.Unmarshal(resp.Result, &hover))
	assert.Contains(t, hover.Contents.Value, "balance")
}

func TestDefinitionOnUseResolvesToDeclaration(t *testing.T) {
	srv, replier := newTestServer(t)
	initializeServer(t, srv, replier)
	openDocument(t, srv, "file:///token.glyph", tokenSource)

	// Position of "balance" in "return balance;" inside get().
	call := mustCall(t, 3, "textDocument/definition", lsserver.DefinitionParams{
		TextDocument: lsserver.TextDocumentIdentifier{URI: "file:///token.glyph"},
		Position:     lsserver.Position{Line: 6, Character: 11},
	})
	require.NoError(t, srv.HandleMessage(call))

	resp := replier.lastResponse()
	require.Nil(t, resp.Error)
	var locs []lsserver.Location
	require.NoError(t, json.Unmarshal(resp.Result, &locs))
	require.Len(t, locs, 1)
	assert.Equal(t, 3, locs[0].Range.Start.Line)
}

func TestReferencesAlwaysIncludesDeclaration(t *testing.T) {
	srv, replier := newTestServer(t)
	initializeServer(t, srv, replier)
	openDocument(t, srv, "file:///token.glyph", tokenSource)

	// No context field at all: the declaration is still part of the result.
	call := mustCall(t, 4, "textDocument/references", lsserver.TextDocumentPositionParams{
		TextDocument: lsserver.TextDocumentIdentifier{URI: "file:///token.glyph"},
		Position:     lsserver.Position{Line: 6, Character: 11},
	})
	require.NoError(t, srv.HandleMessage(call))

	resp := replier.lastResponse()
	require.Nil(t, resp.Error)
	var locs []lsserver.Location
	require.NoError(t, json.Unmarshal(resp.Result, &locs))
	assert.Len(t, locs, 2) // the declaration and the one use inside get()
}

func TestImportResolvedFromDiskBecomesDocument(t *testing.T) {
	srv, replier := newTestServer(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lib.glyph"), []byte("contract Lib {}\n"), 0o644))

	rootURI := "file://" + dir
	call := mustCall(t, 1, "initialize", lsserver.InitializeParams{RootURI: &rootURI})
	require.NoError(t, srv.HandleMessage(call))
	resp := replier.lastResponse()
	require.NotNil(t, resp)
	require.Nil(t, resp.Error)

	openDocument(t, srv, "file://"+dir+"/main.glyph", "import \"lib.glyph\";\ncontract C {}\n")
	require.Empty(t, lastDiagnostics(t, replier))

	// Definition on the import directive lands at the start of the
	// resolver-supplied file, now addressed like any other document.
	call = mustCall(t, 2, "textDocument/definition", lsserver.DefinitionParams{
		TextDocument: lsserver.TextDocumentIdentifier{URI: "file://" + dir + "/main.glyph"},
		Position:     lsserver.Position{Line: 0, Character: 3},
	})
	require.NoError(t, srv.HandleMessage(call))

	resp = replier.lastResponse()
	require.Nil(t, resp.Error)
	var locs []lsserver.Location
	require.NoError(t, json.Unmarshal(resp.Result, &locs))
	require.Len(t, locs, 1)
	assert.Equal(t, "file://"+dir+"/lib.glyph", locs[0].URI)
	assert.Equal(t, 0, locs[0].Range.Start.Line)
	assert.Equal(t, 0, locs[0].Range.Start.Character)
}

func TestDocumentHighlightMarksDeclarationAsWrite(t *testing.T) {
	srv, replier := newTestServer(t)
	initializeServer(t, srv, replier)
	openDocument(t, srv, "file:///token.glyph", tokenSource)

	call := mustCall(t, 5, "textDocument/documentHighlight", lsserver.DocumentHighlightParams{
		TextDocument: lsserver.TextDocumentIdentifier{URI: "file:///token.glyph"},
		Position:     lsserver.Position{Line: 3, Character: 7},
	})
	require.NoError(t, srv.HandleMessage(call))

	resp := replier.lastResponse()
	require.Nil(t, resp.Error)
	var highlights []lsserver.DocumentHighlight
	require.NoError(t, json.Unmarshal(resp.Result, &highlights))
	require.NotEmpty(t, highlights)

	var sawWrite bool
	for _, h := range highlights {
		if h.Kind == lsserver.HighlightWrite {
			sawWrite = true
		}
	}
	assert.True(t, sawWrite)
}

func TestUnknownMethodAfterInitializeIsMethodNotFound(t *testing.T) {
	srv, replier := newTestServer(t)
	initializeServer(t, srv, replier)

	call := mustCall(t, 6, "textDocument/completion", struct{}{})
	require.NoError(t, srv.HandleMessage(call))

	resp := replier.lastResponse()
	require.NotNil(t, resp.Error)
	assert.Equal(t, jsonrpc2.CodeMethodNotFound, resp.Error.Code)
}

func TestShutdownThenExitDrivesLifecycle(t *testing.T) {
	srv, replier := newTestServer(t)
	initializeServer(t, srv, replier)

	shutdownCall := mustCall(t, 7, "shutdown", struct{}{})
	require.NoError(t, srv.HandleMessage(shutdownCall))
	resp := replier.lastResponse()
	require.Nil(t, resp.Error)

	// After shutdown, any request but exit is rejected.
	call := mustCall(t, 8, "textDocument/hover", lsserver.HoverParams{})
	require.NoError(t, srv.HandleMessage(call))
	resp = replier.lastResponse()
	require.NotNil(t, resp.Error)
	assert.Equal(t, jsonrpc2.CodeInvalidRequest, resp.Error.Code)

	assert.False(t, srv.Exited())
	require.NoError(t, srv.HandleMessage(mustNotification(t, "exit", struct{}{})))
	assert.True(t, srv.Exited())
	assert.True(t, srv.ShutdownRequested())
}
