package lsserver

import (
	"encoding/json"
	"strings"

	"github.com/glyphlang/glyph-ls/internal/logtrace"
	"github.com/glyphlang/glyph-ls/internal/sourcefs"
	"github.com/glyphlang/glyph-ls/jsonrpc2"
)

const serverName = "Glyph Language Server"
const serverVersion = "0.1.0"

// dispatchInitialize handles the initialize request, the only request
// served while the server is still Uninitialized.
func (s *Server) dispatchInitialize(c *jsonrpc2.Call) error {
	var params InitializeParams
	if err := json.Unmarshal(c.Params, &params); err != nil {
		return s.replyError(c.ID, jsonrpc2.NewError(jsonrpc2.CodeInvalidParams, "%s", err))
	}

	// RootURI wins over RootPath when both are present.
	var basePath string
	switch {
	case params.RootURI != nil:
		basePath = pathFromFileURI(*params.RootURI)
	case params.RootPath != nil:
		basePath = *params.RootPath
	}
	s.basePath = basePath

	s.tracer.SetLevel(logtrace.ParseLevel(params.Trace))

	if s.basePath != "" {
		if resolver, err := sourcefs.NewResolver(s.basePath); err == nil {
			s.resolver = resolver
		} else {
			s.tracer.Error("failed to start import resolver at {Path}: {Error}", s.basePath, err)
		}
	}

	if len(params.InitializationOptions) > 0 {
		s.applyConfiguration(params.InitializationOptions)
	}

	s.lifecycle = lifecycleRunning

	return s.replyResult(c.ID, InitializeResult{
		Capabilities: ServerCapabilities{
			HoverProvider:             true,
			TextDocumentSync:          TextDocumentSyncOptions{OpenClose: true, Change: TextDocumentSyncKindIncremental},
			DefinitionProvider:        true,
			ImplementationProvider:    true,
			DocumentHighlightProvider: true,
			ReferencesProvider:        true,
		},
		ServerInfo: ServerInfo{Name: serverName, Version: serverVersion},
	})
}

// dispatchShutdown handles the shutdown request: it moves the lifecycle to
// ShutdownRequested and replies with a null result.
func (s *Server) dispatchShutdown(c *jsonrpc2.Call) error {
	if s.lifecycle == lifecycleUninitialized {
		return s.replyError(c.ID, jsonrpc2.NewError(jsonrpc2.CodeServerNotInitialized, "server not initialized"))
	}
	s.lifecycle = lifecycleShutdownRequested
	s.shutdownRequested = true
	return s.replyResult(c.ID, nil)
}

// pathFromFileURI extracts the filesystem path from a "file://" URI. Any
// other scheme returns "".
func pathFromFileURI(uri string) string {
	const prefix = "file://"
	if !strings.HasPrefix(uri, prefix) {
		return ""
	}
	return strings.TrimPrefix(uri, prefix)
}
