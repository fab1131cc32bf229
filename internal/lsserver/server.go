package lsserver

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/glyphlang/glyph-ls/internal/compiler"
	"github.com/glyphlang/glyph-ls/internal/logtrace"
	"github.com/glyphlang/glyph-ls/internal/sourcefs"
	"github.com/glyphlang/glyph-ls/jsonrpc2"
)

// lifecycle is the server's protocol state machine:
//
//	Uninitialized --initialize--> Running --shutdown--> ShutdownRequested --exit--> Exited
//	                  \------- exit ------------------------------------------------>/
type lifecycle int

const (
	lifecycleUninitialized lifecycle = iota
	lifecycleRunning
	lifecycleShutdownRequested
	lifecycleExited
)

// Replier sends one jsonrpc2 message (a Response or a Notification) back
// to the client. *transport.Stream implements this; tests use a fake.
type Replier interface {
	Send(jsonrpc2.Message) error
}

// Server owns all process-wide state: the document store, the compiler
// frontend, current settings, the trace level, and the lifecycle state. It
// is never accessed from more than one goroutine: HandleMessage runs one
// message to completion before the loop reads the next.
type Server struct {
	replier Replier
	tracer  *logtrace.Tracer

	basePath string
	resolver *sourcefs.Resolver

	lifecycle         lifecycle
	shutdownRequested bool

	documents  *sourcefs.Store
	remappings []compiler.Remapping
	settings   compiler.Settings
	frontend   compiler.Frontend

	program     *compiler.Program
	diagnostics []compiler.Diagnostic
}

// New builds a Server in the Uninitialized state, wired to the reference
// Glyph compiler frontend.
func New(replier Replier, tracer *logtrace.Tracer) *Server {
	return &Server{
		replier:   replier,
		tracer:    tracer,
		documents: sourcefs.NewStore(),
		settings:  compiler.DefaultSettings(),
		frontend:  compiler.NewFrontend(),
	}
}

// ShutdownRequested reports whether the client sent shutdown before exit,
// which determines the process exit code.
func (s *Server) ShutdownRequested() bool { return s.shutdownRequested }

// Exited reports whether the exit notification has been processed; the
// server loop terminates once this is true.
func (s *Server) Exited() bool { return s.lifecycle == lifecycleExited }

// HandleMessage dispatches one decoded jsonrpc2 message, replying over
// the Replier for calls and for any notifications this message triggers
// (e.g. publishDiagnostics). Protocol-level problems in a call or
// notification become an error response or are silently dropped; it
// returns an error only on a failure to reply at all (transport write
// failure) or for a message that is neither a call nor a notification.
func (s *Server) HandleMessage(m jsonrpc2.Message) error {
	switch msg := m.(type) {
	case *jsonrpc2.Call:
		return s.handleCall(msg)
	case *jsonrpc2.Notification:
		return s.handleNotification(msg)
	default:
		return fmt.Errorf("lsserver: unsupported message type %T", m)
	}
}

func (s *Server) handleCall(c *jsonrpc2.Call) error {
	s.tracer.Message("--> {Method} (id {Id})", c.Method, c.ID.String())

	// After shutdown every request, initialize included, is rejected; only
	// the exit notification is still honored.
	if s.lifecycle == lifecycleShutdownRequested {
		return s.replyError(c.ID, jsonrpc2.NewError(jsonrpc2.CodeInvalidRequest, "server is shutting down"))
	}

	if c.Method == "initialize" {
		return s.dispatchInitialize(c)
	}
	if c.Method == "shutdown" {
		return s.dispatchShutdown(c)
	}

	if s.lifecycle == lifecycleUninitialized {
		return s.replyError(c.ID, jsonrpc2.NewError(jsonrpc2.CodeServerNotInitialized, "server not initialized"))
	}

	switch c.Method {
	case "textDocument/definition":
		return s.dispatchPositionQuery(c, s.textDocumentDefinition)
	case "textDocument/implementation":
		return s.dispatchPositionQuery(c, s.textDocumentImplementation)
	case "textDocument/references":
		return s.dispatchReferences(c)
	case "textDocument/documentHighlight":
		return s.dispatchDocumentHighlight(c)
	case "textDocument/hover":
		return s.dispatchHover(c)
	default:
		return s.replyError(c.ID, fmt.Errorf("%w: %s", jsonrpc2.ErrMethodNotFound, c.Method))
	}
}

func (s *Server) handleNotification(n *jsonrpc2.Notification) error {
	s.tracer.Message("--> {Method}", n.Method)
	s.tracer.Verbose("params: {Params}", string(n.Params))

	if n.Method == "exit" {
		s.lifecycle = lifecycleExited
		return nil
	}

	// Notifications are dropped outside Running, except the exit handled
	// above.
	if s.lifecycle != lifecycleRunning {
		return nil
	}

	switch n.Method {
	case "initialized":
		// Accepted, no action.
		return nil
	case "workspace/didChangeConfiguration":
		var params DidChangeConfigurationParams
		if err := json.Unmarshal(n.Params, &params); err != nil {
			return nil // malformed notification: silently dropped
		}
		s.applyConfiguration(params.Settings)
		return nil
	case "textDocument/didOpen":
		var params DidOpenTextDocumentParams
		if err := json.Unmarshal(n.Params, &params); err != nil {
			return nil
		}
		return s.didOpen(&params)
	case "textDocument/didChange":
		var params DidChangeTextDocumentParams
		if err := json.Unmarshal(n.Params, &params); err != nil {
			return nil
		}
		return s.didChange(&params)
	case "textDocument/didClose":
		var params DidCloseTextDocumentParams
		if err := json.Unmarshal(n.Params, &params); err != nil {
			return nil
		}
		s.didClose(&params)
		return nil
	case "$/cancelRequest", "cancelRequest":
		// Accepted, no effect: handlers run to completion, nothing to cancel.
		return nil
	default:
		// Unknown notification: silently dropped.
		return nil
	}
}

// dispatchPositionQuery unmarshals a TextDocumentPositionParams-shaped
// call, runs handler, and replies with its result.
func (s *Server) dispatchPositionQuery(c *jsonrpc2.Call, handler func(TextDocumentPositionParams) (any, error)) error {
	var params TextDocumentPositionParams
	if err := json.Unmarshal(c.Params, &params); err != nil {
		return s.replyError(c.ID, jsonrpc2.NewError(jsonrpc2.CodeInvalidParams, "%s", err))
	}
	result, err := handler(params)
	if err != nil {
		return s.replyError(c.ID, err)
	}
	return s.replyResult(c.ID, result)
}

// replyError sends an error Response for id. err is matched against the
// jsonrpc2 sentinel errors via errors.As so a wrapped sentinel (e.g.
// fmt.Errorf("%w: %s", jsonrpc2.ErrMethodNotFound, method)) keeps its code.
func (s *Server) replyError(id jsonrpc2.ID, err error) error {
	var rpcErr *jsonrpc2.Error
	if !errors.As(err, &rpcErr) {
		rpcErr = jsonrpc2.NewError(jsonrpc2.CodeInternalError, "%s", err)
	}
	return s.replier.Send(&jsonrpc2.Response{ID: id, Error: rpcErr})
}

// replyResult marshals result and sends it as a successful Response for id.
func (s *Server) replyResult(id jsonrpc2.ID, result any) error {
	raw, err := json.Marshal(result)
	if err != nil {
		return s.replyError(id, jsonrpc2.NewError(jsonrpc2.CodeInternalError, "%s", err))
	}
	return s.replier.Send(&jsonrpc2.Response{ID: id, Result: raw})
}

// publishDiagnostics sends one textDocument/publishDiagnostics
// notification. The diagnostics array is never null, and the notification
// goes out even when it is empty so stale markers clear on the client.
func (s *Server) publishDiagnostics(uri string, diagnostics []Diagnostic) error {
	if diagnostics == nil {
		diagnostics = []Diagnostic{}
	}
	raw, err := json.Marshal(PublishDiagnosticsParams{URI: uri, Diagnostics: diagnostics})
	if err != nil {
		return err
	}
	return s.replier.Send(&jsonrpc2.Notification{Method: "textDocument/publishDiagnostics", Params: raw})
}
