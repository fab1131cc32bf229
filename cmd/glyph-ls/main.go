// Command glyph-ls is the stdio entry point for the Glyph language server:
// it wires the Content-Length-framed transport to the lsserver.Server loop
// over stdin/stdout, with trace logging to stderr since stdout is reserved
// for the JSON-RPC stream.
package main

import (
	"errors"
	"io"
	"os"

	"github.com/glyphlang/glyph-ls/internal/logtrace"
	"github.com/glyphlang/glyph-ls/internal/lsserver"
	"github.com/glyphlang/glyph-ls/internal/transport"
	"github.com/glyphlang/glyph-ls/jsonrpc2"
)

func main() {
	os.Exit(run())
}

// run drives the read-dispatch loop to completion and returns the process
// exit status: 0 if the client sent shutdown before exit, 1 otherwise.
func run() int {
	tracer := logtrace.New(os.Stderr, logtrace.Off)
	stream := transport.NewStream(os.Stdin, os.Stdout)
	srv := lsserver.New(stream, tracer)

	for !srv.Exited() {
		msg, err := stream.Receive()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			var rpcErr *jsonrpc2.Error
			if errors.As(err, &rpcErr) {
				// The frame was read whole but its body is not a valid
				// envelope: drop it and keep serving.
				tracer.Error("dropped malformed message: {Error}", err)
				continue
			}
			tracer.Error("transport receive failed: {Error}", err)
			break
		}
		dispatch(srv, tracer, msg)
	}

	if srv.ShutdownRequested() {
		return 0
	}
	return 1
}

// dispatch runs one message through the server, recovering a panic at the
// loop boundary so a single bad request cannot take the whole process
// down.
func dispatch(srv *lsserver.Server, tracer *logtrace.Tracer, msg jsonrpc2.Message) {
	defer func() {
		if r := recover(); r != nil {
			tracer.Error("recovered from panic in handler: {Panic}", r)
		}
	}()
	if err := srv.HandleMessage(msg); err != nil {
		tracer.Error("handler failed: {Error}", err)
	}
}
