package transport_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glyphlang/glyph-ls/internal/transport"
	"github.com/glyphlang/glyph-ls/jsonrpc2"
)

func TestSendReceiveRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	s := transport.NewStream(&buf, &buf)

	call := &jsonrpc2.Call{ID: jsonrpc2.NewNumberID(7), Method: "initialize", Params: []byte(`{}`)}
	require.NoError(t, s.Send(call))

	msg, err := s.Receive()
	require.NoError(t, err)
	got, ok := msg.(*jsonrpc2.Call)
	require.True(t, ok)
	assert.Equal(t, "initialize", got.Method)
	assert.Equal(t, int64(7), got.ID.Number)
}

func TestReceiveEOF(t *testing.T) {
	s := transport.NewStream(bytes.NewReader(nil), io.Discard)
	_, err := s.Receive()
	assert.ErrorIs(t, err, io.EOF)
}

func TestReceiveMultipleMessages(t *testing.T) {
	var buf bytes.Buffer
	s := transport.NewStream(&buf, &buf)

	require.NoError(t, s.Send(&jsonrpc2.Notification{Method: "textDocument/didOpen"}))
	require.NoError(t, s.Send(&jsonrpc2.Notification{Method: "textDocument/didClose"}))

	first, err := s.Receive()
	require.NoError(t, err)
	assert.Equal(t, "textDocument/didOpen", first.(*jsonrpc2.Notification).Method)

	second, err := s.Receive()
	require.NoError(t, err)
	assert.Equal(t, "textDocument/didClose", second.(*jsonrpc2.Notification).Method)
}
