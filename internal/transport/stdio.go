// Package transport implements the Content-Length-framed stdio transport
// the Language Server Protocol base protocol requires: each message is
// preceded by a "Content-Length: N\r\n\r\n" header.
package transport

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/glyphlang/glyph-ls/jsonrpc2"
)

// Stream reads and writes framed jsonrpc2 messages over an underlying
// io.Reader/io.Writer pair.
type Stream struct {
	r *bufio.Reader
	w io.Writer
}

// NewStream builds a Stream over the given reader and writer.
func NewStream(r io.Reader, w io.Writer) *Stream {
	return &Stream{r: bufio.NewReader(r), w: w}
}

// Receive reads one framed message. It returns io.EOF when the underlying
// reader is closed with no partial frame pending.
func (s *Stream) Receive() (jsonrpc2.Message, error) {
	var contentLength int
	for {
		line, err := s.r.ReadString('\n')
		if err != nil {
			return nil, err
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break // blank line ends the header block
		}
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			return nil, fmt.Errorf("transport: malformed header %q", line)
		}
		name = strings.TrimSpace(name)
		value = strings.TrimSpace(value)
		if strings.EqualFold(name, "Content-Length") {
			n, err := strconv.Atoi(value)
			if err != nil {
				return nil, fmt.Errorf("transport: invalid Content-Length %q: %w", value, err)
			}
			contentLength = n
		}
	}
	if contentLength <= 0 {
		return nil, fmt.Errorf("transport: missing or zero Content-Length header")
	}

	body := make([]byte, contentLength)
	if _, err := io.ReadFull(s.r, body); err != nil {
		return nil, err
	}
	return jsonrpc2.Decode(body)
}

// Send writes one framed message.
func (s *Stream) Send(msg jsonrpc2.Message) error {
	var body []byte
	var err error
	switch m := msg.(type) {
	case *jsonrpc2.Call:
		body, err = jsonrpc2.EncodeCall(m)
	case *jsonrpc2.Notification:
		body, err = jsonrpc2.EncodeNotification(m)
	case *jsonrpc2.Response:
		body, err = jsonrpc2.EncodeResponse(m)
	default:
		return fmt.Errorf("transport: unknown message type %T", msg)
	}
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(s.w, "Content-Length: %d\r\n\r\n", len(body)); err != nil {
		return err
	}
	_, err = s.w.Write(body)
	return err
}
