// Package jsonrpc2 implements the JSON-RPC 2.0 envelope used by the
// Language Server Protocol base transport: requests carry an id and a
// method, notifications are requests without an id, and responses carry
// either a result or an error.
package jsonrpc2

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrorCode is a JSON-RPC / LSP protocol error code.
type ErrorCode int

// Standard JSON-RPC error codes, plus the LSP-defined ServerNotInitialized.
const (
	CodeParseError           ErrorCode = -32700
	CodeInvalidRequest       ErrorCode = -32600
	CodeMethodNotFound       ErrorCode = -32601
	CodeInvalidParams        ErrorCode = -32602
	CodeInternalError        ErrorCode = -32603
	CodeServerNotInitialized ErrorCode = -32002
)

// Error is a JSON-RPC error object, also Go's error interface.
type Error struct {
	Code    ErrorCode       `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("jsonrpc2: code %d: %s", e.Code, e.Message)
}

// Sentinel errors for the protocol error codes, matched with errors.Is
// after wrapping with %w.
var (
	ErrParse                = &Error{Code: CodeParseError, Message: "parse error"}
	ErrInvalidRequest       = &Error{Code: CodeInvalidRequest, Message: "invalid request"}
	ErrMethodNotFound       = &Error{Code: CodeMethodNotFound, Message: "method not found"}
	ErrInvalidParams        = &Error{Code: CodeInvalidParams, Message: "invalid params"}
	ErrInternal             = &Error{Code: CodeInternalError, Message: "internal error"}
	ErrServerNotInitialized = &Error{Code: CodeServerNotInitialized, Message: "server not initialized"}
)

// Is allows errors.Is(err, jsonrpc2.ErrMethodNotFound) to match on code alone,
// ignoring message/data.
func (e *Error) Is(target error) bool {
	var other *Error
	if !errors.As(target, &other) {
		return false
	}
	return e.Code == other.Code
}

// NewError builds a protocol error with a specific message, still matchable
// via errors.Is against the corresponding sentinel.
func NewError(code ErrorCode, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// ID is a request identifier: either a JSON number or a JSON string.
type ID struct {
	Name   string
	Number int64
	IsName bool
}

// NewNumberID builds a numeric request ID.
func NewNumberID(n int64) ID { return ID{Number: n} }

// NewStringID builds a string request ID.
func NewStringID(s string) ID { return ID{Name: s, IsName: true} }

func (id ID) String() string {
	if id.IsName {
		return id.Name
	}
	return fmt.Sprintf("%d", id.Number)
}

func (id ID) MarshalJSON() ([]byte, error) {
	if id.IsName {
		return json.Marshal(id.Name)
	}
	return json.Marshal(id.Number)
}

func (id *ID) UnmarshalJSON(data []byte) error {
	var n int64
	if err := json.Unmarshal(data, &n); err == nil {
		*id = ID{Number: n}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("jsonrpc2: invalid id: %w", err)
	}
	*id = ID{Name: s, IsName: true}
	return nil
}

// wireMessage is the on-the-wire envelope shape; Message values are decoded
// into one of Call, Notification, or Response depending on which fields are
// present.
type wireMessage struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      *ID             `json:"id,omitempty"`
	Method  string          `json:"method,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
}

// Message is any decoded JSON-RPC envelope: a *Call, a *Notification, or a
// *Response.
type Message interface {
	isMessage()
}

// Call is a request that expects a Response carrying the same ID.
type Call struct {
	ID     ID
	Method string
	Params json.RawMessage
}

func (*Call) isMessage() {}

// Notification is a request with no ID; the receiver must not reply.
type Notification struct {
	Method string
	Params json.RawMessage
}

func (*Notification) isMessage() {}

// Response carries either a Result or an Error, never both, for the Call
// with the matching ID.
type Response struct {
	ID     ID
	Result json.RawMessage
	Error  *Error
}

func (*Response) isMessage() {}

// Decode parses a single JSON-RPC envelope off the wire.
func Decode(data []byte) (Message, error) {
	var w wireMessage
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("jsonrpc2: %w: %s", ErrParse, err)
	}
	switch {
	case w.Result != nil || w.Error != nil:
		if w.ID == nil {
			return nil, fmt.Errorf("jsonrpc2: %w: response without id", ErrInvalidRequest)
		}
		return &Response{ID: *w.ID, Result: w.Result, Error: w.Error}, nil
	case w.ID != nil:
		return &Call{ID: *w.ID, Method: w.Method, Params: w.Params}, nil
	default:
		return &Notification{Method: w.Method, Params: w.Params}, nil
	}
}

// EncodeCall serializes a Call.
func EncodeCall(c *Call) ([]byte, error) {
	return json.Marshal(wireMessage{JSONRPC: "2.0", ID: &c.ID, Method: c.Method, Params: c.Params})
}

// EncodeNotification serializes a Notification.
func EncodeNotification(n *Notification) ([]byte, error) {
	return json.Marshal(wireMessage{JSONRPC: "2.0", Method: n.Method, Params: n.Params})
}

// EncodeResponse serializes a Response.
func EncodeResponse(r *Response) ([]byte, error) {
	return json.Marshal(wireMessage{JSONRPC: "2.0", ID: &r.ID, Result: r.Result, Error: r.Error})
}
