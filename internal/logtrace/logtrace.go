// Package logtrace wraps an mtlog logger as the server's trace sink, gated
// by the configured trace level. The sink writes to whatever io.Writer New
// is given; the server's entry point passes stderr, since stdout is
// reserved for the framed JSON-RPC stream.
package logtrace

import (
	"io"

	"github.com/willibrandon/mtlog"
	"github.com/willibrandon/mtlog/core"
	"github.com/willibrandon/mtlog/sinks"
)

// Level is the trace verbosity requested via the initialize request's
// trace field or a later configuration change.
type Level int

const (
	Off Level = iota
	Messages
	Verbose
)

// ParseLevel maps the wire string ("off", "messages", "verbose") to a Level,
// defaulting to Off for anything unrecognized.
func ParseLevel(s string) Level {
	switch s {
	case "messages":
		return Messages
	case "verbose":
		return Verbose
	default:
		return Off
	}
}

// Tracer logs protocol activity at the configured Level. Templates are
// mtlog message templates: "{Method}"-style properties paired positionally
// with args.
type Tracer struct {
	level  Level
	logger core.Logger
}

// New builds a Tracer writing to w at the given level.
func New(w io.Writer, level Level) *Tracer {
	logger := mtlog.New(mtlog.WithSink(sinks.NewConsoleSinkWithWriter(w)))
	return &Tracer{level: level, logger: logger}
}

// SetLevel updates the tracer's verbosity, e.g. when the client asks for a
// different trace setting.
func (t *Tracer) SetLevel(level Level) {
	t.level = level
}

// Message logs a one-line trace of an incoming/outgoing message when the
// level is at least Messages.
func (t *Tracer) Message(template string, args ...any) {
	if t.level < Messages {
		return
	}
	t.logger.Information(template, args...)
}

// Verbose logs detailed protocol tracing (e.g. full params) when the level
// is Verbose.
func (t *Tracer) Verbose(template string, args ...any) {
	if t.level < Verbose {
		return
	}
	t.logger.Debug(template, args...)
}

// Error always logs, regardless of the configured trace level: internal
// errors are operational, not protocol tracing.
func (t *Tracer) Error(template string, args ...any) {
	t.logger.Error(template, args...)
}
