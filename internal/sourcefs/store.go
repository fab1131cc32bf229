// Package sourcefs holds the open-document store and the disk-backed file
// reader / import resolver the compile driver reads import targets through.
package sourcefs

import (
	"errors"

	"github.com/glyphlang/glyph-ls/internal/buffer"
)

// ErrNotOpen is returned by RangeUpdate when path has no buffer to patch.
var ErrNotOpen = errors.New("sourcefs: document not open")

// Store is the path→text map of client-synchronized documents. The server
// loop owns it and runs single-threaded, so Store needs no internal
// locking.
type Store struct {
	texts map[string]string
	open  map[string]bool
}

// NewStore builds an empty Store.
func NewStore() *Store {
	return &Store{texts: map[string]string{}, open: map[string]bool{}}
}

// Open inserts or replaces path's buffer and marks it open.
func (s *Store) Open(path, text string) {
	s.texts[path] = text
	s.open[path] = true
}

// FullUpdate replaces path's buffer outright; it does not itself trigger a
// compile, that is the caller's responsibility.
func (s *Store) FullUpdate(path, text string) {
	s.texts[path] = text
}

// RangeUpdate patches path's buffer in place, splicing replacement into
// the half-open interval described by the given zero-based positions.
func (s *Store) RangeUpdate(path string, startLine, startColumn, endLine, endColumn int, replacement string) error {
	text, ok := s.texts[path]
	if !ok {
		return ErrNotOpen
	}
	updated, err := buffer.ApplyRangeReplace(text, startLine, startColumn, endLine, endColumn, replacement)
	if err != nil {
		return err
	}
	s.texts[path] = updated
	return nil
}

// Close marks path as no longer open. It deliberately keeps the buffer:
// the last-synced contents remain in the store so other documents can
// still import it.
func (s *Store) Close(path string) {
	s.open[path] = false
}

// Text returns path's current buffer contents.
func (s *Store) Text(path string) (string, bool) {
	text, ok := s.texts[path]
	return text, ok
}

// IsOpen reports whether path is currently open in the client.
func (s *Store) IsOpen(path string) bool {
	return s.open[path]
}

// Snapshot returns a copy of every document's current text, the shape the
// compile driver hands to the compiler frontend's SetSources.
func (s *Store) Snapshot() map[string]string {
	out := make(map[string]string, len(s.texts))
	for path, text := range s.texts {
		out[path] = text
	}
	return out
}
