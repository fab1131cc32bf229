// Package buffer provides the text-offset arithmetic shared by the document
// store and the query handlers: translating (line, column) positions to byte
// offsets and back, and applying incremental range replacements.
//
// Columns here are byte offsets within a line, not UTF-16 code units as LSP
// defines them. Positions on lines containing multi-byte characters will
// drift until a conversion layer is added.
package buffer

import (
	"errors"
	"strings"
)

// ErrPositionOutOfRange is returned by Translate when the requested line or
// column falls outside the document.
var ErrPositionOutOfRange = errors.New("buffer: position out of range")

// lineStarts returns the byte offset of the first byte of each line in text.
func lineStarts(text string) []int {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// Translate converts a zero-based (line, column) position into a byte
// offset into text. column is a byte offset within the line.
func Translate(text string, line, column int) (int, error) {
	if line < 0 || column < 0 {
		return 0, ErrPositionOutOfRange
	}
	starts := lineStarts(text)
	if line >= len(starts) {
		return 0, ErrPositionOutOfRange
	}
	lineStart := starts[line]
	lineEnd := len(text)
	if line+1 < len(starts) {
		lineEnd = starts[line+1] - 1 // exclude the newline
	}
	offset := lineStart + column
	if offset > lineEnd {
		return 0, ErrPositionOutOfRange
	}
	return offset, nil
}

// PositionOf converts a byte offset into text into a zero-based (line,
// column) pair. An offset equal to len(text) resolves to the position just
// past the last byte.
func PositionOf(text string, offset int) (line, column int) {
	if offset < 0 {
		offset = 0
	}
	if offset > len(text) {
		offset = len(text)
	}
	starts := lineStarts(text)
	line = len(starts) - 1
	for i, s := range starts {
		if s > offset {
			line = i - 1
			break
		}
	}
	column = offset - starts[line]
	return line, column
}

// ApplyRangeReplace replaces the text between (startLine, startColumn) and
// (endLine, endColumn) with replacement and returns the resulting document.
func ApplyRangeReplace(text string, startLine, startColumn, endLine, endColumn int, replacement string) (string, error) {
	start, err := Translate(text, startLine, startColumn)
	if err != nil {
		return "", err
	}
	end, err := Translate(text, endLine, endColumn)
	if err != nil {
		return "", err
	}
	if end < start {
		return "", ErrPositionOutOfRange
	}
	var b strings.Builder
	b.Grow(len(text) - (end - start) + len(replacement))
	b.WriteString(text[:start])
	b.WriteString(replacement)
	b.WriteString(text[end:])
	return b.String(), nil
}
