package buffer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glyphlang/glyph-ls/internal/buffer"
)

func TestTranslateAndPositionOfRoundTrip(t *testing.T) {
	text := "contract Foo {\n  uint x;\n}\n"

	tests := []struct {
		name   string
		line   int
		column int
	}{
		{"start of file", 0, 0},
		{"mid first line", 0, 9},
		{"start of second line", 1, 0},
		{"mid second line", 1, 6},
		{"end of last line", 2, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			offset, err := buffer.Translate(text, tt.line, tt.column)
			require.NoError(t, err)

			line, column := buffer.PositionOf(text, offset)
			assert.Equal(t, tt.line, line)
			assert.Equal(t, tt.column, column)
		})
	}
}

func TestTranslateOutOfRange(t *testing.T) {
	text := "abc\ndef\n"

	_, err := buffer.Translate(text, 5, 0)
	assert.ErrorIs(t, err, buffer.ErrPositionOutOfRange)

	_, err = buffer.Translate(text, 0, 100)
	assert.ErrorIs(t, err, buffer.ErrPositionOutOfRange)

	_, err = buffer.Translate(text, -1, 0)
	assert.ErrorIs(t, err, buffer.ErrPositionOutOfRange)
}

func TestApplyRangeReplace(t *testing.T) {
	text := "contract Foo {\n  uint x;\n}\n"

	updated, err := buffer.ApplyRangeReplace(text, 1, 7, 1, 8, "y")
	require.NoError(t, err)
	assert.Equal(t, "contract Foo {\n  uint y;\n}\n", updated)
}

func TestApplyRangeReplaceInsertOnly(t *testing.T) {
	text := "abc"

	updated, err := buffer.ApplyRangeReplace(text, 0, 1, 0, 1, "XYZ")
	require.NoError(t, err)
	assert.Equal(t, "aXYZbc", updated)
}

func TestApplyRangeReplaceInvertedRange(t *testing.T) {
	text := "abc\ndef"

	_, err := buffer.ApplyRangeReplace(text, 1, 0, 0, 0, "x")
	assert.ErrorIs(t, err, buffer.ErrPositionOutOfRange)
}
