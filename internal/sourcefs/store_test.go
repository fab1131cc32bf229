package sourcefs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glyphlang/glyph-ls/internal/sourcefs"
)

func TestOpenThenTextReturnsContents(t *testing.T) {
	s := sourcefs.NewStore()
	s.Open("a.glyph", "contract A {}\n")

	text, ok := s.Text("a.glyph")
	require.True(t, ok)
	assert.Equal(t, "contract A {}\n", text)
	assert.True(t, s.IsOpen("a.glyph"))
}

func TestCloseKeepsLastKnownContents(t *testing.T) {
	s := sourcefs.NewStore()
	s.Open("a.glyph", "contract A {}\n")
	s.Close("a.glyph")

	text, ok := s.Text("a.glyph")
	require.True(t, ok)
	assert.Equal(t, "contract A {}\n", text)
	assert.False(t, s.IsOpen("a.glyph"))
}

func TestRangeUpdatePatchesBuffer(t *testing.T) {
	s := sourcefs.NewStore()
	s.Open("a.glyph", "contract A {}\n")

	err := s.RangeUpdate("a.glyph", 0, 9, 0, 10, "B")
	require.NoError(t, err)

	text, _ := s.Text("a.glyph")
	assert.Equal(t, "contract B {}\n", text)
}

func TestRangeUpdateOnUnopenedPathErrors(t *testing.T) {
	s := sourcefs.NewStore()
	err := s.RangeUpdate("missing.glyph", 0, 0, 0, 0, "x")
	assert.ErrorIs(t, err, sourcefs.ErrNotOpen)
}

func TestSnapshotIsACopy(t *testing.T) {
	s := sourcefs.NewStore()
	s.Open("a.glyph", "contract A {}\n")

	snap := s.Snapshot()
	snap["a.glyph"] = "mutated"

	text, _ := s.Text("a.glyph")
	assert.Equal(t, "contract A {}\n", text)
}
