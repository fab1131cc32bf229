package locator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glyphlang/glyph-ls/internal/compiler/ast"
	"github.com/glyphlang/glyph-ls/internal/compiler/parser"
	"github.com/glyphlang/glyph-ls/internal/locator"
)

func TestNodeAtFindsIdentifierUse(t *testing.T) {
	src := "contract C {\n  uint x;\n  function f() {\n    return x;\n  }\n}\n"
	file := &ast.SourceFile{Path: "c.glyph", Text: src}
	root, diags := parser.Parse(file)
	require.Empty(t, diags)

	offset := len(src) - len("x;\n  }\n}\n")
	node := locator.NodeAt(root, offset)
	require.NotNil(t, node)
	ident, ok := node.(*ast.Identifier)
	require.True(t, ok)
	assert.Equal(t, "x", ident.Name)
}

func TestNodeAtReturnsNilOutsideAnyNode(t *testing.T) {
	src := "contract C {}\n"
	file := &ast.SourceFile{Path: "c.glyph", Text: src}
	root, _ := parser.Parse(file)

	node := locator.NodeAt(root, len(src)+10)
	assert.Nil(t, node)
}

func TestNodeAtReturnsNilForNilRoot(t *testing.T) {
	assert.Nil(t, locator.NodeAt(nil, 0))
}

func TestPathAtIncludesAncestors(t *testing.T) {
	src := "contract C {\n  uint x;\n  function f() {\n    return x;\n  }\n}\n"
	file := &ast.SourceFile{Path: "c.glyph", Text: src}
	root, diags := parser.Parse(file)
	require.Empty(t, diags)

	offset := len(src) - len("x;\n  }\n}\n")
	path := locator.PathAt(root, offset)
	require.NotEmpty(t, path)
	assert.Equal(t, ast.KindFile, path[0].Kind())
	assert.Equal(t, ast.KindIdentifier, path[len(path)-1].Kind())
}
