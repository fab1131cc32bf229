package refcollect_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glyphlang/glyph-ls/internal/compiler/ast"
	"github.com/glyphlang/glyph-ls/internal/compiler/binder"
	"github.com/glyphlang/glyph-ls/internal/compiler/parser"
	"github.com/glyphlang/glyph-ls/internal/refcollect"
)

func TestCollectFindsDeclarationAndAllUses(t *testing.T) {
	src := `contract C {
  uint x;

  function get() {
    return x;
  }

  function getAgain() {
    return x;
  }
}
`
	file := &ast.SourceFile{Path: "c.glyph", Text: src}
	root, syntaxDiags := parser.Parse(file)
	require.Empty(t, syntaxDiags)

	contracts := map[string]*ast.ContractDecl{"C": root.Contracts[0]}
	info, semaDiags := binder.Bind(root, contracts, nil)
	require.Empty(t, semaDiags)

	decl := root.Contracts[0].Vars[0]
	occurrences := refcollect.Collect(root, info, decl, "x")

	// declaration + two uses.
	require.Len(t, occurrences, 3)
	assert.Equal(t, decl, occurrences[0].Node)
}

func TestCollectReturnsOnlyDeclarationWhenUnused(t *testing.T) {
	src := `contract C {
  uint x;
}
`
	file := &ast.SourceFile{Path: "c.glyph", Text: src}
	root, _ := parser.Parse(file)
	contracts := map[string]*ast.ContractDecl{"C": root.Contracts[0]}
	info, _ := binder.Bind(root, contracts, nil)

	decl := root.Contracts[0].Vars[0]
	occurrences := refcollect.Collect(root, info, decl, "x")
	require.Len(t, occurrences, 1)
}

func TestCollectNilDeclReturnsNil(t *testing.T) {
	assert.Nil(t, refcollect.Collect(nil, nil, nil, "x"))
}
