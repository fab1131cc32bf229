package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glyphlang/glyph-ls/internal/compiler/ast"
	"github.com/glyphlang/glyph-ls/internal/compiler/parser"
)

func TestParseContractWithVarAndFunc(t *testing.T) {
	src := `pragma glyph ^0.8.0;

contract Token {
  uint balance;

  function get() {
    return balance;
  }
}
`
	file := &ast.SourceFile{Path: "token.glyph", Text: src}
	root, diags := parser.Parse(file)
	require.Empty(t, diags)

	require.NotNil(t, root.Pragma)
	assert.Equal(t, "^0.8.0", root.Pragma.Constraint)

	require.Len(t, root.Contracts, 1)
	contract := root.Contracts[0]
	assert.Equal(t, "Token", contract.Name)
	require.Len(t, contract.Vars, 1)
	assert.Equal(t, "balance", contract.Vars[0].Name)
	require.Len(t, contract.Funcs, 1)
	assert.Equal(t, "get", contract.Funcs[0].Name)
}

func TestParseAttachesDocComments(t *testing.T) {
	src := `contract C {
  /// Total supply held.
  uint supply;
}
`
	file := &ast.SourceFile{Path: "c.glyph", Text: src}
	root, diags := parser.Parse(file)
	require.Empty(t, diags)

	contract := root.Contracts[0]
	require.Len(t, contract.Vars, 1)
	assert.Equal(t, "Total supply held.", contract.Vars[0].Doc)
}

func TestParseSyntaxErrorRecoversAndReportsDiagnostic(t *testing.T) {
	src := `contract Bad {
  uint
}
`
	file := &ast.SourceFile{Path: "bad.glyph", Text: src}
	_, diags := parser.Parse(file)
	require.NotEmpty(t, diags)
}

func TestParseSingleDotIsMemberAccess(t *testing.T) {
	src := `contract C {
  function f() {
    token.balance();
  }
}
`
	file := &ast.SourceFile{Path: "c.glyph", Text: src}
	root, diags := parser.Parse(file)
	require.Empty(t, diags)

	stmt := root.Contracts[0].Funcs[0].Body.Stmts[0].(*ast.ExprStmt)
	call, ok := stmt.X.(*ast.CallExpr)
	require.True(t, ok)
	access, ok := call.Fn.(*ast.MemberAccess)
	require.True(t, ok)
	assert.Equal(t, "balance", access.Name)
	ident, ok := access.X.(*ast.Identifier)
	require.True(t, ok)
	assert.Equal(t, "token", ident.Name)
}

func TestParseMultiDotIsIdentifierPath(t *testing.T) {
	src := `contract C {
  function f() {
    lib.token.balance();
  }
}
`
	file := &ast.SourceFile{Path: "c.glyph", Text: src}
	root, diags := parser.Parse(file)
	require.Empty(t, diags)

	stmt := root.Contracts[0].Funcs[0].Body.Stmts[0].(*ast.ExprStmt)
	call, ok := stmt.X.(*ast.CallExpr)
	require.True(t, ok)
	path, ok := call.Fn.(*ast.IdentifierPath)
	require.True(t, ok)
	assert.Equal(t, []string{"lib", "token", "balance"}, path.Segments)
	assert.Equal(t, "balance", path.TerminalName())
}

func TestParseImport(t *testing.T) {
	src := `import "lib/math.glyph";
contract C {}
`
	file := &ast.SourceFile{Path: "c.glyph", Text: src}
	root, diags := parser.Parse(file)
	require.Empty(t, diags)
	require.Len(t, root.Imports, 1)
	assert.Equal(t, "lib/math.glyph", root.Imports[0].Path)
}
