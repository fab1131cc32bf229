package binder_test

import (
	"testing"

	"github.com/Masterminds/semver/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glyphlang/glyph-ls/internal/compiler/ast"
	"github.com/glyphlang/glyph-ls/internal/compiler/binder"
	"github.com/glyphlang/glyph-ls/internal/compiler/parser"
)

func parseAndBind(t *testing.T, src string, frontendVersion string) (*ast.File, *binder.Info, []binder.Diagnostic) {
	t.Helper()
	file := &ast.SourceFile{Path: "t.glyph", Text: src}
	root, syntaxDiags := parser.Parse(file)
	require.Empty(t, syntaxDiags)

	contracts := map[string]*ast.ContractDecl{}
	for _, c := range root.Contracts {
		contracts[c.Name] = c
	}
	var v *semver.Version
	if frontendVersion != "" {
		v = semver.MustParse(frontendVersion)
	}
	info, diags := binder.Bind(root, contracts, v)
	return root, info, diags
}

func TestBindResolvesLocalUseToParam(t *testing.T) {
	root, info, diags := parseAndBind(t, `
contract C {
  function f(uint x) {
    return x;
  }
}
`, "")
	require.Empty(t, diags)

	ret := root.Contracts[0].Funcs[0].Body.Stmts[0].(*ast.ReturnStmt)
	use := ret.Result.(*ast.Identifier)
	decl := info.ObjectOf(use)
	require.NotNil(t, decl)
	assert.Equal(t, "x", decl.DeclName())
	assert.Same(t, root.Contracts[0].Funcs[0].Params[0], decl)
}

func TestBindUndefinedIdentifierProducesDiagnostic(t *testing.T) {
	_, _, diags := parseAndBind(t, `
contract C {
  function f() {
    return y;
  }
}
`, "")
	require.Len(t, diags, 1)
	assert.Equal(t, binder.SeverityError, diags[0].Severity)
}

func TestBindMemberAccessThroughDeclaredType(t *testing.T) {
	root, info, diags := parseAndBind(t, `
contract Token {
  uint balance;
}

contract Wallet {
  Token t;

  function f() {
    return t.balance;
  }
}
`, "")
	require.Empty(t, diags)

	wallet := root.Contracts[1]
	ret := wallet.Funcs[0].Body.Stmts[0].(*ast.ReturnStmt)
	access := ret.Result.(*ast.MemberAccess)
	decl := info.ObjectOf(access)
	require.NotNil(t, decl)
	assert.Equal(t, "balance", decl.DeclName())
}

func TestBindPragmaVersionMismatchProducesWarning(t *testing.T) {
	_, _, diags := parseAndBind(t, `pragma glyph ^0.9.0;

contract C {}
`, "0.8.5")
	require.Len(t, diags, 1)
	assert.Equal(t, binder.SeverityWarning, diags[0].Severity)
}

func TestBindPragmaVersionSatisfiedProducesNoDiagnostic(t *testing.T) {
	_, _, diags := parseAndBind(t, `pragma glyph ^0.8.0;

contract C {}
`, "0.8.5")
	require.Empty(t, diags)
}
