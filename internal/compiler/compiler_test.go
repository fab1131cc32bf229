package compiler_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glyphlang/glyph-ls/internal/compiler"
)

func TestCompileToProducesProgramAndNoDiagnosticsForValidSource(t *testing.T) {
	f := compiler.NewFrontend()
	f.Reset()
	f.Configure(compiler.DefaultSettings(), nil)
	f.SetSources(map[string]string{
		"a.glyph": "contract C {\n  uint x;\n  function get() {\n    return x;\n  }\n}\n",
	})

	program, diags := f.CompileTo(compiler.Analysis)
	require.Empty(t, diags)
	require.Contains(t, program.Files, "a.glyph")
	require.NotNil(t, program.InfoFor("a.glyph"))
}

func TestCompileToReportsUndefinedIdentifier(t *testing.T) {
	f := compiler.NewFrontend()
	f.Reset()
	f.Configure(compiler.DefaultSettings(), nil)
	f.SetSources(map[string]string{
		"a.glyph": "contract C {\n  function get() {\n    return missing;\n  }\n}\n",
	})

	_, diags := f.CompileTo(compiler.Analysis)
	require.Len(t, diags, 1)
	assert.Equal(t, compiler.SeverityError, diags[0].Severity)
}

func TestCompileToResolvesImportThroughRemapping(t *testing.T) {
	f := compiler.NewFrontend()
	f.Reset()
	remapping, err := compiler.ParseRemapping("lib/=vendor/lib/")
	require.NoError(t, err)
	f.Configure(compiler.DefaultSettings(), []compiler.Remapping{remapping})
	f.SetSources(map[string]string{
		"a.glyph":             `import "lib/math.glyph";` + "\ncontract C {}\n",
		"vendor/lib/math.glyph": "contract Math {}\n",
	})

	program, diags := f.CompileTo(compiler.Analysis)
	require.Empty(t, diags)
	imp := program.Files["a.glyph"].Imports[0]
	require.NotNil(t, imp.ResolvedFile)
	assert.Equal(t, "vendor/lib/math.glyph", imp.ResolvedFile.Path)
}

func TestCompileToReusesFreshStateAfterReset(t *testing.T) {
	f := compiler.NewFrontend()
	f.Configure(compiler.DefaultSettings(), nil)
	f.SetSources(map[string]string{"a.glyph": "contract A {}\n"})
	program, _ := f.CompileTo(compiler.Analysis)
	require.Contains(t, program.Files, "a.glyph")

	f.Reset()
	f.Configure(compiler.DefaultSettings(), nil)
	f.SetSources(map[string]string{"b.glyph": "contract B {}\n"})
	program2, _ := f.CompileTo(compiler.Analysis)
	assert.NotContains(t, program2.Files, "a.glyph")
	assert.Contains(t, program2.Files, "b.glyph")
}
