// Package compiler wraps a Glyph lexer/parser/binder pipeline behind the
// four-operation Frontend contract the server drives: reset, configure,
// set sources, compile to a requested analysis level.
package compiler

import (
	"github.com/Masterminds/semver/v3"

	"github.com/glyphlang/glyph-ls/internal/compiler/ast"
	"github.com/glyphlang/glyph-ls/internal/compiler/binder"
	"github.com/glyphlang/glyph-ls/internal/compiler/parser"
)

// FrontendVersion is the version this reference frontend reports itself
// as, checked against each source file's `pragma glyph` constraint.
const FrontendVersion = "0.8.7"

// AnalysisLevel is the compilation depth requested of CompileTo. The server
// only ever asks for Analysis, but the parameter keeps the contract open
// for a frontend that also generates code.
type AnalysisLevel int

const (
	// Analysis runs parsing and binding, producing a type-checked AST with
	// no code generation.
	Analysis AnalysisLevel = iota
)

// Severity aliases binder.Severity so callers outside the compiler package
// never need to import the binder package directly.
type Severity = binder.Severity

const (
	SeverityError       = binder.SeverityError
	SeverityWarning     = binder.SeverityWarning
	SeverityInformation = binder.SeverityInformation
	SeverityHint        = binder.SeverityHint
)

// Diagnostic is one compiler finding, positioned by byte offset within a
// specific source file. Line/column translation and URI-qualification
// happen in the query layer.
type Diagnostic struct {
	Severity Severity
	Message  string
	File     *ast.SourceFile
	Start    int
	End      int
	Related  []RelatedDiagnostic
}

// RelatedDiagnostic is a secondary reference attached to a Diagnostic,
// published as one `relatedInformation` entry.
type RelatedDiagnostic struct {
	File    *ast.SourceFile
	Start   int
	End     int
	Message string
}

// Program is the result of one compile: every file's AST plus its binder
// Info, keyed by the same canonical path used in the document store.
type Program struct {
	Files   map[string]*ast.File
	Sources map[string]*ast.SourceFile
	Infos   map[string]*binder.Info
}

// InfoFor returns the semantic Info for path, or nil if the file wasn't
// part of the last compile.
func (p *Program) InfoFor(path string) *binder.Info {
	if p == nil {
		return nil
	}
	return p.Infos[path]
}

// Frontend is the compiler frontend as the server sees it: four operations,
// nothing else. The server interacts with it only through this interface,
// never through glyphFrontend's concrete fields, so an alternative
// implementation (a real toolchain binding, a test double) can stand in
// without touching any other package.
type Frontend interface {
	Reset()
	Configure(settings Settings, remappings []Remapping)
	SetSources(sources map[string]string)
	CompileTo(level AnalysisLevel) (*Program, []Diagnostic)
}

// glyphFrontend is the reference Frontend implementation: lexer → parser →
// binder over the fictitious Glyph smart-contract language.
type glyphFrontend struct {
	version    *semver.Version
	settings   Settings
	remappings []Remapping
	sources    map[string]string
}

// NewFrontend builds the reference Frontend, reporting itself as
// FrontendVersion for pragma checks.
func NewFrontend() Frontend {
	return &glyphFrontend{version: semver.MustParse(FrontendVersion), settings: DefaultSettings()}
}

func (f *glyphFrontend) Reset() {
	f.sources = nil
}

func (f *glyphFrontend) Configure(settings Settings, remappings []Remapping) {
	f.settings = settings
	f.remappings = remappings
}

func (f *glyphFrontend) SetSources(sources map[string]string) {
	f.sources = sources
}

// CompileTo parses and binds every source, resolving import directives
// against the (remapped) source set and cross-file contract member
// access against the full program's declared contracts. It never returns
// an error: a compile that fails entirely still returns a Program with a
// diagnostic list.
func (f *glyphFrontend) CompileTo(level AnalysisLevel) (*Program, []Diagnostic) {
	program := &Program{
		Files:   map[string]*ast.File{},
		Sources: map[string]*ast.SourceFile{},
		Infos:   map[string]*binder.Info{},
	}
	var diags []Diagnostic

	for path, text := range f.sources {
		sf := &ast.SourceFile{Path: path, Text: text}
		program.Sources[path] = sf
	}

	for path := range f.sources {
		sf := program.Sources[path]
		root, syntaxDiags := parser.Parse(sf)
		program.Files[path] = root
		for _, d := range syntaxDiags {
			diags = append(diags, Diagnostic{Severity: SeverityError, Message: d.Message, File: sf, Start: d.Start, End: d.End})
		}
	}

	// Resolve imports against the (remapped) source set before binding so
	// MemberAccess/IdentifierPath resolution can follow them.
	for _, root := range program.Files {
		for _, imp := range root.Imports {
			resolved := Resolve(imp.Path, f.remappings)
			if sf, ok := program.Sources[resolved]; ok {
				imp.ResolvedFile = sf
			}
		}
	}

	contracts := map[string]*ast.ContractDecl{}
	for _, root := range program.Files {
		for _, c := range root.Contracts {
			contracts[c.Name] = c
		}
	}

	for path, root := range program.Files {
		info, semaDiags := binder.Bind(root, contracts, f.version)
		program.Infos[path] = info
		sf := program.Sources[path]
		for _, d := range semaDiags {
			diags = append(diags, Diagnostic{Severity: d.Severity, Message: d.Message, File: sf, Start: d.Start, End: d.End})
		}
	}

	return program, diags
}
