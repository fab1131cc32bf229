package lsserver

import (
	"github.com/glyphlang/glyph-ls/internal/compiler"
	"github.com/glyphlang/glyph-ls/internal/compiler/ast"
	"github.com/glyphlang/glyph-ls/internal/compiler/parser"
)

// compile resets the compiler state, installs a fresh frontend instance
// parameterized by the current settings/remappings/document snapshot, and
// runs it to the Analysis level. It returns false only when path has no
// document; otherwise it returns true regardless of whether the compile
// produced errors, which are read through s.diagnostics.
func (s *Server) compile(path string) bool {
	if _, ok := s.documents.Text(path); !ok {
		s.tracer.Error("compile requested for unopened document {Path}", path)
		return false
	}

	s.ingestResolvedImports()
	sources := s.documents.Snapshot()

	s.frontend.Reset()
	s.frontend.Configure(s.settings, s.remappings)
	s.frontend.SetSources(sources)
	program, diags := s.frontend.CompileTo(compiler.Analysis)
	s.program = program
	s.diagnostics = diags
	return true
}

// ingestResolvedImports reads every import target that is not yet in the
// document store from disk through the import resolver and adds it as a
// non-open store entry. Resolved imports become real documents rather than
// a side channel into SetSources, so the snapshot handed to the frontend
// is always exactly the document store's contents and every location a
// query hands back names a path present in the store. It runs a cheap
// pre-parse of each document to discover import paths, since the compiler
// frontend only resolves imports against the source map it is handed, not
// against the disk itself.
func (s *Server) ingestResolvedImports() {
	if s.resolver == nil {
		return
	}
	// Fixed-point: a newly resolved import file can itself import another
	// file the resolver hasn't supplied yet. Bounded to a handful of
	// passes so a cyclic or unresolvable remapping can't loop forever.
	for pass := 0; pass < 4; pass++ {
		added := false
		for path, text := range s.documents.Snapshot() {
			sf := &ast.SourceFile{Path: path, Text: text}
			root, _ := parser.Parse(sf)
			if root == nil {
				continue
			}
			for _, imp := range root.Imports {
				resolved := compiler.Resolve(imp.Path, s.remappings)
				if _, ok := s.documents.Text(resolved); ok {
					continue
				}
				text, err := s.resolver.Resolve(resolved)
				if err != nil {
					continue
				}
				s.documents.FullUpdate(resolved, text)
				added = true
			}
		}
		if !added {
			return
		}
	}
}

// fileForNode finds the SourceFile owning node by searching the last
// compiled program's files. Declarations reached through a cross-file
// IdentifierPath can belong to a different file than the one a query
// started from, so this cannot simply reuse the querying file's
// SourceFile.
func (s *Server) fileForNode(node ast.Node) *ast.SourceFile {
	if s.program == nil || node == nil {
		return nil
	}
	for path, root := range s.program.Files {
		found := false
		ast.Inspect(root, func(n ast.Node) bool {
			if n == node {
				found = true
				return false
			}
			return !found
		})
		if found {
			return s.program.Sources[path]
		}
	}
	return nil
}
