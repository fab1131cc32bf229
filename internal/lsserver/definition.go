package lsserver

import (
	"github.com/glyphlang/glyph-ls/internal/compiler/ast"
	"github.com/glyphlang/glyph-ls/internal/compiler/binder"
	"github.com/glyphlang/glyph-ls/internal/locator"
)

// textDocumentDefinition handles textDocument/definition.
func (s *Server) textDocumentDefinition(params TextDocumentPositionParams) (any, error) {
	return s.locationsForNodeAtPosition(params)
}

// textDocumentImplementation handles textDocument/implementation. Glyph
// has no interface/implementation split, so definition and implementation
// share the identical node-variant dispatch and one resolution path.
func (s *Server) textDocumentImplementation(params TextDocumentPositionParams) (any, error) {
	return s.locationsForNodeAtPosition(params)
}

// locationsForNodeAtPosition locates the node at params' position and
// dispatches by its kind. It always returns a (possibly empty) slice,
// never nil, and never a protocol-level error: a missing document or
// unresolved node degrades to an empty result.
func (s *Server) locationsForNodeAtPosition(params TextDocumentPositionParams) ([]Location, error) {
	locs := []Location{}

	path := s.pathFromDocumentURI(params.TextDocument.URI)
	if path == "" || !s.compile(path) {
		return locs, nil
	}
	text, _ := s.documents.Text(path)
	offset, ok := offsetFromPosition(text, params.Position)
	if !ok {
		return locs, nil
	}
	root := s.program.Files[path]
	node := locator.NodeAt(root, offset)
	if node == nil {
		return locs, nil
	}
	info := s.program.InfoFor(path)

	if imp, ok := node.(*ast.ImportDirective); ok {
		if imp.ResolvedFile == nil {
			return locs, nil
		}
		locs = append(locs, s.locationForSourceSpan(imp.ResolvedFile, 0, 0))
		return locs, nil
	}

	for _, d := range declsAtNode(node, info) {
		if loc, ok := s.locationForDecl(d); ok {
			locs = append(locs, loc)
		}
	}
	return locs, nil
}

// declsAtNode resolves node to the declaration(s) semantic analysis bound
// it to, dispatching by node variant: an Identifier yields its referenced
// declaration plus every candidate; a MemberAccess yields its single
// referenced declaration; any other node yields none. Import directives
// are handled by the caller, since they resolve to a location directly
// rather than through a declaration.
func declsAtNode(node ast.Node, info *binder.Info) []ast.Decl {
	if info == nil {
		return nil
	}
	switch n := node.(type) {
	case *ast.Identifier:
		return info.CandidatesOf(n)
	case *ast.MemberAccess:
		if d := info.ObjectOf(n); d != nil {
			return []ast.Decl{d}
		}
	}
	return nil
}

// locationForDecl resolves decl's owning source file, which may differ
// from the querying file for a cross-file reference, and returns a
// Location covering its name span when valid, else its full span.
func (s *Server) locationForDecl(decl ast.Decl) (Location, bool) {
	file := s.fileForNode(decl)
	if file == nil {
		return Location{}, false
	}
	if decl.NamePos() >= decl.Pos() && decl.NameEnd() <= decl.End() && decl.NameEnd() > decl.NamePos() {
		return s.locationForDeclName(file, decl), true
	}
	return s.locationForNode(file, decl), true
}
