package lsserver

import (
	"encoding/json"

	"github.com/glyphlang/glyph-ls/internal/compiler/ast"
	"github.com/glyphlang/glyph-ls/internal/compiler/binder"
	"github.com/glyphlang/glyph-ls/internal/locator"
	"github.com/glyphlang/glyph-ls/internal/refcollect"
	"github.com/glyphlang/glyph-ls/jsonrpc2"
)

// dispatchDocumentHighlight unmarshals the call's TextDocumentPositionParams
// and replies with its result.
func (s *Server) dispatchDocumentHighlight(c *jsonrpc2.Call) error {
	var params DocumentHighlightParams
	if err := json.Unmarshal(c.Params, &params); err != nil {
		return s.replyError(c.ID, jsonrpc2.NewError(jsonrpc2.CodeInvalidParams, "%s", err))
	}
	result, err := s.textDocumentDocumentHighlight(params)
	if err != nil {
		return s.replyError(c.ID, err)
	}
	return s.replyResult(c.ID, result)
}

// textDocumentDocumentHighlight handles textDocument/documentHighlight:
// like references, but scoped to the single AST unit of the requested
// path, and additionally dispatches on IdentifierPath (references and
// definition only dispatch on Identifier/MemberAccess at the cursor;
// highlight also resolves a path expression under the cursor). Glyph has
// no enum or struct declarations, so there is no member-of-type highlight
// case; every occurrence this handler can resolve goes through the same
// declaration + collector path as references.
func (s *Server) textDocumentDocumentHighlight(params DocumentHighlightParams) (any, error) {
	highlights := []DocumentHighlight{}

	path := s.pathFromDocumentURI(params.TextDocument.URI)
	if path == "" || !s.compile(path) {
		return highlights, nil
	}
	text, _ := s.documents.Text(path)
	offset, ok := offsetFromPosition(text, params.Position)
	if !ok {
		return highlights, nil
	}
	root := s.program.Files[path]
	nodePath := locator.PathAt(root, offset)
	if len(nodePath) == 0 {
		return highlights, nil
	}
	node := nodePath[len(nodePath)-1]
	info := s.program.InfoFor(path)

	for _, decl := range highlightDeclsAtNode(node, info) {
		declFile := s.fileForNode(decl)
		for _, occ := range refcollect.Collect(root, info, decl, decl.DeclName()) {
			isDeclOccurrence := occ.Start == decl.NamePos() && occ.End == decl.NameEnd()
			// Highlights are scoped to the requested file: the declaration's
			// own name-location is only reportable here when it actually
			// lives in this file.
			if isDeclOccurrence && declFile != nil && declFile.Path != path {
				continue
			}
			occPath := locator.PathAt(root, occ.Start)
			highlights = append(highlights, DocumentHighlight{
				Range: Range{Start: positionFromOffset(text, occ.Start), End: positionFromOffset(text, occ.End)},
				Kind:  classifyHighlightKind(occPath),
			})
		}
	}
	return highlights, nil
}

// highlightDeclsAtNode is declsAtNode plus IdentifierPath dispatch and
// direct-declaration dispatch: the cursor landing on a declaration's own
// name (rather than a use of it) highlights every occurrence of that
// declaration too.
func highlightDeclsAtNode(node ast.Node, info *binder.Info) []ast.Decl {
	if info == nil {
		return nil
	}
	if p, ok := node.(*ast.IdentifierPath); ok {
		if d := info.ObjectOf(p); d != nil {
			return []ast.Decl{d}
		}
		return nil
	}
	if d, ok := node.(ast.Decl); ok {
		return []ast.Decl{d}
	}
	return declsAtNode(node, info)
}

// classifyHighlightKind assigns Read/Write/Text to one occurrence given
// its root-to-occurrence ancestry: a declaration's own name occurrence is
// always Write; an assignment's left-hand side is Write, its right-hand
// side Read; a call's callee or argument, an operand, a return value, or
// an expression statement is Read; anything else is Text.
func classifyHighlightKind(path []ast.Node) DocumentHighlightKind {
	if len(path) == 0 {
		return HighlightText
	}
	switch path[len(path)-1].(type) {
	case *ast.VarDecl, *ast.ParamDecl, *ast.FuncDecl, *ast.ContractDecl:
		return HighlightWrite
	}
	for i := len(path) - 2; i >= 0; i-- {
		switch p := path[i].(type) {
		case *ast.AssignStmt:
			if p.Lhs == path[i+1] {
				return HighlightWrite
			}
			return HighlightRead
		case *ast.CallExpr, *ast.BinaryExpr, *ast.ReturnStmt, *ast.ExprStmt:
			return HighlightRead
		}
	}
	return HighlightText
}
