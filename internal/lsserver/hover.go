package lsserver

import (
	"encoding/json"
	"fmt"

	"github.com/glyphlang/glyph-ls/internal/compiler/ast"
	"github.com/glyphlang/glyph-ls/internal/compiler/binder"
	"github.com/glyphlang/glyph-ls/internal/locator"
	"github.com/glyphlang/glyph-ls/jsonrpc2"
)

// dispatchHover unmarshals the call's TextDocumentPositionParams and replies
// with its result.
func (s *Server) dispatchHover(c *jsonrpc2.Call) error {
	var params HoverParams
	if err := json.Unmarshal(c.Params, &params); err != nil {
		return s.replyError(c.ID, jsonrpc2.NewError(jsonrpc2.CodeInvalidParams, "%s", err))
	}
	result, err := s.textDocumentHover(params)
	if err != nil {
		return s.replyError(c.ID, err)
	}
	return s.replyResult(c.ID, result)
}

// textDocumentHover handles textDocument/hover: locate the node, produce a
// markdown string by variant: a declaration's own documentation text, or
// its type string when it has none; for Identifier/IdentifierPath/
// MemberAccess, a human-readable type string of the referenced entity. An
// empty string means an empty hover, not an error.
func (s *Server) textDocumentHover(params HoverParams) (*Hover, error) {
	path := s.pathFromDocumentURI(params.TextDocument.URI)
	if path == "" || !s.compile(path) {
		return &Hover{}, nil
	}
	text, _ := s.documents.Text(path)
	offset, ok := offsetFromPosition(text, params.Position)
	if !ok {
		return &Hover{}, nil
	}
	root := s.program.Files[path]
	node := locator.NodeAt(root, offset)
	if node == nil {
		return &Hover{}, nil
	}
	info := s.program.InfoFor(path)

	value, hoverNode := hoverContent(node, info)
	if value == "" {
		return &Hover{}, nil
	}
	return &Hover{
		Contents: MarkupContent{Kind: "markdown", Value: value},
		Range:    hoverRange(text, hoverNode),
	}, nil
}

// hoverContent dispatches by node variant and returns the markdown body
// plus the node whose span the reply's Range should cover.
func hoverContent(node ast.Node, info *binder.Info) (string, ast.Node) {
	if decl, ok := node.(ast.Decl); ok {
		if text := docTextOf(decl); text != "" {
			return text, node
		}
		// No doc comment: fall back to the same type string a reference to
		// this declaration would show, so hovering on the declaration site
		// itself is never less informative than hovering on a use of it.
		if text := typeStringOf(decl); text != "" {
			return text, node
		}
	}

	switch n := node.(type) {
	case *ast.Identifier:
		if info == nil {
			return "", nil
		}
		if d := info.ObjectOf(n); d != nil {
			return typeStringOf(d), n
		}
	case *ast.IdentifierPath:
		if info == nil {
			return "", nil
		}
		if d := info.ObjectOf(n); d != nil {
			return typeStringOf(d), n
		}
	case *ast.MemberAccess:
		if info == nil {
			return "", nil
		}
		if d := info.ObjectOf(n); d != nil {
			return typeStringOf(d), n
		}
	}
	return "", nil
}

// docTextOf returns decl's own documentation comment, or "" if it has none.
func docTextOf(decl ast.Decl) string {
	switch d := decl.(type) {
	case *ast.ContractDecl:
		return d.Doc
	case *ast.VarDecl:
		return d.Doc
	case *ast.FuncDecl:
		return d.Doc
	default:
		return ""
	}
}

// typeStringOf builds a short, unqualified type string for the referenced
// entity.
func typeStringOf(decl ast.Decl) string {
	switch d := decl.(type) {
	case *ast.ContractDecl:
		return fmt.Sprintf("contract %s", d.Name)
	case *ast.VarDecl:
		return fmt.Sprintf("%s %s", d.TypeName, d.Name)
	case *ast.ParamDecl:
		return fmt.Sprintf("%s %s", d.TypeName, d.Name)
	case *ast.FuncDecl:
		return fmt.Sprintf("function %s(%s)", d.Name, paramList(d.Params))
	default:
		return ""
	}
}

func paramList(params []*ast.ParamDecl) string {
	s := ""
	for i, p := range params {
		if i > 0 {
			s += ", "
		}
		s += p.TypeName + " " + p.Name
	}
	return s
}

// hoverRange covers node's full span, or nil when node is nil (no range
// narrows the reply).
func hoverRange(text string, node ast.Node) *Range {
	if node == nil {
		return nil
	}
	start := positionFromOffset(text, node.Pos())
	end := positionFromOffset(text, node.End())
	return &Range{Start: start, End: end}
}
