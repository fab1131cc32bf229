// Package refcollect collects symbol references: given a declaration and a
// name, walk one AST root and return every occurrence that semantic
// analysis bound to that declaration.
package refcollect

import (
	"github.com/glyphlang/glyph-ls/internal/compiler/ast"
	"github.com/glyphlang/glyph-ls/internal/compiler/binder"
)

// Occurrence is one matched textual occurrence: the node that carried the
// reference (useful to the documentHighlight handler's read/write
// classification) and the byte span of the matched name within it.
type Occurrence struct {
	Node  ast.Node
	Start int
	End   int
}

// Collect is pure: no I/O, no mutation of root or info. The declaration's
// own name-location is always included as the first occurrence.
func Collect(root *ast.File, info *binder.Info, decl ast.Decl, name string) []Occurrence {
	if root == nil || decl == nil {
		return nil
	}

	occurrences := []Occurrence{{Node: decl, Start: decl.NamePos(), End: decl.NameEnd()}}

	ast.Inspect(root, func(n ast.Node) bool {
		switch node := n.(type) {
		case *ast.Identifier:
			if node.Name == name && info.ObjectOf(node) == decl {
				occurrences = append(occurrences, Occurrence{Node: node, Start: node.Pos(), End: node.End()})
			}
		case *ast.IdentifierPath:
			if node.TerminalName() == name && info.ObjectOf(node) == decl {
				occurrences = append(occurrences, Occurrence{Node: node, Start: node.TerminalPos(), End: node.TerminalEnd()})
			}
		case *ast.MemberAccess:
			if node.Name == name && info.ObjectOf(node) == decl {
				occurrences = append(occurrences, Occurrence{Node: node, Start: node.NameStart, End: node.NameEndOffset})
			}
		}
		return true
	})

	return occurrences
}
