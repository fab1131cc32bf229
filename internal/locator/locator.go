// Package locator finds AST nodes by source position: given a byte offset,
// return the node with the smallest source range containing it.
package locator

import "github.com/glyphlang/glyph-ls/internal/compiler/ast"

// NodeAt returns the innermost node of root enclosing the byte offset
// [offset, offset), or nil if root is nil or no node encloses the position.
func NodeAt(root *ast.File, offset int) ast.Node {
	if root == nil {
		return nil
	}
	path, _ := ast.PathEnclosingInterval(root, offset, offset)
	if len(path) == 0 {
		return nil
	}
	return path[len(path)-1]
}

// PathAt returns the full path of enclosing nodes from the root down to
// the innermost node at offset: path[0] is root, path[len(path)-1] is the
// innermost node. Query handlers that need to know a node's ancestry (e.g.
// read/write classification for documentHighlight) use this instead of
// NodeAt.
func PathAt(root *ast.File, offset int) []ast.Node {
	if root == nil {
		return nil
	}
	path, _ := ast.PathEnclosingInterval(root, offset, offset)
	return path
}
