package lsserver

import (
	"encoding/json"
	"strings"

	"github.com/glyphlang/glyph-ls/internal/buffer"
	"github.com/glyphlang/glyph-ls/internal/compiler/ast"
)

// unmarshalLenient unmarshals raw into v, treating an empty or "null"
// payload as a successful no-op the way LSP's optional params are meant
// to be handled (a missing initializationOptions object is not an error).
func unmarshalLenient(raw []byte, v any) error {
	if len(raw) == 0 {
		return nil
	}
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return nil
	}
	return json.Unmarshal(raw, v)
}

// pathFromDocumentURI resolves a textDocument.uri to the canonical key
// used in the document store: the absolute path with the server's base
// path prefix stripped when present. Non-file:// URIs resolve to "", which
// every handler treats as a missing document and answers with an empty
// result.
func (s *Server) pathFromDocumentURI(uri string) string {
	p := pathFromFileURI(uri)
	if p == "" {
		return ""
	}
	if s.basePath != "" && strings.HasPrefix(p, s.basePath) {
		rest := strings.TrimPrefix(p, s.basePath)
		return strings.TrimPrefix(rest, "/")
	}
	return p
}

// uriFromPath rebuilds a file:// URI from a canonical document-store path,
// the inverse of pathFromDocumentURI.
func (s *Server) uriFromPath(path string) string {
	if s.basePath == "" || strings.HasPrefix(path, "/") {
		return "file://" + path
	}
	return "file://" + strings.TrimSuffix(s.basePath, "/") + "/" + path
}

// positionFromOffset converts a byte offset within file's source text into
// an LSP Position.
func positionFromOffset(sourceText string, offset int) Position {
	line, col := buffer.PositionOf(sourceText, offset)
	return Position{Line: line, Character: col}
}

// offsetFromPosition converts an LSP Position into a byte offset within
// text. A stale position from a client that raced an edit reports !ok and
// degrades to "nothing found" rather than an error.
func offsetFromPosition(text string, pos Position) (int, bool) {
	offset, err := buffer.Translate(text, pos.Line, pos.Character)
	if err != nil {
		return 0, false
	}
	return offset, true
}

// locationForSourceSpan builds a Location for [start, end) within file,
// translating byte offsets back to line/column against file's own text.
func (s *Server) locationForSourceSpan(file *ast.SourceFile, start, end int) Location {
	return Location{
		URI: s.uriFromPath(file.Path),
		Range: Range{
			Start: positionFromOffset(file.Text, start),
			End:   positionFromOffset(file.Text, end),
		},
	}
}

// locationForNode builds a Location covering node's full span within file.
func (s *Server) locationForNode(file *ast.SourceFile, node ast.Node) Location {
	return s.locationForSourceSpan(file, node.Pos(), node.End())
}

// locationForDeclName builds a Location covering decl's name span.
func (s *Server) locationForDeclName(file *ast.SourceFile, decl ast.Decl) Location {
	return s.locationForSourceSpan(file, decl.NamePos(), decl.NameEnd())
}
