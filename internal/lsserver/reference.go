package lsserver

import (
	"encoding/json"

	"github.com/glyphlang/glyph-ls/internal/locator"
	"github.com/glyphlang/glyph-ls/internal/refcollect"
	"github.com/glyphlang/glyph-ls/jsonrpc2"
)

// dispatchReferences unmarshals a references call's ReferenceParams (which
// carries the extra includeDeclaration flag TextDocumentPositionParams
// doesn't have) and replies with its result.
func (s *Server) dispatchReferences(c *jsonrpc2.Call) error {
	var params ReferenceParams
	if err := json.Unmarshal(c.Params, &params); err != nil {
		return s.replyError(c.ID, jsonrpc2.NewError(jsonrpc2.CodeInvalidParams, "%s", err))
	}
	result, err := s.textDocumentReferences(params)
	if err != nil {
		return s.replyError(c.ID, err)
	}
	return s.replyResult(c.ID, result)
}

// textDocumentReferences handles textDocument/references: the same
// node-variant dispatch as definition, but for each declaration found, run
// the reference collector over the current source unit and accumulate
// locations. The declaration's own name-location is always part of the
// result, whether or not the client sent context.includeDeclaration.
// Returns an empty array when no node is found.
func (s *Server) textDocumentReferences(params ReferenceParams) (any, error) {
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
	sourceFile := s.program.Sources[path]

	for _, decl := range declsAtNode(node, info) {
		declFile := s.fileForNode(decl)
		for _, occ := range refcollect.Collect(root, info, decl, decl.DeclName()) {
			isDeclOccurrence := occ.Start == decl.NamePos() && occ.End == decl.NameEnd()
			// The declaration's own name-location may live in a different
			// file than the one this query was run against; every other
			// occurrence Collect finds was matched while walking root, so it
			// belongs to the querying file.
			file := sourceFile
			if isDeclOccurrence && declFile != nil {
				file = declFile
			}
			if file == nil {
				continue
			}
			locs = append(locs, s.locationForSourceSpan(file, occ.Start, occ.End))
		}
	}
	return locs, nil
}
