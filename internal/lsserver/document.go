package lsserver

// didOpen inserts or replaces path's buffer, then triggers a compile so
// diagnostics for the freshly opened document go out immediately.
func (s *Server) didOpen(params *DidOpenTextDocumentParams) error {
	path := s.pathFromDocumentURI(params.TextDocument.URI)
	if path == "" {
		return nil
	}
	s.documents.Open(path, params.TextDocument.Text)
	return s.compileSource(path)
}

// didChange applies each content change in order to the same buffer, then
// issues exactly one compile regardless of how many changes were in the
// batch. An empty batch issues no compile.
func (s *Server) didChange(params *DidChangeTextDocumentParams) error {
	path := s.pathFromDocumentURI(params.TextDocument.URI)
	if path == "" {
		return nil
	}
	if len(params.ContentChanges) == 0 {
		return nil
	}

	for _, change := range params.ContentChanges {
		if change.Range == nil {
			s.documents.FullUpdate(path, change.Text)
			continue
		}
		if err := s.documents.RangeUpdate(path,
			change.Range.Start.Line, change.Range.Start.Character,
			change.Range.End.Line, change.Range.End.Character,
			change.Text,
		); err != nil {
			s.tracer.Error("didChange: range update for {Path} failed: {Error}", path, err)
			return nil
		}
	}

	return s.compileSource(path)
}

// didClose clears path's open flag and nothing else: the buffer's
// last-synced contents remain available as an import source for other
// open documents.
func (s *Server) didClose(params *DidCloseTextDocumentParams) {
	path := s.pathFromDocumentURI(params.TextDocument.URI)
	if path == "" {
		return
	}
	s.documents.Close(path)
}
