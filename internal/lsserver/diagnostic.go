package lsserver

import "github.com/glyphlang/glyph-ls/internal/compiler"

// compileSource runs compile(path), then publishes every diagnostic the
// compiler produced as a single textDocument/publishDiagnostics
// notification, always emitted (even when empty) so stale markers clear on
// the client.
func (s *Server) compileSource(path string) error {
	if !s.compile(path) {
		return nil
	}
	text, _ := s.documents.Text(path)
	uri := s.uriFromPath(path)
	return s.publishDiagnostics(uri, diagnosticsForPath(s.diagnostics, path, text, s))
}

// diagnosticsForPath filters diags down to the ones whose own File.Path
// matches path and translates each into the wire Diagnostic shape,
// resolving severity and relatedInformation.
func diagnosticsForPath(diags []compiler.Diagnostic, path, text string, s *Server) []Diagnostic {
	var out []Diagnostic
	for _, d := range diags {
		if d.File == nil || d.File.Path != path {
			continue
		}
		out = append(out, Diagnostic{
			Severity: severityToWire(d.Severity),
			Source:   "glyphc",
			Message:  d.Message,
			Range: Range{
				Start: positionFromOffset(text, d.Start),
				End:   positionFromOffset(text, d.End),
			},
			RelatedInformation: relatedInformationForWire(d.Related, s),
		})
	}
	return out
}

// severityToWire maps a compiler severity to LSP's 1..4 scale; anything
// unknown is reported as an error.
func severityToWire(sev compiler.Severity) int {
	switch sev {
	case compiler.SeverityError:
		return 1
	case compiler.SeverityWarning:
		return 2
	case compiler.SeverityInformation:
		return 3
	case compiler.SeverityHint:
		return 4
	default:
		return 1
	}
}

func relatedInformationForWire(related []compiler.RelatedDiagnostic, s *Server) []DiagnosticRelatedInformation {
	if len(related) == 0 {
		return nil
	}
	out := make([]DiagnosticRelatedInformation, 0, len(related))
	for _, r := range related {
		if r.File == nil {
			continue
		}
		out = append(out, DiagnosticRelatedInformation{
			Location: s.locationForSourceSpan(r.File, r.Start, r.End),
			Message:  r.Message,
		})
	}
	return out
}
