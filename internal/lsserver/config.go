package lsserver

import "github.com/glyphlang/glyph-ls/internal/compiler"

// configPayload is the shape shared by initializationOptions and
// workspace/didChangeConfiguration's settings object. Keys are read
// individually so an unrecognized key is ignored silently rather than
// rejecting the whole payload.
type configPayload struct {
	EVM                   *string  `json:"evm"`
	RevertStrings         *string  `json:"revertStrings"`
	Remapping             []string `json:"remapping"`
	ModelCheckerContracts *string  `json:"model-checker-contracts"`
	ModelCheckerEngine    *string  `json:"model-checker-engine"`
	ModelCheckerTargets   *string  `json:"model-checker-targets"`
	ModelCheckerTimeout   *uint64  `json:"model-checker-timeout"`
}

// applyConfiguration parses raw (from either initializationOptions or
// workspace/didChangeConfiguration) and updates s.settings/s.remappings.
// Each recognized field replaces the current value iff it parses
// successfully; unknown keys and unparseable values are ignored silently.
func (s *Server) applyConfiguration(raw []byte) {
	var payload configPayload
	if err := unmarshalLenient(raw, &payload); err != nil {
		return
	}

	if payload.EVM != nil {
		if v, ok := compiler.ParseEVMVersion(*payload.EVM); ok {
			s.settings.EVMVersion = v
		}
	}
	if payload.RevertStrings != nil {
		if v, ok := compiler.ParseRevertStringsMode(*payload.RevertStrings); ok {
			s.settings.RevertStringsMode = v
		}
	}
	for _, raw := range payload.Remapping {
		// Appends rather than replaces: repeated configuration changes
		// accumulate remappings.
		if r, err := compiler.ParseRemapping(raw); err == nil {
			s.remappings = append(s.remappings, r)
		}
	}
	if payload.ModelCheckerContracts != nil {
		if v, ok := compiler.ParseModelCheckerContracts(*payload.ModelCheckerContracts); ok {
			s.settings.ModelChecker.Contracts = v
		}
	}
	if payload.ModelCheckerEngine != nil {
		if v, ok := compiler.ParseModelCheckerEngine(*payload.ModelCheckerEngine); ok {
			s.settings.ModelChecker.Engine = v
		}
	}
	if payload.ModelCheckerTargets != nil {
		if v, ok := compiler.ParseModelCheckerTargets(*payload.ModelCheckerTargets); ok {
			s.settings.ModelChecker.Targets = v
		}
	}
	if payload.ModelCheckerTimeout != nil {
		s.settings.ModelChecker.TimeoutMS = *payload.ModelCheckerTimeout
	}
}
