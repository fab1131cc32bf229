package compiler

import "fmt"

// Settings holds the compile settings the client can reconfigure: EVM
// version, revert-strings mode, and the model checker. Each field has a
// default and is updated only when the incoming value parses successfully.
type Settings struct {
	EVMVersion        string
	RevertStringsMode string
	ModelChecker      ModelCheckerSettings
}

// ModelCheckerSettings groups the four model-checker configuration keys.
type ModelCheckerSettings struct {
	Contracts string
	Engine    string
	Targets   string
	TimeoutMS uint64
}

// DefaultSettings returns the settings a fresh server starts with.
func DefaultSettings() Settings {
	return Settings{
		EVMVersion:        "cancun",
		RevertStringsMode: "default",
		ModelChecker: ModelCheckerSettings{
			Engine: "none",
		},
	}
}

var knownEVMVersions = map[string]bool{
	"homestead": true, "byzantium": true, "constantinople": true,
	"petersburg": true, "istanbul": true, "berlin": true, "london": true,
	"paris": true, "shanghai": true, "cancun": true,
}

// ParseEVMVersion validates an EVM version name.
func ParseEVMVersion(s string) (string, bool) {
	if knownEVMVersions[s] {
		return s, true
	}
	return "", false
}

var knownRevertStringsModes = map[string]bool{
	"default": true, "strip": true, "debug": true, "verboseDebug": true,
}

// ParseRevertStringsMode validates the `revertStrings` key.
func ParseRevertStringsMode(s string) (string, bool) {
	if knownRevertStringsModes[s] {
		return s, true
	}
	return "", false
}

var knownModelCheckerEngines = map[string]bool{
	"all": true, "bmc": true, "chc": true, "none": true,
}

// ParseModelCheckerEngine validates the `model-checker-engine` key.
func ParseModelCheckerEngine(s string) (string, bool) {
	if knownModelCheckerEngines[s] {
		return s, true
	}
	return "", false
}

// ParseModelCheckerTargets validates the `model-checker-targets` key: any
// non-empty string is accepted as is; its comma-separated entries are not
// checked against a vocabulary.
func ParseModelCheckerTargets(s string) (string, bool) {
	if s == "" {
		return "", false
	}
	return s, true
}

// ParseModelCheckerContracts validates the `model-checker-contracts`
// selector (a "path:Contract" pair list, solc-style); this core does not
// interpret it, and accepts any non-empty input without checking its form.
func ParseModelCheckerContracts(s string) (string, bool) {
	if s == "" {
		return "", false
	}
	return s, true
}

// Remapping is one import-remapping rule, a prefix rewrite applied to
// import paths before resolution, parsed from the solc-style
// "prefix=target" string form.
type Remapping struct {
	Prefix string
	Target string
}

// ParseRemapping parses one "prefix=target" remapping string.
func ParseRemapping(s string) (Remapping, error) {
	for i := 0; i < len(s); i++ {
		if s[i] == '=' {
			return Remapping{Prefix: s[:i], Target: s[i+1:]}, nil
		}
	}
	return Remapping{}, fmt.Errorf("compiler: malformed remapping %q, want \"prefix=target\"", s)
}

// Resolve rewrites path using the first remapping whose Prefix matches,
// in list order (solc's own remapping resolution order).
func Resolve(path string, remappings []Remapping) string {
	for _, r := range remappings {
		if len(path) >= len(r.Prefix) && path[:len(r.Prefix)] == r.Prefix {
			return r.Target + path[len(r.Prefix):]
		}
	}
	return path
}
