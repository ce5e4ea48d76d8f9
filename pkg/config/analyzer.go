// Package config loads the YAML-configurable knobs that sit around the
// scope analysis core: which language mode to assume when a program
// carries no "use strict" pragma of its own, whether the debug-evaluate
// short-circuit is available, and where the scope cache lives. Mirrors
// the teacher's pkg/parser and pkg/rewriter config loaders: a plain
// struct with yaml tags, unmarshaled with gopkg.in/yaml.v3.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// AnalyzerOptions configures a run of cmd/quill-scope.
type AnalyzerOptions struct {
	// DefaultLanguageMode is "sloppy" or "strict", used for any program
	// (or module fragment analyzed outside a module) that declares
	// neither explicitly.
	DefaultLanguageMode string `yaml:"defaultLanguageMode,omitempty"`

	// AllowDebugEvaluate is read from the options file and defaults to
	// off. cmd/quill-scope does not consult it, and no scope that
	// pkg/ast builds is marked as a debug-evaluate scope.
	AllowDebugEvaluate bool `yaml:"allowDebugEvaluate,omitempty"`

	// EmitTree is read from the options file. cmd/quill-scope does not
	// consult it: every pkg/scopeprint format prints the whole tree.
	EmitTree bool `yaml:"emitTree,omitempty"`

	// PrintFormat selects a pkg/scopeprint writer: "json", "dot", or
	// "ascii".
	PrintFormat string `yaml:"printFormat,omitempty"`

	// StorePath is the SQLite file pkg/scopestore opens for caching
	// serialized ScopeInfo records across runs. Empty disables the
	// cache.
	StorePath string `yaml:"storePath,omitempty"`

	Substitutions *NameSubstitutions `yaml:"substitutions,omitempty"`
}

// NameSubstitutions maps well-known dynamic global names to
// replacements. It is read from the options file; pkg/scopeprint does
// not apply it, and printed names are never renamed.
type NameSubstitutions struct {
	Global map[string]string `yaml:"global,omitempty"`
}

// Default returns the options a bare invocation of cmd/quill-scope uses
// when no config file is given.
func Default() *AnalyzerOptions {
	return &AnalyzerOptions{
		DefaultLanguageMode: "sloppy",
		PrintFormat:         "ascii",
	}
}

// LoadAnalyzerOptions reads and parses a YAML options file.
func LoadAnalyzerOptions(filename string) (*AnalyzerOptions, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	opts := Default()
	if err := yaml.Unmarshal(data, opts); err != nil {
		return nil, err
	}
	return opts, nil
}

// Validate reports whether the loaded options are internally consistent.
func (o *AnalyzerOptions) Validate() error {
	switch o.DefaultLanguageMode {
	case "sloppy", "strict":
	default:
		return fmt.Errorf("config: defaultLanguageMode must be \"sloppy\" or \"strict\", got %q", o.DefaultLanguageMode)
	}
	switch o.PrintFormat {
	case "json", "dot", "ascii", "":
	default:
		return fmt.Errorf("config: printFormat must be \"json\", \"dot\", or \"ascii\", got %q", o.PrintFormat)
	}
	return nil
}
