// Package engine defines the contract between the evaluators and the script engine adapters,
// and the policy used to pick an engine for a script resource.
package engine

import (
	"context"
	"fmt"

	"github.com/robbyt/go-scripting/execution/bindings"
)

// Engine is a script runtime that can evaluate source against an evaluation context.
//
// Implementations must not keep per-evaluation state between calls: a single registered Engine
// serves every evaluation that resolves to it, possibly from several goroutines at once.
type Engine interface {
	// Metadata describes the names and file extensions the engine is registered under.
	Metadata() Metadata

	// Eval runs the source and returns the value the script produced. Failures reported by the
	// underlying runtime are returned as-is, or as a *ScriptExecutionError when the adapter can
	// add position information.
	Eval(ctx context.Context, src Source, sctx *bindings.Context) (any, error)
}

// Metadata describes an engine for registration and listing.
type Metadata struct {
	// Name is the canonical engine name, e.g. "goja"
	Name string

	// Language is a human readable language name, e.g. "JavaScript"
	Language string

	// Names are the aliases accepted by an explicit engine lookup. Name is always included.
	Names []string

	// Extensions are resource suffixes (without the leading dot) mapped to this engine.
	Extensions []string

	// Binary engines receive the raw resource bytes instead of decoded text.
	Binary bool
}

func (m Metadata) String() string {
	return fmt.Sprintf("%s (%s)", m.Name, m.Language)
}

// Source is one script body handed to an engine.
type Source struct {
	// Name identifies where the body came from; used in diagnostics.
	Name string

	// Body is the decoded script text, or raw bytes for binary engines.
	Body []byte
}

// Text returns the body as a string.
func (s Source) Text() string {
	return string(s.Body)
}
