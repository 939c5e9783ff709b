// Package engines wires the built-in engine adapters into a registry.
package engines

import (
	"fmt"
	"log/slog"

	"github.com/robbyt/go-scripting/engine"
	"github.com/robbyt/go-scripting/engines/expr"
	"github.com/robbyt/go-scripting/engines/extism"
	"github.com/robbyt/go-scripting/engines/goja"
	"github.com/robbyt/go-scripting/engines/hcl"
	"github.com/robbyt/go-scripting/engines/risor"
	"github.com/robbyt/go-scripting/engines/starlark"
	"github.com/robbyt/go-scripting/internal/helpers"
)

// NewRegistry creates a registry holding every built-in engine with its default options. The
// handler is shared by the registry and the engines; nil selects the default text handler.
func NewRegistry(handler slog.Handler) (*engine.Registry, error) {
	handler, _ = helpers.SetupLogger(handler, "engines", "")

	builtins, err := newBuiltins(handler)
	if err != nil {
		return nil, err
	}

	reg := engine.NewRegistry(handler)
	for _, e := range builtins {
		if err := reg.Register(e); err != nil {
			return nil, fmt.Errorf("failed to register %s: %w", e.Metadata().Name, err)
		}
	}
	return reg, nil
}

func newBuiltins(handler slog.Handler) ([]engine.Engine, error) {
	gojaEngine, err := goja.New(goja.WithLogHandler(handler))
	if err != nil {
		return nil, fmt.Errorf("failed to create goja engine: %w", err)
	}
	starlarkEngine, err := starlark.New(starlark.WithLogHandler(handler))
	if err != nil {
		return nil, fmt.Errorf("failed to create starlark engine: %w", err)
	}
	risorEngine, err := risor.New(risor.WithLogHandler(handler))
	if err != nil {
		return nil, fmt.Errorf("failed to create risor engine: %w", err)
	}
	extismEngine, err := extism.New(extism.WithLogHandler(handler))
	if err != nil {
		return nil, fmt.Errorf("failed to create extism engine: %w", err)
	}
	hclEngine, err := hcl.New(hcl.WithLogHandler(handler))
	if err != nil {
		return nil, fmt.Errorf("failed to create hcl engine: %w", err)
	}
	exprEngine, err := expr.New(expr.WithLogHandler(handler))
	if err != nil {
		return nil, fmt.Errorf("failed to create expr engine: %w", err)
	}

	return []engine.Engine{gojaEngine, starlarkEngine, risorEngine, extismEngine, hclEngine, exprEngine}, nil
}
