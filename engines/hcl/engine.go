// Package hcl evaluates HCL attribute files with github.com/hashicorp/hcl/v2.
//
// A script is a body of attributes. Every attribute expression is evaluated with the bindings as
// variables and a set of cty standard library functions, and the value of the script is a map of
// attribute names to their values. Blocks are not allowed. Bindings that are not valid identifiers
// or cannot be converted to cty are skipped with a warning.
package hcl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	hclLib "github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty/function"

	"github.com/robbyt/go-scripting/engine"
	"github.com/robbyt/go-scripting/execution/bindings"
	"github.com/robbyt/go-scripting/internal/helpers"
)

var _ engine.Engine = (*Engine)(nil)

// Engine evaluates HCL attribute files.
type Engine struct {
	functions  map[string]function.Function
	logHandler slog.Handler
	logger     *slog.Logger
}

// New creates an HCL engine with the provided options.
func New(opts ...FunctionalOption) (*Engine, error) {
	e := &Engine{}
	e.applyDefaults()

	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, fmt.Errorf("error applying hcl option: %w", err)
		}
	}

	if err := e.validate(); err != nil {
		return nil, fmt.Errorf("invalid hcl configuration: %w", err)
	}

	if e.logger != nil {
		e.logHandler = e.logger.Handler()
	} else {
		e.logHandler, e.logger = helpers.SetupLogger(e.logHandler, "hcl", "Engine")
	}
	return e, nil
}

func (e *Engine) String() string {
	return fmt.Sprintf("hcl.Engine{Functions: %d}", len(e.functions))
}

func (e *Engine) Metadata() engine.Metadata {
	return engine.Metadata{
		Name:       "hcl",
		Language:   "HCL",
		Names:      []string{"hcl"},
		Extensions: []string{"hcl"},
	}
}

// Eval parses the body and evaluates its attributes in source order. The context is checked
// before each attribute.
func (e *Engine) Eval(ctx context.Context, src engine.Source, sctx *bindings.Context) (any, error) {
	logger := e.logger.With("resource", src.Name)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	variables, skipped, err := toVariables(sctx.Vars())
	if err != nil {
		logger.Warn("skipping bindings that cannot be converted", "error", err)
	}
	if len(skipped) > 0 {
		logger.Warn("bindings are not valid HCL identifiers", "names", skipped)
	}

	file, diags := hclsyntax.ParseConfig(src.Body, src.Name, hclLib.InitialPos)
	if diags.HasErrors() {
		return nil, diagnosticsError(diags)
	}
	attrs, diags := file.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, diagnosticsError(diags)
	}

	evalCtx := &hclLib.EvalContext{
		Variables: variables,
		Functions: e.functions,
	}

	ordered := make([]*hclLib.Attribute, 0, len(attrs))
	for _, attr := range attrs {
		ordered = append(ordered, attr)
	}
	slices.SortFunc(ordered, func(a, b *hclLib.Attribute) int {
		return a.Range.Start.Byte - b.Range.Start.Byte
	})

	startTime := time.Now()
	result := make(map[string]any, len(ordered))
	for _, attr := range ordered {
		if err := ctx.Err(); err != nil {
			return nil, engine.NewExecutionError(err, attr.Range.Start.Line, attr.Range.Start.Column)
		}
		val, diags := attr.Expr.Value(evalCtx)
		if diags.HasErrors() {
			return nil, diagnosticsError(diags)
		}
		goVal, err := toGo(val)
		if err != nil {
			return nil, engine.NewExecutionError(
				fmt.Errorf("attribute %q: %w", attr.Name, err),
				attr.Range.Start.Line,
				attr.Range.Start.Column,
			)
		}
		result[attr.Name] = goVal
	}

	logger.Debug("evaluation complete", "attributes", len(result), "execTime", time.Since(startTime))
	return result, nil
}

// diagnosticsError reports the first error diagnostic with its subject position.
func diagnosticsError(diags hclLib.Diagnostics) *engine.ScriptExecutionError {
	for _, d := range diags {
		if d.Severity != hclLib.DiagError {
			continue
		}
		line, col := 0, 0
		if d.Subject != nil {
			line, col = d.Subject.Start.Line, d.Subject.Start.Column
		}
		xe := engine.NewExecutionError(diags, line, col)
		xe.Message = d.Summary
		if d.Detail != "" {
			xe.Message = fmt.Sprintf("%s; %s", d.Summary, d.Detail)
		}
		return xe
	}
	return engine.NewExecutionError(errors.New(diags.Error()), 0, 0)
}
