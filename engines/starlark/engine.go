// Package starlark adapts go.starlark.net to the engine interface.
//
// Bindings are predeclared as globals next to the json, math and time modules; bindings that have
// no Starlark equivalent are skipped with a warning. The value of a script is its final expression
// statement; a script ending in any other statement yields the global named "result", or None.
package starlark

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"time"

	starlarkLib "go.starlark.net/starlark"
	"go.starlark.net/resolve"
	"go.starlark.net/syntax"

	"github.com/robbyt/go-scripting/engine"
	"github.com/robbyt/go-scripting/execution/bindings"
	"github.com/robbyt/go-scripting/internal/helpers"
)

const resultGlobal = "result"

var _ engine.Engine = (*Engine)(nil)

// Engine evaluates Starlark scripts. Every evaluation runs on its own thread.
type Engine struct {
	fileOptions syntax.FileOptions
	maxSteps    uint64
	extensions  []string
	logHandler  slog.Handler
	logger      *slog.Logger
}

// New creates a Starlark engine with the provided options.
func New(opts ...FunctionalOption) (*Engine, error) {
	e := &Engine{}
	e.applyDefaults()

	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, fmt.Errorf("error applying starlark option: %w", err)
		}
	}

	if err := e.validate(); err != nil {
		return nil, fmt.Errorf("invalid starlark configuration: %w", err)
	}

	if e.logger != nil {
		e.logHandler = e.logger.Handler()
	} else {
		e.logHandler, e.logger = helpers.SetupLogger(e.logHandler, "starlark", "Engine")
	}
	return e, nil
}

func (e *Engine) String() string {
	return "starlark.Engine"
}

func (e *Engine) Metadata() engine.Metadata {
	return engine.Metadata{
		Name:       "starlark",
		Language:   "Starlark",
		Names:      []string{"starlark", "star"},
		Extensions: e.extensions,
	}
}

// Eval runs the script. Cancelling ctx cancels the Starlark thread.
func (e *Engine) Eval(ctx context.Context, src engine.Source, sctx *bindings.Context) (any, error) {
	logger := e.logger.With("resource", src.Name)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	vars, err := toStringDict(sctx.Vars())
	if err != nil {
		logger.Warn("skipping bindings that cannot be converted", "error", err)
	}
	predeclared := standardModules()
	maps.Copy(predeclared, vars)

	opts := e.fileOptions
	f, err := opts.Parse(src.Name, src.Body, 0)
	if err != nil {
		return nil, positionError(err)
	}
	tail := popTailExpr(f)

	prog, err := starlarkLib.FileProgram(f, predeclared.Has)
	if err != nil {
		return nil, positionError(err)
	}

	out := sctx.Writer()
	thread := &starlarkLib.Thread{
		Name: src.Name,
		Print: func(_ *starlarkLib.Thread, msg string) {
			fmt.Fprintln(out, msg)
		},
	}
	if e.maxSteps > 0 {
		thread.SetMaxExecutionSteps(e.maxSteps)
	}
	stop := context.AfterFunc(ctx, func() {
		thread.Cancel(context.Cause(ctx).Error())
	})
	defer stop()

	startTime := time.Now()
	globals, err := prog.Init(thread, predeclared)
	if err != nil {
		return nil, positionError(err)
	}

	var value starlarkLib.Value = starlarkLib.None
	if tail != nil {
		env := maps.Clone(predeclared)
		maps.Copy(env, globals)
		value, err = starlarkLib.EvalExprOptions(&opts, thread, tail, env)
		if err != nil {
			return nil, positionError(err)
		}
	} else if v, ok := globals[resultGlobal]; ok {
		value = v
	}
	logger.Debug("execution complete", "execTime", time.Since(startTime), "type", value.Type())

	result, err := toGo(value)
	if err != nil {
		return nil, fmt.Errorf("failed to convert result: %w", err)
	}
	return result, nil
}

// popTailExpr removes a trailing expression statement from f and returns its expression.
func popTailExpr(f *syntax.File) syntax.Expr {
	n := len(f.Stmts)
	if n == 0 {
		return nil
	}
	stmt, ok := f.Stmts[n-1].(*syntax.ExprStmt)
	if !ok {
		return nil
	}
	f.Stmts = f.Stmts[:n-1]
	return stmt.X
}

// positionError attaches the line and column Starlark reported to err.
func positionError(err error) error {
	var evalErr *starlarkLib.EvalError
	if errors.As(err, &evalErr) {
		// innermost frame with a source position; builtins have none
		var pos syntax.Position
		for i := range evalErr.CallStack {
			if p := evalErr.CallStack.At(i).Pos; p.Line > 0 {
				pos = p
				break
			}
		}
		return engine.NewExecutionError(err, int(pos.Line), int(pos.Col))
	}

	var syntaxErr syntax.Error
	if errors.As(err, &syntaxErr) {
		return engine.NewExecutionError(err, int(syntaxErr.Pos.Line), int(syntaxErr.Pos.Col))
	}

	var resolveErrs resolve.ErrorList
	if errors.As(err, &resolveErrs) && len(resolveErrs) > 0 {
		first := resolveErrs[0].Pos
		return engine.NewExecutionError(err, int(first.Line), int(first.Col))
	}

	return engine.NewExecutionError(err, 0, 0)
}
