// Package expr evaluates expressions written in the expr language (github.com/expr-lang/expr).
//
// Bindings form the expression environment. The request context is available as "ctx" and is
// passed to functions that take a context.Context; print writes its arguments to the context
// writer and returns nil.
package expr

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	exprLib "github.com/expr-lang/expr"
	"github.com/expr-lang/expr/file"

	"github.com/robbyt/go-scripting/engine"
	"github.com/robbyt/go-scripting/execution/bindings"
	"github.com/robbyt/go-scripting/internal/helpers"
)

var _ engine.Engine = (*Engine)(nil)

// Engine compiles and runs one expression per evaluation.
type Engine struct {
	compileOptions []exprLib.Option
	contextName    string
	logHandler     slog.Handler
	logger         *slog.Logger
}

// New creates an expr engine with the provided options.
func New(opts ...FunctionalOption) (*Engine, error) {
	e := &Engine{}
	e.applyDefaults()

	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, fmt.Errorf("error applying expr option: %w", err)
		}
	}

	if err := e.validate(); err != nil {
		return nil, fmt.Errorf("invalid expr configuration: %w", err)
	}

	if e.logger != nil {
		e.logHandler = e.logger.Handler()
	} else {
		e.logHandler, e.logger = helpers.SetupLogger(e.logHandler, "expr", "Engine")
	}
	return e, nil
}

func (e *Engine) String() string {
	return "expr.Engine"
}

func (e *Engine) Metadata() engine.Metadata {
	return engine.Metadata{
		Name:       "expr",
		Language:   "Expr",
		Names:      []string{"expr"},
		Extensions: []string{"expr"},
	}
}

// Eval compiles the expression against the bindings and runs it. Cancellation is checked before
// the run starts; functions that accept a context.Context receive ctx.
func (e *Engine) Eval(ctx context.Context, src engine.Source, sctx *bindings.Context) (any, error) {
	logger := e.logger.With("resource", src.Name)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	env := sctx.Vars()
	if _, shadowed := env[e.contextName]; shadowed {
		logger.Warn("binding shadows the context variable", "name", e.contextName)
	} else {
		env[e.contextName] = ctx
	}

	opts := make([]exprLib.Option, 0, len(e.compileOptions)+3)
	opts = append(opts, exprLib.Env(env), exprLib.Function("print", printFunc(sctx.Writer())))
	opts = append(opts, e.compileOptions...)
	opts = append(opts, exprLib.WithContext(e.contextName))

	program, err := exprLib.Compile(src.Text(), opts...)
	if err != nil {
		return nil, positionError(err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	startTime := time.Now()
	result, err := exprLib.Run(program, env)
	if err != nil {
		return nil, positionError(err)
	}
	logger.Debug("evaluation complete", "execTime", time.Since(startTime))
	return result, nil
}

func printFunc(w io.Writer) func(params ...any) (any, error) {
	return func(params ...any) (any, error) {
		_, err := fmt.Fprintln(w, params...)
		return nil, err
	}
}

// positionError converts the 0-based column of expr errors to the 1-based column used by
// ScriptExecutionError.
func positionError(err error) *engine.ScriptExecutionError {
	var fe *file.Error
	if !errors.As(err, &fe) {
		return engine.NewExecutionError(err, 0, 0)
	}
	line, col := fe.Line, 0
	if line > 0 {
		col = fe.Column + 1
	}
	xe := engine.NewExecutionError(err, line, col)
	xe.Message = fe.Message
	return xe
}
