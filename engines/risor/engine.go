// Package risor adapts github.com/risor-io/risor to the engine interface.
//
// Bindings are passed as Risor globals. Bindings Risor cannot represent are skipped with a
// warning. The value of a script is its last expression, converted with the Interface method of
// the Risor object. A script that evaluates to an error object or a function fails.
package risor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	risorLib "github.com/risor-io/risor"
	risorErrors "github.com/risor-io/risor/errz"
	"github.com/risor-io/risor/object"
	"github.com/risor-io/risor/token"

	"github.com/robbyt/go-scripting/engine"
	"github.com/robbyt/go-scripting/execution/bindings"
	"github.com/robbyt/go-scripting/internal/helpers"
)

var _ engine.Engine = (*Engine)(nil)

type Engine struct {
	noDefaultGlobals bool
	logHandler       slog.Handler
	logger           *slog.Logger
}

// New creates a Risor engine with the provided options.
func New(opts ...FunctionalOption) (*Engine, error) {
	e := &Engine{}

	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, fmt.Errorf("error applying risor option: %w", err)
		}
	}

	if e.logger != nil {
		e.logHandler = e.logger.Handler()
	} else {
		e.logHandler, e.logger = helpers.SetupLogger(e.logHandler, "risor", "Engine")
	}
	return e, nil
}

func (e *Engine) String() string {
	return "risor.Engine"
}

func (e *Engine) Metadata() engine.Metadata {
	return engine.Metadata{
		Name:       "risor",
		Language:   "Risor",
		Names:      []string{"risor"},
		Extensions: []string{"risor", "rsr"},
	}
}

// Eval compiles and runs the script. The Risor VM stops when ctx is cancelled.
func (e *Engine) Eval(ctx context.Context, src engine.Source, sctx *bindings.Context) (any, error) {
	logger := e.logger.With("resource", src.Name)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	globals, skipped, err := toGlobals(sctx.Vars())
	if err != nil {
		logger.Warn("skipping bindings that cannot be converted", "names", skipped, "error", err)
	}

	opts := []risorLib.Option{
		risorLib.WithGlobals(globals),
		risorLib.WithGlobal("print", printBuiltin(sctx.Writer())),
	}
	if e.noDefaultGlobals {
		opts = append(opts, risorLib.WithoutDefaultGlobals())
	}

	startTime := time.Now()
	result, err := risorLib.Eval(ctx, src.Text(), opts...)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return nil, engine.NewExecutionError(err, 0, 0)
		}
		return nil, scriptError(err)
	}
	logger.Debug("execution complete", "execTime", time.Since(startTime))

	if result == nil {
		return nil, nil
	}
	switch result.Type() {
	case object.ERROR:
		return nil, engine.NewExecutionError(fmt.Errorf("error returned from script: %s", result.Inspect()), 0, 0)
	case object.FUNCTION:
		return nil, engine.NewExecutionError(fmt.Errorf("function object returned from script: %s", result.Inspect()), 0, 0)
	}
	return result.Interface(), nil
}

// positioned is implemented by Risor parse errors.
type positioned interface {
	StartPosition() token.Position
}

// scriptError attaches the position of a parse error and prefers Risor's friendly message.
func scriptError(err error) error {
	line, col := 0, 0
	var p positioned
	if errors.As(err, &p) {
		pos := p.StartPosition()
		line, col = pos.LineNumber(), pos.ColumnNumber()
	}

	xe := engine.NewExecutionError(err, line, col)
	var friendly risorErrors.FriendlyError
	if errors.As(err, &friendly) {
		xe.Message = friendly.FriendlyErrorMessage()
	}
	return xe
}

// printBuiltin writes its arguments separated by spaces, strings unquoted.
func printBuiltin(out io.Writer) *object.Builtin {
	return object.NewBuiltin("print", func(ctx context.Context, args ...object.Object) object.Object {
		parts := make([]string, len(args))
		for i, arg := range args {
			if s, ok := arg.(*object.String); ok {
				parts[i] = s.Value()
				continue
			}
			parts[i] = arg.Inspect()
		}
		fmt.Fprintln(out, strings.Join(parts, " "))
		return object.Nil
	})
}
