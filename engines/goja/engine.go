// Package goja adapts the github.com/dop251/goja ECMAScript runtime to the engine interface.
//
// Every evaluation gets a fresh runtime. Bindings are set as globals; print and console.log
// write a line to the output of the evaluation context. The value of a script is its completion
// value, exported to Go: numbers become int64 or float64, objects map[string]any and arrays
// []any.
package goja

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/dop251/goja"
	"github.com/dop251/goja/parser"

	"github.com/robbyt/go-scripting/engine"
	"github.com/robbyt/go-scripting/execution/bindings"
	"github.com/robbyt/go-scripting/internal/helpers"
)

var _ engine.Engine = (*Engine)(nil)

type Engine struct {
	strict     bool
	fieldTag   string
	logHandler slog.Handler
	logger     *slog.Logger
}

// New creates a JavaScript engine with the provided options.
func New(opts ...FunctionalOption) (*Engine, error) {
	e := &Engine{}
	e.applyDefaults()

	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, fmt.Errorf("error applying goja option: %w", err)
		}
	}

	if err := e.validate(); err != nil {
		return nil, fmt.Errorf("invalid goja configuration: %w", err)
	}

	if e.logger != nil {
		e.logHandler = e.logger.Handler()
	} else {
		e.logHandler, e.logger = helpers.SetupLogger(e.logHandler, "goja", "Engine")
	}
	return e, nil
}

func (e *Engine) String() string {
	return "goja.Engine"
}

func (e *Engine) Metadata() engine.Metadata {
	return engine.Metadata{
		Name:       "goja",
		Language:   "JavaScript",
		Names:      []string{"js", "javascript", "ecmascript", "goja"},
		Extensions: []string{"js", "cjs"},
	}
}

// Eval compiles and runs the script. Cancelling ctx interrupts the runtime.
func (e *Engine) Eval(ctx context.Context, src engine.Source, sctx *bindings.Context) (any, error) {
	logger := e.logger.With("resource", src.Name)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prog, err := e.compile(src)
	if err != nil {
		return nil, err
	}

	vm := goja.New()
	vm.SetFieldNameMapper(goja.TagFieldNameMapper(e.fieldTag, true))
	if err := installConsole(vm, sctx.Writer()); err != nil {
		return nil, err
	}
	for name, value := range sctx.Vars() {
		if err := vm.Set(name, value); err != nil {
			return nil, fmt.Errorf("failed to set binding %q: %w", name, err)
		}
	}

	stop := context.AfterFunc(ctx, func() {
		vm.Interrupt(context.Cause(ctx))
	})
	defer stop()

	startTime := time.Now()
	value, err := vm.RunProgram(prog)
	if err != nil {
		return nil, runtimeError(err)
	}
	logger.Debug("execution complete", "execTime", time.Since(startTime))

	if value == nil {
		return nil, nil
	}
	return value.Export(), nil
}

func (e *Engine) compile(src engine.Source) (*goja.Program, error) {
	ast, err := parser.ParseFile(nil, src.Name, src.Text(), 0)
	if err != nil {
		var list parser.ErrorList
		if errors.As(err, &list) && len(list) > 0 {
			pos := list[0].Position
			xe := engine.NewExecutionError(err, pos.Line, pos.Column)
			xe.Message = "SyntaxError: " + list[0].Message
			return nil, xe
		}
		return nil, engine.NewExecutionError(err, 0, 0)
	}

	prog, err := goja.CompileAST(ast, e.strict)
	if err != nil {
		var syntaxErr *goja.CompilerSyntaxError
		if errors.As(err, &syntaxErr) && syntaxErr.File != nil {
			pos := syntaxErr.File.Position(syntaxErr.Offset)
			return nil, engine.NewExecutionError(err, pos.Line, pos.Column)
		}
		return nil, engine.NewExecutionError(err, 0, 0)
	}
	return prog, nil
}

// runtimeError converts a thrown exception into an execution error positioned at the innermost
// script frame.
func runtimeError(err error) error {
	var ex *goja.Exception
	var interrupted *goja.InterruptedError
	switch {
	case errors.As(err, &interrupted):
		ex = &interrupted.Exception
	case errors.As(err, &ex):
	default:
		return engine.NewExecutionError(err, 0, 0)
	}

	line, col := 0, 0
	for _, frame := range ex.Stack() {
		if pos := frame.Position(); pos.Line > 0 {
			line, col = pos.Line, pos.Column
			break
		}
	}

	xe := engine.NewExecutionError(err, line, col)
	if v := ex.Value(); v != nil {
		xe.Message = v.String()
	}
	return xe
}

// installConsole defines print and console.log, both writing their arguments separated by spaces.
func installConsole(vm *goja.Runtime, out io.Writer) error {
	logFn := func(call goja.FunctionCall) goja.Value {
		parts := make([]string, len(call.Arguments))
		for i, arg := range call.Arguments {
			parts[i] = arg.String()
		}
		fmt.Fprintln(out, strings.Join(parts, " "))
		return goja.Undefined()
	}

	if err := vm.Set("print", logFn); err != nil {
		return err
	}
	console := vm.NewObject()
	if err := console.Set("log", logFn); err != nil {
		return err
	}
	return vm.Set("console", console)
}
