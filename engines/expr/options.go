package expr

import (
	"fmt"
	"log/slog"

	exprLib "github.com/expr-lang/expr"
)

// FunctionalOption is a function that configures an Engine instance
type FunctionalOption func(*Engine) error

// WithLogHandler creates an option to set the log handler for the engine.
func WithLogHandler(handler slog.Handler) FunctionalOption {
	return func(e *Engine) error {
		if handler == nil {
			return fmt.Errorf("log handler cannot be nil")
		}
		e.logHandler = handler
		e.logger = nil
		return nil
	}
}

// WithLogger creates an option to set a specific logger for the engine.
func WithLogger(logger *slog.Logger) FunctionalOption {
	return func(e *Engine) error {
		if logger == nil {
			return fmt.Errorf("logger cannot be nil")
		}
		e.logger = logger
		e.logHandler = nil
		return nil
	}
}

// WithFunction makes fn callable from every expression under name.
func WithFunction(name string, fn func(params ...any) (any, error)) FunctionalOption {
	return func(e *Engine) error {
		if name == "" {
			return fmt.Errorf("function name cannot be empty")
		}
		if fn == nil {
			return fmt.Errorf("function %q cannot be nil", name)
		}
		e.compileOptions = append(e.compileOptions, exprLib.Function(name, fn))
		return nil
	}
}

// WithUndefinedVariables lets expressions reference names without a binding; they evaluate to nil.
func WithUndefinedVariables() FunctionalOption {
	return func(e *Engine) error {
		e.compileOptions = append(e.compileOptions, exprLib.AllowUndefinedVariables())
		return nil
	}
}

// WithMaxNodes limits the size of the expression tree. Zero disables the limit.
func WithMaxNodes(n uint) FunctionalOption {
	return func(e *Engine) error {
		e.compileOptions = append(e.compileOptions, exprLib.MaxNodes(n))
		return nil
	}
}

func (e *Engine) applyDefaults() {
	e.contextName = "ctx"
}

func (e *Engine) validate() error {
	if e.contextName == "" {
		return fmt.Errorf("context variable name cannot be empty")
	}
	return nil
}
