package hcl

import (
	"fmt"
	"log/slog"
	"maps"

	"github.com/zclconf/go-cty/cty/function"
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

// WithFunctions adds functions callable from expressions, replacing built-ins of the same name.
func WithFunctions(funcs map[string]function.Function) FunctionalOption {
	return func(e *Engine) error {
		if len(funcs) == 0 {
			return fmt.Errorf("functions cannot be empty")
		}
		maps.Copy(e.functions, funcs)
		return nil
	}
}

func (e *Engine) applyDefaults() {
	e.functions = standardFunctions()
}

func (e *Engine) validate() error {
	if e.functions == nil {
		return fmt.Errorf("function table is not set")
	}
	return nil
}
