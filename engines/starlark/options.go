package starlark

import (
	"fmt"
	"log/slog"
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

// WithGlobalReassign allows scripts to assign a top-level name more than once. Enabled by default.
func WithGlobalReassign(enabled bool) FunctionalOption {
	return func(e *Engine) error {
		e.fileOptions.GlobalReassign = enabled
		return nil
	}
}

// WithRecursion allows recursive function calls, which the Starlark dialect forbids by default.
func WithRecursion(enabled bool) FunctionalOption {
	return func(e *Engine) error {
		e.fileOptions.Recursion = enabled
		return nil
	}
}

// WithMaxSteps bounds the number of computation steps per evaluation. Zero means unbounded.
func WithMaxSteps(steps uint64) FunctionalOption {
	return func(e *Engine) error {
		e.maxSteps = steps
		return nil
	}
}

// WithExtensions replaces the resource suffixes the engine is registered under.
func WithExtensions(exts ...string) FunctionalOption {
	return func(e *Engine) error {
		if len(exts) == 0 {
			return fmt.Errorf("at least one extension is required")
		}
		e.extensions = exts
		return nil
	}
}

func (e *Engine) applyDefaults() {
	e.fileOptions.Set = true
	e.fileOptions.While = true
	e.fileOptions.TopLevelControl = true
	e.fileOptions.GlobalReassign = true
	e.extensions = []string{"star", "bzl", "sky"}
}

func (e *Engine) validate() error {
	if len(e.extensions) == 0 {
		return fmt.Errorf("no extensions configured")
	}
	return nil
}
