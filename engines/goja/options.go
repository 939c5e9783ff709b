package goja

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

// WithStrict compiles every script in strict mode.
func WithStrict(strict bool) FunctionalOption {
	return func(e *Engine) error {
		e.strict = strict
		return nil
	}
}

// WithFieldNameTag exposes Go struct fields to scripts under the name in the given struct tag,
// e.g. "json". Methods are exposed with a lower-case first letter.
func WithFieldNameTag(tag string) FunctionalOption {
	return func(e *Engine) error {
		if tag == "" {
			return fmt.Errorf("field name tag cannot be empty")
		}
		e.fieldTag = tag
		return nil
	}
}

func (e *Engine) applyDefaults() {
	e.fieldTag = "json"
}

func (e *Engine) validate() error {
	if e.fieldTag == "" {
		return fmt.Errorf("field name tag cannot be empty")
	}
	return nil
}
