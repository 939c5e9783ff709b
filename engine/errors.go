package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedEngine is matched by every *UnsupportedEngineError.
	ErrUnsupportedEngine = errors.New("unsupported script engine")

	// ErrScriptLoad is matched by every *ScriptLoadError.
	ErrScriptLoad = errors.New("script load failed")

	// ErrScriptExecution is matched by every *ScriptExecutionError.
	ErrScriptExecution = errors.New("script execution failed")

	ErrDuplicateEngine = errors.New("engine already registered")
	ErrInvalidEngine   = errors.New("invalid engine")
)

// UnsupportedEngineError is returned when no registered engine matches the requested name or the
// suffix derived from the resource name.
type UnsupportedEngineError struct {
	Reason string
}

func (e *UnsupportedEngineError) Error() string {
	return fmt.Sprintf("%s: %s", ErrUnsupportedEngine, e.Reason)
}

func (e *UnsupportedEngineError) Is(target error) bool {
	return target == ErrUnsupportedEngine
}

// ScriptLoadError is returned when a script resource cannot be opened, read or decoded.
type ScriptLoadError struct {
	Resource string
	Err      error
}

func (e *ScriptLoadError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrScriptLoad, e.Resource, e.Err)
}

func (e *ScriptLoadError) Unwrap() error {
	return e.Err
}

func (e *ScriptLoadError) Is(target error) bool {
	return target == ErrScriptLoad
}

// ScriptExecutionError carries the diagnostic an engine reported while running a script.
// Line and Column are 1-based, zero when the engine did not supply a position.
type ScriptExecutionError struct {
	Engine   string
	Resource string
	Message  string
	Line     int
	Column   int
	Err      error
}

// NewExecutionError builds a ScriptExecutionError from an engine failure. The message defaults to
// the error text of err.
func NewExecutionError(err error, line, column int) *ScriptExecutionError {
	e := &ScriptExecutionError{
		Line:   line,
		Column: column,
		Err:    err,
	}
	if err != nil {
		e.Message = err.Error()
	}
	return e
}

func (e *ScriptExecutionError) Error() string {
	where := e.Resource
	if where == "" {
		where = e.Engine
	}
	if e.Line > 0 {
		return fmt.Sprintf("%s: %s:%d:%d: %s", ErrScriptExecution, where, e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", ErrScriptExecution, where, e.Message)
}

func (e *ScriptExecutionError) Unwrap() error {
	return e.Err
}

func (e *ScriptExecutionError) Is(target error) bool {
	return target == ErrScriptExecution
}
