package extism

import (
	"fmt"
	"log/slog"

	extismSDK "github.com/extism/go-sdk"
	"github.com/tetratelabs/wazero"
)

const defaultEntryPoint = "run"

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

// WithEntryPoint sets the exported function called for every evaluation. Default is "run".
func WithEntryPoint(entryPoint string) FunctionalOption {
	return func(e *Engine) error {
		if entryPoint == "" {
			return fmt.Errorf("entry point cannot be empty")
		}
		e.entryPoint = entryPoint
		return nil
	}
}

// WithWASI enables or disables WASI support. Enabled by default.
func WithWASI(enabled bool) FunctionalOption {
	return func(e *Engine) error {
		e.enableWASI = enabled
		return nil
	}
}

// WithRuntimeConfig sets the wazero runtime configuration used to compile modules.
func WithRuntimeConfig(cfg wazero.RuntimeConfig) FunctionalOption {
	return func(e *Engine) error {
		if cfg == nil {
			return fmt.Errorf("runtime config cannot be nil")
		}
		e.runtimeConfig = cfg
		return nil
	}
}

// WithHostFunctions registers host functions every module can import.
func WithHostFunctions(funcs ...extismSDK.HostFunction) FunctionalOption {
	return func(e *Engine) error {
		e.hostFunctions = append(e.hostFunctions, funcs...)
		return nil
	}
}

func (e *Engine) applyDefaults() {
	e.entryPoint = defaultEntryPoint
	e.enableWASI = true
	e.runtimeConfig = wazero.NewRuntimeConfig()
	e.compile = compileSDK
}

func (e *Engine) validate() error {
	if e.entryPoint == "" {
		return fmt.Errorf("entry point cannot be empty")
	}
	if e.compile == nil {
		return fmt.Errorf("compiler is not set")
	}
	return nil
}
