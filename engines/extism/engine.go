// Package extism runs WebAssembly plugins with the Extism SDK.
//
// The engine is binary: it receives the raw bytes of a .wasm resource. The bindings are sent to
// the plugin's entry point as a JSON object, and the plugin output is decoded as JSON when
// possible, or returned as a string.
package extism

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"time"

	extismSDK "github.com/extism/go-sdk"
	"github.com/tetratelabs/wazero"

	"github.com/robbyt/go-scripting/engine"
	"github.com/robbyt/go-scripting/execution/bindings"
	"github.com/robbyt/go-scripting/internal/helpers"
)

var ErrContentNil = errors.New("wasm content is empty")

var _ engine.Engine = (*Engine)(nil)

type Engine struct {
	entryPoint    string
	enableWASI    bool
	runtimeConfig wazero.RuntimeConfig
	hostFunctions []extismSDK.HostFunction
	compile       compileFunc
	logHandler    slog.Handler
	logger        *slog.Logger
}

// New creates an Extism engine with the provided options.
func New(opts ...FunctionalOption) (*Engine, error) {
	e := &Engine{}
	e.applyDefaults()

	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, fmt.Errorf("error applying extism option: %w", err)
		}
	}

	if err := e.validate(); err != nil {
		return nil, fmt.Errorf("invalid extism configuration: %w", err)
	}

	if e.logger != nil {
		e.logHandler = e.logger.Handler()
	} else {
		e.logHandler, e.logger = helpers.SetupLogger(e.logHandler, "extism", "Engine")
	}
	return e, nil
}

func (e *Engine) String() string {
	return fmt.Sprintf("extism.Engine{EntryPoint: %s}", e.entryPoint)
}

func (e *Engine) Metadata() engine.Metadata {
	return engine.Metadata{
		Name:       "extism",
		Language:   "WebAssembly",
		Names:      []string{"extism", "wasm"},
		Extensions: []string{"wasm"},
		Binary:     true,
	}
}

func (e *Engine) instanceConfig() extismSDK.PluginInstanceConfig {
	moduleConfig := wazero.NewModuleConfig().
		WithSysWalltime().
		WithSysNanotime().
		WithRandSource(rand.Reader)

	return extismSDK.PluginInstanceConfig{
		ModuleConfig: moduleConfig,
	}
}

// Eval compiles the module, instantiates it and calls the entry point. Both the plugin and the
// instance are closed before Eval returns.
func (e *Engine) Eval(ctx context.Context, src engine.Source, sctx *bindings.Context) (any, error) {
	logger := e.logger.With("resource", src.Name, "entryPoint", e.entryPoint)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(src.Body) == 0 {
		return nil, ErrContentNil
	}

	plugin, err := e.compile(ctx, src.Body, e)
	if err != nil {
		return nil, engine.NewExecutionError(err, 0, 0)
	}
	defer func() {
		if err := plugin.Close(ctx); err != nil {
			logger.Warn("failed to close plugin", "error", err)
		}
	}()

	instance, err := plugin.Instance(ctx, e.instanceConfig())
	if err != nil {
		return nil, engine.NewExecutionError(fmt.Errorf("failed to create plugin instance: %w", err), 0, 0)
	}
	defer func() {
		if err := instance.Close(ctx); err != nil {
			logger.Warn("failed to close plugin instance", "error", err)
		}
	}()

	if !instance.FunctionExists(e.entryPoint) {
		return nil, engine.NewExecutionError(fmt.Errorf("entry point %q not exported by module", e.entryPoint), 0, 0)
	}

	input, err := marshalInputData(sctx.Vars())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal bindings: %w", err)
	}

	return execHelper(ctx, logger, instance, e.entryPoint, input)
}

// execHelper calls the entry point and decodes its output.
func execHelper(
	ctx context.Context,
	logger *slog.Logger,
	instance pluginInstance,
	entryPoint string,
	input []byte,
) (any, error) {
	startTime := time.Now()
	exit, output, err := instance.CallWithContext(ctx, entryPoint, input)
	execTime := time.Since(startTime)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, engine.NewExecutionError(fmt.Errorf("execution cancelled: %w", ctxErr), 0, 0)
		}
		return nil, engine.NewExecutionError(fmt.Errorf("execution failed: %w", err), 0, 0)
	}
	if exit != 0 {
		xe := engine.NewExecutionError(fmt.Errorf("function returned non-zero exit code: %d", exit), 0, 0)
		if len(output) > 0 {
			xe.Message = fmt.Sprintf("%s: %s", xe.Message, output)
		}
		return nil, xe
	}

	result := decodeOutput(output)
	logger.Debug("execution complete", "execTime", execTime, "outputBytes", len(output))
	return result, nil
}
