package extism

import (
	"context"

	extismSDK "github.com/extism/go-sdk"
)

// compiledPlugin abstracts extismSDK.CompiledPlugin
type compiledPlugin interface {
	Instance(ctx context.Context, config extismSDK.PluginInstanceConfig) (pluginInstance, error)
	Close(ctx context.Context) error
}

// pluginInstance abstracts extismSDK.Plugin
type pluginInstance interface {
	CallWithContext(ctx context.Context, name string, data []byte) (uint32, []byte, error)
	FunctionExists(name string) bool
	Close(ctx context.Context) error
}

// compileFunc turns a wasm module into a compiled plugin.
type compileFunc func(ctx context.Context, wasm []byte, e *Engine) (compiledPlugin, error)
