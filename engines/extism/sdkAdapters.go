package extism

import (
	"context"
	"fmt"

	extismSDK "github.com/extism/go-sdk"
)

// sdkCompiledPluginAdapter adapts extismSDK.CompiledPlugin to the compiledPlugin interface
type sdkCompiledPluginAdapter struct {
	plugin *extismSDK.CompiledPlugin
}

func (a *sdkCompiledPluginAdapter) Instance(ctx context.Context, config extismSDK.PluginInstanceConfig) (pluginInstance, error) {
	instance, err := a.plugin.Instance(ctx, config)
	if err != nil {
		return nil, err
	}
	return &sdkPluginAdapter{instance: instance}, nil
}

func (a *sdkCompiledPluginAdapter) Close(ctx context.Context) error {
	return a.plugin.Close(ctx)
}

// sdkPluginAdapter adapts extismSDK.Plugin to the pluginInstance interface
type sdkPluginAdapter struct {
	instance *extismSDK.Plugin
}

func (a *sdkPluginAdapter) CallWithContext(ctx context.Context, name string, data []byte) (uint32, []byte, error) {
	return a.instance.CallWithContext(ctx, name, data)
}

func (a *sdkPluginAdapter) FunctionExists(name string) bool {
	return a.instance.FunctionExists(name)
}

func (a *sdkPluginAdapter) Close(ctx context.Context) error {
	return a.instance.Close(ctx)
}

// compileSDK compiles wasm with the Extism SDK using the engine's runtime settings.
func compileSDK(ctx context.Context, wasm []byte, e *Engine) (compiledPlugin, error) {
	manifest := extismSDK.Manifest{
		Wasm: []extismSDK.Wasm{
			extismSDK.WasmData{Data: wasm},
		},
	}

	config := extismSDK.PluginConfig{
		EnableWasi:    e.enableWASI,
		RuntimeConfig: e.runtimeConfig,
	}

	plugin, err := extismSDK.NewCompiledPlugin(ctx, manifest, config, e.hostFunctions)
	if err != nil {
		return nil, fmt.Errorf("failed to compile plugin: %w", err)
	}
	return &sdkCompiledPluginAdapter{plugin: plugin}, nil
}
