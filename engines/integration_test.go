package engines

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robbyt/go-scripting/engine"
	"github.com/robbyt/go-scripting/execution/bindings"
)

func TestNewRegistry(t *testing.T) {
	t.Parallel()

	logs := &bytes.Buffer{}
	reg, err := NewRegistry(slog.NewTextHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	require.NoError(t, err)

	var names []string
	for _, meta := range reg.Engines() {
		names = append(names, meta.Name)
	}
	assert.Equal(t, []string{"expr", "extism", "goja", "hcl", "risor", "starlark"}, names)
	assert.Contains(t, logs.String(), "engine registered")

	lookups := map[string]string{
		"js":         "goja",
		"javascript": "goja",
		"star":       "starlark",
		"risor":      "risor",
		"wasm":       "extism",
		"hcl":        "hcl",
		"expr":       "expr",
	}
	for name, want := range lookups {
		e, ok := reg.LookupByName(name)
		require.True(t, ok, name)
		assert.Equal(t, want, e.Metadata().Name)
	}

	extensions := map[string]string{
		"js":   "goja",
		"cjs":  "goja",
		"star": "starlark",
		"bzl":  "starlark",
		"rsr":  "risor",
		"wasm": "extism",
		"hcl":  "hcl",
		"expr": "expr",
	}
	for ext, want := range extensions {
		e, ok := reg.LookupByExtension(ext)
		require.True(t, ok, ext)
		assert.Equal(t, want, e.Metadata().Name)
	}

	e, err := engine.Resolve("", "scripts/hello.js", reg)
	require.NoError(t, err)
	assert.Equal(t, "goja", e.Metadata().Name)
}

func TestNewRegistryNilHandler(t *testing.T) {
	t.Parallel()

	reg, err := NewRegistry(nil)
	require.NoError(t, err)
	assert.Len(t, reg.Engines(), 6)
}

// TestEngineDataHandlingIntegration checks that the same bindings are visible to every text
// engine as globals, and that each engine returns them as plain Go values.
func TestEngineDataHandlingIntegration(t *testing.T) {
	t.Parallel()

	testData := map[string]any{
		"name":    "Integration Test",
		"version": "1.0.0",
		"config": map[string]any{
			"debug":   true,
			"timeout": 30,
		},
		"tags": []any{"test", "integration", "multi-engine"},
	}

	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})
	reg, err := NewRegistry(handler)
	require.NoError(t, err)

	tests := []struct {
		engine string
		script string
	}{
		{
			engine: "goja",
			script: `({
	engine: "goja",
	name: name,
	version: version,
	debug: config.debug,
	timeout: config.timeout,
	tag_count: tags.length,
	first_tag: tags[0],
})`,
		},
		{
			engine: "starlark",
			script: `
result = {
	"engine": "starlark",
	"name": name,
	"version": version,
	"debug": config["debug"],
	"timeout": config["timeout"],
	"tag_count": len(tags),
	"first_tag": tags[0],
}
`,
		},
		{
			engine: "risor",
			script: `
{
	"engine": "risor",
	"name": name,
	"version": version,
	"debug": config["debug"],
	"timeout": config["timeout"],
	"tag_count": len(tags),
	"first_tag": tags[0]
}
`,
		},
		{
			engine: "hcl",
			script: `
engine    = "hcl"
name      = name
version   = version
debug     = config.debug
timeout   = config.timeout
tag_count = length(tags)
first_tag = tags[0]
`,
		},
		{
			engine: "expr",
			script: `{
	"engine": "expr",
	"name": name,
	"version": version,
	"debug": config.debug,
	"timeout": config.timeout,
	"tag_count": len(tags),
	"first_tag": tags[0]
}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.engine, func(t *testing.T) {
			t.Parallel()

			e, ok := reg.LookupByName(tt.engine)
			require.True(t, ok)

			sctx := bindings.NewContext(bindings.WithVars(testData))
			result, err := e.Eval(context.Background(), engine.Source{Name: "integration", Body: []byte(tt.script)}, sctx)
			require.NoError(t, err)

			resultMap, ok := result.(map[string]any)
			require.True(t, ok, "result is %T", result)

			assert.Equal(t, tt.engine, resultMap["engine"])
			assert.Equal(t, "Integration Test", resultMap["name"])
			assert.Equal(t, "1.0.0", resultMap["version"])
			assert.Equal(t, true, resultMap["debug"])
			assert.EqualValues(t, 30, resultMap["timeout"])
			assert.EqualValues(t, 3, resultMap["tag_count"])
			assert.Equal(t, "test", resultMap["first_tag"])
		})
	}
}
