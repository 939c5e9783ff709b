package risor

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robbyt/go-scripting/engine"
	"github.com/robbyt/go-scripting/execution/bindings"
)

func newTestEngine(t *testing.T, opts ...FunctionalOption) *Engine {
	t.Helper()
	opts = append([]FunctionalOption{WithLogHandler(slog.NewTextHandler(&bytes.Buffer{}, nil))}, opts...)
	e, err := New(opts...)
	require.NoError(t, err)
	return e
}

func TestNew(t *testing.T) {
	t.Parallel()

	e, err := New()
	require.NoError(t, err)
	assert.Equal(t, "risor.Engine", e.String())
	assert.Equal(t, []string{"risor", "rsr"}, e.Metadata().Extensions)

	_, err = New(WithLogHandler(nil))
	require.Error(t, err)
	_, err = New(WithLogger(nil))
	require.Error(t, err)

	e, err = New(WithLogger(slog.Default()))
	require.NoError(t, err)
	assert.NotNil(t, e.logHandler)
}

func TestEval(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		script string
		vars   map[string]any
		want   any
	}{
		{name: "arithmetic", script: "1 + 1", want: int64(2)},
		{name: "string", script: `"hi"`, want: "hi"},
		{name: "bool", script: "3 > 2", want: true},
		{name: "list", script: "[1, 2, 3]", want: []any{int64(1), int64(2), int64(3)}},
		{name: "map", script: `{"a": 1}`, want: map[string]any{"a": int64(1)}},
		{
			name:   "binding",
			script: `"Hello, " + name`,
			vars:   map[string]any{"name": "World"},
			want:   "Hello, World",
		},
		{
			name: "function call",
			script: `
func add(a, b) {
	return a + b
}
add(2, 3)
`,
			want: int64(5),
		},
		{name: "nil", script: "nil", want: nil},
	}

	e := newTestEngine(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			sctx := bindings.NewContext(bindings.WithVars(tt.vars))
			got, err := e.Eval(context.Background(), engine.Source{Name: "test.risor", Body: []byte(tt.script)}, sctx)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvalPrint(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	sctx := bindings.NewContext(bindings.WithWriter(&out))
	e := newTestEngine(t)

	_, err := e.Eval(context.Background(), engine.Source{Name: "p.risor", Body: []byte(`print("hello", 42)`)}, sctx)
	require.NoError(t, err)
	assert.Equal(t, "hello 42\n", out.String())
}

func TestEvalErrors(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t)

	t.Run("syntax error", func(t *testing.T) {
		_, err := e.Eval(context.Background(), engine.Source{Name: "bad.risor", Body: []byte("x := (")}, nil)
		var xe *engine.ScriptExecutionError
		require.ErrorAs(t, err, &xe)
		assert.Equal(t, 1, xe.Line)
	})

	t.Run("undefined variable", func(t *testing.T) {
		_, err := e.Eval(context.Background(), engine.Source{Name: "bad.risor", Body: []byte("missing + 1")}, nil)
		require.ErrorIs(t, err, engine.ErrScriptExecution)
		assert.Contains(t, err.Error(), "missing")
	})

	t.Run("function result", func(t *testing.T) {
		_, err := e.Eval(context.Background(), engine.Source{Name: "fn.risor", Body: []byte("func() { return 1 }")}, nil)
		require.ErrorIs(t, err, engine.ErrScriptExecution)
		assert.Contains(t, err.Error(), "function object returned from script")
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := e.Eval(ctx, engine.Source{Name: "x.risor", Body: []byte("1")}, nil)
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestEvalWithoutDefaultGlobals(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t, WithoutDefaultGlobals())

	_, err := e.Eval(context.Background(), engine.Source{Name: "x.risor", Body: []byte("len([1])")}, nil)
	require.ErrorIs(t, err, engine.ErrScriptExecution)

	got, err := e.Eval(context.Background(), engine.Source{Name: "x.risor", Body: []byte("n * 2")},
		bindings.NewContext(bindings.WithVars(map[string]any{"n": 21})))
	require.NoError(t, err)
	assert.Equal(t, int64(42), got)
}

func TestEvalUnsupportedBinding(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	e, err := New(WithLogHandler(slog.NewTextHandler(&logs, nil)))
	require.NoError(t, err)

	sctx := bindings.NewContext(bindings.WithVars(map[string]any{
		"ch":    make(chan int),
		"fn":    func() {},
		"n":     21,
		"empty": nil,
	}))

	got, err := e.Eval(context.Background(), engine.Source{Name: "c.risor", Body: []byte("n * 2")}, sctx)
	require.NoError(t, err)
	assert.Equal(t, int64(42), got)
	assert.Contains(t, logs.String(), "skipping bindings that cannot be converted")
	assert.Contains(t, logs.String(), `binding \"ch\"`)

	got, err = e.Eval(context.Background(), engine.Source{Name: "c.risor", Body: []byte("empty")}, sctx)
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = e.Eval(context.Background(), engine.Source{Name: "c.risor", Body: []byte("ch")}, sctx)
	require.ErrorIs(t, err, engine.ErrScriptExecution)
}
