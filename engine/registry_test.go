package engine

import (
	"bytes"
	"fmt"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryRegister(t *testing.T) {
	t.Parallel()

	t.Run("name is always an alias", func(t *testing.T) {
		reg := NewRegistry(nil)
		e := NewMockEngine(Metadata{Name: "expr", Extensions: []string{"expr"}})
		require.NoError(t, reg.Register(e))

		got, ok := reg.LookupByName("expr")
		require.True(t, ok)
		assert.Same(t, e, got)

		got, ok = reg.LookupByExtension("expr")
		require.True(t, ok)
		assert.Same(t, e, got)
	})

	t.Run("aliases", func(t *testing.T) {
		reg := NewRegistry(nil)
		e := NewMockEngine(Metadata{Name: "goja", Names: []string{"js", "javascript"}})
		require.NoError(t, reg.Register(e))

		for _, n := range []string{"goja", "js", "javascript"} {
			got, ok := reg.LookupByName(n)
			require.True(t, ok, n)
			assert.Same(t, e, got)
		}
		_, ok := reg.LookupByExtension("js")
		assert.False(t, ok)
	})

	t.Run("invalid engines", func(t *testing.T) {
		reg := NewRegistry(nil)
		require.ErrorIs(t, reg.Register(nil), ErrInvalidEngine)
		require.ErrorIs(t, reg.Register(NewMockEngine(Metadata{})), ErrInvalidEngine)
		require.ErrorIs(t, reg.Register(NewMockEngine(Metadata{Name: "x", Names: []string{""}})), ErrInvalidEngine)
		require.ErrorIs(t, reg.Register(NewMockEngine(Metadata{Name: "x", Extensions: []string{""}})), ErrInvalidEngine)
		assert.Empty(t, reg.Engines())
	})

	t.Run("duplicates are rejected atomically", func(t *testing.T) {
		reg := NewRegistry(nil)
		first := NewMockEngine(Metadata{Name: "starlark", Extensions: []string{"star"}})
		require.NoError(t, reg.Register(first))

		dupName := NewMockEngine(Metadata{Name: "other", Names: []string{"starlark"}, Extensions: []string{"other"}})
		err := reg.Register(dupName)
		require.ErrorIs(t, err, ErrDuplicateEngine)
		assert.Contains(t, err.Error(), `name "starlark"`)
		_, ok := reg.LookupByName("other")
		assert.False(t, ok)
		_, ok = reg.LookupByExtension("other")
		assert.False(t, ok)

		dupExt := NewMockEngine(Metadata{Name: "skylark", Extensions: []string{"sky", "star"}})
		err = reg.Register(dupExt)
		require.ErrorIs(t, err, ErrDuplicateEngine)
		_, ok = reg.LookupByExtension("sky")
		assert.False(t, ok)

		assert.Len(t, reg.Engines(), 1)
	})

	t.Run("must register panics", func(t *testing.T) {
		reg := NewRegistry(nil)
		reg.MustRegister(NewMockEngine(Metadata{Name: "a"}))
		assert.Panics(t, func() {
			reg.MustRegister(NewMockEngine(Metadata{Name: "a"}))
		})
	})
}

func TestRegistryEngines(t *testing.T) {
	t.Parallel()

	reg := NewRegistry(nil)
	for _, n := range []string{"starlark", "expr", "goja"} {
		require.NoError(t, reg.Register(NewMockEngine(Metadata{Name: n, Extensions: []string{n}})))
	}

	var names []string
	for _, m := range reg.Engines() {
		names = append(names, m.Name)
	}
	assert.Equal(t, []string{"expr", "goja", "starlark"}, names)
	assert.Equal(t, "engine.Registry{Engines: 3, Names: 3, Extensions: 3}", reg.String())
}

func TestRegistryLogsRegistration(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	handler := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	reg := NewRegistry(handler)
	require.NoError(t, reg.Register(NewMockEngine(Metadata{Name: "hcl", Extensions: []string{"hcl"}})))

	assert.Contains(t, buf.String(), "engine registered")
	assert.Contains(t, buf.String(), "Registry.engine=hcl")
}

func TestRegistryConcurrentLookup(t *testing.T) {
	t.Parallel()

	reg := NewRegistry(nil)
	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			name := fmt.Sprintf("e%d", i)
			assert.NoError(t, reg.Register(NewMockEngine(Metadata{Name: name, Extensions: []string{name}})))
		}()
		go func() {
			defer wg.Done()
			reg.LookupByExtension("e0")
			reg.Engines()
		}()
	}
	wg.Wait()
	assert.Len(t, reg.Engines(), 20)
}

func TestMetadataString(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "goja (JavaScript)", Metadata{Name: "goja", Language: "JavaScript"}.String())
	assert.Equal(t, "1+1", Source{Name: "a.js", Body: []byte("1+1")}.Text())
}
