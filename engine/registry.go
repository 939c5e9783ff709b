package engine

import (
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"sync"

	"github.com/robbyt/go-scripting/internal/helpers"
)

// Lookup is the read side of an engine registry, as consumed by Resolve.
type Lookup interface {
	LookupByName(name string) (Engine, bool)
	LookupByExtension(ext string) (Engine, bool)
}

var _ Lookup = (*Registry)(nil)

// Registry maps engine names and resource extensions to engines. Lookups are exact and
// case-sensitive. A Registry is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	engines []Engine
	byName  map[string]Engine
	byExt   map[string]Engine
	logger  *slog.Logger
}

// NewRegistry creates an empty registry. A nil handler gets the default text handler.
func NewRegistry(handler slog.Handler) *Registry {
	_, logger := helpers.SetupLogger(handler, "engine", "Registry")
	return &Registry{
		byName: make(map[string]Engine),
		byExt:  make(map[string]Engine),
		logger: logger,
	}
}

// Register adds an engine under its canonical name, its aliases and its extensions. Nothing is
// registered if any of those keys is already taken.
func (r *Registry) Register(e Engine) error {
	if e == nil {
		return fmt.Errorf("%w: engine is nil", ErrInvalidEngine)
	}
	meta := e.Metadata()
	if meta.Name == "" {
		return fmt.Errorf("%w: engine name is empty", ErrInvalidEngine)
	}
	names := meta.Names
	if !slices.Contains(names, meta.Name) {
		names = append([]string{meta.Name}, names...)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, n := range names {
		if n == "" {
			return fmt.Errorf("%w: empty alias for %s", ErrInvalidEngine, meta.Name)
		}
		if existing, ok := r.byName[n]; ok {
			return fmt.Errorf("%w: name %q is used by %s", ErrDuplicateEngine, n, existing.Metadata().Name)
		}
	}
	for _, ext := range meta.Extensions {
		if ext == "" {
			return fmt.Errorf("%w: empty extension for %s", ErrInvalidEngine, meta.Name)
		}
		if existing, ok := r.byExt[ext]; ok {
			return fmt.Errorf("%w: extension %q is used by %s", ErrDuplicateEngine, ext, existing.Metadata().Name)
		}
	}

	for _, n := range names {
		r.byName[n] = e
	}
	for _, ext := range meta.Extensions {
		r.byExt[ext] = e
	}
	r.engines = append(r.engines, e)

	r.logger.Debug("engine registered", "engine", meta.Name, "names", names, "extensions", meta.Extensions)
	return nil
}

// MustRegister is Register that panics on error, for wiring at process start.
func (r *Registry) MustRegister(e Engine) {
	if err := r.Register(e); err != nil {
		panic(err)
	}
}

func (r *Registry) LookupByName(name string) (Engine, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.byName[name]
	return e, ok
}

func (r *Registry) LookupByExtension(ext string) (Engine, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.byExt[ext]
	return e, ok
}

// Engines returns the metadata of all registered engines, sorted by name.
func (r *Registry) Engines() []Metadata {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Metadata, 0, len(r.engines))
	for _, e := range r.engines {
		out = append(out, e.Metadata())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (r *Registry) String() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return fmt.Sprintf("engine.Registry{Engines: %d, Names: %d, Extensions: %d}",
		len(r.engines), len(r.byName), len(r.byExt))
}
