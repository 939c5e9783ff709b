// Package bindings provides the evaluation context shared between a caller and the scripts it runs.
package bindings

import (
	"io"
	"maps"
	"os"
	"sort"
	"sync"
)

// Context holds the variables visible to a script as globals, and the writer that script output
// (print, console.log) is sent to. A Context can be shared by several evaluations; its methods
// are safe for concurrent use.
type Context struct {
	mu     sync.RWMutex
	vars   map[string]any
	writer io.Writer
}

// Option configures a Context.
type Option func(*Context)

// WithVars copies the given variables into the context.
func WithVars(vars map[string]any) Option {
	return func(c *Context) {
		maps.Copy(c.vars, vars)
	}
}

// WithWriter sets the destination for script output. A nil writer discards output.
func WithWriter(w io.Writer) Option {
	return func(c *Context) {
		if w == nil {
			w = io.Discard
		}
		c.writer = w
	}
}

// NewContext creates a context. Script output goes to os.Stdout unless WithWriter is given.
func NewContext(opts ...Option) *Context {
	c := &Context{
		vars:   make(map[string]any),
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Set binds name to value, replacing any earlier binding.
func (c *Context) Set(name string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vars[name] = value
}

// Get returns the value bound to name.
func (c *Context) Get(name string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.vars[name]
	return v, ok
}

// Delete removes the binding for name.
func (c *Context) Delete(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.vars, name)
}

// Vars returns a copy of all bindings. A nil Context has no bindings.
func (c *Context) Vars() map[string]any {
	if c == nil {
		return map[string]any{}
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return maps.Clone(c.vars)
}

// Names returns the bound names in sorted order.
func (c *Context) Names() []string {
	if c == nil {
		return nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.vars))
	for k := range c.vars {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Writer returns the output destination. A nil Context writes to io.Discard.
func (c *Context) Writer() io.Writer {
	if c == nil {
		return io.Discard
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.writer
}
