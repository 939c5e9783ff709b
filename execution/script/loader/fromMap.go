package loader

import (
	"context"
	"fmt"
	"io"
	"maps"
	"strings"
)

// FromMap serves resources from memory, keyed by exact resource name.
type FromMap struct {
	scripts map[string]string
}

// NewFromMap copies scripts into a new loader.
func NewFromMap(scripts map[string]string) *FromMap {
	if scripts == nil {
		scripts = map[string]string{}
	}
	return &FromMap{scripts: maps.Clone(scripts)}
}

func (l *FromMap) String() string {
	return fmt.Sprintf("loader.FromMap{Scripts: %d}", len(l.scripts))
}

func (l *FromMap) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	content, ok := l.scripts[name]
	if !ok {
		return nil, notFound(name)
	}
	return io.NopCloser(strings.NewReader(content)), nil
}
