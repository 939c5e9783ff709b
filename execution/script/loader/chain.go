package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"
)

// Chain searches several loaders in order, like a class path: the first loader that has the
// resource serves it. Errors other than a missing resource stop the search.
type Chain struct {
	loaders []Loader
}

func NewChain(loaders ...Loader) (*Chain, error) {
	if len(loaders) == 0 {
		return nil, fmt.Errorf("%w: no loaders given", ErrInputEmpty)
	}
	for i, l := range loaders {
		if l == nil {
			return nil, fmt.Errorf("%w: loader %d is nil", ErrInputEmpty, i)
		}
	}
	return &Chain{loaders: loaders}, nil
}

func (c *Chain) String() string {
	parts := make([]string, 0, len(c.loaders))
	for _, l := range c.loaders {
		parts = append(parts, fmt.Sprint(l))
	}
	return fmt.Sprintf("loader.Chain{%s}", strings.Join(parts, ", "))
}

func (c *Chain) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	for _, l := range c.loaders {
		rc, err := l.Open(ctx, name)
		if err == nil {
			return rc, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	return nil, notFound(name)
}
