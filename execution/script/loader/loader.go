// Package loader provides the resource stores that script bodies are read from.
//
// Resource names are '/'-separated on every platform, like the paths of an io/fs file system.
package loader

import (
	"context"
	"fmt"
	"io"
	"io/fs"
)

// Loader opens script resources by name. The caller must close the returned reader.
//
// A resource that does not exist is reported with an error matching both ErrScriptNotAvailable
// and fs.ErrNotExist.
type Loader interface {
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}

func notFound(name string) error {
	return fmt.Errorf("%w: %s: %w", ErrScriptNotAvailable, name, fs.ErrNotExist)
}
