package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FromDisk loads resources from a directory tree. Names cannot escape the root directory.
type FromDisk struct {
	root string
}

// NewFromDisk creates a loader rooted at dir. The dir must be an absolute path; a "file://"
// prefix is accepted.
func NewFromDisk(dir string) (*FromDisk, error) {
	dir = strings.TrimPrefix(dir, "file://")

	if strings.HasPrefix(dir, "http://") || strings.HasPrefix(dir, "https://") {
		return nil, fmt.Errorf("%w: %s", ErrSchemeUnsupported, dir)
	}

	if dir == "" {
		return nil, fmt.Errorf("%w: root directory is empty", ErrInputEmpty)
	}

	// Reject relative paths
	if !filepath.IsAbs(dir) {
		return nil, fmt.Errorf("%w: relative root directories are not supported: %s", ErrScriptNotAvailable, dir)
	}

	return &FromDisk{root: filepath.Clean(dir)}, nil
}

func (l *FromDisk) String() string {
	return fmt.Sprintf("loader.FromDisk{Root: %s}", l.root)
}

// Root returns the directory resources are loaded from.
func (l *FromDisk) Root() string {
	return l.root
}

// Open opens name below the root directory.
func (l *FromDisk) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	clean, err := fsName(name)
	if err != nil {
		return nil, err
	}

	root, err := os.OpenRoot(l.root)
	if err != nil {
		return nil, fmt.Errorf("%w: unable to open root %s: %w", ErrScriptNotAvailable, l.root, err)
	}
	defer root.Close()

	f, err := root.Open(filepath.FromSlash(clean))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, notFound(name)
		}
		return nil, fmt.Errorf("failed to open %s: %w", name, err)
	}

	if err := rejectDir(f, name); err != nil {
		return nil, err
	}
	return f, nil
}
