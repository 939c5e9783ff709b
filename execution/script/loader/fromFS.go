package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"
)

// FromFS loads resources from an fs.FS, such as an embed.FS compiled into the binary or an
// fstest.MapFS in tests.
type FromFS struct {
	fsys fs.FS
}

func NewFromFS(fsys fs.FS) (*FromFS, error) {
	if fsys == nil {
		return nil, fmt.Errorf("%w: file system is nil", ErrInputEmpty)
	}
	return &FromFS{fsys: fsys}, nil
}

func (l *FromFS) String() string {
	return fmt.Sprintf("loader.FromFS{FS: %T}", l.fsys)
}

// Open opens name in the file system. A leading '/' is ignored.
func (l *FromFS) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	clean, err := fsName(name)
	if err != nil {
		return nil, err
	}

	f, err := l.fsys.Open(clean)
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

// fsName turns a resource name into an io/fs path.
func fsName(name string) (string, error) {
	clean := strings.TrimPrefix(name, "/")
	if clean == "" || !fs.ValidPath(clean) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return clean, nil
}

// rejectDir closes f and returns an error when it is a directory.
func rejectDir(f fs.File, name string) error {
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return fmt.Errorf("failed to stat %s: %w", name, err)
	}
	if info.IsDir() {
		f.Close()
		return fmt.Errorf("%w: %s is a directory", ErrScriptNotAvailable, name)
	}
	return nil
}
