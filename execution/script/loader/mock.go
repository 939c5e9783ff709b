package loader

import (
	"context"
	"io"
	"strings"

	"github.com/stretchr/testify/mock"
)

// MockLoader implements the loader.Loader interface for testing
type MockLoader struct {
	mock.Mock
}

func (m *MockLoader) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

// TrackingReadCloser records whether it was closed.
type TrackingReadCloser struct {
	io.Reader
	Closed   bool
	CloseErr error
}

// NewTrackingReadCloser returns an open TrackingReadCloser over content.
func NewTrackingReadCloser(content string) *TrackingReadCloser {
	return &TrackingReadCloser{Reader: strings.NewReader(content)}
}

func (t *TrackingReadCloser) Close() error {
	t.Closed = true
	return t.CloseErr
}

// NewMockLoaderWithContent returns a mock that serves content for name once, and the tracking
// reader it hands out.
func NewMockLoaderWithContent(name, content string) (*MockLoader, *TrackingReadCloser) {
	rc := NewTrackingReadCloser(content)
	m := new(MockLoader)
	m.On("Open", mock.Anything, name).Return(rc, nil).Once()
	return m, rc
}
