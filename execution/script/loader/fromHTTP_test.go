package loader

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robbyt/go-scripting/execution/script/loader/httpauth"
)

// mockHTTPClient implements the httpRequester interface for testing
type mockHTTPClient struct {
	doFunc func(req *http.Request) (*http.Response, error)
}

func (m *mockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	if m.doFunc != nil {
		return m.doFunc(req)
	}
	return nil, errors.New("doFunc not implemented")
}

func newMockResponse(statusCode int, body string) (*http.Response, *TrackingReadCloser) {
	rc := &TrackingReadCloser{Reader: bytes.NewBufferString(body)}
	return &http.Response{
		StatusCode: statusCode,
		Body:       rc,
		Status:     http.StatusText(statusCode),
		Header:     make(http.Header),
	}, rc
}

func TestNewFromHTTP(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		url           string
		expectError   bool
		errorContains string
	}{
		{name: "Valid HTTPS URL", url: "https://example.com/repo/"},
		{name: "Valid HTTP URL", url: "http://example.com/repo"},
		{
			name:          "Invalid URL scheme",
			url:           "file:///path/to/scripts",
			expectError:   true,
			errorContains: "unsupported scheme",
		},
		{
			name:          "Invalid URL format",
			url:           "://invalid-url",
			expectError:   true,
			errorContains: "unable to parse URL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			l, err := NewFromHTTP(tt.url)
			if tt.expectError {
				require.Error(t, err)
				require.Contains(t, err.Error(), tt.errorContains)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tt.url, l.baseURL.String())
			require.NotNil(t, l.client)
			require.Equal(t, 30*time.Second, l.options.Timeout)
			require.Equal(t, "None", l.options.Authenticator.Name())
		})
	}
}

func TestNewFromHTTPWithOptions(t *testing.T) {
	t.Parallel()

	t.Run("nil options get defaults", func(t *testing.T) {
		l, err := NewFromHTTPWithOptions("https://example.com", nil)
		require.NoError(t, err)
		require.NotNil(t, l.options.Authenticator)
	})

	t.Run("nil authenticator gets no auth", func(t *testing.T) {
		opts := DefaultHTTPOptions()
		opts.Authenticator = nil
		l, err := NewFromHTTPWithOptions("https://example.com", opts)
		require.NoError(t, err)
		require.Equal(t, "None", l.options.Authenticator.Name())
	})

	t.Run("insecure transport", func(t *testing.T) {
		opts := DefaultHTTPOptions()
		opts.InsecureSkipVerify = true
		l, err := NewFromHTTPWithOptions("https://example.com", opts)
		require.NoError(t, err)

		client, ok := l.client.(*http.Client)
		require.True(t, ok)
		transport, ok := client.Transport.(*http.Transport)
		require.True(t, ok)
		require.True(t, transport.TLSClientConfig.InsecureSkipVerify)
	})

	t.Run("string includes the auth name", func(t *testing.T) {
		opts := DefaultHTTPOptions()
		opts.Authenticator = httpauth.NewBasicAuth("user", "pass")
		l, err := NewFromHTTPWithOptions("https://example.com/repo", opts)
		require.NoError(t, err)
		require.Equal(t, "loader.FromHTTP{URL: https://example.com/repo, Auth: Basic}", l.String())
	})
}

func TestFromHTTPResourceURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		base string
		name string
		want string
	}{
		{base: "https://example.com/repo/", name: "scripts/build.js", want: "https://example.com/repo/scripts/build.js"},
		{base: "https://example.com/repo", name: "scripts/build.js", want: "https://example.com/repo/scripts/build.js"},
		{base: "https://example.com", name: "/hello.js", want: "https://example.com/hello.js"},
	}

	for _, tt := range tests {
		l, err := NewFromHTTP(tt.base)
		require.NoError(t, err)
		got, err := l.resourceURL(tt.name)
		require.NoError(t, err)
		require.Equal(t, tt.want, got)
	}

	l, err := NewFromHTTP("https://example.com")
	require.NoError(t, err)
	_, err = l.resourceURL("../secret")
	require.ErrorIs(t, err, ErrInvalidName)
}

func TestFromHTTPOpenWithServer(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/repo/scripts/hello.js":
			w.Header().Set("Content-Type", "application/javascript")
			_, _ = w.Write([]byte("1+1"))
		case "/repo/scripts/secret.js":
			if r.Header.Get("Authorization") != "Bearer token123" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			_, _ = w.Write([]byte("'secret'"))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		l, err := NewFromHTTP(server.URL + "/repo/")
		require.NoError(t, err)

		rc, err := l.Open(ctx, "scripts/hello.js")
		require.NoError(t, err)
		defer rc.Close()
		content, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.Equal(t, "1+1", string(content))
	})

	t.Run("not found", func(t *testing.T) {
		l, err := NewFromHTTP(server.URL + "/repo/")
		require.NoError(t, err)

		rc, err := l.Open(ctx, "scripts/missing.js")
		require.Nil(t, rc)
		require.ErrorIs(t, err, fs.ErrNotExist)
		require.ErrorIs(t, err, ErrScriptNotAvailable)
	})

	t.Run("unauthorized", func(t *testing.T) {
		l, err := NewFromHTTP(server.URL + "/repo/")
		require.NoError(t, err)

		rc, err := l.Open(ctx, "scripts/secret.js")
		require.Nil(t, rc)
		require.ErrorIs(t, err, ErrScriptNotAvailable)
		require.NotErrorIs(t, err, fs.ErrNotExist)
		require.Contains(t, err.Error(), "HTTP 401")
	})

	t.Run("authorized", func(t *testing.T) {
		opts := DefaultHTTPOptions()
		opts.Authenticator = httpauth.NewBearerAuth("token123")
		l, err := NewFromHTTPWithOptions(server.URL+"/repo/", opts)
		require.NoError(t, err)

		rc, err := l.Open(ctx, "scripts/secret.js")
		require.NoError(t, err)
		defer rc.Close()
		content, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.Equal(t, "'secret'", string(content))
	})
}

func TestFromHTTPOpenWithMockClient(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("headers and user agent", func(t *testing.T) {
		opts := DefaultHTTPOptions()
		opts.Headers["X-Build"] = "42"
		l, err := NewFromHTTPWithOptions("https://example.com/repo/", opts)
		require.NoError(t, err)

		var seen *http.Request
		resp, _ := newMockResponse(http.StatusOK, "1+1")
		l.client = &mockHTTPClient{doFunc: func(req *http.Request) (*http.Response, error) {
			seen = req
			return resp, nil
		}}

		rc, err := l.Open(ctx, "scripts/hello.js")
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		require.Equal(t, "42", seen.Header.Get("X-Build"))
		require.Equal(t, "go-scripting/http-loader", seen.Header.Get("User-Agent"))
		require.Equal(t, "https://example.com/repo/scripts/hello.js", seen.URL.String())
	})

	t.Run("error status closes the body", func(t *testing.T) {
		l, err := NewFromHTTP("https://example.com/repo/")
		require.NoError(t, err)

		resp, body := newMockResponse(http.StatusInternalServerError, "boom")
		l.client = &mockHTTPClient{doFunc: func(req *http.Request) (*http.Response, error) {
			return resp, nil
		}}

		_, err = l.Open(ctx, "scripts/hello.js")
		require.ErrorIs(t, err, ErrScriptNotAvailable)
		require.True(t, body.Closed)
	})

	t.Run("transport error", func(t *testing.T) {
		l, err := NewFromHTTP("https://example.com/repo/")
		require.NoError(t, err)
		l.client = &mockHTTPClient{}

		_, err = l.Open(ctx, "scripts/hello.js")
		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to execute HTTP request")
	})

	t.Run("cancelled context fails authentication", func(t *testing.T) {
		l, err := NewFromHTTP("https://example.com/repo/")
		require.NoError(t, err)

		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err = l.Open(cctx, "scripts/hello.js")
		require.ErrorIs(t, err, context.Canceled)
	})
}
