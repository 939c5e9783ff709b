// Package httpauth provides authentication strategies for the HTTP script loader.
package httpauth

import (
	"context"
	"maps"
	"net/http"
)

// Authenticator applies credentials to an outgoing request in place.
type Authenticator interface {
	// Authenticate adds authentication details to req. It fails when ctx is already done.
	Authenticate(ctx context.Context, req *http.Request) error

	// Name returns a descriptive name of the authentication method.
	Name() string
}

// NoAuth sends requests unchanged.
type NoAuth struct{}

func NewNoAuth() *NoAuth {
	return &NoAuth{}
}

func (n *NoAuth) Authenticate(ctx context.Context, req *http.Request) error {
	return ctx.Err()
}

func (n *NoAuth) Name() string {
	return "None"
}

// BasicAuth implements HTTP Basic Authentication (RFC 7617). An empty username disables it.
type BasicAuth struct {
	Username string
	Password string
}

func NewBasicAuth(username, password string) *BasicAuth {
	return &BasicAuth{
		Username: username,
		Password: password,
	}
}

func (b *BasicAuth) Authenticate(ctx context.Context, req *http.Request) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if b.Username != "" {
		req.SetBasicAuth(b.Username, b.Password)
	}
	return nil
}

func (b *BasicAuth) Name() string {
	return "Basic"
}

// HeaderAuth sets fixed headers on each request, for API keys and similar schemes.
type HeaderAuth struct {
	Headers map[string]string
}

func NewHeaderAuth(headers map[string]string) *HeaderAuth {
	return &HeaderAuth{
		Headers: maps.Clone(headers),
	}
}

// NewBearerAuth returns a HeaderAuth sending "Authorization: Bearer <token>".
func NewBearerAuth(token string) *HeaderAuth {
	return &HeaderAuth{
		Headers: map[string]string{
			"Authorization": "Bearer " + token,
		},
	}
}

func (h *HeaderAuth) Authenticate(ctx context.Context, req *http.Request) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	for key, value := range h.Headers {
		req.Header.Set(key, value)
	}
	return nil
}

func (h *HeaderAuth) Name() string {
	return "Header"
}
