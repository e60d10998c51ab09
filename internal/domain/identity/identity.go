package identity

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrMissingCredential means the Authorization header is absent or not a bearer token.
	ErrMissingCredential = errors.New("missing bearer token")
	// ErrInvalidCredential covers every verification failure of a presented token.
	ErrInvalidCredential = errors.New("invalid bearer token")
)

// Identity is the verified caller for a single request.
type Identity struct {
	Subject   string
	Issuer    string
	Audience  []string
	Email     string
	IssuedAt  time.Time
	ExpiresAt time.Time
	Claims    map[string]any
}

// Verifier turns a raw Authorization header into an Identity.
// Implementations return ErrMissingCredential or ErrInvalidCredential, possibly wrapped.
type Verifier interface {
	Verify(ctx context.Context, authorizationHeader string) (Identity, error)
}

type identityKey struct{}

// WithIdentity attaches a verified identity to a context.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// FromContext returns the identity stored by WithIdentity.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}
