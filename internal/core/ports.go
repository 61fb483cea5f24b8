package core

import (
	"context"
	"net/http"
)

// Strategy is one pluggable way of authenticating an incoming request.
// Implementations: bearer JWT, API key, service token, OIDC.
type Strategy interface {
	// Name returns the identifier of this strategy (as used in config).
	Name() string

	// Authenticate inspects the request's credential material and returns
	// the outcome. A request without this strategy's credential material
	// must yield NoResult, not Failure.
	Authenticate(ctx context.Context, r *http.Request) AuthResult
}

// UserStore holds username -> password-hash mappings.
type UserStore interface {
	// Create persists a new user. It fails with ErrDuplicateUsername if the
	// username is already taken; concurrent creates for the same username
	// are serialized by the store.
	Create(ctx context.Context, user User) (*User, error)

	// FindByUsername returns the user or ErrUserNotFound.
	FindByUsername(ctx context.Context, username string) (*User, error)
}

// Verifier validates a serialized token and yields the asserted identity.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Principal, error)
}
