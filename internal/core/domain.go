package core

import "time"

// Principal represents the authenticated identity of the caller.
// It is produced by a Strategy after verifying the request's credential material.
type Principal struct {
	// Subject is the unique identity of the caller (the username for
	// password-based accounts, the sub claim for tokens).
	Subject string `json:"subject"`

	// Scheme is the name of the strategy that authenticated this principal
	// (e.g. "jwt", "api_key").
	Scheme string `json:"scheme"`

	// Attributes are additional claims extracted during verification.
	Attributes map[string]any `json:"attributes,omitempty"`
}

// User is a registered account. Owned exclusively by the credential store;
// the username is immutable once created.
type User struct {
	// ID is a store-assigned identifier, used for audit references.
	ID string `json:"id"`

	// Username is the unique identity key.
	Username string `json:"username"`

	// PasswordHash is the bcrypt hash of the account password.
	// It must never be serialized into API responses.
	PasswordHash string `json:"-"`

	CreatedAt time.Time `json:"created_at"`
}
