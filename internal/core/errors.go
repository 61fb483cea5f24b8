package core

import "errors"

// Credential store errors.
var (
	ErrDuplicateUsername = errors.New("username already taken")
	ErrUserNotFound      = errors.New("user not found")
	ErrStoreUnavailable  = errors.New("credential store unavailable")
)

// Authentication errors. None of these are transient; callers must not retry
// them, and the HTTP layer collapses all of them into a generic unauthorized
// response so a caller cannot probe which check failed.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenMalformed     = errors.New("token malformed")
	ErrBadSignature       = errors.New("token signature invalid")
	ErrTokenExpired       = errors.New("token expired")
	ErrAudienceMismatch   = errors.New("token audience or issuer mismatch")
)
