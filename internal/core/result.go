package core

// AuthStatus is the outcome class of a single authentication attempt.
type AuthStatus int

const (
	// StatusNoResult means the strategy's credential material was absent
	// from the request. The dispatcher moves on to the next strategy.
	StatusNoResult AuthStatus = iota

	// StatusFailure means credential material was present but invalid.
	StatusFailure

	// StatusSuccess means the strategy verified the credential and
	// produced a principal.
	StatusSuccess
)

// AuthResult is the per-request outcome of running one strategy.
// It is never persisted.
type AuthResult struct {
	Status    AuthStatus
	Principal *Principal

	// Reason carries the failure cause for logging and auditing.
	// It is never surfaced to the client verbatim.
	Reason error
}

func Success(principal *Principal) AuthResult {
	return AuthResult{Status: StatusSuccess, Principal: principal}
}

func Failure(reason error) AuthResult {
	return AuthResult{Status: StatusFailure, Reason: reason}
}

func NoResult() AuthResult {
	return AuthResult{Status: StatusNoResult}
}
