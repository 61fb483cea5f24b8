package core

import "time"

// Audit actions.
const (
	ActionRegister     = "user.register"
	ActionLogin        = "auth.login"
	ActionAuthSuccess  = "auth.success"
	ActionAuthRejected = "auth.rejected"
)

type AuditEntry struct {
	// ID is the unique request ID (X-Correlation-ID)
	ID string `json:"id"`

	// Time is the timestamp of the event
	Time time.Time `json:"time"`

	// Action describing what happened (e.g. "auth.success")
	Action string `json:"action"`

	// Subject identifies who made the request, if known
	Subject string `json:"subject,omitempty"`

	// Scheme is the strategy that decided the outcome
	Scheme string `json:"scheme,omitempty"`

	Granted bool   `json:"granted"`
	Error   string `json:"error,omitempty"`
}

type Auditor interface {
	Log(entry AuditEntry) error
	Close() error
}
