package strategies

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"

	"github.com/gatehouse-auth/gatehouse/internal/core"
)

// APIKeyHeader is the header carrying the API key credential.
const APIKeyHeader = "X-Api-Key"

var _ core.Strategy = (*APIKey)(nil)

var errKeyMismatch = errors.New("api key mismatch")

// APIKey authenticates requests carrying a shared secret in the X-Api-Key
// header. The comparison is constant-time so response latency carries no
// information about partial matches.
type APIKey struct {
	name    string
	key     []byte
	subject string
}

func NewAPIKey(name string, key []byte, subject string) *APIKey {
	if subject == "" {
		subject = "api-key-client"
	}
	return &APIKey{name: name, key: key, subject: subject}
}

func (s *APIKey) Name() string {
	return s.name
}

func (s *APIKey) Authenticate(_ context.Context, r *http.Request) core.AuthResult {
	presented := r.Header.Get(APIKeyHeader)
	if presented == "" {
		return core.NoResult()
	}

	if !constantTimeEqual([]byte(presented), s.key) {
		return core.Failure(errKeyMismatch)
	}

	return core.Success(&core.Principal{
		Subject: s.subject,
		Scheme:  s.name,
	})
}

// constantTimeEqual compares two secrets without leaking where they differ.
// The explicit length check keeps subtle.ConstantTimeCompare's precondition
// while itself only revealing length, which the attacker already controls.
func constantTimeEqual(a, b []byte) bool {
	if subtle.ConstantTimeEq(int32(len(a)), int32(len(b))) != 1 {
		return false
	}
	return subtle.ConstantTimeCompare(a, b) == 1
}
