package strategies

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"sync"

	"github.com/gatehouse-auth/gatehouse/internal/core"
)

var _ core.Strategy = (*ServiceToken)(nil)

var errUnknownServiceToken = errors.New("unknown service token")

// ServiceToken authenticates bearer tokens against a provisioned table of
// opaque service credentials, each mapped to a subject. Every stored token is
// compared in constant time; the scan does not stop at the first length
// mismatch.
type ServiceToken struct {
	name string

	mu     sync.RWMutex
	tokens map[string]string // token -> subject
}

func NewServiceToken(name string, tokens map[string]string) *ServiceToken {
	if tokens == nil {
		tokens = make(map[string]string)
	}
	return &ServiceToken{name: name, tokens: tokens}
}

func (s *ServiceToken) Name() string {
	return s.name
}

// Add provisions a token at runtime.
func (s *ServiceToken) Add(token, subject string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token] = subject
}

// Remove revokes a provisioned token.
func (s *ServiceToken) Remove(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, token)
}

func (s *ServiceToken) Authenticate(_ context.Context, r *http.Request) core.AuthResult {
	presented, ok := bearerToken(r)
	if !ok {
		return core.NoResult()
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for stored, subject := range s.tokens {
		if subtle.ConstantTimeEq(int32(len(presented)), int32(len(stored))) == 1 &&
			subtle.ConstantTimeCompare([]byte(presented), []byte(stored)) == 1 {
			return core.Success(&core.Principal{
				Subject: subject,
				Scheme:  s.name,
			})
		}
	}

	return core.Failure(errUnknownServiceToken)
}
