package strategies

import (
	"context"
	"net/http"

	"github.com/gatehouse-auth/gatehouse/internal/core"
)

var _ core.Strategy = (*BearerJWT)(nil)

// BearerJWT authenticates requests carrying a signed token in the
// Authorization header. Verification is delegated to the token verifier.
type BearerJWT struct {
	name     string
	verifier core.Verifier
}

func NewBearerJWT(name string, verifier core.Verifier) *BearerJWT {
	return &BearerJWT{name: name, verifier: verifier}
}

func (s *BearerJWT) Name() string {
	return s.name
}

func (s *BearerJWT) Authenticate(ctx context.Context, r *http.Request) core.AuthResult {
	token, ok := bearerToken(r)
	if !ok {
		return core.NoResult()
	}

	principal, err := s.verifier.Verify(ctx, token)
	if err != nil {
		return core.Failure(err)
	}
	principal.Scheme = s.name
	return core.Success(principal)
}
