package strategies

import (
	"context"
	"fmt"
	"net/http"

	"github.com/coreos/go-oidc/v3/oidc"

	"github.com/gatehouse-auth/gatehouse/internal/core"
)

var _ core.Strategy = (*OIDC)(nil)

// OIDC authenticates bearer tokens against an external identity provider.
// Discovery runs once at startup; per-request verification uses the cached
// provider keys.
type OIDC struct {
	name     string
	verifier *oidc.IDTokenVerifier
}

// OIDCConfig holds the settings for one oidc strategy entry.
type OIDCConfig struct {
	IssuerURL string `mapstructure:"issuer_url"`
	ClientID  string `mapstructure:"client_id"`
}

func NewOIDC(ctx context.Context, name string, cfg OIDCConfig) (*OIDC, error) {
	if cfg.IssuerURL == "" {
		return nil, fmt.Errorf("oidc strategy '%s' missing 'issuer_url'", name)
	}
	if cfg.ClientID == "" {
		return nil, fmt.Errorf("oidc strategy '%s' missing 'client_id'", name)
	}

	provider, err := oidc.NewProvider(ctx, cfg.IssuerURL)
	if err != nil {
		return nil, fmt.Errorf("creating oidc provider for strategy '%s': %w", name, err)
	}

	return &OIDC{
		name:     name,
		verifier: provider.Verifier(&oidc.Config{ClientID: cfg.ClientID}),
	}, nil
}

func (s *OIDC) Name() string {
	return s.name
}

func (s *OIDC) Authenticate(ctx context.Context, r *http.Request) core.AuthResult {
	token, ok := bearerToken(r)
	if !ok {
		return core.NoResult()
	}

	idToken, err := s.verifier.Verify(ctx, token)
	if err != nil {
		return core.Failure(fmt.Errorf("oidc verification failed: %w", err))
	}

	var claims map[string]any
	if err := idToken.Claims(&claims); err != nil {
		return core.Failure(fmt.Errorf("extracting oidc claims: %w", err))
	}

	subject := idToken.Subject
	if subject == "" {
		return core.Failure(fmt.Errorf("oidc token missing 'sub' claim"))
	}

	return core.Success(&core.Principal{
		Subject:    subject,
		Scheme:     s.name,
		Attributes: claims,
	})
}
