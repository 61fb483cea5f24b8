package token

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/gatehouse-auth/gatehouse/internal/core"
)

var _ core.Verifier = (*Verifier)(nil)

// Verifier validates tokens produced by Issuer. Checks short-circuit in
// order: structure, signature (method pinned to HS256), expiry, then
// issuer/audience when configured.
type Verifier struct {
	cfg Config
}

func NewVerifier(cfg Config) (*Verifier, error) {
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Verifier{cfg: cfg}, nil
}

func (v *Verifier) Verify(_ context.Context, tokenString string) (*core.Principal, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, v.keyFunc, v.parserOptions()...)
	if err != nil {
		return nil, classify(err)
	}
	if !parsed.Valid {
		return nil, core.ErrBadSignature
	}
	if claims.Subject == "" {
		return nil, core.ErrTokenMalformed
	}

	return &core.Principal{
		Subject: claims.Subject,
		Scheme:  "jwt",
		Attributes: map[string]any{
			"iat": claims.IssuedAt,
			"exp": claims.ExpiresAt,
		},
	}, nil
}

func (v *Verifier) keyFunc(t *jwt.Token) (any, error) {
	if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
	}
	return v.cfg.Key, nil
}

func (v *Verifier) parserOptions() []jwt.ParserOption {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if v.cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.cfg.Issuer))
	}
	if v.cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(v.cfg.Audience))
	}
	return opts
}

// classify maps golang-jwt errors onto the rejection taxonomy: malformed
// before signature before expiry before audience/issuer.
func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed),
		errors.Is(err, jwt.ErrTokenRequiredClaimMissing):
		return core.ErrTokenMalformed
	case errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrTokenUnverifiable):
		return core.ErrBadSignature
	case errors.Is(err, jwt.ErrTokenExpired),
		errors.Is(err, jwt.ErrTokenNotValidYet):
		return core.ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenInvalidAudience),
		errors.Is(err, jwt.ErrTokenInvalidIssuer):
		return core.ErrAudienceMismatch
	default:
		return core.ErrBadSignature
	}
}
