// Package token issues and verifies the signed, time-bounded identity tokens
// returned by login. Tokens are HS256 JWTs; the signing key is process-wide
// state injected at startup, never a compiled-in literal.
package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Issuer produces signed tokens asserting an identity claim.
type Issuer struct {
	cfg Config
}

func NewIssuer(cfg Config) (*Issuer, error) {
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Issuer{cfg: cfg}, nil
}

// Issue creates a signed token for the given subject. The ttl is taken
// literally, so a zero or negative ttl produces an already-expired token.
// The result is URL-safe (compact JWS serialization).
func (i *Issuer) Issue(subject string, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(ttl)

	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	if i.cfg.Issuer != "" {
		claims.Issuer = i.cfg.Issuer
	}
	if i.cfg.Audience != "" {
		claims.Audience = jwt.ClaimStrings{i.cfg.Audience}
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.cfg.Key)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signing token: %w", err)
	}
	return signed, expiresAt, nil
}

// DefaultTTL returns the configured token lifetime.
func (i *Issuer) DefaultTTL() time.Duration {
	return i.cfg.TTL
}
