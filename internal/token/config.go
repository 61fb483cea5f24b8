package token

import (
	"errors"
	"time"
)

const (
	// MinKeyBytes is the minimum symmetric signing key size (256 bits).
	MinKeyBytes = 32

	DefaultTTL = 24 * time.Hour
)

var ErrKeyTooShort = errors.New("token: signing key must be at least 32 bytes")

// Config configures token issuance and verification. The signing key is
// loaded once at process start and is immutable afterwards; it must never
// appear in logs or serialized output.
type Config struct {
	// Key is the HS256 signing key, minimum 256 bits of entropy.
	Key []byte

	// TTL is the default validity duration of issued tokens.
	TTL time.Duration

	// Issuer is the "iss" claim. Optional; verified when set.
	Issuer string

	// Audience is the "aud" claim. Optional; verified when set.
	Audience string
}

func (c *Config) applyDefaults() {
	if c.TTL == 0 {
		c.TTL = DefaultTTL
	}
}

func (c *Config) validate() error {
	if len(c.Key) < MinKeyBytes {
		return ErrKeyTooShort
	}
	return nil
}
