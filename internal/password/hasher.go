// Package password provides the one-way salted hash primitive used by the
// credential store. bcrypt generates a per-call salt and embeds it in the
// output string, and comparison runs in constant time.
package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const DefaultCost = 12

var (
	ErrPasswordTooShort = errors.New("password: minimum length is 8 characters")
	ErrPasswordTooLong  = errors.New("password: maximum length is 72 bytes (bcrypt limit)")
)

// Hasher hashes and verifies passwords using bcrypt.
type Hasher struct {
	cost int
}

// Option configures the hasher.
type Option func(*Hasher)

// WithCost sets the bcrypt cost parameter (default: 12).
func WithCost(cost int) Option {
	return func(h *Hasher) {
		if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
			h.cost = cost
		}
	}
}

func NewHasher(opts ...Option) *Hasher {
	h := &Hasher{cost: DefaultCost}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Hash returns the salted bcrypt hash of the password.
func (h *Hasher) Hash(password string) (string, error) {
	if len(password) < 8 {
		return "", ErrPasswordTooShort
	}
	if len(password) > 72 {
		return "", ErrPasswordTooLong
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether password matches hash. A malformed hash string
// verifies as false; it is never an error the caller has to handle.
func (h *Hasher) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
