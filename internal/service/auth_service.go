// Package service orchestrates registration and login over the credential
// store, the password hasher and the token issuer.
package service

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/gatehouse-auth/gatehouse/internal/core"
	"github.com/gatehouse-auth/gatehouse/internal/password"
	"github.com/gatehouse-auth/gatehouse/internal/token"
)

// AuthService implements the credential verification and token issuance
// contract: register hashes and stores, login verifies and issues.
type AuthService struct {
	users   core.UserStore
	hasher  *password.Hasher
	issuer  *token.Issuer
	auditor core.Auditor
}

func NewAuthService(users core.UserStore, hasher *password.Hasher, issuer *token.Issuer, auditor core.Auditor) *AuthService {
	return &AuthService{
		users:   users,
		hasher:  hasher,
		issuer:  issuer,
		auditor: auditor,
	}
}

// Register creates a new account. The raw password never reaches the store;
// only its hash does.
func (s *AuthService) Register(ctx context.Context, username, rawPassword string) (*core.User, error) {
	hash, err := s.hasher.Hash(rawPassword)
	if err != nil {
		return nil, httpError(http.StatusBadRequest, err)
	}

	user, err := s.users.Create(ctx, core.User{
		Username:     username,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, core.ErrDuplicateUsername) {
			return nil, httpError(http.StatusConflict, err)
		}
		return nil, err
	}

	s.audit(ctx, core.AuditEntry{
		Action:  core.ActionRegister,
		Subject: user.Username,
		Granted: true,
	})
	return user, nil
}

// LoginResult carries the issued token back to the transport layer.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
}

// Login verifies the credentials and issues a token. Unknown usernames and
// wrong passwords both come back as ErrInvalidCredentials so a caller cannot
// tell which one it was.
func (s *AuthService) Login(ctx context.Context, username, rawPassword string) (*LoginResult, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, core.ErrUserNotFound) {
			s.auditLoginFailure(ctx, username)
			return nil, httpError(http.StatusUnauthorized, core.ErrInvalidCredentials)
		}
		return nil, err
	}

	if !s.hasher.Verify(rawPassword, user.PasswordHash) {
		s.auditLoginFailure(ctx, username)
		return nil, httpError(http.StatusUnauthorized, core.ErrInvalidCredentials)
	}

	signed, expiresAt, err := s.issuer.Issue(user.Username, s.issuer.DefaultTTL())
	if err != nil {
		return nil, err
	}

	s.audit(ctx, core.AuditEntry{
		Action:  core.ActionLogin,
		Subject: user.Username,
		Granted: true,
	})
	return &LoginResult{Token: signed, ExpiresAt: expiresAt}, nil
}

func (s *AuthService) auditLoginFailure(ctx context.Context, username string) {
	s.audit(ctx, core.AuditEntry{
		Action:  core.ActionLogin,
		Subject: username,
		Granted: false,
		Error:   core.ErrInvalidCredentials.Error(),
	})
}

func (s *AuthService) audit(ctx context.Context, entry core.AuditEntry) {
	entry.Time = time.Now()
	if id, ok := ctx.Value("correlation_id").(string); ok {
		entry.ID = id
	}
	if err := s.auditor.Log(entry); err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to write audit log")
	}
}
