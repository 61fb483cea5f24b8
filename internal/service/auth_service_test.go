package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/gatehouse-auth/gatehouse/internal/audit"
	"github.com/gatehouse-auth/gatehouse/internal/core"
	"github.com/gatehouse-auth/gatehouse/internal/password"
	"github.com/gatehouse-auth/gatehouse/internal/store"
	"github.com/gatehouse-auth/gatehouse/internal/token"
)

func newTestService(t *testing.T) (*AuthService, *token.Verifier, *audit.InMemoryAuditor) {
	t.Helper()

	cfg := token.Config{
		Key: []byte("0123456789abcdef0123456789abcdef"),
		TTL: time.Hour,
	}
	issuer, err := token.NewIssuer(cfg)
	require.NoError(t, err)
	verifier, err := token.NewVerifier(cfg)
	require.NoError(t, err)

	auditor := audit.NewInMemoryAuditor()
	svc := NewAuthService(
		store.NewInMemoryUserStore(),
		password.NewHasher(password.WithCost(bcrypt.MinCost)),
		issuer,
		auditor,
	)
	return svc, verifier, auditor
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	svc, verifier, _ := newTestService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice", "password-123")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.NotEmpty(t, user.ID)
	assert.NotEqual(t, "password-123", user.PasswordHash)

	result, err := svc.Login(ctx, "alice", "password-123")
	require.NoError(t, err)
	require.NotEmpty(t, result.Token)
	assert.True(t, result.ExpiresAt.After(time.Now()))

	principal, err := verifier.Verify(ctx, result.Token)
	require.NoError(t, err)
	assert.Equal(t, "alice", principal.Subject)
}

func TestAuthService_RegisterDuplicate(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "password-123")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "alice", "other-password")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrDuplicateUsername)

	var httpErr HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusConflict, httpErr.StatusCode)
}

func TestAuthService_RegisterWeakPassword(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Register(context.Background(), "alice", "short")
	require.Error(t, err)

	var httpErr HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.StatusCode)
}

func TestAuthService_LoginRejectionsAreIndistinguishable(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "password-123")
	require.NoError(t, err)

	_, unknownUserErr := svc.Login(ctx, "mallory", "password-123")
	_, wrongPasswordErr := svc.Login(ctx, "alice", "wrong-password")

	// both rejections carry the same error and status, revealing nothing
	// about whether the username exists
	require.Error(t, unknownUserErr)
	require.Error(t, wrongPasswordErr)
	assert.ErrorIs(t, unknownUserErr, core.ErrInvalidCredentials)
	assert.ErrorIs(t, wrongPasswordErr, core.ErrInvalidCredentials)
	assert.Equal(t, unknownUserErr.Error(), wrongPasswordErr.Error())

	var first, second HTTPError
	require.ErrorAs(t, unknownUserErr, &first)
	require.ErrorAs(t, wrongPasswordErr, &second)
	assert.Equal(t, http.StatusUnauthorized, first.StatusCode)
	assert.Equal(t, http.StatusUnauthorized, second.StatusCode)
}

func TestAuthService_AuditTrail(t *testing.T) {
	svc, _, auditor := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "password-123")
	require.NoError(t, err)
	_, err = svc.Login(ctx, "alice", "password-123")
	require.NoError(t, err)
	_, err = svc.Login(ctx, "alice", "wrong-password")
	require.Error(t, err)

	entries, err := auditor.GetRecent(10)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	byAction := make(map[string][]core.AuditEntry)
	for _, e := range entries {
		byAction[e.Action] = append(byAction[e.Action], e)
	}
	require.Len(t, byAction[core.ActionRegister], 1)
	require.Len(t, byAction[core.ActionLogin], 2)

	var failed int
	for _, e := range byAction[core.ActionLogin] {
		if !e.Granted {
			failed++
			assert.NotEmpty(t, e.Error)
		}
	}
	assert.Equal(t, 1, failed)
}

func TestHTTPError_Unwrap(t *testing.T) {
	wrapped := httpError(http.StatusTeapot, core.ErrInvalidCredentials)
	assert.True(t, errors.Is(wrapped, core.ErrInvalidCredentials))
	assert.Equal(t, core.ErrInvalidCredentials.Error(), wrapped.Error())
}
