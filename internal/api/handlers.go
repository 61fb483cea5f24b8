package api

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/gatehouse-auth/gatehouse/internal/api/middleware"
	"github.com/gatehouse-auth/gatehouse/internal/api/presenter"
	"github.com/gatehouse-auth/gatehouse/internal/buildinfo"
	"github.com/gatehouse-auth/gatehouse/internal/core"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// handleHealth responds with a simple OK status to indicate the server is healthy.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// handleAbout responds with service information including version and commit hash.
func (s *Server) handleAbout(w http.ResponseWriter, r *http.Request) {
	presenter.JSON(w, r, buildinfo.GetBuildInfo(), http.StatusOK)
}

type CredentialsPayload struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type UserResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type ProtectedResponse struct {
	Message string `json:"message"`
	Subject string `json:"subject"`
	Scheme  string `json:"scheme"`
}

func DecodePayload(r *http.Request, dest any, allowEmpty bool) error {
	// clients commonly send parameters like "; charset=utf-8"
	if ct := r.Header.Get("Content-Type"); ct != "" {
		mediaType, _, err := mime.ParseMediaType(ct)
		if err != nil || mediaType != "application/json" {
			return errors.New("unsupported content type")
		}
	}

	// strict encoding for JSON
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		if !errors.Is(err, io.EOF) || !allowEmpty {
			return err
		}
	}
	// ensure there's no extra data
	if dec.More() {
		return errors.New("extra data in request body")
	}
	return nil
}

// handleRegister creates a new account from a username/password payload.
// The response never carries the password hash.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.Ctx(ctx)

	var payload CredentialsPayload
	if err := DecodePayload(r, &payload, false); err != nil {
		logger.Warn().Err(err).Msg("failed to decode register payload")
		presenter.Error(w, r, "invalid request payload", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(payload); err != nil {
		logger.Warn().Err(err).Msg("register payload failed validation")
		presenter.Error(w, r, "invalid request payload", http.StatusBadRequest)
		return
	}

	user, err := s.authService.Register(ctx, payload.Username, payload.Password)
	if err != nil {
		if errors.Is(err, core.ErrDuplicateUsername) {
			logger.Warn().Str("username", payload.Username).Msg("duplicate registration attempt")
			presenter.Error(w, r, "username already taken", http.StatusConflict)
			return
		}
		logger.Error().Err(err).Msg("registration failed")
		presenter.Err(w, r, err, "registration failed")
		return
	}

	logger.Info().Str("username", user.Username).Msg("user registered")
	presenter.JSON(w, r, UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		CreatedAt: user.CreatedAt,
	}, http.StatusOK)
}

// handleLogin verifies credentials and returns a signed token. Bad
// credentials always produce the same generic 401.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.Ctx(ctx)

	var payload CredentialsPayload
	if err := DecodePayload(r, &payload, false); err != nil {
		logger.Warn().Err(err).Msg("failed to decode login payload")
		presenter.Error(w, r, "invalid request payload", http.StatusBadRequest)
		return
	}
	if payload.Username == "" || payload.Password == "" {
		presenter.Error(w, r, "invalid request payload", http.StatusBadRequest)
		return
	}

	result, err := s.authService.Login(ctx, payload.Username, payload.Password)
	if err != nil {
		if errors.Is(err, core.ErrInvalidCredentials) {
			logger.Warn().Str("username", payload.Username).Msg("login rejected")
			presenter.Error(w, r, "invalid credentials", http.StatusUnauthorized)
			return
		}
		logger.Error().Err(err).Msg("login failed")
		presenter.Err(w, r, err, "login failed")
		return
	}

	logger.Info().Str("username", payload.Username).Msg("login succeeded")
	presenter.JSON(w, r, LoginResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
	}, http.StatusOK)
}

// handleProtected answers for any request that made it through the auth gate.
func (s *Server) handleProtected(w http.ResponseWriter, r *http.Request) {
	principal := middleware.PrincipalCtx(r.Context())
	if principal == nil {
		// the auth middleware guarantees a principal here
		presenter.Error(w, r, "unauthorized", http.StatusUnauthorized)
		return
	}

	presenter.JSON(w, r, ProtectedResponse{
		Message: "This is a protected resource.",
		Subject: principal.Subject,
		Scheme:  principal.Scheme,
	}, http.StatusOK)
}
