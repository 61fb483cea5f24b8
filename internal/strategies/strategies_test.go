package strategies

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gatehouse-auth/gatehouse/internal/config"
	"github.com/gatehouse-auth/gatehouse/internal/core"
)

// stubVerifier accepts exactly one token value.
type stubVerifier struct {
	accept  string
	subject string
	err     error
}

func (v *stubVerifier) Verify(_ context.Context, token string) (*core.Principal, error) {
	if token == v.accept {
		return &core.Principal{Subject: v.subject, Scheme: "jwt"}, nil
	}
	if v.err != nil {
		return nil, v.err
	}
	return nil, core.ErrBadSignature
}

func requestWithHeader(key, value string) *http.Request {
	r := httptest.NewRequest("GET", "/protected", nil)
	if key != "" {
		r.Header.Set(key, value)
	}
	return r
}

func TestBearerJWT_Authenticate(t *testing.T) {
	strategy := NewBearerJWT("bearer", &stubVerifier{accept: "good-token", subject: "alice"})

	tests := []struct {
		name       string
		header     string
		wantStatus core.AuthStatus
	}{
		{name: "No Header", header: "", wantStatus: core.StatusNoResult},
		{name: "Not Bearer", header: "Basic dXNlcjpwYXNz", wantStatus: core.StatusNoResult},
		{name: "Empty Token", header: "Bearer ", wantStatus: core.StatusNoResult},
		{name: "Invalid Token", header: "Bearer bad-token", wantStatus: core.StatusFailure},
		{name: "Valid Token", header: "Bearer good-token", wantStatus: core.StatusSuccess},
		{name: "Case Insensitive Scheme", header: "bearer good-token", wantStatus: core.StatusSuccess},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/protected", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}

			result := strategy.Authenticate(context.Background(), r)
			if result.Status != tt.wantStatus {
				t.Errorf("Authenticate() status = %v, want %v", result.Status, tt.wantStatus)
			}
			if result.Status == core.StatusSuccess && result.Principal.Scheme != "bearer" {
				t.Errorf("principal.Scheme = %q, want %q", result.Principal.Scheme, "bearer")
			}
		})
	}
}

func TestAPIKey_Authenticate(t *testing.T) {
	strategy := NewAPIKey("internal", []byte("super-secret-key"), "")

	tests := []struct {
		name       string
		key        string
		wantStatus core.AuthStatus
	}{
		{name: "No Header", key: "", wantStatus: core.StatusNoResult},
		{name: "Wrong Key", key: "wrong-key", wantStatus: core.StatusFailure},
		{name: "Wrong Key Same Length", key: "super-secret-kez", wantStatus: core.StatusFailure},
		{name: "Correct Key", key: "super-secret-key", wantStatus: core.StatusSuccess},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/protected", nil)
			if tt.key != "" {
				r.Header.Set(APIKeyHeader, tt.key)
			}

			result := strategy.Authenticate(context.Background(), r)
			if result.Status != tt.wantStatus {
				t.Errorf("Authenticate() status = %v, want %v", result.Status, tt.wantStatus)
			}
		})
	}
}

func TestAPIKey_DefaultSubject(t *testing.T) {
	strategy := NewAPIKey("internal", []byte("super-secret-key"), "")

	result := strategy.Authenticate(context.Background(),
		requestWithHeader(APIKeyHeader, "super-secret-key"))
	if result.Status != core.StatusSuccess {
		t.Fatalf("Authenticate() status = %v, want success", result.Status)
	}
	if result.Principal.Subject != "api-key-client" {
		t.Errorf("principal.Subject = %q, want %q", result.Principal.Subject, "api-key-client")
	}
}

func TestServiceToken_Authenticate(t *testing.T) {
	strategy := NewServiceToken("services", map[string]string{
		"reporting-token": "svc-reporting",
		"billing-token":   "svc-billing",
	})

	tests := []struct {
		name        string
		header      string
		wantStatus  core.AuthStatus
		wantSubject string
	}{
		{name: "No Header", header: "", wantStatus: core.StatusNoResult},
		{name: "Unknown Token", header: "Bearer nope", wantStatus: core.StatusFailure},
		{name: "Known Token", header: "Bearer reporting-token", wantStatus: core.StatusSuccess, wantSubject: "svc-reporting"},
		{name: "Other Known Token", header: "Bearer billing-token", wantStatus: core.StatusSuccess, wantSubject: "svc-billing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/protected", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}

			result := strategy.Authenticate(context.Background(), r)
			if result.Status != tt.wantStatus {
				t.Errorf("Authenticate() status = %v, want %v", result.Status, tt.wantStatus)
			}
			if tt.wantSubject != "" && result.Principal.Subject != tt.wantSubject {
				t.Errorf("principal.Subject = %q, want %q", result.Principal.Subject, tt.wantSubject)
			}
		})
	}
}

func TestServiceToken_AddRemove(t *testing.T) {
	strategy := NewServiceToken("services", nil)
	r := requestWithHeader("Authorization", "Bearer rotating-token")

	if result := strategy.Authenticate(context.Background(), r); result.Status != core.StatusFailure {
		t.Fatalf("Authenticate() status = %v, want failure before provisioning", result.Status)
	}

	strategy.Add("rotating-token", "svc-rotator")
	result := strategy.Authenticate(context.Background(), r)
	if result.Status != core.StatusSuccess || result.Principal.Subject != "svc-rotator" {
		t.Fatalf("Authenticate() after Add = %+v, want success for svc-rotator", result)
	}

	strategy.Remove("rotating-token")
	if result := strategy.Authenticate(context.Background(), r); result.Status != core.StatusFailure {
		t.Errorf("Authenticate() status = %v, want failure after Remove", result.Status)
	}
}

func TestBuildRegistry(t *testing.T) {
	t.Setenv("TEST_GATE_API_KEY", "super-secret-key")

	verifier := &stubVerifier{accept: "good-token", subject: "alice"}

	cfgs := []config.StrategyConfig{
		{Name: "bearer", Type: "jwt"},
		{Name: "internal", Type: "api_key", Config: map[string]any{
			"key_env": "TEST_GATE_API_KEY",
		}},
		{Name: "services", Type: "service_token", Config: map[string]any{
			"tokens": map[string]string{"svc-token": "svc-one"},
		}},
	}

	registry, err := BuildRegistry(context.Background(), cfgs, verifier)
	if err != nil {
		t.Fatalf("BuildRegistry() error = %v", err)
	}
	if len(registry) != 3 {
		t.Fatalf("BuildRegistry() returned %d strategies, want 3", len(registry))
	}
	for i, want := range []string{"bearer", "internal", "services"} {
		if registry[i].Name() != want {
			t.Errorf("registry[%d].Name() = %q, want %q", i, registry[i].Name(), want)
		}
	}
}

func TestBuildRegistry_Errors(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.StrategyConfig
	}{
		{name: "Unknown Type", cfg: config.StrategyConfig{Name: "x", Type: "saml"}},
		{name: "API Key Without Source", cfg: config.StrategyConfig{Name: "x", Type: "api_key"}},
		{name: "Service Token Without Tokens", cfg: config.StrategyConfig{Name: "x", Type: "service_token"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildRegistry(context.Background(), []config.StrategyConfig{tt.cfg}, nil)
			if err == nil {
				t.Error("BuildRegistry() expected error, got nil")
			}
		})
	}
}

func TestDispatcher_GenericRejectionReason(t *testing.T) {
	// wrong api key and no other matching credentials: the reason recorded
	// internally is the key mismatch, which the HTTP layer maps to 401
	strategy := NewAPIKey("internal", []byte("super-secret-key"), "")
	d := NewDispatcher([]core.Strategy{strategy})

	r := requestWithHeader(APIKeyHeader, "wrong-key")
	_, err := d.Authenticate(context.Background(), r)
	if !errors.Is(err, errKeyMismatch) {
		t.Errorf("Authenticate() error = %v, want %v", err, errKeyMismatch)
	}
}
