package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/gatehouse-auth/gatehouse/internal/token"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gatehouse.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

const validConfig = `
listen_addr: ":9090"
token:
  ttl: 1h
  issuer: gatehouse
  key_env: GATEHOUSE_TEST_KEY
strategies:
  - name: bearer
    type: jwt
  - name: services
    type: service_token
    tokens:
      svc-token: svc-one
rules:
  - name: allow-bearer
    match:
      scheme: bearer
      allow_empty: true
audit:
  type: memory
admin:
  subjects: [alice]
`

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, validConfig))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.ListenAddr != ":9090" {
		t.Errorf("ListenAddr = %q, want %q", cfg.ListenAddr, ":9090")
	}
	if len(cfg.Strategies) != 2 {
		t.Fatalf("len(Strategies) = %d, want 2", len(cfg.Strategies))
	}
	if cfg.Strategies[1].Type != "service_token" {
		t.Errorf("Strategies[1].Type = %q, want service_token", cfg.Strategies[1].Type)
	}
	if _, ok := cfg.Strategies[1].Config["tokens"]; !ok {
		t.Error("inline strategy config was not captured")
	}
	if len(cfg.Rules) != 1 || cfg.Rules[0].Name != "allow-bearer" {
		t.Errorf("Rules = %+v, want the one named rule", cfg.Rules)
	}
	if cfg.Admin.Subjects[0] != "alice" {
		t.Errorf("Admin.Subjects = %v, want [alice]", cfg.Admin.Subjects)
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
token:
  key_env: GATEHOUSE_TEST_KEY
strategies:
  - name: bearer
    type: jwt
`))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ListenAddr != ":8080" {
		t.Errorf("ListenAddr = %q, want default :8080", cfg.ListenAddr)
	}
	if cfg.Audit.Type != "memory" {
		t.Errorf("Audit.Type = %q, want default memory", cfg.Audit.Type)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name: "No Key Source",
			content: `
strategies:
  - name: bearer
    type: jwt
`,
		},
		{
			name: "Two Key Sources",
			content: `
token:
  key_env: A
  key_file: /tmp/b
strategies:
  - name: bearer
    type: jwt
`,
		},
		{
			name: "No Strategies",
			content: `
token:
  key_env: GATEHOUSE_TEST_KEY
`,
		},
		{
			name: "Duplicate Strategy Names",
			content: `
token:
  key_env: GATEHOUSE_TEST_KEY
strategies:
  - name: bearer
    type: jwt
  - name: bearer
    type: api_key
`,
		},
		{
			name: "Rule References Unknown Strategy",
			content: `
token:
  key_env: GATEHOUSE_TEST_KEY
strategies:
  - name: bearer
    type: jwt
rules:
  - name: r
    match:
      scheme: saml
      allow_empty: true
`,
		},
		{
			name: "File Audit Without Path",
			content: `
token:
  key_env: GATEHOUSE_TEST_KEY
strategies:
  - name: bearer
    type: jwt
audit:
  type: file
`,
		},
		{
			name: "Unknown Audit Type",
			content: `
token:
  key_env: GATEHOUSE_TEST_KEY
strategies:
  - name: bearer
    type: jwt
audit:
  type: syslog
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.content)); err == nil {
				t.Error("Load() expected error, got nil")
			}
		})
	}
}

func TestTokenConfig_ResolveKey(t *testing.T) {
	t.Run("From Env", func(t *testing.T) {
		t.Setenv("GATEHOUSE_TEST_KEY", "0123456789abcdef0123456789abcdef")

		cfg := TokenConfig{KeyEnv: "GATEHOUSE_TEST_KEY"}
		key, err := cfg.ResolveKey()
		if err != nil {
			t.Fatalf("ResolveKey() error = %v", err)
		}
		if len(key) != 32 {
			t.Errorf("len(key) = %d, want 32", len(key))
		}
	})

	t.Run("From File With Trailing Newline", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "key")
		if err := os.WriteFile(path, []byte("0123456789abcdef0123456789abcdef\n"), 0600); err != nil {
			t.Fatalf("writing key file: %v", err)
		}

		cfg := TokenConfig{KeyFile: path}
		key, err := cfg.ResolveKey()
		if err != nil {
			t.Fatalf("ResolveKey() error = %v", err)
		}
		if len(key) != 32 {
			t.Errorf("len(key) = %d, want 32", len(key))
		}
	})

	t.Run("Unset Env Fails", func(t *testing.T) {
		cfg := TokenConfig{KeyEnv: "GATEHOUSE_TEST_KEY_DEFINITELY_UNSET"}
		if _, err := cfg.ResolveKey(); err == nil {
			t.Error("ResolveKey() expected error for unset env var")
		}
	})

	t.Run("Short Key Fails", func(t *testing.T) {
		t.Setenv("GATEHOUSE_TEST_KEY", "too-short")

		cfg := TokenConfig{KeyEnv: "GATEHOUSE_TEST_KEY"}
		_, err := cfg.ResolveKey()
		if !errors.Is(err, token.ErrKeyTooShort) {
			t.Errorf("ResolveKey() error = %v, want %v", err, token.ErrKeyTooShort)
		}
	})
}
