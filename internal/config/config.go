// Package config loads and validates the server configuration.
//
// Secrets are never written inline in the configuration file: key material is
// referenced by environment variable or file path and resolved once at
// startup. A missing or undersized signing key aborts the process before it
// can serve a single request.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/gatehouse-auth/gatehouse/internal/policy"
	"github.com/gatehouse-auth/gatehouse/internal/token"
)

type Config struct {
	// ListenAddr is the HTTP listen address (default ":8080").
	ListenAddr string `yaml:"listen_addr"`

	Token      TokenConfig      `yaml:"token"`
	Strategies []StrategyConfig `yaml:"strategies"`
	Rules      []policy.Rule    `yaml:"rules"`
	Audit      AuditConfig      `yaml:"audit"`
	Admin      AdminConfig      `yaml:"admin"`
}

// TokenConfig configures issued-token parameters and the signing key source.
type TokenConfig struct {
	// TTL is the validity duration of issued tokens (default 24h).
	TTL time.Duration `yaml:"ttl"`

	// Issuer is the "iss" claim stamped into and verified on tokens. Optional.
	Issuer string `yaml:"issuer"`

	// Audience is the "aud" claim stamped into and verified on tokens. Optional.
	Audience string `yaml:"audience"`

	// KeyEnv names an environment variable holding the signing key.
	KeyEnv string `yaml:"key_env"`

	// KeyFile is a path to a file holding the signing key.
	// Exactly one of KeyEnv or KeyFile must be set.
	KeyFile string `yaml:"key_file"`
}

// StrategyConfig holds the configuration for one authentication strategy.
// Strategies run in the order they appear in the file.
type StrategyConfig struct {
	Name   string         `yaml:"name"`
	Type   string         `yaml:"type"`    // e.g. "jwt", "api_key", "service_token", "oidc"
	Config map[string]any `yaml:",inline"` // capture remaining fields
}

// AuditConfig selects the audit sink.
type AuditConfig struct {
	// Type is one of "memory", "file", "none" (default "memory").
	Type string `yaml:"type"`
	Path string `yaml:"path"`
}

// AdminConfig lists the principals allowed to read the audit API.
type AdminConfig struct {
	Subjects []string `yaml:"subjects"`
}

// Load reads and parses the configuration file at the given path.
// It returns a Config struct or an error if loading/parsing/validation fails.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config file: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.ListenAddr == "" {
		c.ListenAddr = ":8080"
	}

	if err := c.Token.Validate(); err != nil {
		return fmt.Errorf("validating token config: %w", err)
	}

	if len(c.Strategies) == 0 {
		return fmt.Errorf("no authentication strategies configured")
	}
	knownSchemes := make(map[string]struct{})
	for idx, s := range c.Strategies {
		if s.Name == "" {
			return fmt.Errorf("strategy at index %d has empty name", idx)
		}
		if s.Type == "" {
			return fmt.Errorf("strategy '%s' has empty type", s.Name)
		}
		if _, exists := knownSchemes[s.Name]; exists {
			return fmt.Errorf("strategy name '%s' is not unique", s.Name)
		}
		knownSchemes[s.Name] = struct{}{}
	}

	validRules, err := policy.ValidateRules(c.Rules, knownSchemes)
	if err != nil {
		return fmt.Errorf("validating rules: %w", err)
	}
	c.Rules = validRules

	switch c.Audit.Type {
	case "":
		c.Audit.Type = "memory"
	case "memory", "none":
	case "file":
		if c.Audit.Path == "" {
			return fmt.Errorf("audit type 'file' requires a path")
		}
	default:
		return fmt.Errorf("unknown audit type %q", c.Audit.Type)
	}

	return nil
}

func (t *TokenConfig) Validate() error {
	if t.KeyEnv == "" && t.KeyFile == "" {
		return fmt.Errorf("token signing key source missing: set key_env or key_file")
	}
	if t.KeyEnv != "" && t.KeyFile != "" {
		return fmt.Errorf("token signing key source ambiguous: set only one of key_env or key_file")
	}
	return nil
}

// ResolveKey loads the signing key from its configured source. The key is
// process-wide immutable state; resolution happens exactly once at startup
// and a short or absent key is a startup failure, never a weak token.
func (t *TokenConfig) ResolveKey() ([]byte, error) {
	key, err := ResolveSecret(t.KeyEnv, t.KeyFile)
	if err != nil {
		return nil, fmt.Errorf("resolving signing key: %w", err)
	}
	if len(key) < token.MinKeyBytes {
		return nil, token.ErrKeyTooShort
	}
	return key, nil
}

// ResolveSecret reads a secret from an environment variable or a file.
// Trailing whitespace is stripped so key files may end with a newline.
// Strategy secrets (e.g. the API key) share this loader.
func ResolveSecret(envName, filePath string) ([]byte, error) {
	switch {
	case envName != "":
		val := os.Getenv(envName)
		if val == "" {
			return nil, fmt.Errorf("environment variable %q is empty or unset", envName)
		}
		return []byte(strings.TrimSpace(val)), nil
	case filePath != "":
		data, err := os.ReadFile(filePath)
		if err != nil {
			return nil, fmt.Errorf("reading secret file: %w", err)
		}
		return []byte(strings.TrimSpace(string(data))), nil
	default:
		return nil, fmt.Errorf("no secret source configured")
	}
}
