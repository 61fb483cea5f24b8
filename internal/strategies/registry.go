package strategies

import (
	"context"
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/gatehouse-auth/gatehouse/internal/config"
	"github.com/gatehouse-auth/gatehouse/internal/core"
)

// APIKeyConfig holds the settings for one api_key strategy entry.
type APIKeyConfig struct {
	KeyEnv  string `mapstructure:"key_env"`
	KeyFile string `mapstructure:"key_file"`
	Subject string `mapstructure:"subject"`
}

// ServiceTokenConfig holds the settings for one service_token strategy entry.
type ServiceTokenConfig struct {
	Tokens map[string]string `mapstructure:"tokens"`
}

// BuildRegistry constructs the configured strategies in file order. The
// order is the dispatch order.
func BuildRegistry(ctx context.Context, cfgs []config.StrategyConfig, verifier core.Verifier) ([]core.Strategy, error) {
	registry := make([]core.Strategy, 0, len(cfgs))
	for _, cfg := range cfgs {
		switch cfg.Type {
		case "jwt":
			registry = append(registry, NewBearerJWT(cfg.Name, verifier))
		case "api_key":
			strategy, err := buildAPIKey(cfg)
			if err != nil {
				return nil, fmt.Errorf("building api_key strategy %q: %w", cfg.Name, err)
			}
			registry = append(registry, strategy)
		case "service_token":
			strategy, err := buildServiceToken(cfg)
			if err != nil {
				return nil, fmt.Errorf("building service_token strategy %q: %w", cfg.Name, err)
			}
			registry = append(registry, strategy)
		case "oidc":
			var oidcCfg OIDCConfig
			if err := mapstructure.Decode(cfg.Config, &oidcCfg); err != nil {
				return nil, fmt.Errorf("decoding oidc strategy %q: %w", cfg.Name, err)
			}
			strategy, err := NewOIDC(ctx, cfg.Name, oidcCfg)
			if err != nil {
				return nil, fmt.Errorf("building oidc strategy %q: %w", cfg.Name, err)
			}
			registry = append(registry, strategy)
		default:
			return nil, fmt.Errorf("unknown strategy type %q for strategy %q", cfg.Type, cfg.Name)
		}
	}
	return registry, nil
}

func buildAPIKey(cfg config.StrategyConfig) (*APIKey, error) {
	var keyCfg APIKeyConfig
	if err := mapstructure.Decode(cfg.Config, &keyCfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if keyCfg.KeyEnv == "" && keyCfg.KeyFile == "" {
		return nil, fmt.Errorf("missing key source: set key_env or key_file")
	}
	key, err := config.ResolveSecret(keyCfg.KeyEnv, keyCfg.KeyFile)
	if err != nil {
		return nil, fmt.Errorf("resolving api key: %w", err)
	}
	return NewAPIKey(cfg.Name, key, keyCfg.Subject), nil
}

func buildServiceToken(cfg config.StrategyConfig) (*ServiceToken, error) {
	var tokCfg ServiceTokenConfig
	if err := mapstructure.Decode(cfg.Config, &tokCfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if len(tokCfg.Tokens) == 0 {
		return nil, fmt.Errorf("no tokens provisioned")
	}
	return NewServiceToken(cfg.Name, tokCfg.Tokens), nil
}
