package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/gatehouse-auth/gatehouse/internal/api"
	"github.com/gatehouse-auth/gatehouse/internal/audit"
	"github.com/gatehouse-auth/gatehouse/internal/config"
	"github.com/gatehouse-auth/gatehouse/internal/core"
	"github.com/gatehouse-auth/gatehouse/internal/password"
	"github.com/gatehouse-auth/gatehouse/internal/policy"
	"github.com/gatehouse-auth/gatehouse/internal/service"
	"github.com/gatehouse-auth/gatehouse/internal/store"
	"github.com/gatehouse-auth/gatehouse/internal/strategies"
	"github.com/gatehouse-auth/gatehouse/internal/token"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the Gatehouse server",
	RunE: func(cmd *cobra.Command, args []string) error {
		// pick up a local .env before resolving key_env references
		if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("loading .env: %w", err)
		}

		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		addr, _ := cmd.Flags().GetString("addr")
		if addr == "" {
			addr = cfg.ListenAddr
		}

		// the signing key is resolved exactly once, before anything listens
		key, err := cfg.Token.ResolveKey()
		if err != nil {
			return fmt.Errorf("resolving signing key: %w", err)
		}
		tokenCfg := token.Config{
			Key:      key,
			TTL:      cfg.Token.TTL,
			Issuer:   cfg.Token.Issuer,
			Audience: cfg.Token.Audience,
		}

		issuer, err := token.NewIssuer(tokenCfg)
		if err != nil {
			return fmt.Errorf("building token issuer: %w", err)
		}
		verifier, err := token.NewVerifier(tokenCfg)
		if err != nil {
			return fmt.Errorf("building token verifier: %w", err)
		}

		log.Info().Msg("Initializing strategies...")
		strats, err := strategies.BuildRegistry(cmd.Context(), cfg.Strategies, verifier)
		if err != nil {
			return fmt.Errorf("building strategy registry: %w", err)
		}

		auditor, err := buildAuditor(cfg.Audit)
		if err != nil {
			return fmt.Errorf("building auditor: %w", err)
		}
		defer func() {
			_ = auditor.Close()
		}()

		authService := service.NewAuthService(
			store.NewInMemoryUserStore(),
			password.NewHasher(),
			issuer,
			auditor,
		)

		srv := api.NewServer(
			authService,
			strategies.NewDispatcher(strats),
			policy.New(cfg.Rules),
			auditor,
			cfg.Admin.Subjects,
		)

		server := &http.Server{
			Addr:              addr,
			Handler:           srv.Routes(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		go func() {
			log.Info().Msgf("Starting server on %s...", addr)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatal().Err(err).Msg("Server crashed")
			}
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		log.Info().Msg("Shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}

		log.Info().Msg("Server exited")
		return nil
	},
}

func buildAuditor(cfg config.AuditConfig) (core.Auditor, error) {
	switch cfg.Type {
	case "", "memory":
		return audit.NewInMemoryAuditor(), nil
	case "file":
		return audit.NewFileAuditor(cfg.Path)
	case "none":
		return audit.NewNoopAuditor(), nil
	default:
		return nil, fmt.Errorf("unknown audit type %q", cfg.Type)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "address to listen on (overrides listen_addr from the config)")
}
