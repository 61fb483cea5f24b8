package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/gatehouse-auth/gatehouse/internal/cliconfig"
	"github.com/gatehouse-auth/gatehouse/pkg/client"
)

var (
	bold  = color.New(color.Bold).Sprint
	faint = color.New(color.Faint).Sprint

	greenCheck = color.GreenString("✔")
	redCross   = color.RedString("✘")
)

// BeQuietError signals that the error was already reported to the user
// and the root command should not log it again.
type BeQuietError struct{}

func (BeQuietError) Error() string {
	return "command failed"
}

func logError(err error, correlation, msg string) error {
	ev := log.Error().Err(err)
	if correlation != "" {
		ev = ev.Str("correlation_id", correlation)
	}
	ev.Msgf("%s %s", redCross, msg)
	return BeQuietError{}
}

func logSuccess(format string, args ...any) {
	log.Info().Msgf("%s %s", greenCheck, fmt.Sprintf(format, args...))
}

func getClient() (*client.Client, error) {
	// we need the user to provide some server address first
	server := viper.GetString(GatehouseAddrKey)
	if server == "" {
		return nil, fmt.Errorf("server address not configured (use --server or set GATEHOUSE_ADDR)")
	}

	var token string
	if cfg, err := cliconfig.Load(); err == nil {
		if cred, err := cfg.GetCredential(server); err == nil { // token prio 1: saved credential
			token = cred.Token
		}
	}

	if envToken := os.Getenv("GATEHOUSE_TOKEN"); envToken != "" { // token prio 2: env var
		token = envToken
	}

	return client.New(server, client.WithAuthToken(token)), nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
