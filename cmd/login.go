package cmd

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gatehouse-auth/gatehouse/internal/cliconfig"
	"github.com/gatehouse-auth/gatehouse/pkg/client"
)

var loginCmd = &cobra.Command{
	Use:   "login USERNAME PASSWORD",
	Short: "Authenticate with a Gatehouse server",
	Long: `Exchanges a username and password for a Gatehouse bearer token.
The token is saved locally to allow future authenticated requests (like audit logs).`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		username, password := args[0], args[1]
		if username == "" || password == "" {
			return fmt.Errorf("username and password cannot be empty")
		}

		server := viper.GetString(GatehouseAddrKey)
		if server == "" {
			return fmt.Errorf("server address not configured (use --server or set GATEHOUSE_ADDR)")
		}
		u, err := url.Parse(server)
		if err != nil {
			return fmt.Errorf("parsing server URL: %w", err)
		}

		cli := client.New(server)

		log.Info().Msgf("Logging in to server %q...", u.Host)

		resp, correlation, err := cli.Login(cmd.Context(), username, password)
		if err != nil {
			return logError(err, correlation, "login failed")
		}

		cfg, err := cliconfig.Load()
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("loading config: %w", err)
			}
			cfg = &cliconfig.CLIConfig{}
		}
		if err := cfg.SetCredential(server, &cliconfig.Credential{Token: resp.Token}); err != nil {
			return err
		}
		if err := cliconfig.Save(cfg); err != nil {
			return logError(err, "", "login succeeded but could not save credentials")
		}

		logSuccess("saved credentials for %s (expires %s)",
			bold(u.Host), resp.ExpiresAt.Format(time.RFC3339))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
}
