package cmd

import (
	"github.com/spf13/cobra"

	"github.com/gatehouse-auth/gatehouse/internal/config"
)

// configValidateCmd represents the config validate command
var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return logError(err, "", "configuration is invalid")
		}

		// a loadable config can still point at a missing or undersized key
		if _, err := cfg.Token.ResolveKey(); err != nil {
			return logError(err, "", "signing key cannot be resolved")
		}

		logSuccess("configuration is valid (%d strategies, %d rules)",
			len(cfg.Strategies), len(cfg.Rules))
		return nil
	},
}

func init() {
	configCmd.AddCommand(configValidateCmd)
}
