package cmd

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the identity the saved token authenticates as",
	RunE: func(cmd *cobra.Command, args []string) error {
		cli, err := getClient()
		if err != nil {
			return err
		}

		log.Debug().Msg("Calling protected resource...")
		resp, correlation, err := cli.Protected(cmd.Context())
		if err != nil {
			return logError(err, correlation, "not authenticated")
		}

		fmt.Println(bold("\n── Gatehouse Identity ──"))
		fmt.Printf("  %s:   %s\n", faint("Subject"), resp.Subject)
		fmt.Printf("  %s:    %s\n", faint("Scheme"), resp.Scheme)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}
