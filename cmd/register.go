package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var registerCmd = &cobra.Command{
	Use:   "register USERNAME PASSWORD",
	Short: "Create a user account on a Gatehouse server",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		username, password := args[0], args[1]
		if username == "" || password == "" {
			return fmt.Errorf("username and password cannot be empty")
		}

		cli, err := getClient()
		if err != nil {
			return err
		}

		user, correlation, err := cli.Register(cmd.Context(), username, password)
		if err != nil {
			return logError(err, correlation, "registration failed")
		}

		logSuccess("registered user %s (id: %s)", bold(user.Username), faint(user.ID))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(registerCmd)
}
