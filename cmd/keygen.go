package cmd

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gatehouse-auth/gatehouse/internal/token"
)

var keygenRaw bool

var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate a random signing key",
	Long: `Generates a cryptographically random signing key suitable for the
token.key_env / token.key_file configuration. The key is printed to stdout
and never logged.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		key := make([]byte, token.MinKeyBytes)
		if _, err := rand.Read(key); err != nil {
			return fmt.Errorf("generating key: %w", err)
		}

		encoded := base64.StdEncoding.EncodeToString(key)
		if keygenRaw {
			fmt.Print(encoded)
			return nil
		}

		fmt.Println(bold("\n── Gatehouse Signing Key ──"))
		fmt.Printf("  %s\n\n", encoded)
		fmt.Printf("  %s\n", faint("Store it in an env var or file and reference it via token.key_env / token.key_file."))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(keygenCmd)

	keygenCmd.Flags().BoolVarP(&keygenRaw, "raw", "r", false,
		"Output only the key without additional text")
}
