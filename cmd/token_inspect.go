package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/gatehouse-auth/gatehouse/internal/audit"
)

var tokenInspectCmd = &cobra.Command{
	Use:     "inspect [token]",
	Aliases: []string{"decode"},
	Short:   "Decode a token and display its claims",
	Long: `Decodes a token WITHOUT verifying its signature and displays the
header and claims. Pass "-" to read the token from stdin.

The signature is not checked, so the output is informational only.`,
	Example: `  # Inspect a token
  gatehouse token inspect eyJhbGciOi...

  # Inspect a token from stdin
  echo "eyJ..." | gatehouse token inspect -`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var tokenString string

		if args[0] != "-" {
			tokenString = args[0]
		} else {
			data, err := os.ReadFile("/dev/stdin")
			if err != nil {
				return fmt.Errorf("failed to read token from stdin: %w", err)
			}
			tokenString = strings.TrimSpace(string(data))
		}

		if tokenString == "" {
			return fmt.Errorf("token cannot be empty")
		}

		claims := jwt.MapClaims{}
		parsed, _, err := jwt.NewParser().ParseUnverified(tokenString, claims)
		if err != nil {
			return fmt.Errorf("decoding token: %w", err)
		}

		fmt.Println(bold("\n── Token Header ──"))
		printKeyValueTable(parsed.Header)

		fmt.Println(bold("\n── Token Claims ──"))
		printKeyValueTable(claims)

		fmt.Printf("\n  %s: %s\n", faint("Fingerprint"), audit.Fingerprint(tokenString))
		fmt.Printf("  %s\n", faint("Signature NOT verified."))
		return nil
	},
}

func printKeyValueTable(values map[string]any) {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Claim", "Value"})
	for _, k := range keys {
		t.AppendRow(table.Row{k, formatClaim(k, values[k])})
	}
	t.SetStyle(table.StyleLight)
	t.Render()
}

func formatClaim(key string, value any) string {
	switch key {
	case "exp", "iat", "nbf":
		if num, ok := value.(float64); ok {
			return time.Unix(int64(num), 0).UTC().Format(time.RFC3339)
		}
	}
	marshalled, err := json.Marshal(value)
	if err != nil {
		return fmt.Sprintf("%v", value)
	}
	return truncate(string(marshalled), 80)
}

func init() {
	tokenCmd.AddCommand(tokenInspectCmd)
}
