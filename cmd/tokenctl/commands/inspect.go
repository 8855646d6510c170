package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/elianayesol/auth-gateway/internal/config"
	"github.com/elianayesol/auth-gateway/internal/token"
)

// NewInspectCmd creates the command that verifies a session token and prints
// its claims
func NewInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <token>",
		Short: "Verify a session token and print its claims",
		Long:  "Verifies the token against the configured signing secret and prints its claims as JSON. Expired or tampered tokens fail verification.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			issuer, err := token.NewIssuer(cfg.SigningSecret, cfg.AccessTTL, cfg.RefreshTTL)
			if err != nil {
				return err
			}

			claims, err := issuer.ParseClaims(args[0])
			if err != nil {
				return err
			}

			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			return encoder.Encode(claims)
		},
	}
}
