package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/elianayesol/auth-gateway/cmd/tokenctl/commands"
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "tokenctl",
		Short: "Token lifecycle tool for the auth gateway",
		Long:  "CLI tool for revoking, purging and inspecting session tokens",
	}

	rootCmd.AddCommand(commands.NewRevokeCmd())
	rootCmd.AddCommand(commands.NewRevokeAllCmd())
	rootCmd.AddCommand(commands.NewPurgeCmd())
	rootCmd.AddCommand(commands.NewInspectCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
