package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// NewPurgeCmd creates the command that deletes dead refresh-token records
func NewPurgeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "purge",
		Short: "Delete expired and revoked refresh-token records",
		Long:  "Physically removes every refresh-token record that is expired or revoked. Live records are untouched.",
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, cleanup, err := openRefreshRepo()
			if err != nil {
				return err
			}
			defer cleanup()

			purged, err := repo.PurgeExpired(context.Background(), time.Now())
			if err != nil {
				return fmt.Errorf("failed to purge refresh tokens: %w", err)
			}

			fmt.Printf("Purged %d refresh-token records\n", purged)
			return nil
		},
	}
}
