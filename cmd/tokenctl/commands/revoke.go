package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/elianayesol/auth-gateway/internal/config"
	"github.com/elianayesol/auth-gateway/internal/database"
	"github.com/elianayesol/auth-gateway/internal/models"
	"github.com/elianayesol/auth-gateway/internal/store"
)

// NewRevokeCmd creates the command that revokes a single refresh token
func NewRevokeCmd() *cobra.Command {
	var physical bool

	cmd := &cobra.Command{
		Use:   "revoke <refresh-token>",
		Short: "Revoke a refresh token",
		Long:  "Marks the refresh token record revoked. With --delete the record is physically removed instead.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			token := args[0]

			repo, cleanup, err := openRefreshRepo()
			if err != nil {
				return err
			}
			defer cleanup()

			ctx := context.Background()
			if physical {
				if err := repo.DeleteByToken(ctx, token); err != nil {
					return fmt.Errorf("failed to delete refresh token: %w", err)
				}
				fmt.Println("Refresh token deleted")
				return nil
			}

			if err := repo.Revoke(ctx, token); err != nil {
				return fmt.Errorf("failed to revoke refresh token: %w", err)
			}
			fmt.Println("Refresh token revoked")
			return nil
		},
	}

	cmd.Flags().BoolVar(&physical, "delete", false, "Physically delete the record instead of marking it revoked")

	return cmd
}

// NewRevokeAllCmd creates the command that tears down a user's session state
func NewRevokeAllCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "revoke-all <user-id> <provider>",
		Short: "Revoke a user's tokens for one provider",
		Long:  "Deletes the user's cached access token and revokes their refresh token record for the given provider.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID := args[0]
			provider, err := models.ParseProvider(args[1])
			if err != nil {
				return err
			}

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			db, err := database.New(cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer closeQuietly(db.Close)

			cache, err := store.NewRedisAccessTokenCache(cfg.RedisURL)
			if err != nil {
				return fmt.Errorf("failed to connect to redis: %w", err)
			}
			defer closeQuietly(cache.Close)

			storage := store.NewTokenStorage(cache, database.NewRefreshTokenRepository(db), cfg.AccessTTL)

			if err := storage.RevokeAll(context.Background(), userID, provider); err != nil {
				return fmt.Errorf("failed to revoke tokens: %w", err)
			}

			fmt.Printf("Revoked tokens for user %s on provider %s\n", userID, provider)
			return nil
		},
	}
}

// openRefreshRepo connects to the database and returns the refresh-token
// repository with a cleanup function.
func openRefreshRepo() (*database.RefreshTokenRepository, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	cleanup := func() {
		if err := db.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close database: %v\n", err)
		}
	}

	return database.NewRefreshTokenRepository(db), cleanup, nil
}

func closeQuietly(close func() error) {
	if err := close(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to close connection: %v\n", err)
	}
}
