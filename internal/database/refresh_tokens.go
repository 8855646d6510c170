package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/elianayesol/auth-gateway/internal/models"
)

// RefreshTokenRepository handles refresh-token database operations. It is the
// durable tier behind store.TokenStorage.
type RefreshTokenRepository struct {
	db *DB
}

// NewRefreshTokenRepository creates a new refresh-token repository
func NewRefreshTokenRepository(db *DB) *RefreshTokenRepository {
	return &RefreshTokenRepository{db: db}
}

// Replace removes any existing record for (UserID, Provider) and inserts the
// new record, in one transaction. The source behavior is find-delete-insert
// without a uniqueness constraint; the transaction makes the replace atomic
// on postgres while keeping the same last-writer-wins semantics.
func (r *RefreshTokenRepository) Replace(ctx context.Context, record *models.RefreshToken) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin refresh token replace: %w", err)
	}
	defer func() {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			_ = rbErr
		}
	}()

	deleteQuery := `DELETE FROM refresh_tokens WHERE user_id = $1 AND provider = $2`
	if _, err := tx.ExecContext(ctx, deleteQuery, record.UserID, record.Provider.String()); err != nil {
		return fmt.Errorf("failed to delete prior refresh token: %w", err)
	}

	insertQuery := `
		INSERT INTO refresh_tokens (id, token, user_id, provider, created_at, expires_at, revoked)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	if _, err := tx.ExecContext(ctx, insertQuery,
		record.ID,
		record.Token,
		record.UserID,
		record.Provider.String(),
		record.CreatedAt,
		record.ExpiresAt,
		record.Revoked,
	); err != nil {
		return fmt.Errorf("failed to insert refresh token: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit refresh token replace: %w", err)
	}

	return nil
}

// GetByToken retrieves the record for a token value. A missing record is
// (nil, nil); validity filtering belongs to the caller.
func (r *RefreshTokenRepository) GetByToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	record := &models.RefreshToken{}
	var provider string
	query := `
		SELECT id, token, user_id, provider, created_at, expires_at, revoked
		FROM refresh_tokens
		WHERE token = $1
	`

	err := r.db.QueryRowContext(ctx, query, token).Scan(
		&record.ID,
		&record.Token,
		&record.UserID,
		&provider,
		&record.CreatedAt,
		&record.ExpiresAt,
		&record.Revoked,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get refresh token: %w", err)
	}

	record.Provider = models.Provider(provider)
	return record, nil
}

// Revoke marks the matching record revoked. Zero matched rows is a no-op,
// not an error.
func (r *RefreshTokenRepository) Revoke(ctx context.Context, token string) error {
	query := `UPDATE refresh_tokens SET revoked = TRUE WHERE token = $1`

	if _, err := r.db.ExecContext(ctx, query, token); err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}

	return nil
}

// RevokeByUserAndProvider marks the record for (userID, provider) revoked.
func (r *RefreshTokenRepository) RevokeByUserAndProvider(ctx context.Context, userID string, provider models.Provider) error {
	query := `UPDATE refresh_tokens SET revoked = TRUE WHERE user_id = $1 AND provider = $2`

	if _, err := r.db.ExecContext(ctx, query, userID, provider.String()); err != nil {
		return fmt.Errorf("failed to revoke refresh tokens for user: %w", err)
	}

	return nil
}

// DeleteByToken physically removes a record. Used by the operator CLI;
// normal revocation keeps the row.
func (r *RefreshTokenRepository) DeleteByToken(ctx context.Context, token string) error {
	query := `DELETE FROM refresh_tokens WHERE token = $1`

	if _, err := r.db.ExecContext(ctx, query, token); err != nil {
		return fmt.Errorf("failed to delete refresh token: %w", err)
	}

	return nil
}

// PurgeExpired deletes records that are expired or revoked and returns how
// many rows were removed.
func (r *RefreshTokenRepository) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	query := `DELETE FROM refresh_tokens WHERE expires_at <= $1 OR revoked = TRUE`

	result, err := r.db.ExecContext(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("failed to purge refresh tokens: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rows, nil
}
