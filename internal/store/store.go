package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/elianayesol/auth-gateway/internal/autherr"
	"github.com/elianayesol/auth-gateway/internal/models"
)

// AccessTokenCache is the fast, expiring tier. At most one live access token
// per user is retrievable at any instant; the TTL is enforced by the cache,
// not by callers. Get returns ("", nil) when no live entry exists.
type AccessTokenCache interface {
	Put(ctx context.Context, userID, token string, ttl time.Duration) error
	Get(ctx context.Context, userID string) (string, error)
	Delete(ctx context.Context, userID string) error
}

// RefreshTokenStore is the durable, revocable tier. Replace implements the
// replace-then-insert write: any existing record for the same
// (userID, provider) is removed before the new record is inserted.
// GetByToken returns the raw record without validity filtering, or nil when
// no record matches.
type RefreshTokenStore interface {
	Replace(ctx context.Context, record *models.RefreshToken) error
	GetByToken(ctx context.Context, token string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, token string) error
	RevokeByUserAndProvider(ctx context.Context, userID string, provider models.Provider) error
}

// Ensure concrete types implement the interfaces
var (
	_ AccessTokenCache  = (*RedisAccessTokenCache)(nil)
	_ AccessTokenCache  = (*MemoryAccessTokenCache)(nil)
	_ RefreshTokenStore = (*MemoryRefreshTokenStore)(nil)
)

// TokenStorage composes the two tiers behind one interface. Every backend
// failure is wrapped as ErrStoreUnavailable so the orchestrator can decide
// whether it is fatal to the login transaction; absence of a token is never
// an error.
type TokenStorage struct {
	cache     AccessTokenCache
	refresh   RefreshTokenStore
	accessTTL time.Duration
	now       func() time.Time
}

// NewTokenStorage creates token storage over the given tiers. accessTTL is
// applied to every fast-tier write.
func NewTokenStorage(cache AccessTokenCache, refresh RefreshTokenStore, accessTTL time.Duration) *TokenStorage {
	return &TokenStorage{
		cache:     cache,
		refresh:   refresh,
		accessTTL: accessTTL,
		now:       time.Now,
	}
}

// WithClock replaces the storage's time source for tests.
func (s *TokenStorage) WithClock(now func() time.Time) *TokenStorage {
	s.now = now
	return s
}

// PutAccessToken inserts or overwrites the fast-tier entry for the user.
func (s *TokenStorage) PutAccessToken(ctx context.Context, userID, token string) error {
	if err := s.cache.Put(ctx, userID, token, s.accessTTL); err != nil {
		return fmt.Errorf("%w: access token write: %v", autherr.ErrStoreUnavailable, err)
	}
	return nil
}

// GetAccessToken returns the user's live access token, or "" if none exists.
func (s *TokenStorage) GetAccessToken(ctx context.Context, userID string) (string, error) {
	token, err := s.cache.Get(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("%w: access token read: %v", autherr.ErrStoreUnavailable, err)
	}
	return token, nil
}

// DeleteAccessToken removes the user's fast-tier entry.
func (s *TokenStorage) DeleteAccessToken(ctx context.Context, userID string) error {
	if err := s.cache.Delete(ctx, userID); err != nil {
		return fmt.Errorf("%w: access token delete: %v", autherr.ErrStoreUnavailable, err)
	}
	return nil
}

// PutRefreshToken stores a new durable record for (userID, provider),
// removing any prior record for the pair first. Concurrent logins for the
// same pair race benignly: last writer wins.
func (s *TokenStorage) PutRefreshToken(ctx context.Context, userID string, provider models.Provider, token string, expiresAt time.Time) error {
	record := &models.RefreshToken{
		ID:        uuid.New(),
		Token:     token,
		UserID:    userID,
		Provider:  provider,
		CreatedAt: s.now(),
		ExpiresAt: expiresAt,
		Revoked:   false,
	}
	if err := s.refresh.Replace(ctx, record); err != nil {
		return fmt.Errorf("%w: refresh token write: %v", autherr.ErrStoreUnavailable, err)
	}
	return nil
}

// GetRefreshToken returns the record for the token only while it is usable
// (not revoked, not expired). An expired or revoked record is reported as
// not found, not as an error.
func (s *TokenStorage) GetRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	record, err := s.refresh.GetByToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%w: refresh token read: %v", autherr.ErrStoreUnavailable, err)
	}
	if record == nil || !record.Usable(s.now()) {
		return nil, nil
	}
	return record, nil
}

// RevokeRefreshToken marks the matching record revoked. A token with no
// matching record is a no-op.
func (s *TokenStorage) RevokeRefreshToken(ctx context.Context, token string) error {
	if err := s.refresh.Revoke(ctx, token); err != nil {
		return fmt.Errorf("%w: refresh token revoke: %v", autherr.ErrStoreUnavailable, err)
	}
	return nil
}

// RevokeAll tears down the user's session state for one provider: the
// fast-tier entry is deleted and the durable record is revoked.
func (s *TokenStorage) RevokeAll(ctx context.Context, userID string, provider models.Provider) error {
	if err := s.DeleteAccessToken(ctx, userID); err != nil {
		return err
	}
	if err := s.refresh.RevokeByUserAndProvider(ctx, userID, provider); err != nil {
		return fmt.Errorf("%w: refresh token revoke: %v", autherr.ErrStoreUnavailable, err)
	}
	return nil
}
