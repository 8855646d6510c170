package store

import (
	"context"
	"sync"
	"time"

	"github.com/elianayesol/auth-gateway/internal/models"
)

// MemoryAccessTokenCache is an in-memory fast tier for tests and local
// development. Expiry is evaluated lazily on Get against the injected clock.
type MemoryAccessTokenCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

type memoryEntry struct {
	token     string
	expiresAt time.Time
}

// NewMemoryAccessTokenCache creates an empty in-memory cache.
func NewMemoryAccessTokenCache() *MemoryAccessTokenCache {
	return &MemoryAccessTokenCache{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// WithClock replaces the cache's time source for tests.
func (c *MemoryAccessTokenCache) WithClock(now func() time.Time) *MemoryAccessTokenCache {
	c.now = now
	return c
}

// Put inserts or overwrites the entry for userID.
func (c *MemoryAccessTokenCache) Put(_ context.Context, userID, token string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[userID] = memoryEntry{token: token, expiresAt: c.now().Add(ttl)}
	return nil
}

// Get returns the live token for userID, or "" when absent or expired.
func (c *MemoryAccessTokenCache) Get(_ context.Context, userID string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[userID]
	if !ok {
		return "", nil
	}
	if !entry.expiresAt.After(c.now()) {
		delete(c.entries, userID)
		return "", nil
	}
	return entry.token, nil
}

// Delete removes the entry for userID.
func (c *MemoryAccessTokenCache) Delete(_ context.Context, userID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, userID)
	return nil
}

// MemoryRefreshTokenStore is an in-memory durable tier for tests and local
// development, keyed by token value.
type MemoryRefreshTokenStore struct {
	mu      sync.Mutex
	records map[string]*models.RefreshToken
}

// NewMemoryRefreshTokenStore creates an empty in-memory refresh-token store.
func NewMemoryRefreshTokenStore() *MemoryRefreshTokenStore {
	return &MemoryRefreshTokenStore{records: make(map[string]*models.RefreshToken)}
}

// Replace removes any record for (UserID, Provider) and inserts the new one.
func (s *MemoryRefreshTokenStore) Replace(_ context.Context, record *models.RefreshToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for token, existing := range s.records {
		if existing.UserID == record.UserID && existing.Provider == record.Provider {
			delete(s.records, token)
		}
	}
	copied := *record
	s.records[record.Token] = &copied
	return nil
}

// GetByToken returns the record for the token, or nil when none matches.
func (s *MemoryRefreshTokenStore) GetByToken(_ context.Context, token string) (*models.RefreshToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.records[token]
	if !ok {
		return nil, nil
	}
	copied := *record
	return &copied, nil
}

// Revoke marks the matching record revoked; missing records are a no-op.
func (s *MemoryRefreshTokenStore) Revoke(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if record, ok := s.records[token]; ok {
		record.Revoked = true
	}
	return nil
}

// RevokeByUserAndProvider marks the record for (userID, provider) revoked.
func (s *MemoryRefreshTokenStore) RevokeByUserAndProvider(_ context.Context, userID string, provider models.Provider) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, record := range s.records {
		if record.UserID == userID && record.Provider == provider {
			record.Revoked = true
		}
	}
	return nil
}
