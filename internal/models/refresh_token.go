package models

import (
	"time"

	"github.com/google/uuid"
)

// RefreshToken is a durable refresh-token record. Records are never mutated
// after creation except to set Revoked; expired or revoked records are kept
// until an operator purges them.
type RefreshToken struct {
	ID        uuid.UUID `json:"id"`
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	Provider  Provider  `json:"provider"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
	Revoked   bool      `json:"revoked"`
}

// Usable reports whether the record may still be exchanged for a new access
// token at the given instant.
func (t *RefreshToken) Usable(now time.Time) bool {
	return !t.Revoked && t.ExpiresAt.After(now)
}
