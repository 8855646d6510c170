package database

import (
	"github.com/elianayesol/auth-gateway/internal/store"
)

// Ensure the postgres repository satisfies the durable-tier interface
var _ store.RefreshTokenStore = (*RefreshTokenRepository)(nil)
