package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/elianayesol/auth-gateway/internal/autherr"
	logpkg "github.com/elianayesol/auth-gateway/internal/logger"
	"github.com/elianayesol/auth-gateway/internal/models"
	"github.com/elianayesol/auth-gateway/internal/providers"
	"github.com/elianayesol/auth-gateway/internal/store"
	"github.com/elianayesol/auth-gateway/internal/token"
)

// Service orchestrates a login transaction: authorization code → provider
// profile → session tokens → persisted state → session. Each attempt is an
// independent, request-scoped computation; the service holds no per-request
// state and performs no internal retries.
type Service struct {
	adapters map[models.Provider]providers.Adapter
	issuer   *token.Issuer
	storage  *store.TokenStorage
	logger   *zap.Logger
	now      func() time.Time
}

// NewService creates the orchestrator over the given adapters, issuer and
// token storage.
func NewService(adapters map[models.Provider]providers.Adapter, issuer *token.Issuer, storage *store.TokenStorage, logger *zap.Logger) *Service {
	return &Service{
		adapters: adapters,
		issuer:   issuer,
		storage:  storage,
		logger:   logger,
		now:      time.Now,
	}
}

// WithClock replaces the service's time source for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) adapter(provider models.Provider) (providers.Adapter, error) {
	adapter, ok := s.adapters[provider]
	if !ok {
		return nil, fmt.Errorf("%w: provider %s is not configured", autherr.ErrConfiguration, provider)
	}
	return adapter, nil
}

// AuthorizationURL returns the provider's consent-screen URL with a fresh
// CSRF state value. Adapters whose flow omits state ignore it.
func (s *Service) AuthorizationURL(provider models.Provider) (string, error) {
	adapter, err := s.adapter(provider)
	if err != nil {
		return "", err
	}
	return adapter.BuildAuthorizationURL(uuid.NewString()), nil
}

// Login runs the full transaction for one authorization code. The empty-code
// check happens before any network call; every later failure ends the
// transaction with its specific error kind, and issued-but-unstored tokens
// are left to expire on their own.
func (s *Service) Login(ctx context.Context, provider models.Provider, code, state string) (*models.Session, error) {
	if strings.TrimSpace(code) == "" {
		return nil, autherr.ErrMissingAuthorizationCode
	}

	adapter, err := s.adapter(provider)
	if err != nil {
		return nil, err
	}

	providerToken, err := adapter.Exchange(ctx, code, state)
	if err != nil {
		s.logger.Warn("provider_exchange_failed",
			zap.String("provider", provider.String()),
			zap.Error(err),
		)
		return nil, err
	}

	profile, err := adapter.FetchProfile(ctx, providerToken)
	if err != nil {
		s.logger.Warn("provider_profile_failed",
			zap.String("provider", provider.String()),
			zap.Error(err),
		)
		return nil, err
	}

	accessToken, err := s.issuer.IssueAccessToken(profile.ProviderID, claimsFromProfile(profile))
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.issuer.IssueRefreshToken(profile.ProviderID)
	if err != nil {
		return nil, err
	}

	if err := s.storage.PutAccessToken(ctx, profile.ProviderID, accessToken); err != nil {
		return nil, err
	}
	expiresAt := s.now().Add(s.issuer.RefreshTTL())
	if err := s.storage.PutRefreshToken(ctx, profile.ProviderID, provider, refreshToken, expiresAt); err != nil {
		return nil, err
	}

	s.logger.Info("login_completed",
		zap.String("provider", provider.String()),
		zap.String("user_id", logpkg.SanitizeUserID(profile.ProviderID)),
	)

	return &models.Session{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         profile,
	}, nil
}

// Refresh exchanges a live refresh token for a fresh access token. The token
// must both verify against the signing key and have a usable durable record;
// a revoked or superseded token fails even while its signature is valid.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*models.Session, error) {
	subject, err := s.issuer.Subject(refreshToken)
	if err != nil {
		return nil, err
	}

	record, err := s.storage.GetRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, fmt.Errorf("%w: refresh token not recognized", autherr.ErrTokenInvalid)
	}

	claims := map[string]any{"provider": record.Provider.String()}
	accessToken, err := s.issuer.IssueAccessToken(subject, claims)
	if err != nil {
		return nil, err
	}

	if err := s.storage.PutAccessToken(ctx, subject, accessToken); err != nil {
		return nil, err
	}

	s.logger.Info("session_refreshed",
		zap.String("provider", record.Provider.String()),
		zap.String("user_id", logpkg.SanitizeUserID(subject)),
	)

	return &models.Session{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Logout tears down the user's session state for one provider.
func (s *Service) Logout(ctx context.Context, userID string, provider models.Provider) error {
	if err := s.storage.RevokeAll(ctx, userID, provider); err != nil {
		return err
	}

	s.logger.Info("logout_completed",
		zap.String("provider", provider.String()),
		zap.String("user_id", logpkg.SanitizeUserID(userID)),
	)
	return nil
}

// ValidateAccessToken reports whether a session access token is currently
// valid. Used by the bearer-auth middleware.
func (s *Service) ValidateAccessToken(tokenString string) bool {
	return s.issuer.Validate(tokenString)
}

// ParseClaims verifies a session token and returns its claims.
func (s *Service) ParseClaims(tokenString string) (map[string]any, error) {
	return s.issuer.ParseClaims(tokenString)
}

// claimsFromProfile builds the claim set embedded in access tokens: provider
// tag plus whichever profile fields the provider supplied.
func claimsFromProfile(profile *models.ProviderProfile) map[string]any {
	claims := map[string]any{
		"provider": profile.Provider.String(),
	}
	if profile.Email != "" {
		claims["email"] = profile.Email
	}
	if profile.DisplayName != "" {
		claims["name"] = profile.DisplayName
	}
	if profile.AvatarURL != "" {
		claims["picture"] = profile.AvatarURL
	}
	return claims
}
