package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/elianayesol/auth-gateway/internal/autherr"
	"github.com/elianayesol/auth-gateway/internal/middleware"
	"github.com/elianayesol/auth-gateway/internal/models"
)

// AuthService is the slice of the orchestrator the HTTP layer consumes.
// The interface enables handler tests with a mock service.
type AuthService interface {
	AuthorizationURL(provider models.Provider) (string, error)
	Login(ctx context.Context, provider models.Provider, code, state string) (*models.Session, error)
	Refresh(ctx context.Context, refreshToken string) (*models.Session, error)
	Logout(ctx context.Context, userID string, provider models.Provider) error
}

// AuthHandler handles authentication-related requests
type AuthHandler struct {
	service AuthService
	logger  *zap.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(service AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{service: service, logger: logger}
}

// RegisterRoutes registers public auth routes on the given router.
// The router should already have the /api/oauth prefix.
func (h *AuthHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/{provider}/login", h.GetLoginURL).Methods("GET")
	r.HandleFunc("/{provider}/callback", h.Callback).Methods("GET")
	r.HandleFunc("/refresh", h.Refresh).Methods("POST")
}

// RegisterProtectedRoutes registers routes that require a bearer session
// token.
func (h *AuthHandler) RegisterProtectedRoutes(r *mux.Router) {
	r.HandleFunc("/me", h.GetMe).Methods("GET")
	r.HandleFunc("/logout", h.Logout).Methods("POST")
}

func providerFromRequest(r *http.Request) (models.Provider, error) {
	return models.ParseProvider(mux.Vars(r)["provider"])
}

// GetLoginURL returns the provider's consent-screen URL for the frontend to
// redirect to.
func (h *AuthHandler) GetLoginURL(w http.ResponseWriter, r *http.Request) {
	provider, err := providerFromRequest(r)
	if err != nil {
		respondJSONError(w, http.StatusNotFound, "Unknown provider", err.Error())
		return
	}

	authURL, err := h.service.AuthorizationURL(provider)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Failed to build authorization URL", err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"auth_url": authURL})
}

// Callback runs the login transaction for the authorization code the
// provider redirected back with.
func (h *AuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	provider, err := providerFromRequest(r)
	if err != nil {
		respondJSONError(w, http.StatusNotFound, "Unknown provider", err.Error())
		return
	}

	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")

	session, err := h.service.Login(r.Context(), provider, code, state)
	if err != nil {
		h.respondLoginError(w, provider, err)
		return
	}

	respondJSON(w, http.StatusOK, session)
}

func (h *AuthHandler) respondLoginError(w http.ResponseWriter, provider models.Provider, err error) {
	h.logger.Warn("login_failed",
		zap.String("provider", provider.String()),
		zap.Error(err),
	)

	switch {
	case errors.Is(err, autherr.ErrMissingAuthorizationCode):
		respondJSONError(w, http.StatusBadRequest, "Missing authorization code", err.Error())
	case errors.Is(err, autherr.ErrProviderExchange), errors.Is(err, autherr.ErrProviderProfile):
		respondJSONError(w, http.StatusBadGateway, "Provider error", err.Error())
	case errors.Is(err, autherr.ErrStoreUnavailable):
		respondJSONError(w, http.StatusServiceUnavailable, "Token store unavailable", err.Error())
	default:
		respondJSONError(w, http.StatusInternalServerError, "Login failed", err.Error())
	}
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Refresh exchanges a live refresh token for a fresh access token.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
		respondJSONError(w, http.StatusBadRequest, "Invalid request", "refresh_token is required")
		return
	}

	session, err := h.service.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, autherr.ErrTokenInvalid):
			respondJSONError(w, http.StatusUnauthorized, "Invalid refresh token", err.Error())
		case errors.Is(err, autherr.ErrStoreUnavailable):
			respondJSONError(w, http.StatusServiceUnavailable, "Token store unavailable", err.Error())
		default:
			respondJSONError(w, http.StatusInternalServerError, "Refresh failed", err.Error())
		}
		return
	}

	respondJSON(w, http.StatusOK, session)
}

// Logout revokes the caller's session tokens for the provider recorded in
// their claims.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r)
	if claims == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "No session claims in context")
		return
	}

	sub, _ := claims["sub"].(string)
	providerName, _ := claims["provider"].(string)
	provider, err := models.ParseProvider(providerName)
	if sub == "" || err != nil {
		respondJSONError(w, http.StatusBadRequest, "Invalid session", "Token lacks subject or provider claim")
		return
	}

	if err := h.service.Logout(r.Context(), sub, provider); err != nil {
		if errors.Is(err, autherr.ErrStoreUnavailable) {
			respondJSONError(w, http.StatusServiceUnavailable, "Token store unavailable", err.Error())
			return
		}
		respondJSONError(w, http.StatusInternalServerError, "Logout failed", err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
}

// GetMe echoes the caller's verified session claims.
func (h *AuthHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r)
	if claims == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "No session claims in context")
		return
	}

	respondJSON(w, http.StatusOK, claims)
}
