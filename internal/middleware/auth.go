package middleware

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

type contextKey string

const claimsContextKey contextKey = "claims"

// TokenParser verifies a session token and returns its claims.
type TokenParser interface {
	ParseClaims(tokenString string) (map[string]any, error)
}

// ClaimsFromContext extracts the verified session claims from the request
// context, or nil if the request did not pass the Auth middleware.
func ClaimsFromContext(r *http.Request) map[string]any {
	claims, _ := r.Context().Value(claimsContextKey).(map[string]any)
	return claims
}

// WithClaims returns a context with session claims attached. Exposed for
// handler tests.
func WithClaims(ctx context.Context, claims map[string]any) context.Context {
	return context.WithValue(ctx, claimsContextKey, claims)
}

// Auth creates authentication middleware that validates bearer session
// tokens and attaches their claims to the request context.
func Auth(parser TokenParser, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				respondErrorJSON(w, http.StatusUnauthorized, "Unauthorized", "Missing Authorization header")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				respondErrorJSON(w, http.StatusUnauthorized, "Unauthorized", "Invalid Authorization header format")
				return
			}

			claims, err := parser.ParseClaims(parts[1])
			if err != nil {
				logger.Debug("token_verification_failed", zap.Error(err))
				respondErrorJSON(w, http.StatusUnauthorized, "Unauthorized", "Invalid or expired token")
				return
			}

			ctx := WithClaims(r.Context(), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
