package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

// mockParser accepts exactly one token value.
type mockParser struct {
	valid  string
	claims map[string]any
}

func (m *mockParser) ParseClaims(tokenString string) (map[string]any, error) {
	if tokenString == m.valid {
		return m.claims, nil
	}
	return nil, errors.New("invalid token")
}

func TestAuth(t *testing.T) {
	t.Parallel()

	parser := &mockParser{
		valid:  "good-token",
		claims: map[string]any{"sub": "g-42", "provider": "google"},
	}

	var gotClaims map[string]any
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotClaims = ClaimsFromContext(r)
		w.WriteHeader(http.StatusOK)
	})
	protected := Auth(parser, zap.NewNop())(next)

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic Zm9v", http.StatusUnauthorized},
		{"malformed header", "Bearer", http.StatusUnauthorized},
		{"invalid token", "Bearer bad-token", http.StatusUnauthorized},
		{"valid token", "Bearer good-token", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotClaims = nil

			req := httptest.NewRequest("GET", "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			rec := httptest.NewRecorder()
			protected.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("Expected %d, got %d", tt.wantStatus, rec.Code)
			}

			if tt.wantStatus == http.StatusOK {
				if gotClaims == nil || gotClaims["sub"] != "g-42" {
					t.Errorf("Expected claims in context, got %v", gotClaims)
				}
			} else if gotClaims != nil {
				t.Error("Expected the handler not to run")
			}
		})
	}
}

func TestClaimsFromContext_Unset(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest("GET", "/", nil)
	if claims := ClaimsFromContext(req); claims != nil {
		t.Errorf("Expected nil claims without middleware, got %v", claims)
	}
}
