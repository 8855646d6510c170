package token

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/elianayesol/auth-gateway/internal/autherr"
)

func newTestIssuer(t *testing.T, secret string) *Issuer {
	t.Helper()
	issuer, err := NewIssuer(secret, 15*time.Minute, 30*24*time.Hour)
	if err != nil {
		t.Fatalf("NewIssuer failed: %v", err)
	}
	return issuer
}

func TestNewIssuer_EmptySecret(t *testing.T) {
	t.Parallel()

	_, err := NewIssuer("", 15*time.Minute, 30*24*time.Hour)
	if err == nil {
		t.Fatal("Expected error for empty secret, got nil")
	}
	if !errors.Is(err, autherr.ErrConfiguration) {
		t.Errorf("Expected ErrConfiguration, got %v", err)
	}
}

func TestIssueAccessToken_ClaimsRoundTrip(t *testing.T) {
	t.Parallel()

	issuer := newTestIssuer(t, "test-secret")

	claims := map[string]any{
		"email":    "a@x.com",
		"name":     "Eliana",
		"provider": "google",
	}

	tokenString, err := issuer.IssueAccessToken("g-42", claims)
	if err != nil {
		t.Fatalf("IssueAccessToken failed: %v", err)
	}

	parsed, err := issuer.ParseClaims(tokenString)
	if err != nil {
		t.Fatalf("ParseClaims failed: %v", err)
	}

	if parsed["sub"] != "g-42" {
		t.Errorf("Expected sub 'g-42', got %v", parsed["sub"])
	}
	for name, want := range claims {
		if parsed[name] != want {
			t.Errorf("Expected claim %s=%v, got %v", name, want, parsed[name])
		}
	}
}

func TestIssueAccessToken_ReservedClaimsNotOverridable(t *testing.T) {
	t.Parallel()

	issuer := newTestIssuer(t, "test-secret")

	tokenString, err := issuer.IssueAccessToken("real-subject", map[string]any{
		"sub": "spoofed-subject",
	})
	if err != nil {
		t.Fatalf("IssueAccessToken failed: %v", err)
	}

	subject, err := issuer.Subject(tokenString)
	if err != nil {
		t.Fatalf("Subject failed: %v", err)
	}
	if subject != "real-subject" {
		t.Errorf("Expected subject 'real-subject', got %q", subject)
	}
}

func TestIssueRefreshToken_SubjectOnly(t *testing.T) {
	t.Parallel()

	issuer := newTestIssuer(t, "test-secret")

	tokenString, err := issuer.IssueRefreshToken("n-7")
	if err != nil {
		t.Fatalf("IssueRefreshToken failed: %v", err)
	}

	subject, err := issuer.Subject(tokenString)
	if err != nil {
		t.Fatalf("Subject failed: %v", err)
	}
	if subject != "n-7" {
		t.Errorf("Expected subject 'n-7', got %q", subject)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	issuer := newTestIssuer(t, "test-secret")
	tokenString, err := issuer.IssueAccessToken("g-42", map[string]any{"email": "a@x.com"})
	if err != nil {
		t.Fatalf("IssueAccessToken failed: %v", err)
	}

	t.Run("valid token", func(t *testing.T) {
		if !issuer.Validate(tokenString) {
			t.Error("Expected freshly issued token to validate")
		}
	})

	t.Run("different signing key", func(t *testing.T) {
		other := newTestIssuer(t, "another-secret")
		if other.Validate(tokenString) {
			t.Error("Expected token signed with a different key to be invalid")
		}
	})

	t.Run("tampered payload", func(t *testing.T) {
		parts := strings.Split(tokenString, ".")
		if len(parts) != 3 {
			t.Fatalf("Expected compact JWS with 3 parts, got %d", len(parts))
		}
		payload := []byte(parts[1])
		if payload[0] == 'A' {
			payload[0] = 'B'
		} else {
			payload[0] = 'A'
		}
		tampered := parts[0] + "." + string(payload) + "." + parts[2]
		if issuer.Validate(tampered) {
			t.Error("Expected tampered token to be invalid")
		}
	})

	t.Run("malformed input", func(t *testing.T) {
		if issuer.Validate("not-a-token") {
			t.Error("Expected malformed input to be invalid")
		}
	})
}

func TestValidate_Expiry(t *testing.T) {
	t.Parallel()

	current := time.Now()
	issuer := newTestIssuer(t, "test-secret").WithClock(func() time.Time { return current })

	tokenString, err := issuer.IssueAccessToken("g-42", nil)
	if err != nil {
		t.Fatalf("IssueAccessToken failed: %v", err)
	}

	if !issuer.Validate(tokenString) {
		t.Fatal("Expected token to validate before expiry")
	}

	// Just before expiry the token is still valid
	current = current.Add(15*time.Minute - time.Second)
	if !issuer.Validate(tokenString) {
		t.Error("Expected token to validate just before expiry")
	}

	// At and after expiry validation fails
	current = current.Add(2 * time.Second)
	if issuer.Validate(tokenString) {
		t.Error("Expected token to be invalid after expiry")
	}
}

func TestParseClaims_Errors(t *testing.T) {
	t.Parallel()

	issuer := newTestIssuer(t, "test-secret")

	tests := []struct {
		name  string
		token string
	}{
		{"malformed", "garbage"},
		{"empty", ""},
		{"wrong key", func() string {
			other := newTestIssuer(t, "another-secret")
			s, _ := other.IssueAccessToken("g-42", nil)
			return s
		}()},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := issuer.ParseClaims(tt.token)
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if !errors.Is(err, autherr.ErrTokenInvalid) {
				t.Errorf("Expected ErrTokenInvalid, got %v", err)
			}
		})
	}
}
