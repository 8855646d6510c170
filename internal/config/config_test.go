package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/elianayesol/auth-gateway/internal/autherr"
	"github.com/elianayesol/auth-gateway/internal/models"
)

// clearEnv blanks every variable Load reads so ambient environment cannot
// leak into a test case.
func clearEnv(t *testing.T) {
	t.Helper()
	keys := []string{
		"SERVER_PORT", "FRONTEND_URL", "DATABASE_URL", "REDIS_URL", "JWT_SECRET",
		"ACCESS_TOKEN_TTL", "REFRESH_TOKEN_TTL", "RATE_LIMIT", "PROVIDERS_FILE",
		"ENABLE_HSTS", "SERVER_DEBUG_MODE", "OTEL_ENABLED", "OTEL_EXPORTER_OTLP_ENDPOINT",
		"GOOGLE_CLIENT_ID", "GOOGLE_CLIENT_SECRET", "GOOGLE_REDIRECT_URI",
		"GOOGLE_AUTHORIZE_URL", "GOOGLE_TOKEN_URL", "GOOGLE_USER_INFO_URL",
		"KAKAO_CLIENT_ID", "KAKAO_CLIENT_SECRET", "KAKAO_REDIRECT_URI",
		"KAKAO_AUTHORIZE_URL", "KAKAO_TOKEN_URL", "KAKAO_USER_INFO_URL",
		"NAVER_CLIENT_ID", "NAVER_CLIENT_SECRET", "NAVER_REDIRECT_URI",
		"NAVER_AUTHORIZE_URL", "NAVER_TOKEN_URL", "NAVER_USER_INFO_URL",
	}
	for _, key := range keys {
		t.Setenv(key, "")
	}
}

// setBaseEnv sets the minimum viable configuration: both required secrets and
// one provider.
func setBaseEnv(t *testing.T) {
	t.Helper()
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/auth?sslmode=disable")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("KAKAO_CLIENT_ID", "kakao-client")
	t.Setenv("KAKAO_REDIRECT_URI", "https://app.example.com/callback/kakao")
}

func TestLoad_RequiredSettings(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T)
	}{
		{
			name:  "missing DATABASE_URL",
			setup: func(t *testing.T) { clearEnv(t); t.Setenv("JWT_SECRET", "s") },
		},
		{
			name: "missing JWT_SECRET",
			setup: func(t *testing.T) {
				clearEnv(t)
				t.Setenv("DATABASE_URL", "postgres://localhost:5432/auth")
			},
		},
		{
			name: "no provider configured",
			setup: func(t *testing.T) {
				clearEnv(t)
				t.Setenv("DATABASE_URL", "postgres://localhost:5432/auth")
				t.Setenv("JWT_SECRET", "s")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup(t)
			_, err := Load()
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if !errors.Is(err, autherr.ErrConfiguration) {
				t.Errorf("Expected ErrConfiguration, got %v", err)
			}
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.ServerPort != "8080" {
		t.Errorf("Expected default port 8080, got %s", cfg.ServerPort)
	}
	if cfg.RedisURL != "redis://localhost:6379/0" {
		t.Errorf("Unexpected default redis URL: %s", cfg.RedisURL)
	}
	if cfg.AccessTTL != 15*time.Minute {
		t.Errorf("Expected default access TTL 15m, got %v", cfg.AccessTTL)
	}
	if cfg.RefreshTTL != 30*24*time.Hour {
		t.Errorf("Expected default refresh TTL 720h, got %v", cfg.RefreshTTL)
	}
	if cfg.RateLimit != "10-S" {
		t.Errorf("Expected default rate limit '10-S', got %s", cfg.RateLimit)
	}
	if cfg.EnableHSTS || cfg.ServerDebugMode || cfg.OTELEnabled {
		t.Error("Expected boolean toggles to default to false")
	}
}

func TestLoad_TTLOverrides(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("ACCESS_TOKEN_TTL", "5m")
	t.Setenv("REFRESH_TOKEN_TTL", "168h")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.AccessTTL != 5*time.Minute {
		t.Errorf("Expected access TTL 5m, got %v", cfg.AccessTTL)
	}
	if cfg.RefreshTTL != 168*time.Hour {
		t.Errorf("Expected refresh TTL 168h, got %v", cfg.RefreshTTL)
	}
}

func TestLoad_ProviderActivation(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("GOOGLE_CLIENT_ID", "google-client")
	t.Setenv("GOOGLE_CLIENT_SECRET", "google-secret")
	t.Setenv("GOOGLE_REDIRECT_URI", "https://app.example.com/callback/google")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(cfg.Providers) != 2 {
		t.Fatalf("Expected 2 providers, got %d", len(cfg.Providers))
	}
	if _, ok := cfg.Providers[models.ProviderNaver]; ok {
		t.Error("Expected naver to stay inactive without a client id")
	}

	google := cfg.Providers[models.ProviderGoogle]
	if google.AuthorizeURL != "https://accounts.google.com/o/oauth2/v2/auth" {
		t.Errorf("Unexpected default authorize URL: %s", google.AuthorizeURL)
	}
	if google.TokenURL != "https://oauth2.googleapis.com/token" {
		t.Errorf("Unexpected default token URL: %s", google.TokenURL)
	}
}

func TestLoad_ClientSecretRequirement(t *testing.T) {
	t.Run("kakao works without a secret", func(t *testing.T) {
		setBaseEnv(t)
		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if cfg.Providers[models.ProviderKakao].ClientSecret != "" {
			t.Error("Expected empty kakao secret")
		}
	})

	t.Run("google requires a secret", func(t *testing.T) {
		setBaseEnv(t)
		t.Setenv("GOOGLE_CLIENT_ID", "google-client")
		t.Setenv("GOOGLE_REDIRECT_URI", "https://app.example.com/callback/google")

		_, err := Load()
		if !errors.Is(err, autherr.ErrConfiguration) {
			t.Errorf("Expected ErrConfiguration for missing google secret, got %v", err)
		}
	})

	t.Run("naver requires a secret", func(t *testing.T) {
		setBaseEnv(t)
		t.Setenv("NAVER_CLIENT_ID", "naver-client")
		t.Setenv("NAVER_REDIRECT_URI", "https://app.example.com/callback/naver")

		_, err := Load()
		if !errors.Is(err, autherr.ErrConfiguration) {
			t.Errorf("Expected ErrConfiguration for missing naver secret, got %v", err)
		}
	})
}

func TestLoad_MissingRedirectURI(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/auth")
	t.Setenv("JWT_SECRET", "s")
	t.Setenv("KAKAO_CLIENT_ID", "kakao-client")

	_, err := Load()
	if !errors.Is(err, autherr.ErrConfiguration) {
		t.Errorf("Expected ErrConfiguration for missing redirect URI, got %v", err)
	}
}

func TestLoad_ProvidersFileOverlay(t *testing.T) {
	setBaseEnv(t)

	providersYAML := `
kakao:
  client_id: file-kakao-client
  redirect_uri: https://file.example.com/callback/kakao
  authorize_url: https://kauth.kakao.com/oauth/authorize
  token_url: https://kauth.kakao.com/oauth/token
  user_info_url: https://kapi.kakao.com/v2/user/me
naver:
  client_id: file-naver-client
  client_secret: file-naver-secret
  redirect_uri: https://file.example.com/callback/naver
  authorize_url: https://nid.naver.com/oauth2.0/authorize
  token_url: https://nid.naver.com/oauth2.0/token
  user_info_url: https://openapi.naver.com/v1/nid/me
`
	path := filepath.Join(t.TempDir(), "providers.yaml")
	if err := os.WriteFile(path, []byte(providersYAML), 0o600); err != nil {
		t.Fatalf("Failed to write providers file: %v", err)
	}
	t.Setenv("PROVIDERS_FILE", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if got := cfg.Providers[models.ProviderKakao].ClientID; got != "file-kakao-client" {
		t.Errorf("Expected file entry to win over env, got %q", got)
	}
	if got := cfg.Providers[models.ProviderNaver].ClientID; got != "file-naver-client" {
		t.Errorf("Expected naver to be added from the file, got %q", got)
	}
}

func TestLoad_ProvidersFileUnknownProvider(t *testing.T) {
	setBaseEnv(t)

	path := filepath.Join(t.TempDir(), "providers.yaml")
	if err := os.WriteFile(path, []byte("github:\n  client_id: x\n"), 0o600); err != nil {
		t.Fatalf("Failed to write providers file: %v", err)
	}
	t.Setenv("PROVIDERS_FILE", path)

	_, err := Load()
	if !errors.Is(err, autherr.ErrConfiguration) {
		t.Errorf("Expected ErrConfiguration for unknown provider, got %v", err)
	}
}
