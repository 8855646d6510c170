package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/elianayesol/auth-gateway/internal/autherr"
	"github.com/elianayesol/auth-gateway/internal/models"
)

// ProviderCredentials holds everything needed to talk to one OAuth provider.
type ProviderCredentials struct {
	ClientID     string `yaml:"client_id" validate:"required"`
	ClientSecret string `yaml:"client_secret"`
	RedirectURI  string `yaml:"redirect_uri" validate:"required,url"`
	AuthorizeURL string `yaml:"authorize_url" validate:"required,url"`
	TokenURL     string `yaml:"token_url" validate:"required,url"`
	UserInfoURL  string `yaml:"user_info_url" validate:"required,url"`
}

// Config holds application configuration
type Config struct {
	ServerPort      string
	FrontendURL     string
	DatabaseURL     string
	RedisURL        string
	SigningSecret   string
	AccessTTL       time.Duration
	RefreshTTL      time.Duration
	RateLimit       string
	ProvidersFile   string
	EnableHSTS      bool
	ServerDebugMode bool
	OTELEnabled     bool
	OTELEndpoint    string

	Providers map[models.Provider]ProviderCredentials
}

var validate = validator.New()

// Load loads configuration from environment variables, optionally overlaid
// with a providers yaml file (PROVIDERS_FILE). Provider credentials are
// validated here so a misconfigured provider fails at startup instead of on
// the first login.
func Load() (*Config, error) {
	cfg := &Config{
		ServerPort:      getEnv("SERVER_PORT", "8080"),
		FrontendURL:     getEnv("FRONTEND_URL", "http://localhost:3000"),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		RedisURL:        getEnv("REDIS_URL", "redis://localhost:6379/0"),
		SigningSecret:   getEnv("JWT_SECRET", ""),
		AccessTTL:       getEnvDuration("ACCESS_TOKEN_TTL", 15*time.Minute),
		RefreshTTL:      getEnvDuration("REFRESH_TOKEN_TTL", 30*24*time.Hour),
		RateLimit:       getEnv("RATE_LIMIT", "10-S"),
		ProvidersFile:   getEnv("PROVIDERS_FILE", ""),
		EnableHSTS:      getEnvBool("ENABLE_HSTS", false),
		ServerDebugMode: getEnvBool("SERVER_DEBUG_MODE", false),
		OTELEnabled:     getEnvBool("OTEL_ENABLED", false),
		OTELEndpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("%w: DATABASE_URL is required", autherr.ErrConfiguration)
	}
	if cfg.SigningSecret == "" {
		return nil, fmt.Errorf("%w: JWT_SECRET is required", autherr.ErrConfiguration)
	}

	cfg.Providers = providersFromEnv()

	if cfg.ProvidersFile != "" {
		if err := overlayProvidersFile(cfg, cfg.ProvidersFile); err != nil {
			return nil, err
		}
	}

	for name, creds := range cfg.Providers {
		if err := validateProvider(name, creds); err != nil {
			return nil, err
		}
	}

	if len(cfg.Providers) == 0 {
		return nil, fmt.Errorf("%w: no OAuth provider configured", autherr.ErrConfiguration)
	}

	return cfg, nil
}

// providersFromEnv builds credentials for every provider whose client id is
// set. Endpoint URLs default to the providers' production endpoints.
func providersFromEnv() map[models.Provider]ProviderCredentials {
	providers := make(map[models.Provider]ProviderCredentials)

	if id := os.Getenv("GOOGLE_CLIENT_ID"); id != "" {
		providers[models.ProviderGoogle] = ProviderCredentials{
			ClientID:     id,
			ClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
			RedirectURI:  getEnv("GOOGLE_REDIRECT_URI", ""),
			AuthorizeURL: getEnv("GOOGLE_AUTHORIZE_URL", "https://accounts.google.com/o/oauth2/v2/auth"),
			TokenURL:     getEnv("GOOGLE_TOKEN_URL", "https://oauth2.googleapis.com/token"),
			UserInfoURL:  getEnv("GOOGLE_USER_INFO_URL", "https://www.googleapis.com/oauth2/v2/userinfo"),
		}
	}

	if id := os.Getenv("KAKAO_CLIENT_ID"); id != "" {
		providers[models.ProviderKakao] = ProviderCredentials{
			ClientID:     id,
			ClientSecret: getEnv("KAKAO_CLIENT_SECRET", ""),
			RedirectURI:  getEnv("KAKAO_REDIRECT_URI", ""),
			AuthorizeURL: getEnv("KAKAO_AUTHORIZE_URL", "https://kauth.kakao.com/oauth/authorize"),
			TokenURL:     getEnv("KAKAO_TOKEN_URL", "https://kauth.kakao.com/oauth/token"),
			UserInfoURL:  getEnv("KAKAO_USER_INFO_URL", "https://kapi.kakao.com/v2/user/me"),
		}
	}

	if id := os.Getenv("NAVER_CLIENT_ID"); id != "" {
		providers[models.ProviderNaver] = ProviderCredentials{
			ClientID:     id,
			ClientSecret: getEnv("NAVER_CLIENT_SECRET", ""),
			RedirectURI:  getEnv("NAVER_REDIRECT_URI", ""),
			AuthorizeURL: getEnv("NAVER_AUTHORIZE_URL", "https://nid.naver.com/oauth2.0/authorize"),
			TokenURL:     getEnv("NAVER_TOKEN_URL", "https://nid.naver.com/oauth2.0/token"),
			UserInfoURL:  getEnv("NAVER_USER_INFO_URL", "https://openapi.naver.com/v1/nid/me"),
		}
	}

	return providers
}

// overlayProvidersFile merges a yaml credentials file over env-derived
// credentials. File entries win; providers present only in the file are added.
func overlayProvidersFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: reading providers file: %v", autherr.ErrConfiguration, err)
	}

	var fileProviders map[string]ProviderCredentials
	if err := yaml.Unmarshal(data, &fileProviders); err != nil {
		return fmt.Errorf("%w: parsing providers file: %v", autherr.ErrConfiguration, err)
	}

	for name, creds := range fileProviders {
		provider, err := models.ParseProvider(name)
		if err != nil {
			return fmt.Errorf("%w: providers file: %v", autherr.ErrConfiguration, err)
		}
		cfg.Providers[provider] = creds
	}

	return nil
}

// validateProvider checks a provider's credentials before any network call.
// Kakao apps may omit the client secret; Google and Naver require one.
func validateProvider(name models.Provider, creds ProviderCredentials) error {
	if err := validate.Struct(creds); err != nil {
		return fmt.Errorf("%w: provider %s: %v", autherr.ErrConfiguration, name, err)
	}
	if creds.ClientSecret == "" && name != models.ProviderKakao {
		return fmt.Errorf("%w: provider %s: client secret is required", autherr.ErrConfiguration, name)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
