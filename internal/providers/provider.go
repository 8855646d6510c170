package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/elianayesol/auth-gateway/internal/config"
	"github.com/elianayesol/auth-gateway/internal/models"
)

// Adapter is implemented once per identity provider. Each variant binds its
// own endpoints, credentials and response schemas behind the same three
// operations; no state is shared between variants.
type Adapter interface {
	Name() models.Provider

	// BuildAuthorizationURL constructs the provider's consent-screen URL.
	// Providers that support CSRF protection embed the given state value;
	// Kakao's flow omits it.
	BuildAuthorizationURL(state string) string

	// Exchange trades an authorization code for the provider's access token.
	Exchange(ctx context.Context, code, state string) (string, error)

	// FetchProfile retrieves the user's normalized profile using the
	// provider access token as a bearer credential.
	FetchProfile(ctx context.Context, accessToken string) (*models.ProviderProfile, error)
}

const (
	connectTimeout = 5 * time.Second
	requestTimeout = 20 * time.Second
)

// newHTTPClient builds the client shared by an adapter's outbound calls.
// Both the connect and the overall request are bounded so no login attempt
// blocks indefinitely on a slow provider.
func newHTTPClient() *http.Client {
	return &http.Client{
		Timeout: requestTimeout,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout: connectTimeout,
			}).DialContext,
			TLSHandshakeTimeout: connectTimeout,
		},
	}
}

// New creates the adapter for a provider from its credentials.
func New(name models.Provider, creds config.ProviderCredentials) (Adapter, error) {
	switch name {
	case models.ProviderGoogle:
		return NewGoogle(creds), nil
	case models.ProviderKakao:
		return NewKakao(creds), nil
	case models.ProviderNaver:
		return NewNaver(creds), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", name)
	}
}

// NewRegistry builds adapters for every configured provider.
func NewRegistry(credentials map[models.Provider]config.ProviderCredentials) (map[models.Provider]Adapter, error) {
	registry := make(map[models.Provider]Adapter, len(credentials))
	for name, creds := range credentials {
		adapter, err := New(name, creds)
		if err != nil {
			return nil, err
		}
		registry[name] = adapter
	}
	return registry, nil
}

// fetchJSON performs an authenticated GET against a user-info endpoint and
// decodes the JSON body into out.
func fetchJSON(ctx context.Context, client *http.Client, endpoint, accessToken string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("calling %s: %w", endpoint, err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			_ = closeErr
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s returned status %d", endpoint, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response from %s: %w", endpoint, err)
	}

	return nil
}
