package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/oauth2"

	"github.com/elianayesol/auth-gateway/internal/autherr"
	"github.com/elianayesol/auth-gateway/internal/config"
	"github.com/elianayesol/auth-gateway/internal/models"
)

// Naver exchanges codes and fetches profiles against Naver's OAuth2
// endpoints. The code exchange is performed by hand rather than through
// oauth2.Config.Exchange because Naver can report failures inside a 200
// response body and the error description should survive into the returned
// error.
type Naver struct {
	oauth       *oauth2.Config
	userInfoURL string
	client      *http.Client
}

// NewNaver creates the Naver adapter from provider credentials.
func NewNaver(creds config.ProviderCredentials) *Naver {
	return &Naver{
		oauth: &oauth2.Config{
			ClientID:     creds.ClientID,
			ClientSecret: creds.ClientSecret,
			RedirectURL:  creds.RedirectURI,
			Endpoint: oauth2.Endpoint{
				AuthURL:  creds.AuthorizeURL,
				TokenURL: creds.TokenURL,
			},
		},
		userInfoURL: creds.UserInfoURL,
		client:      newHTTPClient(),
	}
}

// Name implements Adapter.
func (n *Naver) Name() models.Provider { return models.ProviderNaver }

// BuildAuthorizationURL returns the consent-screen URL with CSRF state.
func (n *Naver) BuildAuthorizationURL(state string) string {
	return n.oauth.AuthCodeURL(state)
}

type naverTokenResponse struct {
	AccessToken      string `json:"access_token"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// Exchange trades the authorization code for a Naver access token. An error
// field embedded in a 200 response is treated identically to an HTTP-level
// failure.
func (n *Naver) Exchange(ctx context.Context, code, state string) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("client_id", n.oauth.ClientID)
	form.Set("client_secret", n.oauth.ClientSecret)
	form.Set("redirect_uri", n.oauth.RedirectURL)
	form.Set("code", code)
	form.Set("state", state)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.oauth.Endpoint.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("%w: naver: building request: %v", autherr.ErrProviderExchange, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := n.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: naver: %v", autherr.ErrProviderExchange, err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			_ = closeErr
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: naver: token endpoint returned status %d", autherr.ErrProviderExchange, resp.StatusCode)
	}

	var body naverTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("%w: naver: decoding token response: %v", autherr.ErrProviderExchange, err)
	}
	if body.Error != "" {
		return "", fmt.Errorf("%w: naver: %s - %s", autherr.ErrProviderExchange, body.Error, body.ErrorDescription)
	}
	if body.AccessToken == "" {
		return "", fmt.Errorf("%w: naver: response missing access token", autherr.ErrProviderExchange)
	}

	return body.AccessToken, nil
}

type naverUserInfo struct {
	ResultCode string `json:"resultcode"`
	Message    string `json:"message"`
	Response   struct {
		ID           string `json:"id"`
		Email        string `json:"email"`
		Nickname     string `json:"nickname"`
		Name         string `json:"name"`
		ProfileImage string `json:"profile_image"`
	} `json:"response"`
}

// FetchProfile retrieves the user's Naver profile. Naver nests the actual
// profile under a response envelope.
func (n *Naver) FetchProfile(ctx context.Context, accessToken string) (*models.ProviderProfile, error) {
	var info naverUserInfo
	if err := fetchJSON(ctx, n.client, n.userInfoURL, accessToken, &info); err != nil {
		return nil, fmt.Errorf("%w: naver: %v", autherr.ErrProviderProfile, err)
	}
	if info.Response.ID == "" {
		return nil, fmt.Errorf("%w: naver: response missing user id", autherr.ErrProviderProfile)
	}

	displayName := info.Response.Name
	if displayName == "" {
		displayName = info.Response.Nickname
	}

	return &models.ProviderProfile{
		ProviderID:  info.Response.ID,
		Provider:    models.ProviderNaver,
		Email:       info.Response.Email,
		DisplayName: displayName,
		AvatarURL:   info.Response.ProfileImage,
	}, nil
}
