package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"golang.org/x/oauth2"

	"github.com/elianayesol/auth-gateway/internal/autherr"
	"github.com/elianayesol/auth-gateway/internal/config"
	"github.com/elianayesol/auth-gateway/internal/models"
)

// Kakao exchanges codes and fetches profiles against Kakao's OAuth2
// endpoints. Kakao apps may register without a client secret.
type Kakao struct {
	oauth       *oauth2.Config
	userInfoURL string
	client      *http.Client
}

// NewKakao creates the Kakao adapter from provider credentials.
func NewKakao(creds config.ProviderCredentials) *Kakao {
	return &Kakao{
		oauth: &oauth2.Config{
			ClientID:     creds.ClientID,
			ClientSecret: creds.ClientSecret,
			RedirectURL:  creds.RedirectURI,
			Endpoint: oauth2.Endpoint{
				AuthURL:   creds.AuthorizeURL,
				TokenURL:  creds.TokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		userInfoURL: creds.UserInfoURL,
		client:      newHTTPClient(),
	}
}

// Name implements Adapter.
func (k *Kakao) Name() models.Provider { return models.ProviderKakao }

// BuildAuthorizationURL returns the consent-screen URL. The Kakao flow does
// not carry a state parameter; the argument is ignored.
func (k *Kakao) BuildAuthorizationURL(_ string) string {
	q := url.Values{}
	q.Set("client_id", k.oauth.ClientID)
	q.Set("redirect_uri", k.oauth.RedirectURL)
	q.Set("response_type", "code")
	return k.oauth.Endpoint.AuthURL + "?" + q.Encode()
}

// Exchange trades the authorization code for a Kakao access token.
func (k *Kakao) Exchange(ctx context.Context, code, _ string) (string, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, k.client)
	tok, err := k.oauth.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("%w: kakao: %v", autherr.ErrProviderExchange, err)
	}
	if tok.AccessToken == "" {
		return "", fmt.Errorf("%w: kakao: response missing access token", autherr.ErrProviderExchange)
	}
	return tok.AccessToken, nil
}

type kakaoUserInfo struct {
	ID           int64 `json:"id"`
	KakaoAccount struct {
		Email   string `json:"email"`
		Profile struct {
			Nickname        string `json:"nickname"`
			ProfileImageURL string `json:"profile_image_url"`
		} `json:"profile"`
	} `json:"kakao_account"`
}

// FetchProfile retrieves the user's Kakao profile. Kakao ids are numeric on
// the wire and normalized to strings here.
func (k *Kakao) FetchProfile(ctx context.Context, accessToken string) (*models.ProviderProfile, error) {
	var info kakaoUserInfo
	if err := fetchJSON(ctx, k.client, k.userInfoURL, accessToken, &info); err != nil {
		return nil, fmt.Errorf("%w: kakao: %v", autherr.ErrProviderProfile, err)
	}
	if info.ID == 0 {
		return nil, fmt.Errorf("%w: kakao: response missing user id", autherr.ErrProviderProfile)
	}

	return &models.ProviderProfile{
		ProviderID:  strconv.FormatInt(info.ID, 10),
		Provider:    models.ProviderKakao,
		Email:       info.KakaoAccount.Email,
		DisplayName: info.KakaoAccount.Profile.Nickname,
		AvatarURL:   info.KakaoAccount.Profile.ProfileImageURL,
	}, nil
}
