package models

import "fmt"

// Provider identifies a supported OAuth identity provider.
type Provider string

const (
	ProviderGoogle Provider = "google"
	ProviderKakao  Provider = "kakao"
	ProviderNaver  Provider = "naver"
)

// ParseProvider converts a raw provider name into a Provider value.
func ParseProvider(name string) (Provider, error) {
	switch Provider(name) {
	case ProviderGoogle, ProviderKakao, ProviderNaver:
		return Provider(name), nil
	default:
		return "", fmt.Errorf("unknown provider %q", name)
	}
}

// String returns the provider name as stored in refresh-token records.
func (p Provider) String() string {
	return string(p)
}

// ProviderProfile is the normalized identity fetched from a provider's
// user-info endpoint. It is built once per login attempt and never persisted.
type ProviderProfile struct {
	ProviderID  string   `json:"id"`
	Provider    Provider `json:"provider"`
	Email       string   `json:"email,omitempty"`
	DisplayName string   `json:"display_name,omitempty"`
	AvatarURL   string   `json:"avatar_url,omitempty"`
	Locale      string   `json:"locale,omitempty"`
}
