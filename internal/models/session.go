package models

// Session is the finished result of a login transaction: the application's
// own signed tokens plus the normalized profile they were minted for.
type Session struct {
	AccessToken  string           `json:"access_token"`
	RefreshToken string           `json:"refresh_token"`
	User         *ProviderProfile `json:"user,omitempty"`
}
