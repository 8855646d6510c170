package token

import (
	"context"
	"fmt"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"

	"github.com/elianayesol/auth-gateway/internal/autherr"
)

// Issuer creates and verifies the application's own signed session tokens.
// Access and refresh tokens share one signing scheme and differ only in claim
// payload and TTL, so a single Issuer guarantees identical verification logic
// for both.
//
// The signing key is loaded once at startup and read-only afterwards; an
// Issuer is safe for concurrent use.
type Issuer struct {
	key        []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewIssuer creates an issuer from the signing secret and token lifetimes.
func NewIssuer(secret string, accessTTL, refreshTTL time.Duration) (*Issuer, error) {
	if secret == "" {
		return nil, fmt.Errorf("%w: signing secret is empty", autherr.ErrConfiguration)
	}
	return &Issuer{
		key:        []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}, nil
}

// WithClock replaces the issuer's time source. Used by tests to simulate
// expiry without sleeping.
func (i *Issuer) WithClock(now func() time.Time) *Issuer {
	i.now = now
	return i
}

// AccessTTL returns the access-token lifetime.
func (i *Issuer) AccessTTL() time.Duration { return i.accessTTL }

// RefreshTTL returns the refresh-token lifetime.
func (i *Issuer) RefreshTTL() time.Duration { return i.refreshTTL }

// IssueAccessToken produces a compact signed token with sub=subject, the
// merged claims, iat=now and exp=now+accessTTL.
func (i *Issuer) IssueAccessToken(subject string, claims map[string]any) (string, error) {
	return i.sign(subject, claims, i.accessTTL)
}

// IssueRefreshToken produces a signed token carrying only the subject, with
// exp=now+refreshTTL.
func (i *Issuer) IssueRefreshToken(subject string) (string, error) {
	return i.sign(subject, nil, i.refreshTTL)
}

func (i *Issuer) sign(subject string, claims map[string]any, ttl time.Duration) (string, error) {
	now := i.now()
	builder := jwt.NewBuilder().
		Subject(subject).
		IssuedAt(now).
		Expiration(now.Add(ttl))

	for name, value := range claims {
		switch name {
		case jwt.SubjectKey, jwt.IssuedAtKey, jwt.ExpirationKey:
			// Registered claims are owned by the issuer.
			continue
		}
		builder = builder.Claim(name, value)
	}

	tok, err := builder.Build()
	if err != nil {
		return "", fmt.Errorf("%w: building token: %v", autherr.ErrTokenIssuance, err)
	}

	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.HS256, i.key))
	if err != nil {
		return "", fmt.Errorf("%w: signing token: %v", autherr.ErrTokenIssuance, err)
	}

	return string(signed), nil
}

// ParseClaims verifies the token's signature and expiry and returns all of
// its claims. Malformed structure, bad signature and expiry all surface as
// ErrTokenInvalid.
func (i *Issuer) ParseClaims(tokenString string) (map[string]any, error) {
	tok, err := i.parse(tokenString)
	if err != nil {
		return nil, err
	}

	claims, err := tok.AsMap(context.Background())
	if err != nil {
		return nil, fmt.Errorf("%w: reading claims: %v", autherr.ErrTokenInvalid, err)
	}
	return claims, nil
}

// Subject verifies the token and returns its sub claim.
func (i *Issuer) Subject(tokenString string) (string, error) {
	tok, err := i.parse(tokenString)
	if err != nil {
		return "", err
	}
	return tok.Subject(), nil
}

// Validate reports whether the token is well-formed, correctly signed and
// unexpired. It never returns an error; every failure reason collapses to
// false.
func (i *Issuer) Validate(tokenString string) bool {
	_, err := i.parse(tokenString)
	return err == nil
}

func (i *Issuer) parse(tokenString string) (jwt.Token, error) {
	tok, err := jwt.Parse([]byte(tokenString),
		jwt.WithKey(jwa.HS256, i.key),
		jwt.WithValidate(true),
		jwt.WithClock(jwt.ClockFunc(i.now)),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", autherr.ErrTokenInvalid, err)
	}
	return tok, nil
}
