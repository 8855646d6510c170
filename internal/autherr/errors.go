package autherr

import "errors"

// Sentinel errors for the login transaction. Each failure a provider, the
// issuer or the store can produce is wrapped with exactly one of these so the
// transport layer can map it to a status code with errors.Is.
var (
	// ErrMissingAuthorizationCode means the inbound code was empty; the
	// transaction fails before any network call is made.
	ErrMissingAuthorizationCode = errors.New("authorization code is missing")

	// ErrProviderExchange covers every way the code-for-token exchange can
	// fail: timeout, non-success status, embedded error field, missing
	// access token in the response body.
	ErrProviderExchange = errors.New("provider code exchange failed")

	// ErrProviderProfile covers user-info fetch failures, including a
	// response that lacks a stable identifier.
	ErrProviderProfile = errors.New("provider profile fetch failed")

	// ErrTokenIssuance surfaces signing misconfiguration at issue time.
	ErrTokenIssuance = errors.New("token issuance failed")

	// ErrTokenInvalid is returned by ParseClaims for malformed, tampered or
	// expired tokens. Validate never returns it; it collapses to false.
	ErrTokenInvalid = errors.New("token is invalid")

	// ErrStoreUnavailable means a backing store (cache or database) could
	// not be reached. Absence of a token is not this error.
	ErrStoreUnavailable = errors.New("token store unavailable")

	// ErrConfiguration means required provider credentials or issuer
	// settings are missing; detected at startup, before any network call.
	ErrConfiguration = errors.New("invalid configuration")
)
