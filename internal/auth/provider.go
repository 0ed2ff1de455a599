// Package auth provides the identity-provider abstraction, JWT session
// tokens, and the session middleware.
//
// AUTHENTICATION FLOW OVERVIEW:
// 1. User visits /auth/github/login → redirected to GitHub with a state nonce
// 2. GitHub calls back /auth/github/callback with code + state
// 3. Server verifies the state cookie, exchanges the code for an external
//    user profile, resolves a local identity, and ensures a profile row
// 4. Server mints a session (access + refresh JWT) stored in HttpOnly cookies
// 5. On API calls, middleware reads the access-token cookie, validates the
//    JWT, and puts the userID in the request context
package auth

import (
	"context"
	"errors"
)

// Cookie names shared by the OAuth handler (which sets them) and the session
// middleware (which reads them). The sb-*/supabase-* names are kept for
// compatibility with the existing web client, which was built against
// Supabase auth helpers and reads these exact cookies.
const (
	StateCookie        = "github-oauth-state"
	AccessTokenCookie  = "sb-access-token"
	RefreshTokenCookie = "sb-refresh-token"
	// LegacySessionCookie holds a JSON array [access, refresh] — a redundant
	// second encoding of the same tokens that the client's auth helper expects.
	LegacySessionCookie = "supabase-auth-token"
)

// ErrNoEmail is returned by Exchange when the provider has no resolvable
// email for the user (e.g. all GitHub emails hidden and none returned by the
// emails endpoint). The callback maps it to the no_email redirect.
var ErrNoEmail = errors.New("auth: no email available for user")

// ProviderError carries the OAuth provider's own error code (for example
// "bad_verification_code") so the callback can forward it verbatim in the
// redirect query string, matching the behavior browsers already depend on.
type ProviderError struct {
	Code string
}

func (e *ProviderError) Error() string {
	return "auth: provider error: " + e.Code
}

// ExternalUser is the profile resolved from an identity provider after a
// successful credential exchange.
type ExternalUser struct {
	ProviderID int64  // the provider's numeric user ID
	Login      string // provider username, e.g. "sakif"
	Name       string // display name (may be empty)
	Email      string // primary (or first available) verified email
	AvatarURL  string
	ProfileURL string // html URL of the provider profile
}

// Provider is the single identity-provider abstraction: redirect the user
// out with AuthURL, then turn the returned credential into an ExternalUser
// with Exchange. GitHubProvider is the only implementation today; the
// interface exists so another provider can be swapped in behind it without
// touching the handlers.
type Provider interface {
	// AuthURL returns the provider's authorization URL carrying the CSRF
	// state nonce.
	AuthURL(state string) string
	// Exchange trades the authorization code for the external user's profile.
	// Returns *ProviderError when the provider rejected the code, and
	// ErrNoEmail when no email could be resolved.
	Exchange(ctx context.Context, code string) (*ExternalUser, error)
}
