package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/rs/xid"
	"github.com/sakif/repohub/internal/auth"
	"github.com/sakif/repohub/internal/service"
)

// AuthHandler drives the GitHub OAuth login flow and session management.
//
// Responsibilities:
//   - HandleGitHubLogin    → set the state cookie, redirect to the provider
//   - HandleGitHubCallback → run the one-shot login sequence, set session cookies
//   - HandleLogout         → clear the session cookies
//   - HandleMe             → return the signed-in identity
//
// Every callback failure redirects the browser back to the app root with a
// query-string error code (invalid_state, no_email, auth_error,
// session_error, ...). The caller is a browser navigation, not a programmatic
// client, so there is never a JSON error body on this flow.
type AuthHandler struct {
	provider      auth.Provider
	service       *service.AuthService
	logger        *slog.Logger
	baseURL       string // application root the flow redirects back to
	secureCookies bool   // true in production (HTTPS-only cookies)
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(
	provider auth.Provider,
	service *service.AuthService,
	logger *slog.Logger,
	baseURL string,
	secureCookies bool,
) *AuthHandler {
	return &AuthHandler{
		provider:      provider,
		service:       service,
		logger:        logger,
		baseURL:       baseURL,
		secureCookies: secureCookies,
	}
}

// HandleGitHubLogin starts the OAuth flow.
//
// HTTP: GET /auth/github/login
//
// A random state nonce goes into a 10-minute HttpOnly cookie before the
// redirect; the callback requires the returned state to match it. That
// cookie round trip is the flow's only CSRF defense.
func (h *AuthHandler) HandleGitHubLogin(w http.ResponseWriter, r *http.Request) {
	state := xid.New().String()

	http.SetCookie(w, &http.Cookie{
		Name:     auth.StateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   600, // 10 minutes
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.provider.AuthURL(state), http.StatusTemporaryRedirect)
}

// HandleGitHubCallback completes the login.
//
// HTTP: GET /auth/github/callback?code=xxx&state=yyy
//
// The sequence is linear and non-retryable; every failure branch aborts the
// whole attempt with a redirect error code:
//
//  1. missing code            → missing_code
//  2. state absent/mismatched → invalid_state (no exchange call is made)
//  3. provider rejects code   → the provider's own error code
//     no resolvable email     → no_email
//     other exchange failure  → server_error
//  4. identity resolution     → auth_error (fatal)
//  5. profile insert-if-absent: logged inside the service, never aborts
//  6. session minting         → session_error
//  7. success → session cookies set, state cookie cleared, redirect to root
func (h *AuthHandler) HandleGitHubCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		h.redirectError(w, r, "missing_code")
		return
	}

	state := r.URL.Query().Get("state")
	stateCookie, err := r.Cookie(auth.StateCookie)
	if err != nil || stateCookie.Value == "" || state != stateCookie.Value {
		h.logger.Warn("auth callback: state verification failed",
			slog.String("state", state),
		)
		h.redirectError(w, r, "invalid_state")
		return
	}

	ext, err := h.provider.Exchange(r.Context(), code)
	if err != nil {
		var providerErr *auth.ProviderError
		switch {
		case errors.As(err, &providerErr):
			h.logger.Error("auth callback: provider rejected code",
				slog.String("code", providerErr.Code),
			)
			h.redirectError(w, r, providerErr.Code)
		case errors.Is(err, auth.ErrNoEmail):
			h.logger.Error("auth callback: no email for user")
			h.redirectError(w, r, "no_email")
		default:
			h.logger.Error("auth callback: exchange failed", slog.String("error", err.Error()))
			h.redirectError(w, r, "server_error")
		}
		return
	}

	result, err := h.service.LoginOrRegister(r.Context(), ext)
	if err != nil {
		if errors.Is(err, service.ErrSessionMint) {
			h.logger.Error("auth callback: session creation failed", slog.String("error", err.Error()))
			h.redirectError(w, r, "session_error")
			return
		}
		h.logger.Error("auth callback: identity resolution failed", slog.String("error", err.Error()))
		h.redirectError(w, r, "auth_error")
		return
	}

	h.setSessionCookies(w, result.Session)
	h.clearStateCookie(w)

	http.Redirect(w, r, h.baseURL+"/", http.StatusSeeOther)
}

// HandleLogout clears the session cookies.
//
// HTTP: POST /auth/logout
//
// Sessions are stateless JWTs, so "logout" is deleting the cookies; the
// tokens themselves stay valid until expiry.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	for _, name := range []string{auth.AccessTokenCookie, auth.RefreshTokenCookie, auth.LegacySessionCookie} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   h.secureCookies,
			SameSite: http.SameSiteLaxMode,
		})
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// HandleMe returns the authenticated identity.
//
// HTTP: GET /api/me
// Auth: required
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	identity, err := h.service.GetIdentity(r.Context(), userID)
	if err != nil {
		h.logger.Error("HandleMe: identity lookup failed", slog.String("userID", userID))
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, identity)
}

// setSessionCookies writes the three session cookies: the access and refresh
// tokens, plus the legacy cookie carrying both as a JSON array — a redundant
// encoding the web client's auth helper still reads.
func (h *AuthHandler) setSessionCookies(w http.ResponseWriter, session *auth.Session) {
	const week = 60 * 60 * 24 * 7

	set := func(name, value string) {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    value,
			Path:     "/",
			MaxAge:   week,
			HttpOnly: true,
			Secure:   h.secureCookies,
			SameSite: http.SameSiteLaxMode,
		})
	}

	set(auth.AccessTokenCookie, session.AccessToken)
	set(auth.RefreshTokenCookie, session.RefreshToken)

	legacy, err := json.Marshal([]string{session.AccessToken, session.RefreshToken})
	if err == nil {
		set(auth.LegacySessionCookie, url.QueryEscape(string(legacy)))
	}
}

// clearStateCookie removes the single-use state nonce.
func (h *AuthHandler) clearStateCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:   auth.StateCookie,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
}

// redirectError sends the browser back to the app root carrying the error
// code in the query string.
func (h *AuthHandler) redirectError(w http.ResponseWriter, r *http.Request, code string) {
	http.Redirect(w, r, h.baseURL+"/?error="+url.QueryEscape(code), http.StatusSeeOther)
}
