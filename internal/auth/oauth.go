package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
)

// githubUser is the portion of the GitHub /user API response we care about.
// GitHub returns a much larger object — we only unmarshal the fields we need.
type githubUser struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	Name      string `json:"name"`
	Email     string `json:"email"` // empty if hidden in GitHub settings
	AvatarURL string `json:"avatar_url"`
	HTMLURL   string `json:"html_url"`
}

// githubEmail is one entry of the GitHub /user/emails response.
type githubEmail struct {
	Email    string `json:"email"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}

// GitHubProvider implements Provider using golang.org/x/oauth2 and the
// GitHub Authorization Code flow.
//
// The code-for-token exchange happens server-to-server with the ClientSecret;
// the access token never reaches the browser. We only hold the token long
// enough to read the user's profile and email — it is not persisted.
type GitHubProvider struct {
	config *oauth2.Config
	// apiBase is overridable in tests; production value is the GitHub API root.
	apiBase string
}

var _ Provider = (*GitHubProvider)(nil)

// NewGitHubProvider creates a GitHubProvider with the given OAuth app
// credentials. callbackURL must exactly match the authorization callback URL
// registered with the GitHub OAuth app.
//
// Scope user:email grants access to the user's email addresses — needed
// because identities are resolved by email and the profile email is often
// hidden on the public profile.
func NewGitHubProvider(clientID, clientSecret, callbackURL string) *GitHubProvider {
	return &GitHubProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  callbackURL,
			Scopes:       []string{"user:email"},
			Endpoint:     github.Endpoint,
		},
		apiBase: "https://api.github.com",
	}
}

// AuthURL returns the GitHub authorization URL for the given state nonce.
// The nonce is stored in a short-lived cookie before the redirect and
// verified on callback — the flow's only CSRF defense.
func (p *GitHubProvider) AuthURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange completes the OAuth flow: code → access token → user profile →
// email. Each step is a blocking round trip, executed in sequence; there are
// no retries — a failing upstream call aborts this one login attempt.
func (p *GitHubProvider) Exchange(ctx context.Context, code string) (*ExternalUser, error) {
	oauthToken, err := p.config.Exchange(ctx, code)
	if err != nil {
		// GitHub reports bad codes etc. with its own error code; surface it
		// so the callback can put it in the redirect.
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) && retrieveErr.ErrorCode != "" {
			return nil, &ProviderError{Code: retrieveErr.ErrorCode}
		}
		return nil, fmt.Errorf("auth: exchanging OAuth code: %w", err)
	}

	// oauth2.Config.Client returns an *http.Client that adds the
	// Authorization header to every request.
	client := p.config.Client(ctx, oauthToken)

	ghUser, err := p.fetchUser(client)
	if err != nil {
		return nil, err
	}

	email := ghUser.Email
	if email == "" {
		// Profile email hidden — ask the emails endpoint, preferring the
		// primary address and falling back to the first one returned.
		email, err = p.fetchEmail(client)
		if err != nil {
			return nil, err
		}
	}
	if email == "" {
		return nil, ErrNoEmail
	}

	return &ExternalUser{
		ProviderID: ghUser.ID,
		Login:      ghUser.Login,
		Name:       ghUser.Name,
		Email:      email,
		AvatarURL:  ghUser.AvatarURL,
		ProfileURL: ghUser.HTMLURL,
	}, nil
}

func (p *GitHubProvider) fetchUser(client *http.Client) (*githubUser, error) {
	resp, err := client.Get(p.apiBase + "/user")
	if err != nil {
		return nil, fmt.Errorf("auth: calling GitHub /user API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("auth: GitHub /user API returned status %d", resp.StatusCode)
	}

	var ghUser githubUser
	if err := json.NewDecoder(resp.Body).Decode(&ghUser); err != nil {
		return nil, fmt.Errorf("auth: decoding GitHub /user response: %w", err)
	}

	if ghUser.ID == 0 {
		return nil, fmt.Errorf("auth: GitHub returned an invalid user (ID = 0)")
	}

	return &ghUser, nil
}

func (p *GitHubProvider) fetchEmail(client *http.Client) (string, error) {
	resp, err := client.Get(p.apiBase + "/user/emails")
	if err != nil {
		return "", fmt.Errorf("auth: calling GitHub /user/emails API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("auth: GitHub /user/emails API returned status %d", resp.StatusCode)
	}

	var emails []githubEmail
	if err := json.NewDecoder(resp.Body).Decode(&emails); err != nil {
		return "", fmt.Errorf("auth: decoding GitHub /user/emails response: %w", err)
	}

	for _, e := range emails {
		if e.Primary {
			return e.Email, nil
		}
	}
	if len(emails) > 0 {
		return emails[0].Email, nil
	}
	return "", nil
}
