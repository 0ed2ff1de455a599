package model

import "time"

// Identity is the authenticated principal behind a session.
//
// Identities are resolved by email during the OAuth callback: an existing row
// has its GitHub metadata refreshed, a missing row is created with the email
// already verified (GitHub vouched for it). We generate our own internal
// string ID (xid) rather than keying on GitHub's numeric ID, so primary keys
// are not tied to a third party's numbering scheme.
type Identity struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"` // unique; the resolution key
	EmailVerified bool      `json:"email_verified"`
	FullName      string    `json:"full_name"`
	AvatarURL     string    `json:"avatar_url"`
	GitHubID      int64     `json:"github_id"`    // GitHub's numeric user ID
	GitHubLogin   string    `json:"github_login"` // GitHub username
	GitHubURL     string    `json:"github_url"`   // html_url of the GitHub profile
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
