package model

import "time"

// Profile is the locally stored, user-editable metadata for an Identity.
//
// The primary key is the identity's ID. A profile row is created lazily on
// first authenticated contact (insert-if-absent during the OAuth callback) and
// afterwards updated wholesale through the /api/user route. A missing profile
// row is tolerated: the callback logs the failure and still mints a session,
// so a user can be signed in with no profile row at all.
type Profile struct {
	ID        string    `json:"id"` // = Identity.ID
	Username  string    `json:"username"`
	FullName  string    `json:"full_name"`
	AvatarURL string    `json:"avatar_url"`
	Email     string    `json:"email"`
	GitHubID  string    `json:"github_id"` // stored as text so the JSON shape matches what the web client stores
	GitHubURL string    `json:"github_url"`
	UpdatedAt time.Time `json:"updated_at"`
}
