// Package model defines the data structures used throughout the application.
package model

import "time"

// Platform identifies where a submitted repository is hosted.
// Only GitHub and Bitbucket are recognised by the frontend filters.
const (
	PlatformGitHub    = "github"
	PlatformBitbucket = "bitbucket"
)

// Submission represents a repository shared to the community list.
//
// Submissions are insert-only: there is no edit or delete endpoint for them.
// UserID is always server-assigned from the authenticated session — any value
// supplied in a request body is discarded, so ownership cannot be spoofed.
//
// Tags serialises as a JSON array and is stored as a JSON-encoded TEXT column.
// An absent tags field defaults to an empty slice (never null in responses,
// the frontend flatMaps over it).
type Submission struct {
	ID          string    `json:"id"`
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Tags        []string  `json:"tags"`
	Platform    string    `json:"platform"` // "github" (default) or "bitbucket"
	UserID      string    `json:"user_id"`
	Username    string    `json:"username"`
	Language    string    `json:"language"`
	Stars       int       `json:"stars"`
	CreatedAt   time.Time `json:"created_at"`
}
