package model

import "time"

// Comment is a user comment attached to a repository.
//
// A comment references its repository through EXACTLY ONE of RepoID (a
// community submission id) or RepoURL (a raw repository URL from the search
// view). The exactly-one rule is enforced by request validation, not by the
// storage schema — the unused column is simply left empty.
//
// Ownership: text updates and deletes are scoped by an equality check on
// UserID at write time. A write that matches zero rows is reported as
// "not found or unauthorized" without distinguishing the two causes, so the
// existence of other users' comments is never leaked.
type Comment struct {
	ID        string    `json:"id"`
	RepoID    string    `json:"repo_id,omitempty"`
	RepoURL   string    `json:"repo_url,omitempty"`
	Text      string    `json:"text"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}
