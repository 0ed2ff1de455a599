// Package repository declares the storage interfaces the service layer
// depends on. The sqlite subpackage provides the concrete implementation;
// tests substitute in-memory mocks.
package repository

import (
	"context"

	"github.com/sakif/repohub/internal/model"
)

// SubmissionRepository stores community submissions. Submissions are
// insert-only — there is no update or delete operation by design.
type SubmissionRepository interface {
	CreateSubmission(ctx context.Context, submission *model.Submission) error
	// ListSubmissions returns all submissions ordered by created_at descending.
	ListSubmissions(ctx context.Context) ([]model.Submission, error)
}

// CommentRepository stores repository comments.
//
// UpdateText and Delete are ownership-scoped: the WHERE clause matches both
// the comment id and the caller's user id, so a non-owner's write affects
// zero rows and surfaces as apperror.ErrNotFound.
type CommentRepository interface {
	CreateComment(ctx context.Context, comment *model.Comment) error
	// ListCommentsByRepoID returns comments for a submission, created_at ascending.
	ListCommentsByRepoID(ctx context.Context, repoID string) ([]model.Comment, error)
	// ListCommentsByRepoURL returns comments for a raw repository URL, created_at ascending.
	ListCommentsByRepoURL(ctx context.Context, repoURL string) ([]model.Comment, error)
	// UpdateCommentText sets the text of the comment owned by userID and returns the
	// updated row. Zero rows affected → apperror.ErrNotFound.
	UpdateCommentText(ctx context.Context, id, userID, text string) (*model.Comment, error)
	// DeleteComment removes the comment owned by userID.
	// Zero rows affected → apperror.ErrNotFound.
	DeleteComment(ctx context.Context, id, userID string) error
}

// IdentityRepository stores authenticated principals, resolved by email
// during the OAuth callback.
type IdentityRepository interface {
	// ResolveByEmail finds the identity with identity.Email and refreshes its
	// metadata, or creates a new row if none exists. On return identity.ID is
	// populated either way.
	ResolveByEmail(ctx context.Context, identity *model.Identity) error
	GetIdentityByID(ctx context.Context, id string) (*model.Identity, error)
}

// ProfileRepository stores user-editable profile rows keyed by identity ID.
type ProfileRepository interface {
	// EnsureProfile inserts the profile if no row with its ID exists.
	// It is insert-if-absent, NOT an upsert: an existing row is left untouched
	// so user edits survive subsequent logins.
	EnsureProfile(ctx context.Context, profile *model.Profile) error
	GetProfileByID(ctx context.Context, id string) (*model.Profile, error)
	// UpdateProfile replaces the editable fields of the profile wholesale.
	UpdateProfile(ctx context.Context, profile *model.Profile) error
}
