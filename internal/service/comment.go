package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/repohub/internal/apperror"
	"github.com/sakif/repohub/internal/model"
	"github.com/sakif/repohub/internal/repository"
)

// CommentService handles repository comments, including the exactly-one
// validation of the repoId/repoUrl reference.
type CommentService struct {
	repo   repository.CommentRepository
	logger *slog.Logger
}

// NewCommentService creates a CommentService.
func NewCommentService(repo repository.CommentRepository, logger *slog.Logger) *CommentService {
	return &CommentService{repo: repo, logger: logger}
}

// CommentInput is the request payload for creating a comment. Exactly one of
// RepoID/RepoURL must be set.
type CommentInput struct {
	RepoID   string
	RepoURL  string
	Text     string
	Username string
}

// ListForRepo returns the comments for a repository reference, oldest first.
//
// Neither reference present → validation error. When both are present, repoId
// takes precedence (documented, deterministic — the listing filters on the
// submission id and ignores the URL).
func (s *CommentService) ListForRepo(ctx context.Context, repoID, repoURL string) ([]model.Comment, error) {
	switch {
	case repoID != "":
		comments, err := s.repo.ListCommentsByRepoID(ctx, repoID)
		if err != nil {
			return nil, fmt.Errorf("service/comment: listing by repoId: %w", err)
		}
		return comments, nil
	case repoURL != "":
		comments, err := s.repo.ListCommentsByRepoURL(ctx, repoURL)
		if err != nil {
			return nil, fmt.Errorf("service/comment: listing by repoUrl: %w", err)
		}
		return comments, nil
	default:
		return nil, apperror.ValidationFailed("repoId", "repoId or repoUrl is required")
	}
}

// Create validates and stores a new comment on behalf of userID.
//
// Required: non-empty text and username, and EXACTLY one of repoId/repoUrl —
// a comment referencing both (or neither) is rejected, which is what keeps
// the exactly-one invariant true in storage without a schema constraint.
func (s *CommentService) Create(ctx context.Context, userID string, input CommentInput) (*model.Comment, error) {
	if input.Text == "" || input.Username == "" {
		return nil, apperror.ValidationFailed("text", "text and username are required")
	}
	if input.RepoID == "" && input.RepoURL == "" {
		return nil, apperror.ValidationFailed("repoId", "repoId or repoUrl is required")
	}
	if input.RepoID != "" && input.RepoURL != "" {
		return nil, apperror.ValidationFailed("repoId", "only one of repoId or repoUrl may be set")
	}

	comment := &model.Comment{
		RepoID:   input.RepoID,
		RepoURL:  input.RepoURL,
		Text:     input.Text,
		UserID:   userID,
		Username: input.Username,
	}

	if err := s.repo.CreateComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("service/comment: creating comment: %w", err)
	}

	s.logger.Info("comment created",
		slog.String("id", comment.ID),
		slog.String("userID", userID),
	)

	return comment, nil
}

// UpdateText changes a comment's text. The repository scopes the write to
// rows owned by userID; zero rows affected comes back as ErrNotFound whether
// the comment is missing or owned by someone else.
func (s *CommentService) UpdateText(ctx context.Context, id, userID, text string) (*model.Comment, error) {
	comment, err := s.repo.UpdateCommentText(ctx, id, userID, text)
	if err != nil {
		return nil, fmt.Errorf("service/comment: updating comment %s: %w", id, err)
	}
	return comment, nil
}

// Delete removes a comment with the same ownership scoping as UpdateText.
// A delete that matched nothing is a 404, symmetric with update.
func (s *CommentService) Delete(ctx context.Context, id, userID string) error {
	if err := s.repo.DeleteComment(ctx, id, userID); err != nil {
		return fmt.Errorf("service/comment: deleting comment %s: %w", id, err)
	}

	s.logger.Info("comment deleted",
		slog.String("id", id),
		slog.String("userID", userID),
	)

	return nil
}
