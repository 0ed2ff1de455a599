// Package service contains the business logic between the HTTP handlers and
// the repositories. Handlers never touch the database; services never touch
// HTTP.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/repohub/internal/model"
	"github.com/sakif/repohub/internal/repository"
)

// SubmissionService handles community submissions.
type SubmissionService struct {
	repo   repository.SubmissionRepository
	logger *slog.Logger
}

// NewSubmissionService creates a SubmissionService.
func NewSubmissionService(repo repository.SubmissionRepository, logger *slog.Logger) *SubmissionService {
	return &SubmissionService{repo: repo, logger: logger}
}

// Create stores a new submission on behalf of userID.
//
// UserID is always overwritten with the authenticated identity — whatever the
// request body carried is discarded, so a caller can never submit as someone
// else. Absent fields get their documented defaults: empty tags, platform
// "github", zero stars.
func (s *SubmissionService) Create(ctx context.Context, userID string, submission *model.Submission) (*model.Submission, error) {
	submission.UserID = userID

	if submission.Tags == nil {
		submission.Tags = []string{}
	}
	if submission.Platform == "" {
		submission.Platform = model.PlatformGitHub
	}
	if submission.Stars < 0 {
		submission.Stars = 0
	}

	if err := s.repo.CreateSubmission(ctx, submission); err != nil {
		return nil, fmt.Errorf("service/submission: creating submission: %w", err)
	}

	s.logger.Info("submission created",
		slog.String("id", submission.ID),
		slog.String("userID", userID),
		slog.String("url", submission.URL),
	)

	return submission, nil
}

// List returns all submissions, newest first.
func (s *SubmissionService) List(ctx context.Context) ([]model.Submission, error) {
	submissions, err := s.repo.ListSubmissions(ctx)
	if err != nil {
		return nil, fmt.Errorf("service/submission: listing submissions: %w", err)
	}
	return submissions, nil
}
