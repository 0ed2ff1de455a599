package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/repohub/internal/apperror"
	"github.com/sakif/repohub/internal/model"
	"github.com/sakif/repohub/internal/repository"
)

// ProfileService handles reads and user-initiated edits of profile rows.
type ProfileService struct {
	repo   repository.ProfileRepository
	logger *slog.Logger
}

// NewProfileService creates a ProfileService.
func NewProfileService(repo repository.ProfileRepository, logger *slog.Logger) *ProfileService {
	return &ProfileService{repo: repo, logger: logger}
}

// Get returns the profile for the given identity ID.
func (s *ProfileService) Get(ctx context.Context, userID string) (*model.Profile, error) {
	if userID == "" {
		return nil, apperror.ValidationFailed("userId", "User ID is required")
	}

	profile, err := s.repo.GetProfileByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service/profile: fetching profile %s: %w", userID, err)
	}

	return profile, nil
}

// Update replaces the profile's editable fields wholesale. The route
// contract is write-the-whole-object, not a patch.
func (s *ProfileService) Update(ctx context.Context, userID string, profile *model.Profile) error {
	if userID == "" {
		return apperror.ValidationFailed("userId", "User ID and user data are required")
	}

	profile.ID = userID
	if err := s.repo.UpdateProfile(ctx, profile); err != nil {
		return fmt.Errorf("service/profile: updating profile %s: %w", userID, err)
	}

	s.logger.Info("profile updated", slog.String("userID", userID))
	return nil
}
