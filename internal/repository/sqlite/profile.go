package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sakif/repohub/internal/apperror"
	"github.com/sakif/repohub/internal/model"
	"github.com/sakif/repohub/internal/repository"
)

// compile-time check that *DB implements repository.ProfileRepository
var _ repository.ProfileRepository = (*DB)(nil)

// EnsureProfile inserts the profile row if none exists for profile.ID.
//
// This is insert-if-absent, NOT an upsert: once a user has edited their
// profile through /api/user, a later login must not clobber those edits with
// fresh GitHub metadata. INSERT OR IGNORE leaves an existing row untouched.
func (db *DB) EnsureProfile(ctx context.Context, profile *model.Profile) error {
	if profile.UpdatedAt.IsZero() {
		profile.UpdatedAt = time.Now()
	}

	_, err := db.conn.ExecContext(ctx,
		`INSERT OR IGNORE INTO profiles (id, username, full_name, avatar_url, email, github_id, github_url, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		profile.ID,
		profile.Username,
		profile.FullName,
		profile.AvatarURL,
		profile.Email,
		profile.GitHubID,
		profile.GitHubURL,
		profile.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: ensuring profile %s: %w", profile.ID, err)
	}

	return nil
}

// GetProfileByID retrieves a profile by identity ID.
// Returns apperror.ErrNotFound if no profile row exists.
func (db *DB) GetProfileByID(ctx context.Context, id string) (*model.Profile, error) {
	var p model.Profile

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, username, full_name, avatar_url, email, github_id, github_url, updated_at
		 FROM profiles WHERE id = ?`,
		id,
	).Scan(
		&p.ID,
		&p.Username,
		&p.FullName,
		&p.AvatarURL,
		&p.Email,
		&p.GitHubID,
		&p.GitHubURL,
		&p.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("profile", id)
		}
		return nil, fmt.Errorf("sqlite: getting profile %s: %w", id, err)
	}

	return &p, nil
}

// UpdateProfile replaces the editable profile fields wholesale, matching the
// route contract of writing the full userData object.
func (db *DB) UpdateProfile(ctx context.Context, profile *model.Profile) error {
	profile.UpdatedAt = time.Now()

	result, err := db.conn.ExecContext(ctx,
		`UPDATE profiles
		 SET username = ?, full_name = ?, avatar_url = ?, email = ?, github_id = ?, github_url = ?, updated_at = ?
		 WHERE id = ?`,
		profile.Username,
		profile.FullName,
		profile.AvatarURL,
		profile.Email,
		profile.GitHubID,
		profile.GitHubURL,
		profile.UpdatedAt,
		profile.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating profile %s: %w", profile.ID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking affected rows for profile %s: %w", profile.ID, err)
	}
	if affected == 0 {
		return apperror.NotFound("profile", profile.ID)
	}

	return nil
}
