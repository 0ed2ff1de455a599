package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/repohub/internal/apperror"
	"github.com/sakif/repohub/internal/model"
	"github.com/sakif/repohub/internal/repository"
)

// compile-time check that *DB implements repository.IdentityRepository
var _ repository.IdentityRepository = (*DB)(nil)

// ResolveByEmail finds or creates the identity for identity.Email.
//
// Email is the resolution key, not the GitHub ID: a user who changes their
// GitHub account but keeps the email stays the same local principal. An
// existing row keeps its internal ID and gets its GitHub metadata refreshed;
// a new row is created with the email marked verified (GitHub vouched for it).
func (db *DB) ResolveByEmail(ctx context.Context, identity *model.Identity) error {
	var existingID string
	err := db.conn.QueryRowContext(ctx,
		`SELECT id FROM identities WHERE email = ?`, identity.Email,
	).Scan(&existingID)

	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("sqlite: looking up identity by email: %w", err)
	}

	if existingID != "" {
		// Known identity — refresh metadata in case it changed on GitHub.
		identity.ID = existingID
		identity.UpdatedAt = time.Now()
		_, err = db.conn.ExecContext(ctx,
			`UPDATE identities
			 SET full_name = ?, avatar_url = ?, github_id = ?, github_login = ?, github_url = ?, updated_at = ?
			 WHERE id = ?`,
			identity.FullName,
			identity.AvatarURL,
			identity.GitHubID,
			identity.GitHubLogin,
			identity.GitHubURL,
			identity.UpdatedAt,
			identity.ID,
		)
		if err != nil {
			return fmt.Errorf("sqlite: updating identity %s: %w", identity.ID, err)
		}
		return nil
	}

	now := time.Now()
	identity.ID = xid.New().String()
	identity.EmailVerified = true
	identity.CreatedAt = now
	identity.UpdatedAt = now

	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO identities (id, email, email_verified, full_name, avatar_url, github_id, github_login, github_url, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		identity.ID,
		identity.Email,
		identity.EmailVerified,
		identity.FullName,
		identity.AvatarURL,
		identity.GitHubID,
		identity.GitHubLogin,
		identity.GitHubURL,
		identity.CreatedAt,
		identity.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting identity (email=%s): %w", identity.Email, err)
	}

	return nil
}

// GetIdentityByID retrieves an identity by its internal ID.
// Returns apperror.ErrNotFound if no identity exists with that ID.
func (db *DB) GetIdentityByID(ctx context.Context, id string) (*model.Identity, error) {
	var i model.Identity

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, email, email_verified, full_name, avatar_url, github_id, github_login, github_url, created_at, updated_at
		 FROM identities WHERE id = ?`,
		id,
	).Scan(
		&i.ID,
		&i.Email,
		&i.EmailVerified,
		&i.FullName,
		&i.AvatarURL,
		&i.GitHubID,
		&i.GitHubLogin,
		&i.GitHubURL,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("identity", id)
		}
		return nil, fmt.Errorf("sqlite: getting identity %s: %w", id, err)
	}

	return &i, nil
}
