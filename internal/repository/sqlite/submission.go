package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/repohub/internal/model"
	"github.com/sakif/repohub/internal/repository"
)

// compile-time check that *DB implements repository.SubmissionRepository
var _ repository.SubmissionRepository = (*DB)(nil)

// CreateSubmission inserts a submission. The ID (xid — URL-safe, sortable by creation
// time) and CreatedAt are generated here and written back to the caller's
// struct. Tags is stored JSON-encoded; a nil slice is stored as "[]".
func (db *DB) CreateSubmission(ctx context.Context, submission *model.Submission) error {
	submission.ID = xid.New().String()
	submission.CreatedAt = time.Now()

	if submission.Tags == nil {
		submission.Tags = []string{}
	}
	tagsJSON, err := json.Marshal(submission.Tags)
	if err != nil {
		return fmt.Errorf("sqlite: encoding submission tags: %w", err)
	}

	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO submissions (id, url, title, description, tags, platform, user_id, username, language, stars, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		submission.ID,
		submission.URL,
		submission.Title,
		submission.Description,
		string(tagsJSON),
		submission.Platform,
		submission.UserID,
		submission.Username,
		submission.Language,
		submission.Stars,
		submission.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating submission: %w", err)
	}

	return nil
}

// ListSubmissions returns every submission, newest first. There is no pagination on the
// community list — the frontend filters client-side.
func (db *DB) ListSubmissions(ctx context.Context) ([]model.Submission, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, url, title, description, tags, platform, user_id, username, language, stars, created_at
		 FROM submissions
		 ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing submissions: %w", err)
	}
	defer rows.Close()

	submissions := []model.Submission{}
	for rows.Next() {
		var s model.Submission
		var tagsJSON string
		if err := rows.Scan(
			&s.ID, &s.URL, &s.Title, &s.Description, &tagsJSON, &s.Platform,
			&s.UserID, &s.Username, &s.Language, &s.Stars, &s.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning submission row: %w", err)
		}
		if err := json.Unmarshal([]byte(tagsJSON), &s.Tags); err != nil {
			return nil, fmt.Errorf("sqlite: decoding tags for submission %s: %w", s.ID, err)
		}
		submissions = append(submissions, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating submissions: %w", err)
	}

	return submissions, nil
}
