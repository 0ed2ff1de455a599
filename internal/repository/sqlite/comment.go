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

// compile-time check that *DB implements repository.CommentRepository
var _ repository.CommentRepository = (*DB)(nil)

const commentColumns = `id, repo_id, repo_url, text, user_id, username, created_at`

// CreateComment inserts a comment. Exactly one of RepoID/RepoURL is populated by the
// time we get here — the service layer validated that. The empty one is
// stored as '' so the listing queries' equality filters work without NULLs.
func (db *DB) CreateComment(ctx context.Context, comment *model.Comment) error {
	comment.ID = xid.New().String()
	comment.CreatedAt = time.Now()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO comments (`+commentColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		comment.ID,
		comment.RepoID,
		comment.RepoURL,
		comment.Text,
		comment.UserID,
		comment.Username,
		comment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating comment: %w", err)
	}

	return nil
}

// ListCommentsByRepoID returns the comments attached to a community submission,
// oldest first (conversation order).
func (db *DB) ListCommentsByRepoID(ctx context.Context, repoID string) ([]model.Comment, error) {
	return db.listComments(ctx, "repo_id", repoID)
}

// ListCommentsByRepoURL returns the comments attached to a raw repository URL,
// oldest first.
func (db *DB) ListCommentsByRepoURL(ctx context.Context, repoURL string) ([]model.Comment, error) {
	return db.listComments(ctx, "repo_url", repoURL)
}

func (db *DB) listComments(ctx context.Context, column, value string) ([]model.Comment, error) {
	// column is one of the two fixed names above — never user input.
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+commentColumns+` FROM comments
		 WHERE `+column+` = ?
		 ORDER BY created_at ASC`,
		value,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing comments by %s: %w", column, err)
	}
	defer rows.Close()

	comments := []model.Comment{}
	for rows.Next() {
		var c model.Comment
		if err := rows.Scan(
			&c.ID, &c.RepoID, &c.RepoURL, &c.Text, &c.UserID, &c.Username, &c.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning comment row: %w", err)
		}
		comments = append(comments, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating comments: %w", err)
	}

	return comments, nil
}

// UpdateCommentText updates a comment's text, scoped to the owning user. The WHERE
// clause matches id AND user_id, so a non-owner's update affects zero rows;
// that case (and a nonexistent id) both come back as ErrNotFound — the caller
// cannot tell which, which keeps other users' comments unenumerable.
func (db *DB) UpdateCommentText(ctx context.Context, id, userID, text string) (*model.Comment, error) {
	result, err := db.conn.ExecContext(ctx,
		`UPDATE comments SET text = ? WHERE id = ? AND user_id = ?`,
		text, id, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: updating comment %s: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("sqlite: checking affected rows for comment %s: %w", id, err)
	}
	if affected == 0 {
		return nil, apperror.NotFoundOrUnauthorized("Comment")
	}

	return db.getComment(ctx, id)
}

// DeleteComment removes a comment, scoped to the owning user. Same
// zero-rows semantics as UpdateCommentText.
func (db *DB) DeleteComment(ctx context.Context, id, userID string) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM comments WHERE id = ? AND user_id = ?`,
		id, userID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting comment %s: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking affected rows for comment %s: %w", id, err)
	}
	if affected == 0 {
		return apperror.NotFoundOrUnauthorized("Comment")
	}

	return nil
}

func (db *DB) getComment(ctx context.Context, id string) (*model.Comment, error) {
	var c model.Comment
	err := db.conn.QueryRowContext(ctx,
		`SELECT `+commentColumns+` FROM comments WHERE id = ?`, id,
	).Scan(
		&c.ID, &c.RepoID, &c.RepoURL, &c.Text, &c.UserID, &c.Username, &c.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("comment", id)
		}
		return nil, fmt.Errorf("sqlite: getting comment %s: %w", id, err)
	}

	return &c, nil
}
