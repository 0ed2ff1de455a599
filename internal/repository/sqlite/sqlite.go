// Package sqlite implements the repository interfaces using SQLite as the
// storage backend.
//
// We use modernc.org/sqlite (a pure-Go translation of SQLite) instead of the
// CGo driver, so the binary cross-compiles without a C toolchain. The blank
// import below registers the driver with database/sql under the name "sqlite".
package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool and implements the repository interfaces.
// The server owns the DB and closes it on shutdown.
type DB struct {
	conn *sql.DB
}

// New opens a SQLite database at dbPath and runs migrations.
//
// dbPath examples:
//   - "data/repohub.db" → file-based database (persistent)
//   - ":memory:"        → in-memory database (tests, lost on close)
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// A single pooled connection: SQLite serialises writes anyway, and with
	// ":memory:" every new pool connection would be a separate empty database.
	conn.SetMaxOpenConns(1)

	// Surface bad paths/permissions now rather than on the first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL mode allows concurrent reads while a write is in progress —
	// required for a web server where requests hit the DB concurrently.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the database connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the schema. CREATE TABLE IF NOT EXISTS keeps it idempotent.
//
// Notes on the schema:
//   - submissions.tags is a JSON-encoded TEXT column ("[]" when empty).
//   - comments has BOTH repo_id and repo_url columns; exactly one is populated
//     per row, enforced by request validation rather than a CHECK constraint
//     (the Postgres schema this database replaced did the same).
//   - profiles.id equals the identity id; there is deliberately no foreign key
//     from comments/submissions to profiles — ownership checks are equality
//     checks on user_id at write time.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS submissions (
			id          TEXT PRIMARY KEY,
			url         TEXT NOT NULL,
			title       TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			tags        TEXT NOT NULL DEFAULT '[]',
			platform    TEXT NOT NULL DEFAULT 'github',
			user_id     TEXT NOT NULL,
			username    TEXT NOT NULL DEFAULT '',
			language    TEXT NOT NULL DEFAULT '',
			stars       INTEGER NOT NULL DEFAULT 0,
			created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_submissions_created_at ON submissions(created_at);
	`)
	if err != nil {
		return fmt.Errorf("creating submissions table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS comments (
			id         TEXT PRIMARY KEY,
			repo_id    TEXT NOT NULL DEFAULT '',
			repo_url   TEXT NOT NULL DEFAULT '',
			text       TEXT NOT NULL,
			user_id    TEXT NOT NULL,
			username   TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_comments_repo_id ON comments(repo_id);
		CREATE INDEX IF NOT EXISTS idx_comments_repo_url ON comments(repo_url);
	`)
	if err != nil {
		return fmt.Errorf("creating comments table: %w", err)
	}

	// email is UNIQUE — it is the key the OAuth callback resolves identities by.
	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS identities (
			id             TEXT PRIMARY KEY,
			email          TEXT NOT NULL UNIQUE,
			email_verified INTEGER NOT NULL DEFAULT 0,
			full_name      TEXT NOT NULL DEFAULT '',
			avatar_url     TEXT NOT NULL DEFAULT '',
			github_id      INTEGER NOT NULL DEFAULT 0,
			github_login   TEXT NOT NULL DEFAULT '',
			github_url     TEXT NOT NULL DEFAULT '',
			created_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating identities table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS profiles (
			id         TEXT PRIMARY KEY,
			username   TEXT NOT NULL DEFAULT '',
			full_name  TEXT NOT NULL DEFAULT '',
			avatar_url TEXT NOT NULL DEFAULT '',
			email      TEXT NOT NULL DEFAULT '',
			github_id  TEXT NOT NULL DEFAULT '',
			github_url TEXT NOT NULL DEFAULT '',
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating profiles table: %w", err)
	}

	return nil
}
