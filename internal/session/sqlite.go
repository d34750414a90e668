package session

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // register "sqlite" driver
)

// SQLiteStore is a Store backed by a local SQLite database.
type SQLiteStore struct {
	db       *sql.DB
	maxTurns int
}

// DefaultDBPath returns the default path for the history database.
// It resolves to ~/.cskin/history.db, creating the directory if needed.
func DefaultDBPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("session: could not determine home directory: %w", err)
	}
	dir := filepath.Join(home, ".cskin")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("session: could not create %s: %w", dir, err)
	}
	return filepath.Join(dir, "history.db"), nil
}

// OpenSQLite opens (or creates) a SQLiteStore at the given path and runs the
// schema migration. Use ":memory:" for an in-memory database in tests.
// maxTurns <= 0 disables the per-session bound.
func OpenSQLite(path string, maxTurns int) (*SQLiteStore, error) {
	// WAL mode improves concurrent read performance and is safe for single-host use.
	dsn := path + "?_journal_mode=WAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("session: open %s: %w", path, err)
	}
	// Limit to a single writer connection to avoid SQLITE_BUSY under concurrent writes.
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db, maxTurns: maxTurns}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	const ddl = `
CREATE TABLE IF NOT EXISTS turns (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    session_id   TEXT    NOT NULL,
    role         TEXT    NOT NULL CHECK(role IN ('user','assistant')),
    text         TEXT    NOT NULL,
    created_at   INTEGER NOT NULL  -- Unix timestamp (seconds)
);
CREATE INDEX IF NOT EXISTS idx_turns_session_created
    ON turns (session_id, created_at);
`
	if _, err := s.db.Exec(ddl); err != nil {
		return fmt.Errorf("session: migrate: %w", err)
	}
	return nil
}

// Append persists a single turn, then drops the oldest turns beyond the bound.
func (s *SQLiteStore) Append(ctx context.Context, sessionID string, role Role, text string) error {
	const q = `INSERT INTO turns (session_id, role, text, created_at) VALUES (?, ?, ?, ?)`
	if _, err := s.db.ExecContext(ctx, q, sessionID, string(role), text, time.Now().Unix()); err != nil {
		return fmt.Errorf("session: append: %w", err)
	}

	if s.maxTurns > 0 {
		const trim = `
DELETE FROM turns WHERE session_id = ? AND id NOT IN (
    SELECT id FROM turns WHERE session_id = ?
    ORDER BY created_at DESC, id DESC LIMIT ?
)`
		if _, err := s.db.ExecContext(ctx, trim, sessionID, sessionID, s.maxTurns); err != nil {
			return fmt.Errorf("session: trim: %w", err)
		}
	}
	return nil
}

// History returns all retained turns for the session, oldest first.
func (s *SQLiteStore) History(ctx context.Context, sessionID string) ([]Turn, error) {
	const q = `
SELECT role, text, created_at FROM turns
WHERE  session_id = ?
ORDER  BY created_at ASC, id ASC`

	rows, err := s.db.QueryContext(ctx, q, sessionID)
	if err != nil {
		return nil, fmt.Errorf("session: history: %w", err)
	}
	defer rows.Close()

	var turns []Turn
	for rows.Next() {
		var t Turn
		var ts int64
		var role string
		if err := rows.Scan(&role, &t.Text, &ts); err != nil {
			return nil, fmt.Errorf("session: history scan: %w", err)
		}
		t.Role = Role(role)
		t.CreatedAt = time.Unix(ts, 0)
		turns = append(turns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("session: history rows: %w", err)
	}
	return turns, nil
}

// Reset removes all turns for the session.
func (s *SQLiteStore) Reset(ctx context.Context, sessionID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM turns WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("session: reset: %w", err)
	}
	return nil
}

// Sessions lists stored sessions with their retained turn counts.
func (s *SQLiteStore) Sessions(ctx context.Context) ([]Info, error) {
	const q = `SELECT session_id, COUNT(*) FROM turns GROUP BY session_id ORDER BY session_id`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("session: sessions: %w", err)
	}
	defer rows.Close()

	var infos []Info
	for rows.Next() {
		var info Info
		if err := rows.Scan(&info.ID, &info.Turns); err != nil {
			return nil, fmt.Errorf("session: sessions scan: %w", err)
		}
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("session: sessions rows: %w", err)
	}
	return infos, nil
}

// Close releases the database connection pool.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("session: close: %w", err)
	}
	return nil
}
