package session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore is a Store backed by PostgreSQL, for deployments where
// several assistant instances share one history database.
type PostgresStore struct {
	pool     *pgxpool.Pool
	maxTurns int
}

// OpenPostgres connects to the database at databaseURL and runs the schema
// migration. maxTurns <= 0 disables the per-session bound.
func OpenPostgres(ctx context.Context, databaseURL string, maxTurns int) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("session: connect postgres: %w", err)
	}

	const ddl = `
CREATE TABLE IF NOT EXISTS turns (
    id          TEXT PRIMARY KEY,
    session_id  TEXT NOT NULL,
    role        TEXT NOT NULL,
    text        TEXT NOT NULL,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_turns_session_created ON turns (session_id, created_at);`
	if _, err := pool.Exec(ctx, ddl); err != nil {
		pool.Close()
		return nil, fmt.Errorf("session: init schema: %w", err)
	}

	return &PostgresStore{pool: pool, maxTurns: maxTurns}, nil
}

// Append persists a single turn, then drops the oldest turns beyond the bound.
func (s *PostgresStore) Append(ctx context.Context, sessionID string, role Role, text string) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO turns (id, session_id, role, text, created_at) VALUES ($1, $2, $3, $4, $5)`,
		uuid.NewString(), sessionID, string(role), text, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("session: append: %w", err)
	}

	if s.maxTurns > 0 {
		_, err = s.pool.Exec(ctx,
			`DELETE FROM turns WHERE session_id = $1 AND id NOT IN (
			     SELECT id FROM turns WHERE session_id = $1
			     ORDER BY created_at DESC, id DESC LIMIT $2
			 )`,
			sessionID, s.maxTurns,
		)
		if err != nil {
			return fmt.Errorf("session: trim: %w", err)
		}
	}
	return nil
}

// History returns all retained turns for the session, oldest first.
func (s *PostgresStore) History(ctx context.Context, sessionID string) ([]Turn, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT role, text, created_at FROM turns
		 WHERE session_id = $1 ORDER BY created_at ASC, id ASC`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("session: history: %w", err)
	}
	defer rows.Close()

	var turns []Turn
	for rows.Next() {
		var t Turn
		var role string
		if err := rows.Scan(&role, &t.Text, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("session: history scan: %w", err)
		}
		t.Role = Role(role)
		turns = append(turns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("session: history rows: %w", err)
	}
	return turns, nil
}

// Reset removes all turns for the session.
func (s *PostgresStore) Reset(ctx context.Context, sessionID string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM turns WHERE session_id = $1`, sessionID); err != nil {
		return fmt.Errorf("session: reset: %w", err)
	}
	return nil
}

// Sessions lists stored sessions with their retained turn counts.
func (s *PostgresStore) Sessions(ctx context.Context) ([]Info, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT session_id, COUNT(*) FROM turns GROUP BY session_id ORDER BY session_id`)
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

// Close releases the connection pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
