package session

import (
	"context"
	"strings"
)

// Options selects and tunes the history backend.
type Options struct {
	// DatabaseURL selects the PostgreSQL backend when set.
	DatabaseURL string
	// DBPath selects the SQLite backend when set and DatabaseURL is empty.
	// Use ":memory:" for an ephemeral SQLite database.
	DBPath string
	// MaxTurns bounds the per-session history. Zero disables the bound;
	// a negative value applies DefaultMaxTurns.
	MaxTurns int
}

// NewStore constructs the history backend implied by the options: PostgreSQL
// when a database URL is configured, SQLite when a path is configured, and
// the in-memory store otherwise.
func NewStore(ctx context.Context, opts Options) (Store, error) {
	maxTurns := opts.MaxTurns
	if maxTurns < 0 {
		maxTurns = DefaultMaxTurns
	}

	switch {
	case strings.TrimSpace(opts.DatabaseURL) != "":
		return OpenPostgres(ctx, opts.DatabaseURL, maxTurns)
	case strings.TrimSpace(opts.DBPath) != "":
		return OpenSQLite(opts.DBPath, maxTurns)
	default:
		return NewMemoryStore(maxTurns), nil
	}
}
