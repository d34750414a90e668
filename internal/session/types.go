// Package session persists per-session conversation history so consultations
// survive reconnects and server restarts. Three backends are provided: an
// in-memory store for one-shot CLI use and tests, a SQLite store for
// single-host deployments, and a PostgreSQL store for shared deployments.
package session

import (
	"context"
	"time"
)

// Role identifies the author of a conversation turn.
type Role string

const (
	// RoleUser is a message sent by the patient.
	RoleUser Role = "user"
	// RoleAssistant is a reply produced by the assistant.
	RoleAssistant Role = "assistant"
)

// Turn is a single message within a session.
type Turn struct {
	// Role is the author of the turn.
	Role Role
	// Text is the message content.
	Text string
	// CreatedAt is when the turn was persisted.
	CreatedAt time.Time
}

// Info summarizes one stored session.
type Info struct {
	// ID is the session identifier.
	ID string
	// Turns is the number of turns currently retained.
	Turns int
}

// DefaultMaxTurns bounds how many turns a session retains. When the bound is
// reached the oldest turns are dropped first. Zero disables the bound.
const DefaultMaxTurns = 200

// Store persists and retrieves conversation history keyed by session ID.
// Implementations must be safe for concurrent use and must enforce the
// configured per-session turn bound on append.
type Store interface {
	// Append persists a single turn for the given session, dropping the
	// oldest turns if the session exceeds the configured bound.
	Append(ctx context.Context, sessionID string, role Role, text string) error

	// History returns all retained turns for the session, oldest first.
	// An unknown session yields an empty slice, not an error.
	History(ctx context.Context, sessionID string) ([]Turn, error)

	// Reset removes all turns for the session.
	Reset(ctx context.Context, sessionID string) error

	// Sessions lists the sessions currently held by the store.
	Sessions(ctx context.Context) ([]Info, error)

	// Close releases any resources held by the store.
	Close() error
}
