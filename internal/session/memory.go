package session

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore is an in-process Store. History is lost on restart, which is
// fine for one-shot CLI questions and tests.
type MemoryStore struct {
	mu       sync.Mutex
	turns    map[string][]Turn
	maxTurns int
}

// NewMemoryStore constructs a MemoryStore retaining at most maxTurns turns
// per session. maxTurns <= 0 disables the bound.
func NewMemoryStore(maxTurns int) *MemoryStore {
	return &MemoryStore{
		turns:    make(map[string][]Turn),
		maxTurns: maxTurns,
	}
}

// Append persists a turn, dropping the oldest turns beyond the bound.
func (s *MemoryStore) Append(_ context.Context, sessionID string, role Role, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	turns := append(s.turns[sessionID], Turn{Role: role, Text: text, CreatedAt: time.Now()})
	if s.maxTurns > 0 && len(turns) > s.maxTurns {
		turns = turns[len(turns)-s.maxTurns:]
	}
	s.turns[sessionID] = turns
	return nil
}

// History returns the retained turns for the session, oldest first.
func (s *MemoryStore) History(_ context.Context, sessionID string) ([]Turn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	turns := s.turns[sessionID]
	out := make([]Turn, len(turns))
	copy(out, turns)
	return out, nil
}

// Reset removes all turns for the session.
func (s *MemoryStore) Reset(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.turns, sessionID)
	return nil
}

// Sessions lists sessions sorted by ID for stable output.
func (s *MemoryStore) Sessions(_ context.Context) ([]Info, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	infos := make([]Info, 0, len(s.turns))
	for id, turns := range s.turns {
		infos = append(infos, Info{ID: id, Turns: len(turns)})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })
	return infos, nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error { return nil }
