package session

import (
	"context"
	"fmt"
	"testing"
)

// openStores returns the backends that can run without external services,
// so every behavior is asserted against both.
func openStores(t *testing.T, maxTurns int) map[string]Store {
	t.Helper()

	sqlite, err := OpenSQLite(":memory:", maxTurns)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { _ = sqlite.Close() })

	return map[string]Store{
		"memory": NewMemoryStore(maxTurns),
		"sqlite": sqlite,
	}
}

func TestAppendAndHistory_OldestFirst(t *testing.T) {
	for name, store := range openStores(t, 0) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			if err := store.Append(ctx, "s1", RoleUser, "apa itu eksim?"); err != nil {
				t.Fatalf("Append: %v", err)
			}
			if err := store.Append(ctx, "s1", RoleAssistant, "Eksim adalah peradangan kulit."); err != nil {
				t.Fatalf("Append: %v", err)
			}

			turns, err := store.History(ctx, "s1")
			if err != nil {
				t.Fatalf("History: %v", err)
			}
			if len(turns) != 2 {
				t.Fatalf("got %d turns, want 2", len(turns))
			}
			if turns[0].Role != RoleUser || turns[1].Role != RoleAssistant {
				t.Errorf("turns not oldest-first: %v, %v", turns[0].Role, turns[1].Role)
			}
		})
	}
}

func TestHistory_UnknownSessionIsEmpty(t *testing.T) {
	for name, store := range openStores(t, 0) {
		t.Run(name, func(t *testing.T) {
			turns, err := store.History(context.Background(), "never-seen")
			if err != nil {
				t.Fatalf("History: %v", err)
			}
			if len(turns) != 0 {
				t.Errorf("got %d turns for unknown session, want 0", len(turns))
			}
		})
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	for name, store := range openStores(t, 0) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			if err := store.Append(ctx, "a", RoleUser, "question a"); err != nil {
				t.Fatalf("Append: %v", err)
			}
			if err := store.Append(ctx, "b", RoleUser, "question b"); err != nil {
				t.Fatalf("Append: %v", err)
			}

			turns, err := store.History(ctx, "a")
			if err != nil {
				t.Fatalf("History: %v", err)
			}
			if len(turns) != 1 || turns[0].Text != "question a" {
				t.Errorf("session a history polluted: %+v", turns)
			}
		})
	}
}

func TestAppend_BoundDropsOldestFirst(t *testing.T) {
	for name, store := range openStores(t, 4) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			for i := 0; i < 6; i++ {
				if err := store.Append(ctx, "s", RoleUser, fmt.Sprintf("turn %d", i)); err != nil {
					t.Fatalf("Append: %v", err)
				}
			}

			turns, err := store.History(ctx, "s")
			if err != nil {
				t.Fatalf("History: %v", err)
			}
			if len(turns) != 4 {
				t.Fatalf("got %d turns, want 4 after trimming", len(turns))
			}
			if turns[0].Text != "turn 2" || turns[3].Text != "turn 5" {
				t.Errorf("wrong turns survived: first=%q last=%q", turns[0].Text, turns[3].Text)
			}
		})
	}
}

func TestReset(t *testing.T) {
	for name, store := range openStores(t, 0) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			if err := store.Append(ctx, "s", RoleUser, "hello"); err != nil {
				t.Fatalf("Append: %v", err)
			}
			if err := store.Reset(ctx, "s"); err != nil {
				t.Fatalf("Reset: %v", err)
			}

			turns, err := store.History(ctx, "s")
			if err != nil {
				t.Fatalf("History: %v", err)
			}
			if len(turns) != 0 {
				t.Errorf("got %d turns after reset, want 0", len(turns))
			}
		})
	}
}

func TestSessionsListing(t *testing.T) {
	for name, store := range openStores(t, 0) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			if err := store.Append(ctx, "a", RoleUser, "one"); err != nil {
				t.Fatalf("Append: %v", err)
			}
			if err := store.Append(ctx, "b", RoleUser, "one"); err != nil {
				t.Fatalf("Append: %v", err)
			}
			if err := store.Append(ctx, "b", RoleAssistant, "two"); err != nil {
				t.Fatalf("Append: %v", err)
			}

			infos, err := store.Sessions(ctx)
			if err != nil {
				t.Fatalf("Sessions: %v", err)
			}
			if len(infos) != 2 {
				t.Fatalf("got %d sessions, want 2", len(infos))
			}
			if infos[0].ID != "a" || infos[0].Turns != 1 {
				t.Errorf("session a: %+v", infos[0])
			}
			if infos[1].ID != "b" || infos[1].Turns != 2 {
				t.Errorf("session b: %+v", infos[1])
			}
		})
	}
}

func TestNewStore_SelectsBackend(t *testing.T) {
	ctx := context.Background()

	st, err := NewStore(ctx, Options{})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if _, ok := st.(*MemoryStore); !ok {
		t.Errorf("empty options: got %T, want *MemoryStore", st)
	}

	st, err = NewStore(ctx, Options{DBPath: ":memory:"})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if _, ok := st.(*SQLiteStore); !ok {
		t.Errorf("sqlite path: got %T, want *SQLiteStore", st)
	}
	_ = st.Close()
}
