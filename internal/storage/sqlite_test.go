package storage

import (
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenRunsMigrations(t *testing.T) {
	s := openTestStore(t)

	if err := s.SaveTurn(Turn{ID: "t1", SessionID: "s1", CreatedAt: time.Now()}); err != nil {
		t.Fatalf("turns table should exist after migration: %v", err)
	}
}

func TestSaveTurnRoundTrip(t *testing.T) {
	s := openTestStore(t)

	in := Turn{
		ID:            "t1",
		SessionID:     "s1",
		CreatedAt:     time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		Focus:         "X",
		UserText:      "what did you build?",
		AssistantText: "a web app",
		Model:         "test-model",
	}
	if err := s.SaveTurn(in); err != nil {
		t.Fatal(err)
	}

	turns, err := s.RecentTurns(1)
	if err != nil {
		t.Fatal(err)
	}
	if len(turns) != 1 {
		t.Fatalf("got %d turns, want 1", len(turns))
	}
	if turns[0] != in {
		t.Errorf("got %+v, want %+v", turns[0], in)
	}
}

func TestLogTurn(t *testing.T) {
	s := openTestStore(t)

	if err := s.LogTurn("s1", "", "q", "a", "m"); err != nil {
		t.Fatal(err)
	}

	turns, err := s.RecentTurns(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(turns) != 1 {
		t.Fatalf("got %d turns, want 1", len(turns))
	}
	if turns[0].ID == "" {
		t.Error("LogTurn should assign an ID")
	}
	if turns[0].UserText != "q" || turns[0].AssistantText != "a" {
		t.Errorf("turn = %+v", turns[0])
	}
}

func TestSessionTurns(t *testing.T) {
	s := openTestStore(t)

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i, sess := range []string{"s1", "s2", "s1"} {
		err := s.SaveTurn(Turn{
			ID:        string(rune('a' + i)),
			SessionID: sess,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
			UserText:  "q",
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	turns, err := s.SessionTurns("s1")
	if err != nil {
		t.Fatal(err)
	}
	if len(turns) != 2 {
		t.Fatalf("got %d turns for s1, want 2", len(turns))
	}
	if !turns[0].CreatedAt.Before(turns[1].CreatedAt) {
		t.Error("session turns should be ordered oldest first")
	}
}
