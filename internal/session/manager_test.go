package session

import "testing"

func TestManagerLifecycle(t *testing.T) {
	m := NewManager()

	s := m.Create()
	if s.ID == "" {
		t.Fatal("created session has no ID")
	}
	if s.Len() != 0 || s.Focus() != "" {
		t.Error("new session should start with empty history and no focus")
	}

	got, err := m.Get(s.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != s {
		t.Error("Get should return the same session instance")
	}

	m.Remove(s.ID)
	if _, err := m.Get(s.ID); err != ErrNotFound {
		t.Errorf("after Remove, err = %v, want ErrNotFound", err)
	}

	// Removing again is a no-op.
	m.Remove(s.ID)
}

func TestManagerSessionLock(t *testing.T) {
	m := NewManager()
	s := m.Create()

	// Every surface asking for the same session must get the same mutex,
	// otherwise serialization falls apart.
	if m.SessionLock(s.ID) != m.SessionLock(s.ID) {
		t.Error("SessionLock must return the same mutex for the same ID")
	}

	other := m.Create()
	if m.SessionLock(s.ID) == m.SessionLock(other.ID) {
		t.Error("distinct sessions must not share a writer lock")
	}

	before := m.SessionLock(s.ID)
	m.Remove(s.ID)
	if m.SessionLock(s.ID) == before {
		t.Error("Remove should drop the session's lock")
	}
}

func TestManagerDistinctSessions(t *testing.T) {
	m := NewManager()

	a := m.Create()
	b := m.Create()
	if a.ID == b.ID {
		t.Fatal("sessions must get distinct IDs")
	}

	a.RecordTurn("q", "r")
	if b.Len() != 0 {
		t.Error("sessions must not share history")
	}
	if m.Len() != 2 {
		t.Errorf("Len = %d, want 2", m.Len())
	}
}
