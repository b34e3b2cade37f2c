package session

import (
	"testing"
	"time"

	"github.com/kalambet/folio/internal/knowledge"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.now = c.now.Add(time.Second)
	return c.now
}

func testFinder(t *testing.T) ProjectFinder {
	t.Helper()
	s, err := knowledge.Parse([]byte(`{"name": "A", "projects": [{"name": "X", "type": "web"}]}`))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestSetFocus(t *testing.T) {
	finder := testFinder(t)

	tests := []struct {
		name  string
		steps []string
		want  string
	}{
		{"select known", []string{"X"}, "X"},
		{"unknown clears silently", []string{"NonexistentName"}, ""},
		{"empty clears", []string{"X", ""}, ""},
		{"unknown replaces previous selection", []string{"X", "Y"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New("s1")
			for _, step := range tt.steps {
				s.SetFocus(finder, step)
			}
			if got := s.Focus(); got != tt.want {
				t.Errorf("focus = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRecordTurn(t *testing.T) {
	s := NewWithClock("s1", &fakeClock{now: time.Unix(1000, 0)})

	s.RecordTurn("hello", "hi there")

	h := s.History()
	if len(h) != 2 {
		t.Fatalf("history length = %d, want 2", len(h))
	}
	if h[0].Role != RoleUser || h[0].Content != "hello" {
		t.Errorf("first message = %+v, want user/hello", h[0])
	}
	if h[1].Role != RoleAssistant || h[1].Content != "hi there" {
		t.Errorf("second message = %+v, want assistant/hi there", h[1])
	}
	if !h[0].Timestamp.Before(h[1].Timestamp) {
		t.Error("messages should be timestamped at append time, in order")
	}
}

func TestHistoryRoundTrip(t *testing.T) {
	s := New("s1")
	for i := 0; i < 3; i++ {
		s.RecordTurn("question", "answer")
	}

	h := s.History()
	if len(h) != 6 {
		t.Fatalf("history length = %d, want 6 after 3 turns", len(h))
	}
	for i, m := range h {
		want := RoleUser
		if i%2 == 1 {
			want = RoleAssistant
		}
		if m.Role != want {
			t.Errorf("message[%d].Role = %q, want %q", i, m.Role, want)
		}
	}
}

func TestHistoryExcludingLast(t *testing.T) {
	s := New("s1")
	s.RecordTurn("q1", "a1")
	s.RecordTurn("q2", "a2")

	tests := []struct {
		n    int
		want int
	}{
		{0, 4},
		{1, 3},
		{4, 0},
		{10, 0},
		{-1, 4},
	}

	for _, tt := range tests {
		if got := len(s.HistoryExcludingLast(tt.n)); got != tt.want {
			t.Errorf("HistoryExcludingLast(%d) length = %d, want %d", tt.n, got, tt.want)
		}
	}

	trimmed := s.HistoryExcludingLast(1)
	if trimmed[len(trimmed)-1].Content != "q2" {
		t.Errorf("last remaining message = %q, want q2", trimmed[len(trimmed)-1].Content)
	}
}

func TestHistoryIsACopy(t *testing.T) {
	s := New("s1")
	s.RecordTurn("q", "a")

	h := s.History()
	h[0].Content = "mutated"

	if s.History()[0].Content != "q" {
		t.Error("History must return a copy, not the backing slice")
	}
}
