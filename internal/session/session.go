// Package session holds the mutable per-conversation state: the append-only
// message history and the current project focus. A Session has a
// single-writer contract — it does no internal locking, the host must
// process one turn at a time per session.
package session

import (
	"time"

	"github.com/kalambet/folio/internal/knowledge"
)

// Roles used in the message history. The system instruction is never stored
// here — it is synthesized fresh on every turn.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one entry in a session's history. Append-only, never mutated
// after creation. Timestamp is advisory: recorded for display, dropped when
// assembling the completion request.
type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// ProjectFinder resolves a project name to a project.
// Implemented by knowledge.Store.
type ProjectFinder interface {
	FindProject(name string) (knowledge.Project, bool)
}

// Clock abstracts time for testability.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Session is one conversation's state. Create with New; starts with empty
// history and no focus.
type Session struct {
	ID string

	clock   Clock
	history []Message
	focus   string // project name; empty means no focus
}

// New creates an empty session with the given ID.
func New(id string) *Session {
	return &Session{ID: id, clock: realClock{}}
}

// NewWithClock creates a session with a custom clock (for testing).
func NewWithClock(id string, clock Clock) *Session {
	return &Session{ID: id, clock: clock}
}

// SetFocus replaces the focus selection wholesale. An empty name clears it.
// A name that does not resolve against the knowledge base also clears it
// instead of returning an error; callers read Focus to see what took effect.
func (s *Session) SetFocus(finder ProjectFinder, name string) {
	if name == "" {
		s.focus = ""
		return
	}
	if _, ok := finder.FindProject(name); !ok {
		s.focus = ""
		return
	}
	s.focus = name
}

// Focus returns the currently focused project name, or "" when none.
func (s *Session) Focus() string {
	return s.focus
}

// RecordTurn appends one user message then one assistant message, each
// timestamped at append time. This is the only way history grows, so a
// failed turn never leaves a dangling user message behind.
func (s *Session) RecordTurn(userText, assistantText string) {
	s.history = append(s.history,
		Message{Role: RoleUser, Content: userText, Timestamp: s.clock.Now()},
		Message{Role: RoleAssistant, Content: assistantText, Timestamp: s.clock.Now()},
	)
}

// History returns a copy of the full message history, oldest first.
func (s *Session) History() []Message {
	out := make([]Message, len(s.history))
	copy(out, s.history)
	return out
}

// HistoryExcludingLast returns the history with the most recent n messages
// removed. Hosts that append a user message optimistically before fetching
// the reply use this to reconstruct the pre-turn history.
func (s *Session) HistoryExcludingLast(n int) []Message {
	if n < 0 {
		n = 0
	}
	if n > len(s.history) {
		n = len(s.history)
	}
	out := make([]Message, len(s.history)-n)
	copy(out, s.history[:len(s.history)-n])
	return out
}

// Len returns the number of messages in the history.
func (s *Session) Len() int {
	return len(s.history)
}
