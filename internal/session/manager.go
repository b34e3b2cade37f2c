package session

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a session ID does not exist.
var ErrNotFound = errors.New("session not found")

// Manager owns the in-memory session registry for a host. Sessions live for
// the process lifetime or until removed; there is no persistence.
//
// The registry itself is safe for concurrent use. Individual sessions keep
// their single-writer contract: every host surface must hold SessionLock
// around turn processing and focus changes, so surfaces sharing one Manager
// cannot run overlapping writes against the same session.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	locks    map[string]*sync.Mutex
}

// NewManager creates an empty session registry.
func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		locks:    make(map[string]*sync.Mutex),
	}
}

// Create registers a new empty session and returns it.
func (m *Manager) Create() *Session {
	s := New(uuid.New().String())
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s
}

// Get returns the session with the given ID.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

// SessionLock returns the mutex serializing writers for the given session
// ID. All surfaces sharing this Manager take it around Respond and SetFocus;
// the same ID always yields the same mutex until the session is removed.
func (m *Manager) SessionLock(id string) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.locks[id]
	if !ok {
		l = &sync.Mutex{}
		m.locks[id] = l
	}
	return l
}

// Remove deletes a session and its writer lock. Removing an unknown ID is
// a no-op.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	delete(m.locks, id)
	m.mu.Unlock()
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
