package session

import (
	"context"
	"errors"
	"sync"
)

// ErrNoSession is returned for frames addressed to a session that is not running,
// e.g. one that has ended.
var ErrNoSession = errors.New("session not found")

// Manager owns the running sessions.
type Manager struct {
	opts Options

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager creates sessions that share opts.
func NewManager(opts Options) *Manager {
	return &Manager{opts: opts, sessions: make(map[string]*Session)}
}

// Open returns the running session for id, starting it if needed.
func (m *Manager) Open(id string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[id]; ok {
		return s
	}
	s := New(id, m.opts)
	m.sessions[id] = s
	return s
}

// Get returns the running session for id, or nil. It never starts one.
func (m *Manager) Get(id string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions[id]
}

// End closes and forgets the session. Unknown ids are ignored.
func (m *Manager) End(ctx context.Context, id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if !ok {
		return nil
	}
	return s.Close(ctx)
}

// CloseAll ends every session.
func (m *Manager) CloseAll(ctx context.Context) {
	m.mu.Lock()
	all := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()
	for _, s := range all {
		_ = s.Close(ctx)
	}
}
