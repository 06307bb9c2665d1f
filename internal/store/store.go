package store

import (
	"errors"
	"sync"
	"time"

	"yuzu/tutor/internal/types"
)

var (
	ErrSessionExists  = errors.New("session already exists")
	ErrUnknownSession = errors.New("unknown session")
)

// maxEvents caps the per-session event log.
const maxEvents = 200

type Store struct {
	mu       sync.RWMutex
	sessions map[string]*types.Session
	events   map[string][]types.Event
}

func New() *Store {
	return &Store{
		sessions: make(map[string]*types.Session),
		events:   make(map[string][]types.Event),
	}
}

func (s *Store) CreateSession(sess *types.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[sess.ID]; ok {
		return ErrSessionExists
	}
	s.sessions[sess.ID] = sess
	s.events[sess.ID] = []types.Event{}
	return nil
}

// GetSession returns a copy of the session record, or nil.
func (s *Store) GetSession(id string) *types.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil
	}
	cp := *sess
	return &cp
}

func (s *Store) update(id string, fn func(*types.Session)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return ErrUnknownSession
	}
	fn(sess)
	return nil
}

func (s *Store) SetClientConnected(id string, connected bool) error {
	return s.update(id, func(sess *types.Session) {
		sess.ClientConnected = connected
		if connected && sess.Status == types.StatusCreated {
			sess.Status = types.StatusActive
		}
	})
}

func (s *Store) SetActiveActivity(id, activity string) error {
	return s.update(id, func(sess *types.Session) { sess.ActiveActivity = activity })
}

func (s *Store) EndSession(id string, at time.Time) error {
	return s.update(id, func(sess *types.Session) {
		sess.Status = types.StatusEnded
		sess.ClientConnected = false
		sess.ActiveActivity = ""
		sess.EndedAt = &at
	})
}

func (s *Store) AppendEvent(sessionID, typ string, payload map[string]any) types.Event {
	evt := types.Event{Type: typ, Ts: time.Now().UTC(), Payload: payload}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[sessionID] = append(s.events[sessionID], evt)
	if l := len(s.events[sessionID]); l > maxEvents {
		// Leave room for one truncation marker so the log stays at maxEvents.
		keep := maxEvents - 1
		dropped := l - keep
		s.events[sessionID] = append([]types.Event(nil), s.events[sessionID][l-keep:]...)
		warn := types.Event{Type: "events_truncated", Ts: time.Now().UTC(), Payload: map[string]any{"session_id": sessionID, "dropped": dropped, "kept": keep}}
		s.events[sessionID] = append(s.events[sessionID], warn)
	}
	return evt
}

func (s *Store) ListEvents(sessionID string) []types.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	src := s.events[sessionID]
	out := make([]types.Event, len(src))
	copy(out, src)
	return out
}

func (s *Store) ListSessionIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		out = append(out, id)
	}
	return out
}
