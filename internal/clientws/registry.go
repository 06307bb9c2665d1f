package clientws

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"yuzu/tutor/internal/presenter"
	"yuzu/tutor/internal/session"

	ws "nhooyr.io/websocket"
)

const writeTimeout = 5 * time.Second

// Registry keeps at most one client connection per session and implements
// session.Outbox on top of it.
type Registry struct {
	mu    sync.Mutex
	conns map[string]*ws.Conn
	seq   map[string]int64
}

var _ session.Outbox = (*Registry)(nil)

func NewRegistry() *Registry {
	return &Registry{conns: make(map[string]*ws.Conn), seq: make(map[string]int64)}
}

// Replace sets the connection for a session and closes the previous one if present.
func (r *Registry) Replace(sessionID string, c *ws.Conn) (prevClosed bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if old, ok := r.conns[sessionID]; ok && old != nil {
		_ = old.Close(ws.StatusNormalClosure, "replaced")
		prevClosed = true
	}
	r.conns[sessionID] = c
	return
}

func (r *Registry) Get(sessionID string) *ws.Conn {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.conns[sessionID]
}

// Remove forgets c if it is still the session's connection.
func (r *Registry) Remove(sessionID string, c *ws.Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.conns[sessionID] == c {
		delete(r.conns, sessionID)
	}
}

// Drop closes and forgets the session's connection, e.g. when the session ends.
func (r *Registry) Drop(sessionID, reason string) bool {
	r.mu.Lock()
	c, ok := r.conns[sessionID]
	delete(r.conns, sessionID)
	delete(r.seq, sessionID)
	r.mu.Unlock()
	if !ok || c == nil {
		return false
	}
	// Close waits for the client's close frame, so it runs outside the lock.
	_ = c.Close(ws.StatusNormalClosure, reason)
	return true
}

// Close closes every connection, e.g. on shutdown.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, c := range r.conns {
		_ = c.Close(ws.StatusGoingAway, "server shutting down")
		delete(r.conns, id)
	}
}

// SendJSON stamps msg and writes it to the session's client. A session with no
// client drops the message.
func (r *Registry) SendJSON(ctx context.Context, sessionID string, msg Message) error {
	r.mu.Lock()
	c := r.conns[sessionID]
	r.seq[sessionID]++
	msg.Seq = r.seq[sessionID]
	r.mu.Unlock()
	if c == nil {
		return nil
	}
	msg.SessionID = sessionID
	if msg.TsMs == 0 {
		msg.TsMs = time.Now().UnixMilli()
	}
	b, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	err = c.Write(ctx, ws.MessageText, b)
	metricFrames.WithLabelValues("out", msg.Type).Inc()
	return err
}

func (r *Registry) send(sessionID string, msg Message) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	if err := r.SendJSON(ctx, sessionID, msg); err != nil {
		log.Printf("[clientws %s] send %s: %v", sessionID, msg.Type, err)
	}
}

func (r *Registry) AgentMessage(sessionID, text string) {
	r.send(sessionID, Message{Type: TypeAgentMessage, Text: text})
}

func (r *Registry) Toast(sessionID string, t presenter.Toast) {
	r.send(sessionID, Message{Type: TypeToast, Toast: &t})
}

func (r *Registry) View(sessionID string, v session.View) {
	r.send(sessionID, Message{Type: TypeView, Activity: v.Activity, View: v.Data})
}

func (r *Registry) Camera(sessionID, action string) {
	r.send(sessionID, Message{Type: TypeCamera, Action: action})
}
