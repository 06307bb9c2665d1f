package loop

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"yuzu/tutor/internal/clientws"
	"yuzu/tutor/internal/session"
	"yuzu/tutor/internal/store"
)

// Dispatcher routes client frames to the session they belong to and writes the
// replies back to the client.
type Dispatcher struct {
	reg      *clientws.Registry
	store    *store.Store
	sessions *session.Manager

	toolTimeout time.Duration
}

func New(reg *clientws.Registry, st *store.Store, sessions *session.Manager, toolTimeout time.Duration) *Dispatcher {
	if toolTimeout <= 0 {
		toolTimeout = 30 * time.Second
	}
	return &Dispatcher{reg: reg, store: st, sessions: sessions, toolTimeout: toolTimeout}
}

// OnConnect sends the current view so a reconnecting client catches up.
func (d *Dispatcher) OnConnect(ctx context.Context, sessionID string) {
	s := d.sessions.Get(sessionID)
	if s == nil {
		log.Printf("[dispatch %s] connect: %v", sessionID, session.ErrNoSession)
		return
	}
	if err := s.Republish(ctx); err != nil {
		log.Printf("[dispatch %s] republish: %v", sessionID, err)
	}
}

// OnMessage processes a client frame. It runs on the connection's read loop, so
// tool calls are queued on the session in the order the client sent them.
func (d *Dispatcher) OnMessage(ctx context.Context, sessionID string, msg clientws.Message) {
	s := d.sessions.Get(sessionID)
	if s == nil {
		d.store.AppendEvent(sessionID, "client_msg_no_session", map[string]any{"type": msg.Type})
		d.reject(sessionID, msg, session.ErrNoSession)
		return
	}

	switch msg.Type {
	case clientws.TypeClientHello:
		d.store.AppendEvent(sessionID, "client_hello", map[string]any{"ts_ms": msg.TsMs})
		if err := s.Republish(ctx); err != nil {
			log.Printf("[dispatch %s] republish: %v", sessionID, err)
		}
	case clientws.TypeToolCall:
		if msg.CallID == "" {
			msg.CallID = uuid.New().String()
		}
		p, err := s.EnqueueRaw(msg.Tool, msg.Params)
		if err != nil {
			d.reject(sessionID, msg, err)
			return
		}
		// Photo quizzes wait on image search, so the reply is awaited off the read
		// loop: interactions keep flowing while one loads.
		go d.awaitToolCall(ctx, sessionID, msg, p)
	case clientws.TypeInteraction:
		if err := s.Interact(ctx, msg.Activity, msg.Action, msg.Params); err != nil {
			d.store.AppendEvent(sessionID, "interaction_rejected", map[string]any{
				"activity": msg.Activity, "action": msg.Action, "error": err.Error(),
			})
			d.reject(sessionID, msg, err)
		}
	default:
		d.store.AppendEvent(sessionID, "client_msg_unknown", map[string]any{"type": msg.Type, "seq": msg.Seq})
	}
}

func (d *Dispatcher) awaitToolCall(ctx context.Context, sessionID string, msg clientws.Message, p *session.Pending) {
	ctx, cancel := context.WithTimeout(ctx, d.toolTimeout)
	defer cancel()

	res, err := p.Wait(ctx)
	switch {
	case errors.Is(err, context.Canceled):
		// Client went away.
		return
	case err != nil:
		d.reject(sessionID, msg, err)
		return
	}
	d.send(sessionID, clientws.Message{
		Type:     clientws.TypeToolResult,
		CallID:   msg.CallID,
		Tool:     msg.Tool,
		Activity: res.Activity.String(),
		Text:     strings.Join(res.Messages, "\n"),
	})
}

// reject answers a tool call with an error result and anything else with an
// error frame.
func (d *Dispatcher) reject(sessionID string, msg clientws.Message, err error) {
	out := clientws.Message{Type: clientws.TypeError, Activity: msg.Activity, Action: msg.Action, Text: err.Error()}
	if msg.Type == clientws.TypeToolCall {
		out = clientws.Message{Type: clientws.TypeToolResult, CallID: msg.CallID, Tool: msg.Tool, Text: err.Error(), IsError: true}
	}
	d.send(sessionID, out)
}

func (d *Dispatcher) send(sessionID string, msg clientws.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := d.reg.SendJSON(ctx, sessionID, msg); err != nil {
		log.Printf("[dispatch %s] send %s: %v", sessionID, msg.Type, err)
	}
}
