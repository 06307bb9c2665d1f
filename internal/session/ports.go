package session

import (
	"context"
	"sync"
	"time"

	"yuzu/tutor/internal/presenter"
)

// View is the single activity a client should render. An empty Activity means
// nothing is shown.
type View struct {
	Activity string `json:"activity"`
	Data     any    `json:"view,omitempty"`
}

// Camera actions sent to the client.
const (
	CameraStart = "start"
	CameraStop  = "stop"
)

// Outbox delivers session output to whatever client is attached.
type Outbox interface {
	AgentMessage(sessionID, text string)
	Toast(sessionID string, t presenter.Toast)
	View(sessionID string, v View)
	Camera(sessionID, action string)
}

// ImageSearcher returns the top image for a query.
type ImageSearcher interface {
	First(ctx context.Context, query string) (primary, fallback string, err error)
}

type imageLookup struct{ s ImageSearcher }

func (l imageLookup) Lookup(ctx context.Context, query string) (presenter.Image, error) {
	primary, fallback, err := l.s.First(ctx, query)
	if err != nil {
		return presenter.Image{}, err
	}
	return presenter.Image{URL: primary, FallbackURL: fallback}, nil
}

type bridge struct{ s *Session }

// SendMessage forwards to the client and keeps text for the tool call finishing in
// this turn, if any.
func (b bridge) SendMessage(text string) {
	s := b.s
	s.said = append(s.said, text)
	s.events.AppendEvent(s.id, "agent_message", map[string]any{"text": text})
	s.out.AgentMessage(s.id, text)
}

type notifier struct{ s *Session }

func (n notifier) Notify(t presenter.Toast) {
	n.s.events.AppendEvent(n.s.id, "toast", map[string]any{"kind": string(t.Kind), "title": t.Title})
	n.s.out.Toast(n.s.id, t)
}

type scheduler struct{ s *Session }

func (sc scheduler) Post(fn func()) { sc.s.loop.Post(sc.s.turn(fn)) }

func (sc scheduler) Go(fn func(ctx context.Context)) {
	ctx := sc.s.loop.Context()
	go fn(ctx)
}

func (sc scheduler) After(d time.Duration, fn func()) {
	sc.s.loop.AfterFunc(d, sc.s.turn(fn))
}

// camera asks the client to open its camera. Permission failures come back later
// as a camera_denied interaction.
type camera struct{ s *Session }

func (c camera) Acquire(ctx context.Context) (presenter.Stream, error) {
	c.s.events.AppendEvent(c.s.id, "camera_start", nil)
	c.s.out.Camera(c.s.id, CameraStart)
	return &stream{s: c.s}, nil
}

type stream struct {
	s    *Session
	once sync.Once
}

func (st *stream) Release() {
	st.once.Do(func() {
		st.s.events.AppendEvent(st.s.id, "camera_stop", nil)
		st.s.out.Camera(st.s.id, CameraStop)
	})
}

// Discard is an Outbox that drops everything.
type Discard struct{}

func (Discard) AgentMessage(string, string)   {}
func (Discard) Toast(string, presenter.Toast) {}
func (Discard) View(string, View)             {}
func (Discard) Camera(string, string)         {}
