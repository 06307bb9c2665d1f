package store

import (
	"errors"
	"testing"
	"time"

	"yuzu/tutor/internal/types"
)

func TestCreateAndGetSession(t *testing.T) {
	st := New()
	s := &types.Session{ID: "abc123", CreatedAt: time.Now(), Status: types.StatusCreated}
	if err := st.CreateSession(s); err != nil {
		t.Fatalf("create session: %v", err)
	}
	got := st.GetSession("abc123")
	if got == nil || got.ID != s.ID {
		t.Fatalf("expected session %q, got %#v", s.ID, got)
	}
	if err := st.CreateSession(s); !errors.Is(err, ErrSessionExists) {
		t.Fatalf("expected ErrSessionExists, got %v", err)
	}
}

func TestClientConnectActivates(t *testing.T) {
	st := New()
	_ = st.CreateSession(&types.Session{ID: "s1", Status: types.StatusCreated})
	if err := st.SetClientConnected("s1", true); err != nil {
		t.Fatalf("connect: %v", err)
	}
	if got := st.GetSession("s1"); got.Status != types.StatusActive || !got.ClientConnected {
		t.Fatalf("unexpected session %#v", got)
	}
	if err := st.SetClientConnected("nope", true); !errors.Is(err, ErrUnknownSession) {
		t.Fatalf("expected ErrUnknownSession, got %v", err)
	}
}

func TestEventsCapped(t *testing.T) {
	st := New()
	_ = st.CreateSession(&types.Session{ID: "s1"})
	for i := 0; i < maxEvents+10; i++ {
		st.AppendEvent("s1", "tick", map[string]any{"i": i})
	}
	evs := st.ListEvents("s1")
	if len(evs) != maxEvents {
		t.Fatalf("expected %d events, got %d", maxEvents, len(evs))
	}
	if evs[len(evs)-1].Type != "events_truncated" {
		t.Fatalf("expected truncation marker last, got %q", evs[len(evs)-1].Type)
	}
}
