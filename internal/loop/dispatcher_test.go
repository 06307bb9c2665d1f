package loop

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"yuzu/tutor/internal/activity"
	"yuzu/tutor/internal/auth"
	"yuzu/tutor/internal/clientws"
	"yuzu/tutor/internal/config"
	"yuzu/tutor/internal/session"
	"yuzu/tutor/internal/store"
	"yuzu/tutor/internal/types"

	ws "nhooyr.io/websocket"
)

const sid = "sess-1"

func dial(t *testing.T) (*ws.Conn, *store.Store, *session.Manager) {
	t.Helper()
	cfg := config.Config{}
	cfg.Client.TokenSecret = "sec"
	cfg.Client.TokenSkewSecs = 30

	st := store.New()
	if err := st.CreateSession(&types.Session{ID: sid, CreatedAt: time.Now(), Status: types.StatusCreated}); err != nil {
		t.Fatalf("create: %v", err)
	}
	reg := clientws.NewRegistry()
	mgr := session.NewManager(session.Options{Out: reg, Events: st, RetryDelay: 10 * time.Millisecond})
	mgr.Open(sid)
	disp := New(reg, st, mgr, 5*time.Second)

	srv := clientws.NewServer(cfg, st, reg)
	srv.OnConnect = disp.OnConnect
	srv.OnMessage = disp.OnMessage
	hs := httptest.NewServer(http.HandlerFunc(srv.HandleClientWS))

	tok, err := auth.GenerateClientToken("sec", sid, time.Now().Add(time.Minute).Unix())
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	u := "ws" + strings.TrimPrefix(hs.URL, "http") + "/ws/client?session_id=" + sid + "&token=" + tok
	c, _, err := ws.Dial(ctx, u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() {
		_ = c.Close(ws.StatusNormalClosure, "")
		mgr.CloseAll(context.Background())
		hs.Close()
	})
	return c, st, mgr
}

func write(t *testing.T, c *ws.Conn, msg clientws.Message) {
	t.Helper()
	b, _ := json.Marshal(msg)
	if err := c.Write(context.Background(), ws.MessageText, b); err != nil {
		t.Fatalf("write: %v", err)
	}
}

// readUntil reads frames until one of type typ arrives and returns all of them.
func readUntil(t *testing.T, c *ws.Conn, typ string) []clientws.Message {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	var got []clientws.Message
	for {
		_, data, err := c.Read(ctx)
		if err != nil {
			t.Fatalf("read (have %d frames): %v", len(got), err)
		}
		var m clientws.Message
		if err := json.Unmarshal(data, &m); err != nil {
			t.Fatalf("decode: %v", err)
		}
		got = append(got, m)
		if m.Type == typ {
			return got
		}
	}
}

func last(ms []clientws.Message) clientws.Message { return ms[len(ms)-1] }

func find(ms []clientws.Message, typ string) (clientws.Message, bool) {
	for _, m := range ms {
		if m.Type == typ {
			return m, true
		}
	}
	return clientws.Message{}, false
}

func TestToolCallRoundTrip(t *testing.T) {
	c, st, _ := dial(t)

	// The connect handler publishes the (empty) current view.
	first := readUntil(t, c, clientws.TypeView)
	if v := last(first); v.Activity != "" || v.SessionID != sid {
		t.Fatalf("initial view: %+v", v)
	}

	write(t, c, clientws.Message{
		Type:   clientws.TypeToolCall,
		CallID: "call-1",
		Tool:   "presentQuiz",
		Params: json.RawMessage(`{"question":"Which is a fruit?","options":["Apple","Chair"],"correctAnswer":"Apple"}`),
	})
	frames := readUntil(t, c, clientws.TypeToolResult)
	res := last(frames)
	if res.CallID != "call-1" || res.IsError || res.Activity != "quiz" {
		t.Fatalf("tool result: %+v", res)
	}
	if !strings.HasPrefix(res.Text, "Quiz game presented successfully.") {
		t.Fatalf("tool result text: %q", res.Text)
	}
	if v, ok := find(frames, clientws.TypeView); !ok || v.Activity != "quiz" {
		t.Fatalf("expected quiz view in %+v", frames)
	}
	if sess := st.GetSession(sid); !sess.ClientConnected || sess.ActiveActivity != "quiz" {
		t.Fatalf("session record: %+v", sess)
	}

	write(t, c, clientws.Message{
		Type:     clientws.TypeInteraction,
		Activity: "quiz",
		Action:   "answer",
		Params:   json.RawMessage(`{"option":"Chair"}`),
	})
	frames = readUntil(t, c, clientws.TypeAgentMessage)
	if msg := last(frames); msg.Text != `The user selected "Chair" and is incorrect!` {
		t.Fatalf("agent message: %q", msg.Text)
	}
	if toast, ok := find(frames, clientws.TypeToast); !ok || toast.Toast == nil || toast.Toast.Kind != "error" {
		t.Fatalf("expected error toast in %+v", frames)
	}
}

func TestToolCallErrors(t *testing.T) {
	c, _, _ := dial(t)
	readUntil(t, c, clientws.TypeView)

	write(t, c, clientws.Message{Type: clientws.TypeToolCall, CallID: "x", Tool: "presentSpellingBee", Params: json.RawMessage(`{}`)})
	res := last(readUntil(t, c, clientws.TypeToolResult))
	if !res.IsError || !strings.Contains(res.Text, "unknown tool") {
		t.Fatalf("expected unknown tool error: %+v", res)
	}

	write(t, c, clientws.Message{Type: clientws.TypeInteraction, Activity: "quiz", Action: "answer", Params: json.RawMessage(`{"option":"a"}`)})
	e := last(readUntil(t, c, clientws.TypeError))
	if e.Activity != "quiz" || e.Text == "" {
		t.Fatalf("error frame: %+v", e)
	}
}

const (
	quizParams  = `{"question":"Which is a fruit?","options":["Apple","Chair"],"correctAnswer":"Apple"}`
	clozeParams = `{"sentence":"The cat sat on the ___.","answer":"mat"}`
)

func TestToolCallsPresentInOrder(t *testing.T) {
	st := store.New()
	mgr := session.NewManager(session.Options{Events: st})
	disp := New(clientws.NewRegistry(), st, mgr, 5*time.Second)
	t.Cleanup(func() { mgr.CloseAll(context.Background()) })
	ctx := context.Background()

	for i := 0; i < 200; i++ {
		id := fmt.Sprintf("order-%d", i)
		s := mgr.Open(id)
		disp.OnMessage(ctx, id, clientws.Message{Type: clientws.TypeToolCall, CallID: "a", Tool: "presentQuiz", Params: json.RawMessage(quizParams)})
		disp.OnMessage(ctx, id, clientws.Message{Type: clientws.TypeToolCall, CallID: "b", Tool: "presentCloze", Params: json.RawMessage(clozeParams)})

		active, err := s.Active(ctx)
		if err != nil {
			t.Fatalf("active: %v", err)
		}
		if active != activity.Cloze {
			t.Fatalf("session %s: active %q, want the later cloze", id, active)
		}
		if err := mgr.End(ctx, id); err != nil {
			t.Fatalf("end: %v", err)
		}
	}
}

func TestFrameAfterEndDoesNotRestartSession(t *testing.T) {
	c, _, mgr := dial(t)
	readUntil(t, c, clientws.TypeView)

	if err := mgr.End(context.Background(), sid); err != nil {
		t.Fatalf("end: %v", err)
	}
	write(t, c, clientws.Message{Type: clientws.TypeToolCall, CallID: "late", Tool: "presentQuiz", Params: json.RawMessage(quizParams)})
	res := last(readUntil(t, c, clientws.TypeToolResult))
	if !res.IsError || res.CallID != "late" || res.Text != session.ErrNoSession.Error() {
		t.Fatalf("tool result after end: %+v", res)
	}

	write(t, c, clientws.Message{Type: clientws.TypeInteraction, Activity: "quiz", Action: "answer", Params: json.RawMessage(`{"option":"Apple"}`)})
	e := last(readUntil(t, c, clientws.TypeError))
	if e.Text != session.ErrNoSession.Error() {
		t.Fatalf("error frame after end: %+v", e)
	}
	if mgr.Get(sid) != nil {
		t.Fatal("session restarted by a late frame")
	}
}
