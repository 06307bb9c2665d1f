package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	ws "nhooyr.io/websocket"
)

type frame struct {
	Type     string          `json:"type"`
	TsMs     int64           `json:"ts_ms,omitempty"`
	Seq      int64           `json:"seq,omitempty"`
	CallID   string          `json:"call_id,omitempty"`
	Tool     string          `json:"tool,omitempty"`
	Activity string          `json:"activity,omitempty"`
	Action   string          `json:"action,omitempty"`
	Params   json.RawMessage `json:"params,omitempty"`
	Text     string          `json:"text,omitempty"`
	IsError  bool            `json:"is_error,omitempty"`
	View     json.RawMessage `json:"view,omitempty"`
	Toast    json.RawMessage `json:"toast,omitempty"`
}

type step struct {
	label string
	out   frame
	// until is the frame type that ends the step.
	until string
	pause time.Duration
}

func main() {
	apiURL := flag.String("api", "http://localhost:8080", "Tutor server base URL")
	timeout := flag.Duration("timeout", 30*time.Second, "Overall timeout")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	sessionID, token := createSession(ctx, *apiURL)
	fmt.Printf("=== Tutor E2E ===\n")
	fmt.Printf("Session: %s\n\n", sessionID)

	u, err := url.Parse(*apiURL)
	if err != nil {
		log.Fatalf("api url: %v", err)
	}
	u.Scheme = strings.Replace(u.Scheme, "http", "ws", 1)
	u.Path = "/ws/client"
	q := url.Values{"session_id": {sessionID}}
	if token != "" {
		q.Set("token", token)
	}
	u.RawQuery = q.Encode()

	c, _, err := ws.Dial(ctx, u.String(), nil)
	if err != nil {
		log.Fatalf("dial: %v", err)
	}
	defer c.Close(ws.StatusNormalClosure, "done")

	steps := []step{
		{"hello", frame{Type: "client_hello"}, "view", 0},
		{"present lesson words", toolCall("presentLessonWords", `{"words":["honey","forest","cave"]}`), "tool_result", 0},
		{"present quiz", toolCall("presentQuiz", `{"question":"Where do bears sleep in winter?","options":["Cave","Beach"],"correctAnswer":"Cave"}`), "tool_result", 0},
		{"wrong answer", interaction("quiz", "answer", `{"option":"Beach"}`), "agent_message", 0},
		{"wait for retry", frame{}, "", 2500 * time.Millisecond},
		{"right answer", interaction("quiz", "answer", `{"option":"cave"}`), "agent_message", 0},
		{"present cloze", toolCall("presentCloze", `{"sentence":"Bears love ___.","answer":"honey"}`), "tool_result", 0},
		{"submit cloze", interaction("cloze", "submit", `{"text":"Honey"}`), "agent_message", 0},
		{"unknown tool", toolCall("presentSpellingBee", `{}`), "tool_result", 0},
	}
	for i, s := range steps {
		fmt.Printf("[%d] %s\n", i+1, s.label)
		if s.out.Type != "" {
			s.out.TsMs = time.Now().UnixMilli()
			b, _ := json.Marshal(s.out)
			if err := c.Write(ctx, ws.MessageText, b); err != nil {
				log.Fatalf("write: %v", err)
			}
		}
		time.Sleep(s.pause)
		if s.until == "" {
			continue
		}
		if err := readUntil(ctx, c, s.until); err != nil {
			log.Fatalf("step %q: %v", s.label, err)
		}
	}
	fmt.Println("\n[*] Done")
}

func toolCall(tool, params string) frame {
	return frame{Type: "tool_call", CallID: uuid.New().String(), Tool: tool, Params: json.RawMessage(params)}
}

func interaction(activity, action, params string) frame {
	return frame{Type: "interaction", Activity: activity, Action: action, Params: json.RawMessage(params)}
}

func createSession(ctx context.Context, base string) (id, token string) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, base+"/sessions", strings.NewReader(`{"learner":"e2e"}`))
	if err != nil {
		log.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Fatalf("create session: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Fatalf("create session: %s", resp.Status)
	}
	var out struct {
		SessionID   string `json:"session_id"`
		ClientToken string `json:"client_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		log.Fatalf("decode session: %v", err)
	}
	return out.SessionID, out.ClientToken
}

func readUntil(ctx context.Context, c *ws.Conn, typ string) error {
	for {
		_, data, err := c.Read(ctx)
		if err != nil {
			return err
		}
		var f frame
		if err := json.Unmarshal(data, &f); err != nil {
			return err
		}
		printFrame(f)
		if f.Type == typ {
			return nil
		}
	}
}

func printFrame(f frame) {
	ts := time.Now().Format("15:04:05.000")
	switch f.Type {
	case "view":
		activity := f.Activity
		if activity == "" {
			activity = "none"
		}
		fmt.Printf("[%s] <- view: %s %s\n", ts, activity, string(f.View))
	case "agent_message":
		fmt.Printf("[%s] <- agent: %q\n", ts, f.Text)
	case "tool_result":
		fmt.Printf("[%s] <- tool_result %s error=%t: %q\n", ts, f.CallID, f.IsError, f.Text)
	case "toast":
		fmt.Printf("[%s] <- toast: %s\n", ts, string(f.Toast))
	case "camera":
		fmt.Printf("[%s] <- camera: %s\n", ts, f.Action)
	case "error":
		fmt.Printf("[%s] <- error %s/%s: %s\n", ts, f.Activity, f.Action, f.Text)
	default:
		fmt.Printf("[%s] <- %s\n", ts, f.Type)
	}
}
