package clientws

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"yuzu/tutor/internal/auth"
	"yuzu/tutor/internal/config"
	"yuzu/tutor/internal/store"
	"yuzu/tutor/internal/types"

	ws "nhooyr.io/websocket"
)

type Server struct {
	Cfg   config.Config
	Store *store.Store
	Reg   *Registry

	// OnConnect runs after a client attaches, before any frame is read.
	OnConnect func(ctx context.Context, sessionID string)
	// OnMessage handles each inbound frame. It runs on the connection's read loop.
	OnMessage func(ctx context.Context, sessionID string, msg Message)
}

func NewServer(cfg config.Config, st *store.Store, reg *Registry) *Server {
	return &Server{Cfg: cfg, Store: st, Reg: reg}
}

func bearer(r *http.Request) string {
	if authz := r.Header.Get("Authorization"); strings.HasPrefix(authz, "Bearer ") {
		return strings.TrimPrefix(authz, "Bearer ")
	}
	// Browsers cannot set headers on websocket upgrades.
	return r.URL.Query().Get("token")
}

func (s *Server) HandleClientWS(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		http.Error(w, "missing session_id", http.StatusBadRequest)
		return
	}
	sess := s.Store.GetSession(sessionID)
	if sess == nil {
		http.Error(w, "unknown session", http.StatusNotFound)
		return
	}
	if sess.Status == types.StatusEnded {
		http.Error(w, "session ended", http.StatusGone)
		return
	}
	token := bearer(r)
	if token == "" {
		http.Error(w, "missing bearer token", http.StatusUnauthorized)
		return
	}
	if _, _, err := auth.ValidateClientToken(s.Cfg.Client.TokenSecret, token, sessionID, time.Now(), s.Cfg.Client.TokenSkewSecs); err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	c, err := ws.Accept(w, r, &ws.AcceptOptions{InsecureSkipVerify: true})
	if err != nil {
		log.Printf("[clientws] accept: %v", err)
		return
	}
	if s.Reg.Replace(sessionID, c) {
		s.Store.AppendEvent(sessionID, "client_replaced", nil)
	}
	_ = s.Store.SetClientConnected(sessionID, true)
	s.Store.AppendEvent(sessionID, "client_connected", nil)
	metricConnected.Inc()

	ctx := r.Context()
	if s.OnConnect != nil {
		s.OnConnect(ctx, sessionID)
	}
	for {
		typ, data, err := c.Read(ctx)
		if err != nil {
			break
		}
		if typ != ws.MessageText && typ != ws.MessageBinary {
			continue
		}
		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			s.Store.AppendEvent(sessionID, "client_msg_invalid", map[string]any{"error": err.Error()})
			continue
		}
		metricFrames.WithLabelValues("in", msg.Type).Inc()
		if s.OnMessage != nil {
			s.OnMessage(ctx, sessionID, msg)
		}
	}
	_ = c.Close(ws.StatusNormalClosure, "done")
	metricConnected.Dec()
	s.Reg.Remove(sessionID, c)
	if s.Reg.Get(sessionID) == nil {
		_ = s.Store.SetClientConnected(sessionID, false)
	}
	s.Store.AppendEvent(sessionID, "client_disconnected", nil)
}
