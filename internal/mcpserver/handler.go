package mcpserver

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"yuzu/tutor/internal/auth"
	"yuzu/tutor/internal/session"
	"yuzu/tutor/internal/store"
	"yuzu/tutor/internal/types"
)

// Prefix is where Handler is mounted; the session id follows it.
const Prefix = "/mcp/"

// Handler serves /mcp/{session_id} with one MCP server per tutoring session.
type Handler struct {
	sessions *session.Manager
	store    *store.Store
	secret   string
	skew     int
	version  string

	mu      sync.Mutex
	servers map[string]*mcp.Server
	stream  http.Handler
}

// NewHandler authenticates with the client token secret. An empty secret disables
// authentication.
func NewHandler(sessions *session.Manager, st *store.Store, secret string, skewSecs int, version string) *Handler {
	h := &Handler{
		sessions: sessions,
		store:    st,
		secret:   secret,
		skew:     skewSecs,
		version:  version,
		servers:  make(map[string]*mcp.Server),
	}
	h.stream = mcp.NewStreamableHTTPHandler(h.server, nil)
	return h
}

func sessionID(path string) string {
	id, _, _ := strings.Cut(strings.TrimPrefix(path, Prefix), "/")
	return id
}

func (h *Handler) server(r *http.Request) *mcp.Server {
	id := sessionID(r.URL.Path)
	h.mu.Lock()
	defer h.mu.Unlock()
	if srv, ok := h.servers[id]; ok {
		return srv
	}
	srv := New(sessionInvoker{sessions: h.sessions, id: id}, h.version)
	h.servers[id] = srv
	return srv
}

// Forget drops the MCP server of an ended session.
func (h *Handler) Forget(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.servers, id)
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r.URL.Path)
	if id == "" {
		http.NotFound(w, r)
		return
	}
	sess := h.store.GetSession(id)
	if sess == nil {
		http.Error(w, "unknown session", http.StatusNotFound)
		return
	}
	if sess.Status == types.StatusEnded {
		http.Error(w, "session ended", http.StatusGone)
		return
	}
	if h.secret != "" {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if token == "" {
			token = r.URL.Query().Get("token")
		}
		if _, _, err := auth.ValidateClientToken(h.secret, token, id, time.Now(), h.skew); err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}
	}
	h.sessions.Open(id)
	h.stream.ServeHTTP(w, r)
}
