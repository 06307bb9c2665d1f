package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"yuzu/tutor/internal/auth"
	"yuzu/tutor/internal/config"
	"yuzu/tutor/internal/elevenlabs"
	"yuzu/tutor/internal/health"
	"yuzu/tutor/internal/imagesearch"
	"yuzu/tutor/internal/progress"
	"yuzu/tutor/internal/session"
	"yuzu/tutor/internal/store"
	"yuzu/tutor/internal/toolcall"
	"yuzu/tutor/internal/types"
)

// ImageSearcher is the image lookup behind /images.
type ImageSearcher interface {
	Search(ctx context.Context, query string) ([]imagesearch.Result, error)
}

// ProgressReader reads the verdict log.
type ProgressReader interface {
	List(ctx context.Context, sessionID string) ([]progress.Outcome, error)
	Summary(ctx context.Context, sessionID string) (progress.Summary, error)
}

type Handlers struct {
	cfg      config.Config
	store    *store.Store
	sessions *session.Manager
	signer   elevenlabs.Signer
	images   ImageSearcher
	progress ProgressReader

	// Ready backs /readyz. Nil means always ready.
	Ready func(ctx context.Context) health.HealthStatus
	// OnEnd runs after a session has ended.
	OnEnd func(id string)
}

func NewHandlers(cfg config.Config, st *store.Store, sessions *session.Manager, signer elevenlabs.Signer, images ImageSearcher, prog ProgressReader) *Handlers {
	return &Handlers{cfg: cfg, store: st, sessions: sessions, signer: signer, images: images, progress: prog}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"error": msg})
}

func (h *Handlers) HandleReady(w http.ResponseWriter, r *http.Request) {
	if h.Ready == nil {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	st := h.Ready(ctx)
	status := http.StatusOK
	if !st.OK {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, st)
}

// mintToken returns an empty token when client auth is not configured.
func (h *Handlers) mintToken(id string) (string, time.Time, error) {
	if h.cfg.Client.TokenSecret == "" {
		return "", time.Time{}, nil
	}
	ttl := time.Duration(h.cfg.Client.TokenTTLMin) * time.Minute
	return auth.IssueClientToken(h.cfg.Client.TokenSecret, id, time.Now(), ttl)
}

func (h *Handlers) HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Learner string `json:"learner"`
	}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
	}

	id := uuid.New().String()
	sess := &types.Session{
		ID:        id,
		Learner:   strings.TrimSpace(body.Learner),
		CreatedAt: time.Now().UTC(),
		Status:    types.StatusCreated,
	}
	if err := h.store.CreateSession(sess); err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	h.sessions.Open(id)
	h.store.AppendEvent(id, "session_created", map[string]any{"learner": sess.Learner})

	token, exp, err := h.mintToken(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	resp := map[string]any{"session_id": id}
	if token != "" {
		resp["client_token"] = token
		resp["expires_at"] = exp.UTC()
	}
	if h.cfg.Server.PublicWSURL != "" {
		resp["ws_url"] = h.cfg.Server.PublicWSURL + "?session_id=" + id
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handlers) HandleGetSession(w http.ResponseWriter, r *http.Request, id string) {
	sess := h.store.GetSession(id)
	if sess == nil {
		http.NotFound(w, r)
		return
	}
	resp := map[string]any{"session": sess}
	if s := h.sessions.Get(id); s != nil {
		if v, err := s.CurrentView(r.Context()); err == nil {
			resp["view"] = v
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handlers) HandleEndSession(w http.ResponseWriter, r *http.Request, id string) {
	sess := h.store.GetSession(id)
	if sess == nil {
		http.NotFound(w, r)
		return
	}
	if sess.Status == types.StatusEnded {
		h.store.AppendEvent(id, "session_end_requested", map[string]any{"noop": true})
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "status": sess.Status})
		return
	}
	h.store.AppendEvent(id, "session_end_requested", nil)
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	if err := h.sessions.End(ctx, id); err != nil {
		log.Printf("[api] end session %s: %v", id, err)
	}
	_ = h.store.EndSession(id, time.Now().UTC())
	h.store.AppendEvent(id, "session_ended", nil)
	if h.OnEnd != nil {
		h.OnEnd(id)
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "status": types.StatusEnded})
}

func (h *Handlers) HandleListEvents(w http.ResponseWriter, r *http.Request, id string) {
	sess := h.store.GetSession(id)
	if sess == nil {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"session_id": id,
		"events":     h.store.ListEvents(id),
	})
}

func (h *Handlers) HandleSignedURL(w http.ResponseWriter, r *http.Request, id string) {
	if h.store.GetSession(id) == nil {
		http.NotFound(w, r)
		return
	}
	u, err := h.signer.SignedURL(r.Context())
	if err != nil {
		log.Printf("[api] signed url for %s: %v", id, err)
		h.store.AppendEvent(id, "signed_url_failed", map[string]any{"error": err.Error()})
		writeError(w, http.StatusBadGateway, "Failed to get signed URL")
		return
	}
	h.store.AppendEvent(id, "signed_url_issued", nil)
	writeJSON(w, http.StatusOK, map[string]any{"signedUrl": u})
}

func (h *Handlers) HandleMintClientToken(w http.ResponseWriter, r *http.Request, id string) {
	sess := h.store.GetSession(id)
	if sess == nil {
		http.NotFound(w, r)
		return
	}
	if sess.Status == types.StatusEnded {
		writeError(w, http.StatusGone, "session ended")
		return
	}
	token, exp, err := h.mintToken(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if token == "" {
		writeError(w, http.StatusServiceUnavailable, "client auth not configured")
		return
	}
	h.store.AppendEvent(id, "client_token_minted", map[string]any{"expires_at": exp.Unix()})
	writeJSON(w, http.StatusOK, map[string]any{"session_id": id, "token": token, "expires_at": exp.UTC()})
}

func (h *Handlers) HandleProgress(w http.ResponseWriter, r *http.Request, id string) {
	if h.store.GetSession(id) == nil {
		http.NotFound(w, r)
		return
	}
	if h.progress == nil {
		writeError(w, http.StatusServiceUnavailable, "progress log not configured")
		return
	}
	sum, err := h.progress.Summary(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	outcomes, err := h.progress.List(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"summary": sum, "outcomes": outcomes})
}

func (h *Handlers) HandleAgentConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"instructions": toolcall.Instructions,
		"tools":        toolcall.Definitions(),
	})
}

func (h *Handlers) HandleImages(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("query"))
	if query == "" {
		writeError(w, http.StatusBadRequest, "missing query")
		return
	}
	res, err := h.images.Search(r.Context(), query)
	if err != nil {
		log.Printf("[api] image search %q: %v", query, err)
		status := http.StatusBadGateway
		if errors.Is(err, imagesearch.ErrNotConfigured) {
			status = http.StatusServiceUnavailable
		}
		writeError(w, status, "Failed to fetch images")
		return
	}
	writeJSON(w, http.StatusOK, res)
}
