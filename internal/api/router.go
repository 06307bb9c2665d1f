package api

import (
	"net/http"
	"strings"
)

func methodNotAllowed(w http.ResponseWriter) {
	http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
}

func NewRouter(h *Handlers) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/readyz", h.HandleReady)

	mux.HandleFunc("/agent/config", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		h.HandleAgentConfig(w, r)
	})

	mux.HandleFunc("/images", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		h.HandleImages(w, r)
	})

	mux.HandleFunc("/sessions", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			h.HandleCreateSession(w, r)
			return
		}
		methodNotAllowed(w)
	})

	mux.HandleFunc("/sessions/", func(w http.ResponseWriter, r *http.Request) {
		// /sessions/{id} | /end | /events | /signed-url | /client-token | /progress
		path := strings.TrimSuffix(r.URL.Path, "/")
		const prefix = "/sessions/"
		if !strings.HasPrefix(path, prefix) {
			http.NotFound(w, r)
			return
		}
		rest := strings.TrimPrefix(path, prefix)
		parts := strings.Split(rest, "/")
		if len(parts) == 0 || parts[0] == "" || len(parts) > 2 {
			http.NotFound(w, r)
			return
		}
		id := parts[0]
		tail := ""
		if len(parts) > 1 {
			tail = parts[1]
		}

		want := http.MethodGet
		var handle func(http.ResponseWriter, *http.Request, string)
		switch tail {
		case "":
			handle = h.HandleGetSession
		case "end":
			want, handle = http.MethodPost, h.HandleEndSession
		case "events":
			handle = h.HandleListEvents
		case "signed-url":
			handle = h.HandleSignedURL
		case "client-token":
			want, handle = http.MethodPost, h.HandleMintClientToken
		case "progress":
			handle = h.HandleProgress
		default:
			http.NotFound(w, r)
			return
		}
		if r.Method != want {
			methodNotAllowed(w)
			return
		}
		handle(w, r, id)
	})

	return mux
}
