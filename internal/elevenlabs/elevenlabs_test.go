package elevenlabs

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSignedURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/convai/conversation/get_signed_url" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("agent_id") != "agent-1" {
			t.Errorf("missing agent_id, got %q", r.URL.RawQuery)
		}
		if r.Header.Get("xi-api-key") != "key" {
			t.Errorf("missing api key header")
		}
		w.Write([]byte(`{"signed_url":"wss://example/convai?token=abc"}`))
	}))
	defer srv.Close()

	c := NewClient("key", "agent-1", srv.URL)
	got, err := c.SignedURL(context.Background())
	if err != nil { t.Fatalf("signed url: %v", err) }
	if got != "wss://example/convai?token=abc" {
		t.Fatalf("unexpected url %q", got)
	}
}

func TestSignedURLUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient("key", "agent-1", srv.URL)
	if _, err := c.SignedURL(context.Background()); err == nil {
		t.Fatalf("expected error on 401")
	}
}

func TestSignedURLNotConfigured(t *testing.T) {
	c := NewClient("", "agent-1", "")
	if _, err := c.SignedURL(context.Background()); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}
