package elevenlabs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

var ErrNotConfigured = errors.New("elevenlabs: api key or agent id not set")

// Signer hands out short-lived conversation URLs for the voice agent.
type Signer interface {
	SignedURL(ctx context.Context) (string, error)
}

type HTTPClient struct {
	http    *http.Client
	apiKey  string
	agentID string
	base    string
}

func NewClient(apiKey, agentID, base string) *HTTPClient {
	if base == "" {
		base = "https://api.elevenlabs.io"
	}
	return &HTTPClient{
		http:    &http.Client{Timeout: 10 * time.Second},
		apiKey:  apiKey,
		agentID: agentID,
		base:    base,
	}
}

func (c *HTTPClient) SignedURL(ctx context.Context) (string, error) {
	if c.apiKey == "" || c.agentID == "" {
		return "", ErrNotConfigured
	}
	start := time.Now()
	u := c.base + "/v1/convai/conversation/get_signed_url?agent_id=" + url.QueryEscape(c.agentID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil { return "", err }
	req.Header.Set("xi-api-key", c.apiKey)
	resp, err := c.http.Do(req)
	if err != nil {
		metricSignedURL.WithLabelValues("error").Observe(time.Since(start).Seconds())
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		metricSignedURL.WithLabelValues("error").Observe(time.Since(start).Seconds())
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("elevenlabs SignedURL: %s: %s", resp.Status, string(b))
	}
	var parsed struct{ SignedURL string `json:"signed_url"` }
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("elevenlabs SignedURL: decode: %w", err)
	}
	if parsed.SignedURL == "" {
		return "", fmt.Errorf("elevenlabs SignedURL: empty signed_url")
	}
	metricSignedURL.WithLabelValues("ok").Observe(time.Since(start).Seconds())
	return parsed.SignedURL, nil
}
