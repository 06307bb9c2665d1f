package health

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"yuzu/tutor/internal/config"
)

type CheckResult struct {
	Name    string        `json:"name"`
	OK      bool          `json:"ok"`
	Latency time.Duration `json:"latency_ms"`
	Error   string        `json:"error,omitempty"`
}

type HealthStatus struct {
	OK        bool          `json:"ok"`
	Checks    []CheckResult `json:"checks"`
	CheckedAt time.Time     `json:"checked_at"`
}

func (h HealthStatus) String() string {
	status := "OK"
	if !h.OK {
		status = "FAIL"
	}
	s := fmt.Sprintf("Health: %s\n", status)
	for _, c := range h.Checks {
		mark := "✓"
		if !c.OK {
			mark = "✗"
		}
		s += fmt.Sprintf("  %s %s (%dms)", mark, c.Name, c.Latency.Milliseconds())
		if c.Error != "" {
			s += fmt.Sprintf(" - %s", c.Error)
		}
		s += "\n"
	}
	return s
}

// Pinger is a dependency that can report liveness itself, e.g. the progress db.
type Pinger interface {
	Ping(ctx context.Context) error
}

// CheckAll runs all health checks and returns combined status. db may be nil.
func CheckAll(ctx context.Context, cfg config.Config, db Pinger) HealthStatus {
	checks := []CheckResult{
		checkElevenLabs(ctx, cfg),
		checkReachable(ctx, "image_search", cfg.Images.BaseURL, "IMAGE_SEARCH_URL"),
		checkReachable(ctx, "vision", cfg.Vision.BaseURL, "VISION_URL"),
	}
	if db != nil {
		checks = append(checks, checkDB(ctx, db))
	}

	allOK := true
	for _, c := range checks {
		if !c.OK {
			allOK = false
		}
	}

	return HealthStatus{
		OK:        allOK,
		Checks:    checks,
		CheckedAt: time.Now().UTC(),
	}
}

// probe issues a GET and returns the status with up to 256 bytes of body.
func probe(ctx context.Context, url string, hdr http.Header) (int, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, "", fmt.Errorf("request build failed: %w", err)
	}
	for k, v := range hdr {
		req.Header[k] = v
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return 0, "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
	return resp.StatusCode, string(body), nil
}

func checkElevenLabs(ctx context.Context, cfg config.Config) CheckResult {
	result := CheckResult{Name: "elevenlabs"}
	switch {
	case cfg.Eleven.APIKey == "":
		result.Error = "ELEVENLABS_API_KEY not set"
		return result
	case cfg.Eleven.AgentID == "":
		result.Error = "ELEVENLABS_AGENT_ID not set"
		return result
	}

	// Reading the agent is cheap and proves both the key and the agent id.
	start := time.Now()
	url := fmt.Sprintf("%s/v1/convai/agents/%s", cfg.Eleven.BaseURL, cfg.Eleven.AgentID)
	code, body, err := probe(ctx, url, http.Header{"Xi-Api-Key": {cfg.Eleven.APIKey}})
	result.Latency = time.Since(start)

	switch {
	case err != nil:
		result.Error = err.Error()
	case code == http.StatusUnauthorized:
		result.Error = fmt.Sprintf("invalid API key (401): %s", body)
	case code == http.StatusNotFound:
		result.Error = fmt.Sprintf("agent ID %q not found", cfg.Eleven.AgentID)
	case code != http.StatusOK:
		result.Error = fmt.Sprintf("unexpected status %d: %s", code, body)
	default:
		result.OK = true
	}
	return result
}

// checkReachable passes when base answers at all below 500. The collaborators have
// no health endpoint and a real query costs money.
func checkReachable(ctx context.Context, name, base, env string) CheckResult {
	result := CheckResult{Name: name}
	if base == "" {
		result.Error = env + " not set"
		return result
	}

	start := time.Now()
	code, _, err := probe(ctx, base+"/", nil)
	result.Latency = time.Since(start)

	switch {
	case err != nil:
		result.Error = err.Error()
	case code >= 500:
		result.Error = fmt.Sprintf("unexpected status %d", code)
	default:
		result.OK = true
	}
	return result
}

func checkDB(ctx context.Context, db Pinger) CheckResult {
	start := time.Now()
	result := CheckResult{Name: "progress_db"}
	if err := db.Ping(ctx); err != nil {
		result.Error = err.Error()
	} else {
		result.OK = true
	}
	result.Latency = time.Since(start)
	return result
}
