// Package vision asks the image detection service whether a photo satisfies a prompt.
package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

var ErrNotConfigured = errors.New("vision: base url not set")

type Client struct {
	http *http.Client
	base string
}

func NewClient(base string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{http: &http.Client{Timeout: timeout}, base: base}
}

type request struct {
	ImageData string `json:"image_data"`
	Prompt    string `json:"prompt"`
}

type response struct {
	Answer bool `json:"answer"`
}

// Judge sends the base64 frame and the instruction, and returns the service verdict.
func (c *Client) Judge(ctx context.Context, imageBase64, instruction string) (bool, error) {
	if c.base == "" {
		return false, ErrNotConfigured
	}
	start := time.Now()
	var body bytes.Buffer
	if err := json.NewEncoder(&body).Encode(request{ImageData: imageBase64, Prompt: instruction}); err != nil {
		return false, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/image_detection/", &body)
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		metricJudgements.WithLabelValues("error").Observe(time.Since(start).Seconds())
		return false, err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		metricJudgements.WithLabelValues("error").Observe(time.Since(start).Seconds())
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return false, fmt.Errorf("vision: %s: %s", resp.Status, string(b))
	}
	var out response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		metricJudgements.WithLabelValues("error").Observe(time.Since(start).Seconds())
		return false, fmt.Errorf("vision: decode: %w", err)
	}
	label := "rejected"
	if out.Answer {
		label = "accepted"
	}
	metricJudgements.WithLabelValues(label).Observe(time.Since(start).Seconds())
	return out.Answer, nil
}
