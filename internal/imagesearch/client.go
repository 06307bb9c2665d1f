// Package imagesearch talks to the image search proxy used for photo quizzes.
package imagesearch

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

var (
	ErrNotConfigured = errors.New("imagesearch: base url not set")
	ErrNoResults     = errors.New("imagesearch: no results")
)

type Result struct {
	Image struct {
		S3URL       string `json:"s3url"`
		FallbackURL string `json:"fallback_url"`
	} `json:"image"`
}

type Options struct {
	BaseURL   string
	APIKey    string
	Model     string
	Aspect    string
	ImageType string
	Timeout   time.Duration
}

type Client struct {
	http *http.Client
	opts Options
}

func NewClient(opts Options) *Client {
	if opts.Model == "" {
		opts.Model = "bing"
	}
	if opts.Aspect == "" {
		opts.Aspect = "All"
	}
	if opts.ImageType == "" {
		opts.ImageType = "Photo"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 8 * time.Second
	}
	return &Client{http: &http.Client{Timeout: opts.Timeout}, opts: opts}
}

// Search returns the candidate images for query in ranking order.
func (c *Client) Search(ctx context.Context, query string) ([]Result, error) {
	if c.opts.BaseURL == "" {
		return nil, ErrNotConfigured
	}
	start := time.Now()
	q := url.Values{}
	q.Set("query", query)
	q.Set("model", c.opts.Model)
	q.Set("aspect", c.opts.Aspect)
	q.Set("image_type", c.opts.ImageType)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.opts.BaseURL+"/get_images?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	if c.opts.APIKey != "" {
		req.Header.Set("apiKey", c.opts.APIKey)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		metricSearches.WithLabelValues("error").Observe(time.Since(start).Seconds())
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		metricSearches.WithLabelValues("error").Observe(time.Since(start).Seconds())
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("imagesearch: %s: %s", resp.Status, string(b))
	}
	var out []Result
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		metricSearches.WithLabelValues("error").Observe(time.Since(start).Seconds())
		return nil, fmt.Errorf("imagesearch: decode: %w", err)
	}
	metricSearches.WithLabelValues("ok").Observe(time.Since(start).Seconds())
	return out, nil
}

// First returns the primary and fallback URL of the top result.
func (c *Client) First(ctx context.Context, query string) (primary, fallback string, err error) {
	res, err := c.Search(ctx, query)
	if err != nil {
		return "", "", err
	}
	for _, r := range res {
		if r.Image.S3URL != "" || r.Image.FallbackURL != "" {
			primary, fallback = r.Image.S3URL, r.Image.FallbackURL
			if primary == "" {
				primary = fallback
			}
			return primary, fallback, nil
		}
	}
	return "", "", ErrNoResults
}
