package cache

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPConfig configures an HTTPFetcher.
type HTTPConfig struct {
	Timeout   time.Duration // Per-request timeout. Default: 30s.
	MaxBytes  int64         // Max response body size. Default: 32MB.
	UserAgent string
}

func (c *HTTPConfig) defaults() {
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	if c.MaxBytes <= 0 {
		c.MaxBytes = 32 << 20
	}
	if c.UserAgent == "" {
		c.UserAgent = "go-mdnannotate/1.0"
	}
}

// HTTPFetcher retrieves resources over HTTP(S).
type HTTPFetcher struct {
	client *http.Client
	config HTTPConfig
}

// NewHTTPFetcher creates an HTTPFetcher with cfg, filling in defaults.
func NewHTTPFetcher(cfg HTTPConfig) *HTTPFetcher {
	cfg.defaults()
	return &HTTPFetcher{
		client: &http.Client{
			Timeout: cfg.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 5 {
					return fmt.Errorf("too many redirects (%d)", len(via))
				}
				return nil
			},
		},
		config: cfg,
	}
}

// Fetch performs a GET and returns the body of a 2xx response.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("User-Agent", f.config.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http get: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %d", ErrHTTPStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.config.MaxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}

// Compile-time interface checks.
var (
	_ Fetcher = (*HTTPFetcher)(nil)
	_ Fetcher = FetcherFunc(nil)
)
