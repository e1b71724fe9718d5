// Package crawler fetches pages over HTTP and reduces them to markdown.
package crawler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"pagesync/internal/config"
)

// ErrUnexpectedStatusCode indicates an HTTP response with unexpected status.
var ErrUnexpectedStatusCode = errors.New("unexpected status code")

// Scraper fetches page HTML with config-driven retry behavior.
type Scraper struct {
	client       *http.Client
	fetch        *config.FetchConfig
	bufferSizeKb int
}

// NewScraper creates a scraper from the fetch configuration.
func NewScraper(fetch *config.FetchConfig) *Scraper {
	bufferKb := fetch.BufferSizeKb
	if bufferKb <= 0 {
		bufferKb = 4096
	}

	return &Scraper{
		client: &http.Client{
			Timeout: fetch.Timeout(),
		},
		fetch:        fetch,
		bufferSizeKb: bufferKb,
	}
}

// Fetch retrieves the body of url as a string, retrying transient failures
// with exponential backoff.
func (s *Scraper) Fetch(ctx context.Context, url string) (string, error) {
	var lastErr error

	for attempt := 1; attempt <= s.fetch.MaxAttempts; attempt++ {
		if attempt > 1 {
			if delay := s.fetch.RetryDelay(attempt); delay > 0 {
				select {
				case <-time.After(delay):
				case <-ctx.Done():
					return "", ctx.Err()
				}
			}
		}

		body, status, err := s.fetchOnce(ctx, url)
		if err == nil {
			return body, nil
		}

		lastErr = fmt.Errorf("attempt %d/%d: %w", attempt, s.fetch.MaxAttempts, err)

		// Non-retryable HTTP errors are final regardless of attempts left.
		if status != 0 && !isRetryableStatus(status) {
			break
		}
	}

	return "", lastErr
}

func (s *Scraper) fetchOnce(ctx context.Context, url string) (string, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", "pagesync-crawler/1.0")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", resp.StatusCode, fmt.Errorf("%w: %d", ErrUnexpectedStatusCode, resp.StatusCode)
	}

	limit := int64(s.bufferSizeKb) * 1024

	body, err := io.ReadAll(io.LimitReader(resp.Body, limit))
	if err != nil {
		return "", resp.StatusCode, fmt.Errorf("failed to read response body: %w", err)
	}

	return string(body), resp.StatusCode, nil
}

// isRetryableStatus determines if a status code represents a temporary failure.
func isRetryableStatus(statusCode int) bool {
	switch statusCode {
	case http.StatusRequestTimeout,
		http.StatusTooManyRequests,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}

	return false
}
