// Package supabase provides a minimal PostgREST client for the hosted store.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"pagesync/internal/logger"
)

// Client errors.
var (
	ErrUnexpectedStatusCode = errors.New("unexpected status code")
)

const maxResponseBytes = 10 * 1024 * 1024

// RESTClient defines the PostgREST operations the pipeline uses.
type RESTClient interface {
	Upsert(ctx context.Context, table string, rows any) error
	Select(ctx context.Context, table, columns string, out any) error
	RPC(ctx context.Context, fn string, args any, out any) error
}

// Ensure Client implements RESTClient.
var _ RESTClient = (*Client)(nil)

// Client talks to a Supabase project's REST endpoint using the service-role key.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	logger     *logger.Logger
}

// NewClient creates a new client for the given project URL and key.
func NewClient(baseURL, apiKey string, log *logger.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: log,
	}
}

// Upsert sends rows to the table with merge-duplicates conflict resolution,
// so existing rows with the same primary key are overwritten.
func (c *Client) Upsert(ctx context.Context, table string, rows any) error {
	endpoint := fmt.Sprintf("%s/rest/v1/%s", c.baseURL, url.PathEscape(table))

	body, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("failed to marshal rows: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	c.setHeaders(req)
	req.Header.Set("Prefer", "resolution=merge-duplicates,return=minimal")

	return c.do(req, nil)
}

// Select fetches the given columns of every row in the table.
func (c *Client) Select(ctx context.Context, table, columns string, out any) error {
	endpoint := fmt.Sprintf("%s/rest/v1/%s?select=%s",
		c.baseURL, url.PathEscape(table), url.QueryEscape(columns))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	c.setHeaders(req)

	return c.do(req, out)
}

// RPC invokes a stored function with the given arguments.
func (c *Client) RPC(ctx context.Context, fn string, args any, out any) error {
	endpoint := fmt.Sprintf("%s/rest/v1/rpc/%s", c.baseURL, url.PathEscape(fn))

	body, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("failed to marshal arguments: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	c.setHeaders(req)

	return c.do(req, out)
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
}

func (c *Client) do(req *http.Request, out any) error {
	if c.logger != nil {
		c.logger.Debug("supabase request", "method", req.Method, "url", req.URL.Path)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		if c.logger != nil {
			c.logger.Error("supabase request failed",
				"status", resp.StatusCode, "body", truncate(string(body), 500))
		}

		return fmt.Errorf("%w: %d: %s", ErrUnexpectedStatusCode, resp.StatusCode, truncate(string(body), 500))
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}

	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}

	return s[:n] + "..."
}
