// Package client provides an HTTP client for the Amorph server and a live
// comparison view that keeps a document in sync with the user's selection.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/Shadojus/amorph/internal/metrics"
	"github.com/Shadojus/amorph/internal/models"
	"github.com/Shadojus/amorph/internal/service"
)

// Client is an HTTP client for the Amorph server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a new client.
// If baseURL is empty, uses AMORPH_SERVER_URL env var or defaults to localhost:8484.
// Timeout can be configured via AMORPH_CLIENT_TIMEOUT env var (default 30s).
func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = os.Getenv("AMORPH_SERVER_URL")
	}
	if baseURL == "" {
		baseURL = "http://localhost:8484"
	}

	timeout := 30 * time.Second
	if t := os.Getenv("AMORPH_CLIENT_TIMEOUT"); t != "" {
		if d, err := time.ParseDuration(t); err == nil {
			timeout = d
		}
	}

	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server error: %d %s", e.Code, http.StatusText(e.Code))
	}
	return fmt.Sprintf("server error: %d %s", e.Code, e.Message)
}

// do sends a request and decodes a JSON response into result, or returns
// the raw body when result is nil.
func (c *Client) do(ctx context.Context, method, path string, body, result any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal(data, &e)
		return nil, &StatusError{Code: resp.StatusCode, Message: e.Error}
	}

	if result != nil {
		if err := json.Unmarshal(data, result); err != nil {
			return nil, fmt.Errorf("unmarshal response: %w", err)
		}
	}
	return data, nil
}

// Compare renders the selections on the server.
func (c *Client) Compare(ctx context.Context, req models.CompareRequest) (*models.CompareResponse, error) {
	var resp models.CompareResponse
	if _, err := c.do(ctx, http.MethodPost, "/api/compare", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Species returns the rendered page markup of one species.
func (c *Client) Species(ctx context.Context, slug, perspective string) (string, error) {
	path := "/species/" + url.PathEscape(slug)
	if perspective != "" {
		path += "?perspective=" + url.QueryEscape(perspective)
	}
	data, err := c.do(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Search returns the rendered search grid for query.
func (c *Client) Search(ctx context.Context, query string, limit int) (*service.Grid, error) {
	q := url.Values{"q": {query}, "format": {"json"}}
	if limit > 0 {
		q.Set("limit", fmt.Sprint(limit))
	}
	var grid service.Grid
	if _, err := c.do(ctx, http.MethodGet, "/search?"+q.Encode(), nil, &grid); err != nil {
		return nil, err
	}
	return &grid, nil
}

// Palette returns the server's entity colors in order.
func (c *Client) Palette(ctx context.Context) ([]string, error) {
	var colors []string
	if _, err := c.do(ctx, http.MethodGet, "/api/palette", nil, &colors); err != nil {
		return nil, err
	}
	return colors, nil
}

// Stats returns the server's runtime statistics.
func (c *Client) Stats(ctx context.Context) (*metrics.Snapshot, error) {
	var snap metrics.Snapshot
	if _, err := c.do(ctx, http.MethodGet, "/metrics", nil, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}
