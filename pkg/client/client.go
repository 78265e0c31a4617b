// Package client is the HTTP client for the drone dispatch backend.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/airmesh/fleet-ops/pkg/logger"
)

// Dispatch is the client for the dispatch REST API that supplies orders,
// drones, zones, and routes. All reads are poll-based; the operations board
// never writes back.
type Dispatch struct {
	baseURL    string
	apiToken   string
	httpClient *http.Client
}

// Config holds the configuration for the Dispatch client.
type Config struct {
	BaseURL  string
	APIToken string
	Timeout  time.Duration
}

// NewClient creates a Dispatch client with the given configuration.
func NewClient(cfg Config) (*Dispatch, error) {
	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Dispatch{
		baseURL:    u.String(),
		apiToken:   cfg.APIToken,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// get performs an authenticated GET and returns the raw body. A 404 is
// reported as errNotFound so callers can treat absence as a normal
// condition.
func (c *Dispatch) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if c.apiToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Errorf("failed to close response body: %v", err)
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, errNotFound
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	return body, nil
}

var errNotFound = fmt.Errorf("not found")

// Ping validates connectivity to the dispatch backend.
func (c *Dispatch) Ping(ctx context.Context) error {
	_, err := c.get(ctx, "/api/drones", nil)
	if err == errNotFound {
		return nil
	}
	return err
}

// decodeJSON decodes a JSON body into v.
func decodeJSON(data []byte, v interface{}) error {
	return json.NewDecoder(bytes.NewReader(data)).Decode(v)
}
