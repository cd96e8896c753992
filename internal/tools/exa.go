package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultExaBaseURL = "https://api.exa.ai"

// ExaClient is a thin client for the Exa AI HTTP API, shared by the search,
// contents, and research tools.
type ExaClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewExaClient constructs a client for api.exa.ai.
func NewExaClient(apiKey string) *ExaClient {
	return &ExaClient{
		apiKey:  apiKey,
		baseURL: defaultExaBaseURL,
		client:  &http.Client{},
	}
}

// configured reports whether an API key is present.
func (c *ExaClient) configured() bool {
	return c.apiKey != ""
}

// postJSON posts a JSON payload and returns the response body and status.
// The timeout bounds the individual request, not the caller's context.
func (c *ExaClient) postJSON(ctx context.Context, path string, payload any, timeout time.Duration) ([]byte, int, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, 0, err
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	return c.do(req)
}

// getJSON issues a GET and returns the response body and status.
func (c *ExaClient) getJSON(ctx context.Context, path string, timeout time.Duration) ([]byte, int, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("x-api-key", c.apiKey)

	return c.do(req)
}

func (c *ExaClient) do(req *http.Request) ([]byte, int, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, resp.StatusCode, nil
}
