package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fairwaylabs/caddie/internal/core/domain"
	"github.com/google/uuid"
)

// Client talks to the scheduling backend over HTTP JSON.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a backend client. The timeout covers a single request;
// slow cold starts are handled by the retry layer, not here.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: cfg.BaseURL,
		token:   cfg.Token,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// SubmitResponse upserts a user's response for a session. The payload always
// carries the full field set. Returns the server's echo of the stored record.
func (c *Client) SubmitResponse(ctx context.Context, sessionID string, payload SubmitPayload) (*domain.Response, error) {
	path := fmt.Sprintf("/sessions/%s/responses", sessionID)
	var resp domain.Response
	if err := c.do(ctx, http.MethodPost, path, payload, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeleteResponse removes a user's response for a session. Returns the deleted
// record when the backend echoes it.
func (c *Client) DeleteResponse(ctx context.Context, sessionID, userID string) (*domain.Response, error) {
	path := fmt.Sprintf("/sessions/%s/responses/%s", sessionID, userID)
	var resp domain.Response
	if err := c.do(ctx, http.MethodDelete, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// FetchSession reads a session with its full roster.
func (c *Client) FetchSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	path := fmt.Sprintf("/sessions/%s", sessionID)
	var session domain.Session
	if err := c.do(ctx, http.MethodGet, path, nil, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	// Correlation ID for log matching only. Retried attempts get fresh IDs
	// and may duplicate a write server-side; the backend's upsert-by-key
	// semantics make that harmless and we do not deduplicate.
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &Error{Message: err.Error(), HTTPStatus: 0}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Message: fmt.Sprintf("read response: %v", err), HTTPStatus: 0}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &Error{Message: errorMessage(resp.StatusCode, data), HTTPStatus: resp.StatusCode}
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// errorMessage prefers the backend's {"error": "..."} body over raw bytes.
func errorMessage(status int, body []byte) string {
	var parsed struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error != "" {
		return parsed.Error
	}
	return fmt.Sprintf("http %d: %s", status, string(body))
}
