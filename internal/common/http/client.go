// internal/common/http/client.go
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// StatusError is returned when the server answers with a non-2xx status
// after all retries.
type StatusError struct {
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.StatusCode)
}

// Client is a small JSON client with bounded exponential-backoff retries.
// Deadlines come from the request context; the client itself sets none.
type Client struct {
	httpClient  *http.Client
	maxRetries  int
	baseBackoff time.Duration
}

func NewClient(maxRetries int) *Client {
	return &Client{
		httpClient:  &http.Client{},
		maxRetries:  maxRetries,
		baseBackoff: 100 * time.Millisecond,
	}
}

// WithBackoff sets the first retry delay; later delays double.
func (c *Client) WithBackoff(d time.Duration) *Client {
	c.baseBackoff = d
	return c
}

// PostJSON marshals payload, POSTs it and returns the raw response body of
// the first 2xx answer. 429 and 5xx answers and transport errors are retried.
func (c *Client) PostJSON(ctx context.Context, url string, headers map[string]string, payload interface{}) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := c.baseBackoff * time.Duration(1<<(attempt-1))
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		for k, v := range headers {
			req.Header.Set(k, v)
		}

		respBody, status, err := c.do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = err
			continue
		}
		if status >= 200 && status < 300 {
			return respBody, nil
		}

		lastErr = &StatusError{StatusCode: status, Body: respBody}
		if status != http.StatusTooManyRequests && status < 500 {
			return nil, lastErr
		}
	}
	return nil, lastErr
}

func (c *Client) do(req *http.Request) ([]byte, int, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read response: %w", err)
	}
	return data, resp.StatusCode, nil
}
