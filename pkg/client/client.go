// Package client is the Go SDK for the LexCompare HTTP API.  It wraps the
// REST endpoints with typed sub-clients and transparent retry for transient
// failures.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const Version = "0.1.0"

// Logger is the minimal logging hook the client uses.
type Logger interface {
	Debugf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

type noopLogger struct{}

func (noopLogger) Debugf(string, ...interface{}) {}
func (noopLogger) Errorf(string, ...interface{}) {}

// Client is the LexCompare SDK client.
type Client struct {
	baseURL      string
	httpClient   *http.Client
	userAgent    string
	logger       Logger
	retryMax     int
	retryWaitMin time.Duration
	retryWaitMax time.Duration

	documents       *DocumentsClient
	documentsOnce   sync.Once
	comparisons     *ComparisonsClient
	comparisonsOnce sync.Once
}

// APIError is a decoded error response from the API.
type APIError struct {
	StatusCode int    `json:"status_code"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	RequestID  string `json:"request_id"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("lexcompare: %s (HTTP %d): %s [request_id=%s]",
		e.Code, e.StatusCode, e.Message, e.RequestID)
}

func (e *APIError) IsNotFound() bool    { return e.StatusCode == http.StatusNotFound }
func (e *APIError) IsServerError() bool { return e.StatusCode >= 500 }

// envelope mirrors the server's APIResponse wrapper.
type envelope struct {
	Success    bool            `json:"success"`
	Data       json.RawMessage `json:"data,omitempty"`
	Error      *errorDetail    `json:"error,omitempty"`
	Pagination *Pagination     `json:"pagination,omitempty"`
	RequestID  string          `json:"request_id,omitempty"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Pagination carries page metadata on list responses.
type Pagination struct {
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
	Total    int64 `json:"total,omitempty"`
}

// NewClient builds a client for the given base URL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("client: baseURL is required")
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("client: invalid baseURL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("client: baseURL scheme must be http or https")
	}

	c := &Client{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		userAgent:    "lexcompare-go-sdk/" + Version,
		logger:       noopLogger{},
		retryMax:     3,
		retryWaitMin: 500 * time.Millisecond,
		retryWaitMax: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Documents returns the documents sub-client.
func (c *Client) Documents() *DocumentsClient {
	c.documentsOnce.Do(func() {
		c.documents = &DocumentsClient{client: c}
	})
	return c.documents
}

// Comparisons returns the comparisons sub-client.
func (c *Client) Comparisons() *ComparisonsClient {
	c.comparisonsOnce.Do(func() {
		c.comparisons = &ComparisonsClient{client: c}
	})
	return c.comparisons
}

// do performs a JSON request with retry on transient failures, decoding the
// envelope's data field into result when non-nil.  Returns the pagination
// block when the response carries one.
func (c *Client) do(ctx context.Context, method, path string, body interface{}, result interface{}) (*Pagination, error) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	fullURL := c.baseURL + path

	var bodyBytes []byte
	if body != nil {
		var err error
		bodyBytes, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("client: failed to encode request body: %w", err)
		}
	}

	var lastErr error
	for attempt := 0; attempt <= c.retryMax; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(c.backoff(attempt)):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		var bodyReader io.Reader
		if bodyBytes != nil {
			bodyReader = bytes.NewReader(bodyBytes)
		}
		req, err := http.NewRequestWithContext(ctx, method, fullURL, bodyReader)
		if err != nil {
			return nil, fmt.Errorf("client: failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", c.userAgent)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			c.logger.Errorf("request failed: %v", err)
			lastErr = err
			continue
		}

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("client: failed to read response body: %w", err)
		}
		c.logger.Debugf("%s %s -> %d", method, path, resp.StatusCode)

		if resp.StatusCode >= 500 && attempt < c.retryMax {
			lastErr = decodeAPIError(resp.StatusCode, respBody)
			continue
		}
		if resp.StatusCode >= 400 {
			return nil, decodeAPIError(resp.StatusCode, respBody)
		}

		var env envelope
		if len(respBody) > 0 {
			if err := json.Unmarshal(respBody, &env); err != nil {
				return nil, fmt.Errorf("client: failed to decode response: %w", err)
			}
		}
		if result != nil && env.Data != nil {
			if err := json.Unmarshal(env.Data, result); err != nil {
				return nil, fmt.Errorf("client: failed to decode response data: %w", err)
			}
		}
		return env.Pagination, nil
	}
	return nil, fmt.Errorf("client: request failed after %d attempts: %w", c.retryMax+1, lastErr)
}

func (c *Client) backoff(attempt int) time.Duration {
	wait := c.retryWaitMin << uint(attempt-1)
	if wait > c.retryWaitMax {
		wait = c.retryWaitMax
	}
	return wait + time.Duration(rand.Int63n(int64(c.retryWaitMin)))
}

func decodeAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status, Code: http.StatusText(status)}
	var env envelope
	if len(body) > 0 && json.Unmarshal(body, &env) == nil {
		apiErr.RequestID = env.RequestID
		if env.Error != nil {
			apiErr.Code = env.Error.Code
			apiErr.Message = env.Error.Message
		}
	}
	return apiErr
}
