// Package client calls the contract API over HTTP. It implements app.Store and
// app.Authenticator for the terminal client.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/contractgov/contract-api/internal/domain"
	"github.com/contractgov/contract-api/internal/service"
	"go.uber.org/zap"
)

const apiPrefix = "/api/v1"

// TokenSource supplies the bearer token of the active session
type TokenSource interface {
	Token() string
}

// Client is an HTTP client for the contract API
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	userAgent  string
	logger     *zap.Logger
}

// Option configures a Client
type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a client for the server at baseURL, e.g. http://localhost:8080
func New(baseURL string, tokens TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		tokens:     tokens,
		userAgent:  "contractgov-cli",
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// do sends a request and decodes a JSON response into out when out is non-nil.
// Authenticated requests fail with service.ErrUnauthorized before any network
// call when no token is available.
func (c *Client) do(ctx context.Context, method, path string, authenticated bool, body, out interface{}) error {
	resp, err := c.send(ctx, method, path, authenticated, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// send returns the open response on success; the caller closes its body
func (c *Client) send(ctx context.Context, method, path string, authenticated bool, body interface{}) (*http.Response, error) {
	var token string
	if authenticated {
		token = c.tokens.Token()
		if token == "" {
			return nil, service.ErrUnauthorized
		}
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+apiPrefix+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call %s %s: %w", method, path, err)
	}
	c.logger.Debug("api call",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode >= 300 {
		defer resp.Body.Close()
		return nil, decodeError(resp)
	}
	return resp, nil
}

// decodeError turns an error response into an error that matches both the
// service sentinel for its status and the decoded *domain.APIError
func decodeError(resp *http.Response) error {
	apiErr := &domain.APIError{Status: resp.StatusCode, Title: http.StatusText(resp.StatusCode)}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, apiErr)
	}

	sentinel := sentinelFor(resp.StatusCode)
	if sentinel == nil {
		return apiErr
	}
	return fmt.Errorf("%w: %w", sentinel, apiErr)
}

func sentinelFor(status int) error {
	switch status {
	case http.StatusUnauthorized:
		return service.ErrUnauthorized
	case http.StatusNotFound:
		return service.ErrNotFound
	case http.StatusBadRequest:
		return service.ErrInvalidInput
	case http.StatusConflict:
		return service.ErrConflict
	case http.StatusServiceUnavailable:
		return service.ErrStorageUnavailable
	default:
		return nil
	}
}

// APIErrorFrom extracts the server's error body, if err carries one
func APIErrorFrom(err error) (*domain.APIError, bool) {
	var apiErr *domain.APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
