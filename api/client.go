// Package api is the typed HTTP layer over the EcoQuest backend: a thin
// transport client plus a tag-indexed response cache with declarative
// invalidation.
package api

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

	"github.com/Slayer-Regen/ecoquest-client/session"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

const defaultRequestTimeout = 15 * time.Second

// Client issues requests against the backend. Every call carries the
// session's bearer token when one is held; without a token the request goes
// out unauthenticated and the server decides whether that is an error.
// The client never retries.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     oauth2.TokenSource
}

type ClientOption func(*Client)

// WithHTTPClient replaces the underlying transport (primarily for tests).
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeout bounds each request. Zero restores the default.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		if timeout <= 0 {
			timeout = defaultRequestTimeout
		}
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a client rooted at baseURL. tokens may be nil for a
// permanently unauthenticated client.
func NewClient(baseURL string, tokens oauth2.TokenSource, options ...ClientOption) *Client {
	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultRequestTimeout},
		tokens:     tokens,
	}
	for _, opt := range options {
		opt(client)
	}
	return client
}

// BaseURL returns the configured backend root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// LoginURL is the full-page navigation target that starts the OAuth
// round-trip; it is not an API call.
func (c *Client) LoginURL() string {
	return c.baseURL + "/api/auth/google"
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) del(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

// do sends one request and decodes the JSON envelope into out. Failures are
// returned, never retried: transport errors wrapped, envelope failures and
// non-2xx statuses as *APIError (401/403 matching ErrUnauthorized).
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if err := c.authorize(req); err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		if resp.StatusCode >= 400 {
			return &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		}
		return nil
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		if resp.StatusCode >= 400 {
			return &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		}
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if resp.StatusCode >= 400 || !env.Success {
		apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		if resp.StatusCode < 400 {
			apiErr.Status = 0
		}
		if env.Error != nil {
			apiErr.Message = env.Error.Message
			apiErr.Code = env.Error.Code
		}
		log.Debug().Str("method", method).Str("path", path).Int("status", resp.StatusCode).Msg("API request rejected")
		return apiErr
	}

	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("failed to decode response data: %w", err)
	}
	return nil
}

// authorize attaches the bearer token when the session holds one. A missing
// session is not an error here.
func (c *Client) authorize(req *http.Request) error {
	if c.tokens == nil {
		return nil
	}
	token, err := c.tokens.Token()
	if errors.Is(err, session.ErrNoSession) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read session token: %w", err)
	}
	token.SetAuthHeader(req)
	return nil
}
