// Package api is a client for the task-management REST API. Every response is
// wrapped in the {success, message, data} envelope; list endpoints add pagination.
package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"

	"github.com/Makepad-fr/tada-kanban/internal/logging"
)

// TokenSource supplies the bearer token for each request.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	log     logrus.FieldLogger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Client) { c.log = l }
}

// New creates a client for the API rooted at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		log:     logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// do sends one request. body, when non-nil, is sent as JSON; out, when
// non-nil, receives the decoded response.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		b, err := sonic.ConfigStd.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	reqID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", reqID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		tok, err := c.tokens.Token(ctx)
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	entry := c.log.WithFields(logrus.Fields{
		"method":     method,
		"path":       path,
		"request_id": reqID,
		"duration":   time.Since(start),
	})
	if err != nil {
		entry.WithError(err).Debug("request failed")
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	entry = entry.WithField("status", resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		entry.WithError(err).Debug("read body failed")
		return fmt.Errorf("%s %s: read body: %w", method, path, err)
	}

	if apiErr := responseError(resp, raw, reqID); apiErr != nil {
		entry.WithField("message", apiErr.Message).Debug("request rejected")
		return apiErr
	}
	entry.Debug("request done")

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := sonic.ConfigStd.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", method, path, err)
	}
	return nil
}

// responseError turns a non-2xx status, or a 2xx envelope with success=false,
// into an *Error.
func responseError(resp *http.Response, raw []byte, reqID string) *Error {
	var msg string
	if gjson.ValidBytes(raw) {
		msg = gjson.GetBytes(raw, "message").String()
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &Error{StatusCode: resp.StatusCode, Message: msg, RequestID: reqID}
	}

	if gjson.ValidBytes(raw) {
		if s := gjson.GetBytes(raw, "success"); s.Exists() && s.Type == gjson.False {
			if msg == "" {
				msg = "request unsuccessful"
			}
			return &Error{StatusCode: resp.StatusCode, Message: msg, RequestID: reqID}
		}
	}
	return nil
}
