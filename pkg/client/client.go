package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// DefaultBaseURL is used when no base URL is configured.
const DefaultBaseURL = "http://localhost:8080"

// Error is returned for non-2xx backend responses. Its message is the
// backend supplied detail when present, otherwise the raw body text, and
// "HTTP <status>" when the body is empty.
type Error struct {
	Status int
	Body   string
	Detail string
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	if body := strings.TrimSpace(e.Body); body != "" {
		return body
	}
	return fmt.Sprintf("HTTP %d", e.Status)
}

// Client talks to the document backend REST API.
type Client struct {
	base   string
	http   *resty.Client
	logger *zap.SugaredLogger
}

// Option configures a Client.
type Option func(*Client)

// WithToken sets the Authorization bearer token.
func WithToken(tok string) Option {
	return func(c *Client) {
		if tok != "" {
			c.http.SetAuthToken(tok)
		}
	}
}

// WithTimeout bounds every request. Zero leaves requests unbounded.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.SetTimeout(d)
		}
	}
}

// WithHTTPClient swaps the underlying transport client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = resty.NewWithClient(hc).SetBaseURL(c.base)
		}
	}
}

// WithLogger routes client diagnostics to logger.
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New returns a Client for the given base URL. Requests are never retried.
func New(base string, opts ...Option) *Client {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	c := &Client{
		base:   base,
		http:   resty.New().SetBaseURL(base),
		logger: zap.NewNop().Sugar(),
	}
	for _, o := range opts {
		if o != nil {
			o(c)
		}
	}
	c.http.SetLogger(c.logger)
	c.http.SetRetryCount(0)
	return c
}

// BaseURL reports the configured API root.
func (c *Client) BaseURL() string {
	return c.base
}

// ResolveURL turns a backend relative link into an absolute URL.
func (c *Client) ResolveURL(u string) string {
	if u == "" || strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://") {
		return u
	}
	if !strings.HasPrefix(u, "/") {
		u = "/" + u
	}
	return c.base + u
}

func (c *Client) check(resp *resty.Response) error {
	if !resp.IsError() && resp.StatusCode() < 300 {
		return nil
	}
	err := &Error{Status: resp.StatusCode(), Body: string(resp.Body())}
	c.logger.Debugw("backend request failed",
		"method", resp.Request.Method,
		"url", resp.Request.URL,
		"status", resp.StatusCode(),
	)
	return err
}

// checkJSON behaves like check but prefers an {"error": "..."} detail from
// the body.
func (c *Client) checkJSON(resp *resty.Response) error {
	err := c.check(resp)
	if err == nil {
		return nil
	}
	apiErr := err.(*Error)
	var body struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(resp.Body(), &body) == nil && body.Error != "" {
		apiErr.Detail = body.Error
	} else {
		apiErr.Detail = fmt.Sprintf("HTTP %d", resp.StatusCode())
	}
	return apiErr
}

func decode(resp *resty.Response, out any) error {
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("client: decode %s: %w", resp.Request.URL, err)
	}
	return nil
}

// decodeList decodes a JSON array into out. Any other body shape leaves
// out empty.
func decodeList[T any](resp *resty.Response) ([]T, error) {
	body := bytes.TrimSpace(resp.Body())
	if len(body) == 0 || body[0] != '[' {
		return []T{}, nil
	}
	var out []T
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("client: decode %s: %w", resp.Request.URL, err)
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}
