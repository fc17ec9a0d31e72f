// Package gateway is the storefront's only way to reach the Rumal API gateway.
// It injects bearer tokens, rate limits outgoing calls and turns failures into
// a single error type with a human readable message.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

type Config struct {
	BaseURL string
	Timeout time.Duration
	RPS     float64
	Burst   int
}

// Client is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
	limiter    *rate.Limiter
	logger     *slog.Logger
	userAgent  string
}

type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client (tests use httptest clients).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

func New(cfg Config, logger *slog.Logger, opts ...Option) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("gateway: base URL is required")
	}
	u, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("gateway: invalid base URL: %w", err)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	limit := rate.Inf
	if cfg.RPS > 0 {
		limit = rate.Limit(cfg.RPS)
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	c := &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		baseURL:   u,
		limiter:   rate.NewLimiter(limit, cfg.Burst),
		logger:    logger,
		userAgent: "rumal-storefront/1.0",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Request describes one gateway call. Token is the caller's bearer access
// token; empty for public endpoints.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
	Token  string
}

// Do executes the request and decodes a JSON response into out (if non-nil).
// Calls are never retried: a failure is reported to the user instead.
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return &Error{Path: req.Path, Message: "Request cancelled", Err: err}
	}

	u := c.buildURL(req.Path, req.Query)

	var body io.Reader
	if req.Body != nil {
		b, err := json.Marshal(req.Body)
		if err != nil {
			return fmt.Errorf("gateway: marshal %s body: %w", req.Path, err)
		}
		body = bytes.NewReader(b)
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("gateway: build request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if req.Token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.Token)
	}
	if rid, ok := ctx.Value(requestIDKey{}).(string); ok && rid != "" {
		httpReq.Header.Set("X-Request-ID", rid)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		gerr := &Error{Path: req.Path, Message: transportMessage(ctx, err), Err: err}
		c.logFailure(ctx, method, req.Path, gerr, time.Since(start))
		return gerr
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		gerr := &Error{Status: resp.StatusCode, Path: req.Path, Message: "Could not read the server response", Err: err}
		c.logFailure(ctx, method, req.Path, gerr, time.Since(start))
		return gerr
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		gerr := &Error{
			Status:  resp.StatusCode,
			Path:    req.Path,
			Message: MessageFrom(resp.StatusCode, raw),
		}
		c.logFailure(ctx, method, req.Path, gerr, time.Since(start))
		return gerr
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &Error{Status: resp.StatusCode, Path: req.Path, Message: "Unexpected response from the server", Err: err}
	}
	return nil
}

func (c *Client) Get(ctx context.Context, path string, q url.Values, token string, out any) error {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: path, Query: q, Token: token}, out)
}

func (c *Client) Post(ctx context.Context, path string, body any, token string, out any) error {
	return c.Do(ctx, Request{Method: http.MethodPost, Path: path, Body: body, Token: token}, out)
}

func (c *Client) Put(ctx context.Context, path string, body any, token string, out any) error {
	return c.Do(ctx, Request{Method: http.MethodPut, Path: path, Body: body, Token: token}, out)
}

func (c *Client) Patch(ctx context.Context, path string, body any, token string, out any) error {
	return c.Do(ctx, Request{Method: http.MethodPatch, Path: path, Body: body, Token: token}, out)
}

func (c *Client) Delete(ctx context.Context, path string, token string) error {
	return c.Do(ctx, Request{Method: http.MethodDelete, Path: path, Token: token}, nil)
}

// BaseURL returns the configured gateway root.
func (c *Client) BaseURL() string { return c.baseURL.String() }

func (c *Client) buildURL(path string, q url.Values) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + path
	if len(q) > 0 {
		u.RawQuery = q.Encode()
	}
	return u.String()
}

func (c *Client) logFailure(ctx context.Context, method, path string, err *Error, latency time.Duration) {
	c.logger.LogAttrs(ctx, slog.LevelWarn, "gateway_call_failed",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", err.Status),
		slog.String("message", err.Message),
		slog.Duration("latency", latency),
	)
}

func transportMessage(ctx context.Context, err error) string {
	if ctx.Err() != nil {
		return "Request cancelled"
	}
	if err != nil && err.Error() != "" {
		return "Could not reach the store: " + err.Error()
	}
	return "Request failed"
}

type requestIDKey struct{}

// WithRequestID propagates the storefront request id to the gateway.
func WithRequestID(ctx context.Context, rid string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, rid)
}
