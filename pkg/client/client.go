package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/net/publicsuffix"
)

// Observer is told about every upstream call once it completes.
// endpoint is the path template (e.g. "/api/units/%d"), not the expanded path.
type Observer func(method, endpoint string, status int, duration time.Duration)

// Client talks to the property-management API. Authentication is carried by
// the cookies held in the HTTP client's jar.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	observe    Observer
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.HTTPClient = hc
	}
}

// WithObserver registers a callback for per-call metrics.
func WithObserver(o Observer) Option {
	return func(c *Client) {
		c.observe = o
	}
}

// NewClient creates a client for baseURL with its own cookie jar.
func NewClient(baseURL string, opts ...Option) *Client {
	jar, _ := NewJar()
	c := &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 15 * time.Second, Jar: jar},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewJar returns a cookie jar that follows the public suffix list.
func NewJar() (http.CookieJar, error) {
	return cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
}

// NewTransport wraps base with OpenTelemetry client instrumentation.
func NewTransport(base http.RoundTripper) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	return otelhttp.NewTransport(base)
}

// Cookies returns the session cookies the jar holds for the API origin.
func (c *Client) Cookies() []*http.Cookie {
	u, err := url.Parse(c.BaseURL)
	if err != nil || c.HTTPClient.Jar == nil {
		return nil
	}
	return c.HTTPClient.Jar.Cookies(u)
}

// SetCookies seeds the jar, e.g. when a stored session is restored.
func (c *Client) SetCookies(cookies []*http.Cookie) {
	u, err := url.Parse(c.BaseURL)
	if err != nil || c.HTTPClient.Jar == nil || len(cookies) == 0 {
		return
	}
	c.HTTPClient.Jar.SetCookies(u, cookies)
}

// ResetCookies drops every cookie by giving the client a fresh jar.
func (c *Client) ResetCookies() {
	jar, err := NewJar()
	if err != nil {
		return
	}
	c.HTTPClient.Jar = jar
}

// ActionResult is the envelope of the composite endpoints.
type ActionResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (c *Client) get(ctx context.Context, out any, endpoint string, args ...any) error {
	return c.do(ctx, http.MethodGet, nil, out, endpoint, args...)
}

func (c *Client) post(ctx context.Context, in, out any, endpoint string, args ...any) error {
	return c.do(ctx, http.MethodPost, in, out, endpoint, args...)
}

func (c *Client) put(ctx context.Context, in, out any, endpoint string, args ...any) error {
	return c.do(ctx, http.MethodPut, in, out, endpoint, args...)
}

func (c *Client) patch(ctx context.Context, in, out any, endpoint string, args ...any) error {
	return c.do(ctx, http.MethodPatch, in, out, endpoint, args...)
}

func (c *Client) delete(ctx context.Context, endpoint string, args ...any) error {
	return c.do(ctx, http.MethodDelete, nil, nil, endpoint, args...)
}

// do sends one request. String arguments are path-escaped before they are
// substituted into endpoint.
func (c *Client) do(ctx context.Context, method string, in, out any, endpoint string, args ...any) error {
	for i, a := range args {
		if s, ok := a.(string); ok {
			args[i] = url.PathEscape(s)
		}
	}
	path := endpoint
	if len(args) > 0 {
		path = fmt.Sprintf(endpoint, args...)
	}

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return &Error{Kind: KindValidation, Message: "invalid request data", Method: method, Path: path, Err: err}
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return &Error{Kind: KindTransport, Message: "could not build request", Method: method, Path: path, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		c.record(method, endpoint, 0, start)
		msg := "Unable to reach the property service"
		if errors.Is(err, context.DeadlineExceeded) {
			msg = "The property service did not respond in time"
		}
		return &Error{Kind: KindTransport, Message: msg, Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()
	c.record(method, endpoint, resp.StatusCode, start)

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Kind: KindTransport, Status: resp.StatusCode, Message: "Unable to read the property service response", Method: method, Path: path, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(method, path, resp.StatusCode, respBody)
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return &Error{Kind: KindDecode, Status: resp.StatusCode, Message: "Unexpected response from the property service", Method: method, Path: path, Err: err}
	}
	return nil
}

func (c *Client) record(method, endpoint string, status int, start time.Time) {
	if c.observe != nil {
		c.observe(method, endpoint, status, time.Since(start))
	}
}

// checkResult converts a 2xx envelope reporting failure into an error.
func checkResult(method, path string, r ActionResult) error {
	if r.Success {
		return nil
	}
	msg := r.Message
	if msg == "" {
		msg = "The property service rejected the request"
	}
	return &Error{Kind: KindInvalid, Status: http.StatusOK, Message: msg, Method: method, Path: path}
}
