// Package api implements the HTTP gateway client for the expo backend: one
// request wrapper normalizing every response into the shared envelope shape,
// plus per-resource bindings built on top of it.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/fist-o/expoadmin/internal/logging"
)

// TokenSource supplies the current bearer credential, or "" when the caller
// is anonymous. The session store owns the token; the client only attaches it.
type TokenSource func() string

// Client issues requests against one base URL and normalizes every outcome
// into an Envelope. HTTP non-2xx responses are returned as unsuccessful
// envelopes so callers can branch without error handling; only transport
// failures (unreachable host, malformed body) produce an error, and that
// error is always a *TransportError.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	log     logging.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client (used by tests).
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithTokenSource sets the bearer-credential supplier.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// NewClient builds a Client for the given base URL, e.g.
// "https://www.fist-o.com/eco_energy/api".
func NewClient(baseURL string, log logging.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		log:     log,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// SetTokenSource wires the credential supplier after construction. The
// session store is built on top of the client, so the two are tied together
// by the application once both exist.
func (c *Client) SetTokenSource(ts TokenSource) {
	c.tokens = ts
}

// Do performs one request. Non-GET verbs are restated in a _method query
// parameter for gateways that mishandle nonstandard verbs; the actual verb
// sent and the parameter always agree. A non-nil body is JSON-encoded.
func (c *Client) Do(ctx context.Context, method, endpoint string, body any) (*Envelope, error) {
	u := c.baseURL + endpoint
	if method != http.MethodGet {
		sep := "?"
		if strings.Contains(u, "?") {
			sep = "&"
		}
		u = u + sep + "_method=" + method
	}

	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	c.attachToken(req)

	return c.send(req)
}

func (c *Client) attachToken(req *http.Request) {
	if c.tokens == nil {
		return
	}
	if token := c.tokens(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

func (c *Client) send(req *http.Request) (*Envelope, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn(req.Context(), "request failed", "method", req.Method, "url", req.URL.Path, "err", err)
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		c.log.Warn(req.Context(), "invalid JSON response", "url", req.URL.Path, "status", resp.StatusCode)
		return nil, &TransportError{Err: fmt.Errorf("invalid JSON response: %w", err)}
	}
	env.Status = resp.StatusCode

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Keep the body's message/errors so callers can branch on them;
		// the envelope is forced unsuccessful regardless of what it claims.
		env.Success = false
		if env.Message == "" {
			env.Message = "Request failed"
		}
	}
	return &env, nil
}

// Get issues a GET with optional query parameters.
func (c *Client) Get(ctx context.Context, endpoint string, query url.Values) (*Envelope, error) {
	if len(query) > 0 {
		endpoint = endpoint + "?" + query.Encode()
	}
	return c.Do(ctx, http.MethodGet, endpoint, nil)
}

// Post issues a POST with a JSON body.
func (c *Client) Post(ctx context.Context, endpoint string, body any) (*Envelope, error) {
	return c.Do(ctx, http.MethodPost, endpoint, body)
}

// Put issues a PUT with a JSON body.
func (c *Client) Put(ctx context.Context, endpoint string, body any) (*Envelope, error) {
	return c.Do(ctx, http.MethodPut, endpoint, body)
}

// Delete issues a DELETE.
func (c *Client) Delete(ctx context.Context, endpoint string) (*Envelope, error) {
	return c.Do(ctx, http.MethodDelete, endpoint, nil)
}
