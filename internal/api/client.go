package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// TokenSource supplies the current bearer token. The session store
// implements it; the api layer only ever reads the token and never
// mutates session state.
type TokenSource interface {
	Token() string
}

// Client is the shared HTTP plumbing under the Fetcher and the
// Mutator: absolute URL resolution against the configured base,
// Authorization header injection, and response decoding.
type Client struct {
	base   string
	tokens TokenSource
	http   *http.Client
}

// NewClient builds a Client for the given API base URL. A trailing
// slash on base is tolerated.
func NewClient(base string, tokens TokenSource) *Client {
	return &Client{
		base:   strings.TrimRight(base, "/"),
		tokens: tokens,
		http:   &http.Client{Timeout: 30 * time.Second},
	}
}

// FullURL resolves an endpoint to an absolute request URL. Endpoints
// that already carry a scheme are used as-is; everything else is
// prefixed with the configured base.
func (c *Client) FullURL(endpoint string) string {
	if u, err := url.Parse(endpoint); err == nil && u.Scheme != "" {
		return endpoint
	}
	if !strings.HasPrefix(endpoint, "/") {
		endpoint = "/" + endpoint
	}
	return c.base + endpoint
}

// do sends one request. The bearer token is attached whenever one is
// present. A transport failure comes back as *NetworkError; a
// non-2xx response as *ServerError carrying the server message when
// the body provided one, or fallback otherwise. Failures never return
// a body.
func (c *Client) do(ctx context.Context, method, endpoint string, body io.Reader, contentType, fallback string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.FullURL(endpoint), body)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if tok := c.tokens.Token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := serverMessage(data)
		if msg == "" {
			msg = fallback
		}
		return nil, &ServerError{Status: resp.StatusCode, Message: msg}
	}
	return data, nil
}

// serverMessage extracts the error text from a response body. The API
// reports errors as {"message": ...} or {"error": ...}.
func serverMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if payload.Message != "" {
		return payload.Message
	}
	return payload.Error
}
