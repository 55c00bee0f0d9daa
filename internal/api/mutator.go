package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
)

// Options configures a Mutator. Method defaults to POST. When
// RequireAuth is set the mutation fails closed with ErrAuthRequired if
// no token is present, before any network call. Invalidates lists the
// cache keys published on success. ContentType applies only to raw
// ([]byte / io.Reader) bodies; structured bodies are always sent as
// application/json.
type Options struct {
	Method      string
	RequireAuth bool
	Invalidates []string
	ContentType string
}

// Callbacks receive the outcome of a fire-and-forget Execute. A nil
// OnError falls back to logging so no failure is silently swallowed.
type Callbacks struct {
	OnSuccess func(json.RawMessage)
	OnError   func(error)
}

// Mutator is the generic write path for one endpoint: it executes the
// request, never letting an error escape a fire-and-forget caller, and
// invalidates its declared cache keys when the server accepts the
// write.
type Mutator struct {
	client *Client
	bus    *Bus
	path   string
	opts   Options
}

// NewMutator builds a Mutator for endpoint. The same endpoint string
// rules as the Fetcher apply: absolute URLs pass through, relative
// paths resolve against the configured base.
func NewMutator(client *Client, bus *Bus, endpoint string, opts Options) *Mutator {
	if opts.Method == "" {
		opts.Method = http.MethodPost
	}
	return &Mutator{client: client, bus: bus, path: endpoint, opts: opts}
}

// Do executes the mutation and waits for it. Errors are returned to
// the caller: ErrAuthRequired before any network traffic when auth is
// required but missing, *NetworkError / *ServerError otherwise. On
// success the declared cache keys are invalidated before returning.
func (m *Mutator) Do(ctx context.Context, body any) (json.RawMessage, error) {
	if m.opts.RequireAuth && m.client.tokens.Token() == "" {
		return nil, ErrAuthRequired
	}

	var rdr io.Reader
	contentType := ""
	switch b := body.(type) {
	case nil:
	case []byte:
		// Raw payloads (multipart uploads and the like) pass through
		// untouched; the caller controls the content type.
		rdr = bytes.NewReader(b)
		contentType = m.opts.ContentType
	case io.Reader:
		rdr = b
		contentType = m.opts.ContentType
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, &ValidationError{Reason: "request body is not serializable"}
		}
		rdr = bytes.NewReader(data)
		contentType = "application/json"
	}

	data, err := m.client.do(ctx, m.opts.Method, m.path, rdr, contentType, "mutation failed")
	if err != nil {
		return nil, err
	}
	if m.bus != nil && len(m.opts.Invalidates) > 0 {
		m.bus.Publish(m.opts.Invalidates...)
	}
	return data, nil
}

// Execute runs the mutation in the background and routes the outcome
// to the callbacks. Nothing is ever raised past this boundary.
func (m *Mutator) Execute(ctx context.Context, body any, cb Callbacks) {
	go func() {
		data, err := m.Do(ctx, body)
		if err != nil {
			if cb.OnError != nil {
				cb.OnError(err)
			} else {
				log.Printf("mutation %s %s failed: %v", m.opts.Method, m.path, err)
			}
			return
		}
		if cb.OnSuccess != nil {
			cb.OnSuccess(data)
		}
	}()
}
