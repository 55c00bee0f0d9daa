package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/iliyamo/hotel-guest-client/internal/config"
)

// Result is what a read returns to the caller. Exactly one of three
// shapes occurs: data (possibly stale while a refresh runs in the
// background), an error, or a loading state when the caller gave up
// waiting before the shared request finished.
type Result struct {
	Data      json.RawMessage
	IsLoading bool
	IsError   bool
	Err       error
	Stale     bool
}

type entry struct {
	data      json.RawMessage
	fetchedAt time.Time
	stale     bool
}

// call is one in-flight network read. Concurrent fetches of the same
// cache key share a single call instead of issuing duplicate requests.
type call struct {
	done chan struct{}
	data json.RawMessage
	err  error
}

// Fetcher is the generic read path: it executes keyed GET requests,
// caches results per cache key, and serves them without a network call
// while fresh. Beyond the freshness window a cached result is served
// stale while a background refresh runs; beyond the retention window
// it is evicted. Failed reads never populate the cache.
type Fetcher struct {
	client   *Client
	cfg      config.CacheConfig
	mu       sync.Mutex
	entries  map[string]*entry
	inflight map[string]*call
}

// NewFetcher builds a Fetcher and subscribes it to the invalidation
// bus so successful mutations mark tagged entries stale.
func NewFetcher(client *Client, cfg config.CacheConfig, bus *Bus) *Fetcher {
	f := &Fetcher{
		client:   client,
		cfg:      cfg,
		entries:  make(map[string]*entry),
		inflight: make(map[string]*call),
	}
	if bus != nil {
		bus.Subscribe(f.Invalidate)
	}
	return f
}

// Fetch resolves endpoint under the given cache key. Fresh cache hits
// return immediately; stale-but-retained entries are returned as-is
// with Stale set while a refresh runs in the background; everything
// else waits for the (shared) network read or for ctx, whichever ends
// first.
func (f *Fetcher) Fetch(ctx context.Context, endpoint, key string) Result {
	f.mu.Lock()
	now := time.Now()
	if e, ok := f.entries[key]; ok {
		age := now.Sub(e.fetchedAt)
		switch {
		case age >= f.cfg.RetainTTL:
			delete(f.entries, key) // retention expired, fall through to a full fetch
		case !e.stale && age < f.cfg.FreshTTL:
			data := e.data
			f.mu.Unlock()
			return Result{Data: data}
		default:
			// Stale while revalidating: hand back what we have and
			// refresh behind the caller's back.
			data := e.data
			f.startLocked(endpoint, key)
			f.mu.Unlock()
			return Result{Data: data, Stale: true}
		}
	}

	c := f.startLocked(endpoint, key)
	f.mu.Unlock()

	select {
	case <-c.done:
		if c.err != nil {
			return Result{IsError: true, Err: c.err}
		}
		return Result{Data: c.data}
	case <-ctx.Done():
		return Result{IsLoading: true, IsError: true, Err: ctx.Err()}
	}
}

// Invalidate marks the entry under key stale, forcing the next read to
// go back to the network. Unknown keys are ignored.
func (f *Fetcher) Invalidate(key string) {
	f.mu.Lock()
	if e, ok := f.entries[key]; ok {
		e.stale = true
	}
	f.mu.Unlock()
}

// startLocked joins the in-flight call for key or starts a new one.
// Must be called while holding the fetcher lock.
func (f *Fetcher) startLocked(endpoint, key string) *call {
	if c, ok := f.inflight[key]; ok {
		return c
	}
	c := &call{done: make(chan struct{})}
	f.inflight[key] = c
	go f.run(endpoint, key, c)
	return c
}

// run performs the network read for one call and publishes the outcome
// to everyone waiting on it. The read deliberately does not inherit any
// caller's context: the result is shared, so the first caller giving up
// must not cancel it for the others.
func (f *Fetcher) run(endpoint, key string, c *call) {
	data, err := f.client.do(context.Background(), http.MethodGet, endpoint, nil, "", "failed to fetch data")

	f.mu.Lock()
	delete(f.inflight, key)
	if err == nil {
		f.entries[key] = &entry{data: data, fetchedAt: time.Now()}
	}
	f.mu.Unlock()

	c.data, c.err = data, err
	close(c.done)
}

// FetchAs fetches endpoint under key and decodes the payload into T.
func FetchAs[T any](ctx context.Context, f *Fetcher, endpoint, key string) (T, error) {
	var out T
	res := f.Fetch(ctx, endpoint, key)
	if res.Err != nil {
		return out, res.Err
	}
	if err := json.Unmarshal(res.Data, &out); err != nil {
		return out, &ValidationError{Reason: "unexpected response shape from " + endpoint}
	}
	return out, nil
}
