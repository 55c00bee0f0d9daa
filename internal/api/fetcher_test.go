package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hotel-guest-client/internal/config"
)

func cacheCfg(fresh, retain time.Duration) config.CacheConfig {
	return config.CacheConfig{FreshTTL: fresh, RetainTTL: retain}
}

func TestFetchInjectsBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	tokens := &fakeTokens{token: "tok-1"}
	f := NewFetcher(NewClient(srv.URL, tokens), cacheCfg(time.Minute, 2*time.Minute), nil)

	res := f.Fetch(context.Background(), "/api/menu", "menu")
	require.NoError(t, res.Err)
	assert.Equal(t, "Bearer tok-1", gotAuth)
}

func TestFreshResultServedFromCache(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(`{"n":1}`))
	}))
	defer srv.Close()

	f := NewFetcher(NewClient(srv.URL, &fakeTokens{}), cacheCfg(time.Minute, 2*time.Minute), nil)

	for i := 0; i < 5; i++ {
		res := f.Fetch(context.Background(), "/api/tables", "tables")
		require.NoError(t, res.Err)
		assert.JSONEq(t, `{"n":1}`, string(res.Data))
	}
	assert.Equal(t, int32(1), hits.Load(), "identical keys within the freshness window share one result")
}

func TestConcurrentFetchesShareOneRequest(t *testing.T) {
	var hits atomic.Int32
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		<-release
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	f := NewFetcher(NewClient(srv.URL, &fakeTokens{}), cacheCfg(time.Minute, 2*time.Minute), nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res := f.Fetch(context.Background(), "/api/tables", "tables")
			assert.NoError(t, res.Err)
		}()
	}
	time.Sleep(50 * time.Millisecond) // let all fetches join the in-flight call
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), hits.Load())
}

func TestFailureSurfacesServerMessageAndSkipsCache(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"message":"backend down"}`))
	}))
	defer srv.Close()

	f := NewFetcher(NewClient(srv.URL, &fakeTokens{}), cacheCfg(time.Minute, 2*time.Minute), nil)

	res := f.Fetch(context.Background(), "/api/menu", "menu")
	assert.True(t, res.IsError)
	var srvErr *ServerError
	require.ErrorAs(t, res.Err, &srvErr)
	assert.Equal(t, "backend down", srvErr.Message)

	// Errors never populate the cache: the next read hits the network.
	f.Fetch(context.Background(), "/api/menu", "menu")
	assert.Equal(t, int32(2), hits.Load())
}

func TestFailureWithoutServerMessageGetsGenericText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("gateway said no"))
	}))
	defer srv.Close()

	f := NewFetcher(NewClient(srv.URL, &fakeTokens{}), cacheCfg(time.Minute, 2*time.Minute), nil)

	res := f.Fetch(context.Background(), "/api/menu", "menu")
	var srvErr *ServerError
	require.ErrorAs(t, res.Err, &srvErr)
	assert.Equal(t, "failed to fetch data", srvErr.Message)
	assert.Equal(t, http.StatusBadGateway, srvErr.Status)
}

func TestInvalidationForcesRefetch(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	bus := NewBus()
	f := NewFetcher(NewClient(srv.URL, &fakeTokens{}), cacheCfg(time.Minute, 2*time.Minute), bus)

	f.Fetch(context.Background(), "/api/orders", "orders")
	f.Fetch(context.Background(), "/api/orders", "orders")
	require.Equal(t, int32(1), hits.Load())

	bus.Publish("orders")

	// A stale entry is served while the refresh runs in the background.
	res := f.Fetch(context.Background(), "/api/orders", "orders")
	assert.True(t, res.Stale)
	assert.Eventually(t, func() bool { return hits.Load() == 2 }, time.Second, 5*time.Millisecond)
}

func TestStaleWhileRevalidateBeyondFreshness(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	f := NewFetcher(NewClient(srv.URL, &fakeTokens{}), cacheCfg(10*time.Millisecond, time.Minute), nil)

	first := f.Fetch(context.Background(), "/api/tables", "tables")
	require.NoError(t, first.Err)
	time.Sleep(30 * time.Millisecond)

	res := f.Fetch(context.Background(), "/api/tables", "tables")
	assert.True(t, res.Stale, "past freshness but within retention serves stale data")
	assert.NotNil(t, res.Data)
	assert.Eventually(t, func() bool { return hits.Load() == 2 }, time.Second, 5*time.Millisecond)
}

func TestRetentionExpiryEvicts(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	f := NewFetcher(NewClient(srv.URL, &fakeTokens{}), cacheCfg(5*time.Millisecond, 20*time.Millisecond), nil)

	f.Fetch(context.Background(), "/api/tables", "tables")
	time.Sleep(40 * time.Millisecond)

	res := f.Fetch(context.Background(), "/api/tables", "tables")
	assert.False(t, res.Stale, "beyond retention the fetch blocks on the network again")
	assert.Equal(t, int32(2), hits.Load())
}

func TestFetchAsDecodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":1},{"id":2}]`))
	}))
	defer srv.Close()

	f := NewFetcher(NewClient(srv.URL, &fakeTokens{}), cacheCfg(time.Minute, 2*time.Minute), nil)

	type row struct {
		ID int `json:"id"`
	}
	rows, err := FetchAs[[]row](context.Background(), f, "/api/menu", "menu")
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	_, err = FetchAs[map[string]string](context.Background(), f, "/api/menu", "menu")
	var val *ValidationError
	assert.ErrorAs(t, err, &val)
}
