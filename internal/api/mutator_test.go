package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequireAuthFailsClosedBeforeNetwork(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	m := NewMutator(NewClient(srv.URL, &fakeTokens{}), nil, "/api/orders", Options{RequireAuth: true})

	_, err := m.Do(context.Background(), map[string]int{"n": 1})

	assert.ErrorIs(t, err, ErrAuthRequired)
	assert.Zero(t, hits.Load(), "missing auth must not reach the server")
}

func TestStructuredBodyIsSentAsJSON(t *testing.T) {
	var gotMethod, gotType, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotType = r.Header.Get("Content-Type")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	m := NewMutator(NewClient(srv.URL, &fakeTokens{}), nil, "/api/orders", Options{})

	data, err := m.Do(context.Background(), map[string]int{"tableId": 2})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, gotMethod, "method defaults to POST")
	assert.Equal(t, "application/json", gotType)
	assert.JSONEq(t, `{"tableId":2}`, gotBody)
	assert.JSONEq(t, `{"ok":true}`, string(data))
}

func TestRawBodyPassesThroughUntouched(t *testing.T) {
	var gotType, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotType = r.Header.Get("Content-Type")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	m := NewMutator(NewClient(srv.URL, &fakeTokens{}), nil, "/api/upload", Options{
		ContentType: "multipart/form-data; boundary=xyz",
	})

	_, err := m.Do(context.Background(), []byte("--xyz--"))
	require.NoError(t, err)

	assert.Equal(t, "multipart/form-data; boundary=xyz", gotType)
	assert.Equal(t, "--xyz--", gotBody)
}

func TestSuccessPublishesInvalidations(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	bus := NewBus()
	var invalidated []string
	bus.Subscribe(func(key string) { invalidated = append(invalidated, key) })

	m := NewMutator(NewClient(srv.URL, &fakeTokens{}), bus, "/api/orders", Options{
		Invalidates: []string{"orders", "tables"},
	})

	_, err := m.Do(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"orders", "tables"}, invalidated)
}

func TestFailurePublishesNothing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"message":"insufficient stock"}`))
	}))
	defer srv.Close()

	bus := NewBus()
	var invalidated []string
	bus.Subscribe(func(key string) { invalidated = append(invalidated, key) })

	m := NewMutator(NewClient(srv.URL, &fakeTokens{}), bus, "/api/orders", Options{
		Invalidates: []string{"orders"},
	})

	_, err := m.Do(context.Background(), nil)

	var srvErr *ServerError
	require.ErrorAs(t, err, &srvErr)
	assert.Equal(t, "insufficient stock", srvErr.Message)
	assert.Empty(t, invalidated)
}

func TestExecuteRoutesErrorsToCallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"invalid body"}`))
	}))
	defer srv.Close()

	m := NewMutator(NewClient(srv.URL, &fakeTokens{}), nil, "/api/orders", Options{})

	errs := make(chan error, 1)
	m.Execute(context.Background(), nil, Callbacks{
		OnSuccess: func(json.RawMessage) { t.Error("success callback must not fire") },
		OnError:   func(err error) { errs <- err },
	})

	select {
	case err := <-errs:
		assert.Equal(t, "invalid body", Message(err))
	case <-time.After(time.Second):
		t.Fatal("no callback fired")
	}
}

func TestUnserializableBodyIsRejectedLocally(t *testing.T) {
	m := NewMutator(NewClient("http://127.0.0.1:0", &fakeTokens{}), nil, "/api/orders", Options{})

	_, err := m.Do(context.Background(), func() {})

	var val *ValidationError
	assert.ErrorAs(t, err, &val)
}
