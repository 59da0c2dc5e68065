package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bluescreen10/tokensession"
	"github.com/bluescreen10/tokensession/memstore"
	"github.com/bluescreen10/tokensession/remote"
)

func newTestManager(t *testing.T, status int) *tokensession.Manager {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		switch r.URL.Path {
		case remote.PathSession:
			w.Write([]byte(`{"data":{"token":"h.p.s"}}`))
		case remote.PathConfig:
			w.Write([]byte(`{"data":{"siteName":"X"}}`))
		}
	}))
	t.Cleanup(srv.Close)

	mgr := tokensession.NewManager(memstore.New(), remote.New(srv.URL))
	mgr.Init()
	return mgr
}

func TestDispatchGuestAndConfig(t *testing.T) {
	mgr := newTestManager(t, http.StatusOK)
	out := &bytes.Buffer{}

	require.NoError(t, dispatch(context.Background(), mgr, []string{"guest", "opaque-token"}, out))

	out.Reset()
	require.NoError(t, dispatch(context.Background(), mgr, []string{"config", "siteName"}, out))
	assert.JSONEq(t, `"X"`, out.String())

	out.Reset()
	require.NoError(t, dispatch(context.Background(), mgr, []string{"status"}, out))

	var status map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &status))
	assert.Equal(t, true, status["present"])
	assert.Equal(t, false, status["admin"])
	assert.Equal(t, false, status["valid"])
}

func TestDispatchLoginRejected(t *testing.T) {
	mgr := newTestManager(t, http.StatusUnauthorized)

	err := dispatch(context.Background(), mgr, []string{"login", "-user", "a", "-pass", "b"}, &bytes.Buffer{})
	assert.ErrorIs(t, err, errLoginRejected)
}

func TestDispatchUnknown(t *testing.T) {
	mgr := newTestManager(t, http.StatusOK)

	assert.Error(t, dispatch(context.Background(), mgr, []string{"frobnicate"}, &bytes.Buffer{}))
	assert.Error(t, dispatch(context.Background(), mgr, []string{"config"}, &bytes.Buffer{}))
	assert.Error(t, dispatch(context.Background(), mgr, []string{"config", "missing"}, &bytes.Buffer{}))
}

func TestDispatchLoginAndLogout(t *testing.T) {
	mgr := newTestManager(t, http.StatusOK)
	out := &bytes.Buffer{}

	require.NoError(t, dispatch(context.Background(), mgr, []string{"login", "-user", "a", "-pass", "b"}, out))
	assert.Equal(t, "logged in\n", out.String())
	assert.True(t, mgr.IsAdmin())

	require.NoError(t, dispatch(context.Background(), mgr, []string{"logout"}, out))
	_, present := mgr.Token()
	assert.False(t, present)
}
