package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sqldash-labs/sqldash/internal/seed"
	"github.com/sqldash-labs/sqldash/internal/testutil"
)

func setupTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	reg := testutil.NewTestRegistry(t)
	logger := testutil.NewTestLogger(t)
	require.NoError(t, seed.Run(context.Background(), logger, reg))

	srv := NewServer(Config{
		Registry: reg,
		Host:     "127.0.0.1",
		Port:     0,
		Logger:   logger,
	})

	handler, err := srv.Handler()
	require.NoError(t, err)

	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	return ts
}

func TestServerRoutes(t *testing.T) {
	ts := setupTestServer(t)

	t.Run("healthz", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/healthz")
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("schema", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/api/schema")
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var snap map[string]map[string][]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&snap))
		assert.Contains(t, snap, "flights")
		assert.Contains(t, snap["flights"]["flights"], "airline [text]")
	})

	t.Run("query round trip", func(t *testing.T) {
		body := strings.NewReader(`{"db": "flights", "query": "SELECT COUNT(*) AS n FROM flights"}`)
		resp, err := http.Post(ts.URL+"/api/query", "application/json", body)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.JSONEq(t, `{"success": true, "columns": ["n"], "rows": [[10]], "error": null}`, string(raw))
	})

	t.Run("index page", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/")
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	})

	t.Run("static asset", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/static/app.js")
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}
