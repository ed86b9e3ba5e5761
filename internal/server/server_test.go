package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"blogapi/internal/cache"
	"blogapi/internal/config"
	"blogapi/internal/database"
	"blogapi/internal/models"
	"blogapi/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Port:           "0",
		Env:            "test",
		AllowedOrigins: "*",
	}
}

func newTestServer(t *testing.T, cfg *config.Config, rdb *redis.Client) (*Server, *fiber.App) {
	t.Helper()
	s, err := NewServerWithDeps(cfg, testutil.NewSQLiteDB(t), rdb)
	require.NoError(t, err)
	return s, s.NewApp()
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewBufferString(b)
		default:
			raw, err := json.Marshal(b)
			require.NoError(t, err)
			reader = bytes.NewReader(raw)
		}
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, raw
}

func decodeError(t *testing.T, raw []byte) models.ErrorResponse {
	t.Helper()
	var e models.ErrorResponse
	require.NoError(t, json.Unmarshal(raw, &e), string(raw))
	return e
}

func TestPostsAPI_Scenario(t *testing.T) {
	_, app := newTestServer(t, testConfig(), nil)

	status, raw := doJSON(t, app, http.MethodGet, "/api/posts", nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[]`, string(raw))

	status, raw = doJSON(t, app, http.MethodPost, "/api/posts", map[string]string{"title": "A", "content": "body"})
	require.Equal(t, http.StatusOK, status, string(raw))
	assert.Contains(t, string(raw), `"comments":[]`)
	var created postResponse
	require.NoError(t, json.Unmarshal(raw, &created))
	assert.Equal(t, "A", created.Title)
	assert.Equal(t, "body", created.Content)

	status, raw = doJSON(t, app, http.MethodGet, "/api/posts", nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, fmt.Sprintf(`[{"id":%q,"title":"A","num_comments":0}]`, created.ID), string(raw))

	status, raw = doJSON(t, app, http.MethodPost, "/api/posts/"+created.ID.String()+"/comments", map[string]string{"content": "hi"})
	require.Equal(t, http.StatusOK, status, string(raw))
	var comment commentResponse
	require.NoError(t, json.Unmarshal(raw, &comment))
	assert.Equal(t, "hi", comment.Content)
	assert.NotContains(t, string(raw), "post_id")

	status, raw = doJSON(t, app, http.MethodGet, "/api/posts", nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, fmt.Sprintf(`[{"id":%q,"title":"A","num_comments":1}]`, created.ID), string(raw))

	status, raw = doJSON(t, app, http.MethodGet, "/api/posts/"+created.ID.String(), nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, fmt.Sprintf(
		`{"id":%q,"title":"A","content":"body","comments":[{"id":%q,"content":"hi"}]}`,
		created.ID, comment.ID,
	), string(raw))
}

func TestPostsAPI_Validation(t *testing.T) {
	s, app := newTestServer(t, testConfig(), nil)

	// Prime the cache so a rejected request can be shown not to touch it.
	status, _ := doJSON(t, app, http.MethodGet, "/api/posts", nil)
	require.Equal(t, http.StatusOK, status)

	tests := []struct {
		name   string
		method string
		path   string
		body   interface{}
		status int
	}{
		{"missing title", http.MethodPost, "/api/posts", map[string]string{"content": "c"}, http.StatusBadRequest},
		{"empty content", http.MethodPost, "/api/posts", map[string]string{"title": "t", "content": ""}, http.StatusBadRequest},
		{"malformed json", http.MethodPost, "/api/posts", `{"title":`, http.StatusBadRequest},
		{"bad uuid on get", http.MethodGet, "/api/posts/not-a-uuid", nil, http.StatusBadRequest},
		{"bad uuid on comment", http.MethodPost, "/api/posts/123/comments", map[string]string{"content": "c"}, http.StatusBadRequest},
		{"empty comment", http.MethodPost, "/api/posts/6f1c1d2e-3b4a-4c5d-8e9f-0a1b2c3d4e5f/comments", map[string]string{"content": ""}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, raw := doJSON(t, app, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, status, string(raw))
			assert.Equal(t, models.CodeValidation, decodeError(t, raw).Code)
		})
	}

	t.Run("field names in message", func(t *testing.T) {
		_, raw := doJSON(t, app, http.MethodPost, "/api/posts", map[string]string{"content": "c"})
		assert.Contains(t, decodeError(t, raw).Error, "title is required")
	})

	_, ok := s.listing.Get(cache.PostsListKey)
	assert.True(t, ok, "rejected requests must not invalidate")
}

func TestPostsAPI_NotFound(t *testing.T) {
	_, app := newTestServer(t, testConfig(), nil)
	missing := "6f1c1d2e-3b4a-4c5d-8e9f-0a1b2c3d4e5f"

	status, raw := doJSON(t, app, http.MethodGet, "/api/posts/"+missing, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, models.CodeNotFound, decodeError(t, raw).Code)

	status, raw = doJSON(t, app, http.MethodPost, "/api/posts/"+missing+"/comments", map[string]string{"content": "hi"})
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, models.CodeNotFound, decodeError(t, raw).Code)
}

func TestHealthChecks(t *testing.T) {
	t.Run("liveness", func(t *testing.T) {
		_, app := newTestServer(t, testConfig(), nil)
		status, raw := doJSON(t, app, http.MethodGet, "/health/live", nil)
		assert.Equal(t, http.StatusOK, status)
		assert.Contains(t, string(raw), `"status":"up"`)
	})

	t.Run("ready without redis", func(t *testing.T) {
		_, app := newTestServer(t, testConfig(), nil)
		status, raw := doJSON(t, app, http.MethodGet, "/health/ready", nil)
		assert.Equal(t, http.StatusOK, status)
		assert.Contains(t, string(raw), `"redis":"disabled"`)
		assert.Contains(t, string(raw), `"database":"healthy"`)
		assert.Contains(t, string(raw), `"version":"1.0.0"`)
	})

	t.Run("ready with redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		defer rdb.Close()
		_, app := newTestServer(t, testConfig(), rdb)
		status, raw := doJSON(t, app, http.MethodGet, "/health/ready", nil)
		assert.Equal(t, http.StatusOK, status)
		assert.Contains(t, string(raw), `"redis":"healthy"`)
	})

	t.Run("redis down is unready", func(t *testing.T) {
		mr := miniredis.RunT(t)
		rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
		defer rdb.Close()
		_, app := newTestServer(t, testConfig(), rdb)
		mr.Close()
		status, raw := doJSON(t, app, http.MethodGet, "/health/ready", nil)
		assert.Equal(t, http.StatusServiceUnavailable, status)
		assert.Contains(t, string(raw), `"redis":"unhealthy"`)
	})

	t.Run("database down is unready", func(t *testing.T) {
		s, app := newTestServer(t, testConfig(), nil)
		require.NoError(t, database.Close(s.db))
		status, raw := doJSON(t, app, http.MethodGet, "/health/ready", nil)
		assert.Equal(t, http.StatusServiceUnavailable, status)
		assert.Contains(t, string(raw), `"database":"unhealthy"`)
	})
}

func TestWriteRateLimit(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	cfg := testConfig()
	cfg.RateLimitWritesPerMinute = 1
	_, app := newTestServer(t, cfg, rdb)

	status, _ := doJSON(t, app, http.MethodPost, "/api/posts", map[string]string{"title": "a", "content": "b"})
	assert.Equal(t, http.StatusOK, status)

	status, _ = doJSON(t, app, http.MethodPost, "/api/posts", map[string]string{"title": "a", "content": "b"})
	assert.Equal(t, http.StatusTooManyRequests, status)

	// Reads are not limited by the write budget.
	status, _ = doJSON(t, app, http.MethodGet, "/api/posts", nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestSwaggerAndMetrics(t *testing.T) {
	_, app := newTestServer(t, testConfig(), nil)

	status, raw := doJSON(t, app, http.MethodGet, "/api/swagger/doc.json", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(raw), "Blog API")

	status, _ = doJSON(t, app, http.MethodGet, "/api/posts", nil)
	require.Equal(t, http.StatusOK, status)

	status, raw = doJSON(t, app, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(raw), "blog_cache_lookups_total")
	assert.Contains(t, string(raw), "blog_database_query_latency_seconds")
	assert.Contains(t, string(raw), "http_requests_total")
}

func TestShutdown(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s, _ := newTestServer(t, testConfig(), rdb)
	assert.NoError(t, s.Shutdown(context.Background()))
}

func TestNewServerWithDeps_RequiresDatabase(t *testing.T) {
	_, err := NewServerWithDeps(testConfig(), nil, nil)
	assert.Error(t, err)
}
