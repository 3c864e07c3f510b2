package app_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emarketbank/jimmy-agent/internal/adapter/configstore/staticstore"
	"github.com/emarketbank/jimmy-agent/internal/adapter/httpserver"
	"github.com/emarketbank/jimmy-agent/internal/app"
	"github.com/emarketbank/jimmy-agent/internal/config"
	"github.com/emarketbank/jimmy-agent/internal/domain"
	"github.com/emarketbank/jimmy-agent/internal/usecase"
)

func TestParseOrigins(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []string{"*"}, app.ParseOrigins(""))
	assert.Equal(t, []string{"*"}, app.ParseOrigins("*"))
	assert.Equal(t, []string{"https://a.com"}, app.ParseOrigins("https://a.com"))
	assert.Equal(t, []string{"https://a.com", "https://b.com"}, app.ParseOrigins(" https://a.com , https://b.com ,"))
}

func testRouter(cfg config.Config) http.Handler {
	store := staticstore.New(domain.DefaultRuntimeConfig(), "")
	chat := usecase.NewChatService(store, nil)
	srv := httpserver.NewServer(cfg, chat, store, nil)
	return app.BuildRouter(cfg, srv)
}

func TestRouter_Health(t *testing.T) {
	t.Parallel()
	h := testRouter(config.Config{CORSAllowOrigins: "https://mo-gamal.com", RateLimitPerMin: 30})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestRouter_Metrics(t *testing.T) {
	t.Parallel()
	h := testRouter(config.Config{CORSAllowOrigins: "*", RateLimitPerMin: 30})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_CORSPreflight(t *testing.T) {
	t.Parallel()
	h := testRouter(config.Config{CORSAllowOrigins: "https://mo-gamal.com", RateLimitPerMin: 30})

	req := httptest.NewRequest(http.MethodOptions, "/chat", nil)
	req.Header.Set("Origin", "https://mo-gamal.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "https://mo-gamal.com", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_CORSRejectsUnknownOrigin(t *testing.T) {
	t.Parallel()
	h := testRouter(config.Config{CORSAllowOrigins: "https://mo-gamal.com", RateLimitPerMin: 30})

	req := httptest.NewRequest(http.MethodOptions, "/chat", nil)
	req.Header.Set("Origin", "https://evil.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_ChatPost(t *testing.T) {
	t.Parallel()
	h := testRouter(config.Config{CORSAllowOrigins: "*", RateLimitPerMin: 30})

	// No providers are configured, so the pipeline reports unavailability,
	// but the body stays chat-shaped.
	req := httptest.NewRequest(http.MethodPost, "/chat",
		strings.NewReader(`{"messages":[{"role":"user","content":"hi"}]}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"response"`)
}

func TestRouter_AdminAbsentWithoutStore(t *testing.T) {
	t.Parallel()
	cfg := config.Config{CORSAllowOrigins: "*", RateLimitPerMin: 30}
	require.False(t, cfg.AdminEnabled())
	h := testRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/admin/config", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_RateLimitsChat(t *testing.T) {
	t.Parallel()
	h := testRouter(config.Config{CORSAllowOrigins: "*", RateLimitPerMin: 2})

	var last int
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/chat",
			strings.NewReader(`{"messages":[{"role":"user","content":"hi"}]}`))
		req.Header.Set("Content-Type", "application/json")
		req.RemoteAddr = "10.1.2.3:4444"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		last = rec.Code
	}
	assert.Equal(t, http.StatusTooManyRequests, last)
}
