package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jkaindl/fahrerportal/backend/internal/middleware"
)

func TestRateLimiter_AllowsWithinBurst(t *testing.T) {
	h := middleware.NewRateLimiter(1, 3)(trivialHandler)

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/tours", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, "request %d within burst", i+1)
	}
}

func TestRateLimiter_BlocksOverBurst(t *testing.T) {
	h := middleware.NewRateLimiter(1, 2)(trivialHandler)

	var last int
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/tours", nil)
		req.RemoteAddr = "10.0.0.2:1234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		last = rec.Code
	}

	assert.Equal(t, http.StatusTooManyRequests, last)
}

func TestRateLimiter_TracksClientsSeparately(t *testing.T) {
	h := middleware.NewRateLimiter(1, 1)(trivialHandler)

	first := httptest.NewRequest(http.MethodGet, "/tours", nil)
	first.RemoteAddr = "10.0.0.3:1234"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, first)
	require.Equal(t, http.StatusOK, rec.Code)

	// The first client exhausted its bucket; a different IP is unaffected.
	second := httptest.NewRequest(http.MethodGet, "/tours", nil)
	second.RemoteAddr = "10.0.0.4:1234"
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, second)
	assert.Equal(t, http.StatusOK, rec.Code)
}
