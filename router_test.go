package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	httpapi "github.com/yourorg/listings-gateway/http"
	"github.com/yourorg/listings-gateway/internal/credentials"
	"github.com/yourorg/listings-gateway/internal/fallback"
	"github.com/yourorg/listings-gateway/internal/seq"
	"github.com/yourorg/listings-gateway/upstream"
)

func testDeps() httpapi.Deps {
	return httpapi.Deps{
		Upstream:    upstream.NewClient(upstream.Options{}),
		Endpoints:   upstream.DefaultEndpoints(),
		Credentials: credentials.Map{},
		Policy:      fallback.DefaultPolicy(),
		Sequencer:   seq.NewMemory(),
	}
}

func TestHealth(t *testing.T) {
	h := BuildRouter(testDeps(), 0)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestRateLimitReturnsJSON(t *testing.T) {
	h := BuildRouter(testDeps(), 2)
	codes := make([]int, 0, 3)
	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		last = httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/categories", nil)
		req.RemoteAddr = "203.0.113.7:5555"
		h.ServeHTTP(last, req)
		codes = append(codes, last.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	assert.JSONEq(t, `{"error":"rate_limited"}`, last.Body.String())
}

func TestUnknownRouteIs404(t *testing.T) {
	h := BuildRouter(testDeps(), 0)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
