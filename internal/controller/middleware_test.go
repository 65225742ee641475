package controller

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiter(t *testing.T) {
	rl := newRateLimiter(2)
	t.Cleanup(rl.Stop)
	handler := rl.middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	doRequest := func(remoteAddr string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/search/songs?q=x", nil)
		req.RemoteAddr = remoteAddr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, doRequest("10.0.0.1:1234"))
	assert.Equal(t, http.StatusOK, doRequest("10.0.0.1:1234"))
	assert.Equal(t, http.StatusTooManyRequests, doRequest("10.0.0.1:1234"),
		"the burst is exhausted")

	// other clients keep their own budget
	assert.Equal(t, http.StatusOK, doRequest("10.0.0.2:1234"))
}

func TestRateLimiterDefaultsOnBadConfig(t *testing.T) {
	rl := newRateLimiter(0)
	t.Cleanup(rl.Stop)
	assert.Equal(t, 30, rl.burst)
}

func TestRateLimiterStop(t *testing.T) {
	rl := newRateLimiter(5)

	rl.Stop()
	rl.Stop()

	// a stopped limiter still limits, only its cleanup is gone
	req := httptest.NewRequest(http.MethodGet, "/api/search/songs?q=x", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	rec := httptest.NewRecorder()
	rl.middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
