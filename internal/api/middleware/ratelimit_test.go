package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cityobservatory/cityobservatory/internal/api/middleware"
	"github.com/cityobservatory/cityobservatory/internal/api/models"
)

func hit(h http.Handler, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/v1/dashboard", http.NoBody)
	req.RemoteAddr = remoteAddr
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRateLimitByIP_BlocksOverLimit(t *testing.T) {
	handler := middleware.RateLimitByIP(middleware.PerMinute(3))(okHandler)

	for i := range 3 {
		assert.Equal(t, http.StatusOK, hit(handler, "10.0.0.1:1234").Code, "request %d", i+1)
	}

	rec := hit(handler, "10.0.0.1:1234")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))

	var problem models.Problem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	assert.Equal(t, models.ProblemTypeTooManyRequests, problem.Type)
	assert.Equal(t, "/v1/dashboard", problem.Instance)
}

func TestRateLimitByIP_SeparateClients(t *testing.T) {
	handler := middleware.RateLimitByIP(middleware.PerMinute(1))(okHandler)

	assert.Equal(t, http.StatusOK, hit(handler, "10.0.0.2:1234").Code)
	assert.Equal(t, http.StatusTooManyRequests, hit(handler, "10.0.0.2:1234").Code)
	assert.Equal(t, http.StatusOK, hit(handler, "10.0.0.3:1234").Code)
}

func TestRateLimitByIP_RetryAfterRoundsUp(t *testing.T) {
	handler := middleware.RateLimitByIP(middleware.RateLimitConfig{RequestLimit: 1, WindowLength: 1500 * time.Millisecond})(okHandler)

	hit(handler, "10.0.0.4:1234")
	rec := hit(handler, "10.0.0.4:1234")
	assert.Equal(t, "2", rec.Header().Get("Retry-After"))
}

func TestRateLimitPresets(t *testing.T) {
	assert.Equal(t, 120, middleware.StandardRateLimit.RequestLimit)
	assert.Equal(t, 60, middleware.UpstreamRateLimit.RequestLimit)
	assert.Equal(t, time.Minute, middleware.PerMinute(5).WindowLength)
}
