package service

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsServiceExposesCollectors(t *testing.T) {
	metrics := NewMetricsService()
	metrics.ObserveHTTPRequest(http.MethodGet, "/api/v1/events", http.StatusOK, 10*time.Millisecond)
	metrics.RecordCacheOperation(true, time.Millisecond)
	metrics.RecordCacheOperation(false, time.Millisecond)
	metrics.ObserveUpstreamRequest("ticketing_active", 0, time.Second)
	metrics.ObserveUpstreamRequest("ticketing_active", http.StatusOK, time.Second)
	metrics.RecordEventFallback("upcoming")

	hits, misses := metrics.CacheCounts()
	assert.EqualValues(t, 1, hits)
	assert.EqualValues(t, 1, misses)

	w := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `upstream_requests_total{status="error",target="ticketing_active"} 1`)
	assert.Contains(t, body, `upstream_requests_total{status="200",target="ticketing_active"} 1`)
	assert.Contains(t, body, `event_fallbacks_total{operation="upcoming"} 1`)
	assert.Contains(t, body, "cache_hit_ratio 0.5")
}

func TestMetricsServiceNilIsSafe(t *testing.T) {
	var metrics *MetricsService
	metrics.ObserveHTTPRequest(http.MethodGet, "/", http.StatusOK, time.Millisecond)
	metrics.RecordCacheOperation(true, time.Millisecond)
	metrics.ObserveUpstreamRequest("membership", http.StatusCreated, time.Millisecond)
	metrics.RecordEventFallback("all")

	hits, misses := metrics.CacheCounts()
	assert.Zero(t, hits)
	assert.Zero(t, misses)

	w := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
