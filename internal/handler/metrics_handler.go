package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/slutstation/slutstation-web/internal/service"
)

// MetricsHandler exposes observability endpoints.
type MetricsHandler struct {
	metrics  *service.MetricsService
	features map[string]func() bool
}

// NewMetricsHandler constructs a metrics handler. features maps a feature name
// to a probe reporting whether it is configured.
func NewMetricsHandler(metrics *service.MetricsService, features map[string]func() bool) *MetricsHandler {
	return &MetricsHandler{metrics: metrics, features: features}
}

// Prometheus serves the Prometheus metrics endpoint.
func (h *MetricsHandler) Prometheus(c *gin.Context) {
	if h.metrics == nil {
		c.Status(http.StatusServiceUnavailable)
		return
	}
	h.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}

// Health responds with an OK payload and which integrations are configured.
// Missing integrations degrade features but never fail the probe.
func (h *MetricsHandler) Health(c *gin.Context) {
	features := make(map[string]bool, len(h.features))
	for name, probe := range h.features {
		features[name] = probe != nil && probe()
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "features": features})
}
