package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/slutstation/slutstation-web/internal/service"
)

// unmatchedPathLabel groups requests served outside the route table, such as
// static site files, so arbitrary URLs do not become metric labels.
const unmatchedPathLabel = "/*static"

// Metrics returns middleware that captures request metrics using the provided service.
func Metrics(metricsSvc *service.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metricsSvc == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()
		duration := time.Since(start)
		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = unmatchedPathLabel
		}
		metricsSvc.ObserveHTTPRequest(c.Request.Method, path, status, duration)
	}
}
