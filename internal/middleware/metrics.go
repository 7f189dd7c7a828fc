package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tutofast/tutofast-api/internal/service"
)

// Metrics returns middleware that reports request timing and status into
// the metrics service. The scrape endpoint itself is left out so it does
// not dominate the request histograms.
func Metrics(metricsSvc *service.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metricsSvc == nil || c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		// Unmatched routes have no template, fall back to the raw path.
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		metricsSvc.ObserveHTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
