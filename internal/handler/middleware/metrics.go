package middleware

import (
	"strconv"
	"time"

	"gym-booking/internal/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// Metrics records request latency labelled by the matched route template,
// so path parameters do not explode label cardinality.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.HTTPRequests.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}
