package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tradeflowhq/tradeflow/observability"
)

// GinMetrics records request count, in-flight gauge, and latency for every
// route the Gin engine handles. The route label uses the route template
// (e.g. /api/v1/executions/:id) so metric cardinality stays bounded.
func GinMetrics(m *observability.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}

		start := time.Now()
		ctx := c.Request.Context()
		m.RecordRequestStart(ctx)
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.RecordRequestEnd(ctx, c.Request.Method, route,
			strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}
