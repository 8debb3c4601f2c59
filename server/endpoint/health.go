package endpoint

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tradeflowhq/tradeflow/component"
	"github.com/tradeflowhq/tradeflow/version"
)

// HealthChecker returns health status for registered components.
type HealthChecker func(ctx context.Context) []component.Health

// Health returns a handler that aggregates component healths into a service
// health. One unhealthy component makes the whole service unhealthy (503).
func Health(serviceName string, checker HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		sh := component.NewServiceHealth(serviceName, version.Get().Version)
		if checker != nil {
			for _, ch := range checker(c.Request.Context()) {
				sh.AddComponent(ch)
			}
		}

		httpStatus := http.StatusOK
		if sh.Status == component.StatusUnhealthy {
			httpStatus = http.StatusServiceUnavailable
		}

		c.JSON(httpStatus, gin.H{
			"status":     sh.Status,
			"service":    sh.Service,
			"version":    sh.Version,
			"timestamp":  time.Now().UTC().Format(time.RFC3339),
			"components": sh.Components,
		})
	}
}
