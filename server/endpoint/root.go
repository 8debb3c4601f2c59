package endpoint

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tradeflowhq/tradeflow/version"
)

// Root returns the service banner with pointers to the main endpoints.
func Root(serviceName, description string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service":     serviceName,
			"description": description,
			"version":     version.Get().Version,
			"endpoints": gin.H{
				"health":        "/health",
				"info":          "/info",
				"graph":         "/api/v1/dag",
				"execute":       "/api/v1/dag/execute",
				"execute_async": "/api/v1/dag/execute/async",
				"executions":    "/api/v1/executions",
				"agents":        "/api/v1/agents",
			},
		})
	}
}
