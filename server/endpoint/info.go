package endpoint

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tradeflowhq/tradeflow/version"
)

// startTime records when the process started for uptime calculation.
var startTime = time.Now()

// Info returns a handler that reports service version and build information.
func Info(serviceName, environment string) gin.HandlerFunc {
	return func(c *gin.Context) {
		v := version.Get()
		c.JSON(http.StatusOK, gin.H{
			"service":     serviceName,
			"environment": environment,
			"version":     v.Version,
			"git_commit":  v.GitCommit,
			"build_time":  v.BuildTime,
			"go_version":  v.GoVersion,
			"uptime":      time.Since(startTime).String(),
			"timestamp":   time.Now().UTC().Format(time.RFC3339),
		})
	}
}
