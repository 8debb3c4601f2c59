package middleware

import (
	"net/http"
	"time"

	"github.com/tradeflowhq/tradeflow/logger"
)

// RequestLogger returns middleware that logs every request with method,
// path, status code, and duration. Health and probe paths are logged at
// debug only through the normal path; they are not skipped so slow probes
// remain visible.
func RequestLogger(log *logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := newStatusWriter(w)
			next.ServeHTTP(sw, r)
			duration := time.Since(start)

			if isSystemPath(r.URL.Path) && sw.status < http.StatusBadRequest {
				return
			}

			fields := map[string]any{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      sw.status,
				"duration_ms": duration.Milliseconds(),
			}
			if id := r.Header.Get(HeaderRequestID); id != "" {
				fields["request_id"] = id
			}
			if duration > 500*time.Millisecond {
				fields["slow"] = true
			}

			logByStatus(log, fields, sw.status)
		})
	}
}

// isSystemPath reports whether the path is a health or metrics endpoint
// whose successful requests should not clutter the log.
func isSystemPath(path string) bool {
	switch path {
	case "/health", "/info", "/metrics":
		return true
	}
	return false
}

// logByStatus logs request fields at a level based on the HTTP status code.
// A nil log falls back to the global logger.
func logByStatus(log *logger.Logger, fields map[string]any, status int) {
	logErr := logger.Error
	logWarn := logger.Warn
	logDebug := logger.Debug
	if log != nil {
		logErr = log.Error
		logWarn = log.Warn
		logDebug = log.Debug
	}

	switch {
	case status >= 500:
		logErr("Request completed", fields)
	case status >= 400:
		logWarn("Request completed", fields)
	default:
		logDebug("Request completed", fields)
	}
}
