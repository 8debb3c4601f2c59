// Package server exposes the pipeline engine over HTTP using Gin, with
// HTTP/2 cleartext support on a single port.
//
// The server participates in the component lifecycle (Start, Stop, Health)
// and mounts two route groups: the system endpoints (/, /health, /info,
// /metrics) and the DAG API under /api/v1 (graph inspection, synchronous
// and asynchronous execution, execution history, registered agents).
//
// # Middleware
//
// Built-in middleware (server/middleware):
//
//   - Recovery: panic recovery with structured logging
//   - RequestID: X-Request-Id generation and propagation
//   - RequestLogger: request logging with status-based levels
//   - CORS: cross-origin resource sharing
//   - RateLimit: per-client sliding-window rate limiting
//   - BodySizeLimit: request body size caps
//   - GinMetrics: OTel request counters and latency histograms
package server
