// Package resilience guards outbound fetches against flaky upstreams.
//
// It provides two patterns, composed by the marketdata package around its
// Provider:
//   - Retry: bounded retry with exponential backoff and jitter
//   - CircuitBreaker: fails fast after repeated failures, probes recovery
//
// The default policies honor the error taxonomy: errors marked
// non-retryable (and context cancellation) stop a retry loop immediately.
//
//	cfg := resilience.DefaultRetryConfig()
//	candles, err := resilience.Retry(ctx, cfg, func() ([]Candle, error) {
//	    return feed.Candles(ctx, symbol, days)
//	})
package resilience
