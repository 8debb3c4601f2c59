package marketdata

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/tradeflowhq/tradeflow/errors"
	"github.com/tradeflowhq/tradeflow/logger"
	"github.com/tradeflowhq/tradeflow/resilience"
)

// GuardConfig configures the protection applied to a Provider.
type GuardConfig struct {
	Retry   resilience.RetryConfig
	Breaker resilience.CircuitBreakerConfig
}

// DefaultGuardConfig returns the standard feed protection policy.
func DefaultGuardConfig() GuardConfig {
	return GuardConfig{
		Retry:   resilience.DefaultRetryConfig(),
		Breaker: resilience.DefaultCircuitBreakerConfig("market-data"),
	}
}

// Guarded wraps an inner Provider with bounded retry and a circuit
// breaker. Fetch failures surface as MARKET_DATA errors; taxonomy errors
// from the inner provider and context cancellation pass through unchanged.
type Guarded struct {
	inner   Provider
	retry   resilience.RetryConfig
	breaker *resilience.CircuitBreaker
	log     *logger.Logger
}

var _ Provider = (*Guarded)(nil)

// Guard wraps p with the retry and breaker policies from cfg. A nil log
// falls back to the registered market-data logger.
func Guard(p Provider, cfg GuardConfig, log *logger.Logger) *Guarded {
	if log == nil {
		log = logger.Get("market-data")
	}

	retryIf := cfg.Retry.RetryIf
	if retryIf == nil {
		retryIf = resilience.DefaultRetryIf
	}
	retry := cfg.Retry
	// An open circuit will not recover within a retry loop.
	retry.RetryIf = func(err error) bool {
		if stderrors.Is(err, resilience.ErrCircuitOpen) {
			return false
		}
		return retryIf(err)
	}

	breakerCfg := cfg.Breaker
	if breakerCfg.OnStateChange == nil {
		breakerCfg.OnStateChange = func(name string, from, to resilience.State) {
			log.Warn("Circuit breaker state changed", logger.Fields(
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			))
		}
	}

	return &Guarded{
		inner:   p,
		retry:   retry,
		breaker: resilience.NewCircuitBreaker(breakerCfg),
		log:     log,
	}
}

// Breaker returns the circuit breaker guarding the feed, for health checks.
func (g *Guarded) Breaker() *resilience.CircuitBreaker {
	return g.breaker
}

// Candles fetches daily bars through the retry and breaker policies.
func (g *Guarded) Candles(ctx context.Context, symbol string, days int) ([]Candle, error) {
	return guardFetch(ctx, g, symbol, "candles", func() ([]Candle, error) {
		return g.inner.Candles(ctx, symbol, days)
	})
}

// Headlines fetches news through the retry and breaker policies.
func (g *Guarded) Headlines(ctx context.Context, symbol string, limit int) ([]string, error) {
	return guardFetch(ctx, g, symbol, "headlines", func() ([]string, error) {
		return g.inner.Headlines(ctx, symbol, limit)
	})
}

func guardFetch[T any](ctx context.Context, g *Guarded, symbol, what string, fn func() (T, error)) (T, error) {
	cfg := g.retry
	userOnRetry := cfg.OnRetry
	cfg.OnRetry = func(attempt int, err error, backoff time.Duration) {
		g.log.Warn("Market data fetch failed, retrying", logger.Fields(
			logger.FieldSymbol, symbol,
			logger.FieldOperation, what,
			"attempt", attempt,
			"backoff_ms", backoff.Milliseconds(),
			logger.FieldError, err.Error(),
		))
		if userOnRetry != nil {
			userOnRetry(attempt, err, backoff)
		}
	}

	out, err := resilience.Retry(ctx, cfg, func() (T, error) {
		var result T
		execErr := g.breaker.Execute(func() error {
			var fetchErr error
			result, fetchErr = fn()
			return fetchErr
		})
		return result, execErr
	})
	if err != nil {
		var zero T
		if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
			return zero, err
		}
		var appErr *errors.AppError
		if stderrors.As(err, &appErr) {
			return zero, err
		}
		return zero, errors.MarketData(symbol, err)
	}
	return out, nil
}
