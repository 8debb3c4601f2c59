// Package marketdata serves historical candles and news headlines to the
// analysis units.
//
// Provider is the access interface. SimProvider generates deterministic
// per-symbol series for tests and offline runs. Guard wraps any Provider
// with bounded retry and a circuit breaker, and Component adds registry
// lifecycle plus health reporting on top:
//
//	feed := marketdata.NewComponent(
//	    marketdata.NewSimProvider(marketdata.DefaultSimConfig()),
//	    marketdata.DefaultGuardConfig(),
//	    "RELIANCE",
//	    log,
//	)
//	candles, err := feed.Provider().Candles(ctx, "RELIANCE", 30)
package marketdata
