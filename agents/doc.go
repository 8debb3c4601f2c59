// Package agents provides the built-in market analysis units and their
// capability registrations.
//
// Four units form the stock analysis pipeline. Scouting screens a symbol
// universe for tradeable volatility and liquidity and emits a shortlist.
// Technical computes indicators (RSI, MACD, moving averages) over the
// shortlist and scores each symbol's strength. Sentiment scores recent
// headlines against a weighted lexicon. Strategist folds both analyses
// into buy, hold, or sell recommendations.
//
// Units are registered as capability builders and constructed per run
// from node config:
//
//	reg := dag.NewRegistry()
//	agents.RegisterAll(reg, agents.Deps{
//		Provider: marketdata.NewSimProvider(marketdata.DefaultSimConfig()),
//		Cache:    cache.New(3 * time.Hour),
//	})
//
// Every unit reads and writes plain payload maps so graphs are free to
// rewire them, subset their outputs, or swap in custom capabilities
// alongside them.
package agents
