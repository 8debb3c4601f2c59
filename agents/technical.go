package agents

import (
	"context"
	"fmt"
	"math"

	"github.com/tradeflowhq/tradeflow/dag"
	"github.com/tradeflowhq/tradeflow/logger"
	"github.com/tradeflowhq/tradeflow/marketdata"
)

// Trend vocabulary shared with the sentiment and strategist units.
const (
	trendBullish = "bullish"
	trendBearish = "bearish"
	trendNeutral = "neutral"
)

// Recommendation bands on the 0-100 strength scale.
const (
	actionStrongBuy  = "strong_buy"
	actionBuy        = "buy"
	actionHold       = "hold"
	actionSell       = "sell"
	actionStrongSell = "strong_sell"
)

// NewTechnical builds the indicator analysis unit. Config keys: days.
func NewTechnical(deps Deps) dag.Builder {
	return func(cfg map[string]any) (dag.Unit, error) {
		if err := requireProvider("technical", deps.Provider); err != nil {
			return nil, err
		}
		u := &technicalUnit{
			provider: deps.Provider,
			log:      deps.logger("technical"),
			days:     cfgInt(cfg, "days", defaultLookbackDays),
		}
		if u.days < minAnalysisN {
			return nil, fmt.Errorf("technical: days must cover at least %d bars, got %d", minAnalysisN, u.days)
		}
		return u, nil
	}
}

type technicalUnit struct {
	provider marketdata.Provider
	log      *logger.Logger
	days     int
}

var _ dag.Unit = (*technicalUnit)(nil)

// Validate requires a symbols string list, normally mapped in from the
// scouting shortlist. An empty list is valid and yields no analyses.
func (u *technicalUnit) Validate(input dag.Payload) bool {
	v, ok := input["symbols"]
	if !ok {
		return false
	}
	_, ok = stringSlice(v)
	return ok
}

func (u *technicalUnit) Run(ctx context.Context, input dag.Payload) (dag.Payload, error) {
	symbols, _ := stringSlice(input["symbols"])

	analyses := make(map[string]any, len(symbols))
	skipped := make([]string, 0)
	for _, symbol := range symbols {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		candles, err := u.provider.Candles(ctx, symbol, u.days)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			u.log.Warn("Analysis fetch failed", logger.Fields(
				logger.FieldSymbol, symbol,
				logger.FieldError, err.Error(),
			))
			skipped = append(skipped, symbol)
			continue
		}
		result, ok := analyzeCandles(symbol, candles)
		if !ok {
			u.log.Warn("Insufficient history for analysis", logger.Fields(
				logger.FieldSymbol, symbol,
				"bars", len(candles),
			))
			skipped = append(skipped, symbol)
			continue
		}
		analyses[symbol] = result
	}

	u.log.Info("Technical analysis complete", logger.Fields(
		"analyzed", len(analyses),
		"skipped", len(skipped),
	))
	return dag.Payload{
		"analyses": analyses,
		"analyzed": len(analyses),
		"skipped":  skipped,
	}, nil
}

// analyzeCandles computes the full indicator set for one symbol. It needs
// enough history for the long moving average; indicators that still come
// up short are emitted as nil.
func analyzeCandles(symbol string, candles []marketdata.Candle) (map[string]any, bool) {
	closes := marketdata.Closes(candles)
	if len(closes) < minAnalysisN {
		return nil, false
	}
	price := closes[len(closes)-1]

	rsi, hasRSI := RSI(closes, rsiPeriod)
	macd, macdSig, macdHist, hasMACD := MACD(closes, macdFast, macdSlow, macdSignal)
	sma20, hasSMA20 := SMA(closes, smaShort)
	sma50, hasSMA50 := SMA(closes, smaLong)
	ema12, hasEMA12 := EMA(closes, macdFast)
	ema26, hasEMA26 := EMA(closes, macdSlow)

	trend := trendFor(price, sma20, sma50, hasSMA20 && hasSMA50)
	signals := signalsFor(rsi, hasRSI, macd, macdSig, hasMACD, trend)
	strength := strengthScore(rsi, hasRSI, macdHist, hasMACD, trend)

	return map[string]any{
		"symbol":         symbol,
		"price":          price,
		"rsi":            optional(rsi, hasRSI),
		"macd":           optional(macd, hasMACD),
		"macd_signal":    optional(macdSig, hasMACD),
		"macd_histogram": optional(macdHist, hasMACD),
		"sma_20":         optional(sma20, hasSMA20),
		"sma_50":         optional(sma50, hasSMA50),
		"ema_12":         optional(ema12, hasEMA12),
		"ema_26":         optional(ema26, hasEMA26),
		"trend":          trend,
		"strength":       strength,
		"signals":        signals,
		"recommendation": recommendationFor(strength),
	}, true
}

func optional(v float64, ok bool) any {
	if !ok {
		return nil
	}
	return v
}

// trendFor classifies the trend by where price sits relative to the
// stacked moving averages.
func trendFor(price, sma20, sma50 float64, hasSMAs bool) string {
	if !hasSMAs {
		return trendNeutral
	}
	if price > sma20 && sma20 > sma50 {
		return trendBullish
	}
	if price < sma20 && sma20 < sma50 {
		return trendBearish
	}
	return trendNeutral
}

func signalsFor(rsi float64, hasRSI bool, macd, macdSig float64, hasMACD bool, trend string) []string {
	signals := make([]string, 0, 3)
	if hasRSI {
		switch {
		case rsi < 30:
			signals = append(signals, "RSI Oversold (<30)")
		case rsi > 70:
			signals = append(signals, "RSI Overbought (>70)")
		case rsi >= 40 && rsi <= 60:
			signals = append(signals, "RSI Neutral")
		}
	}
	if hasMACD {
		if macd > macdSig {
			signals = append(signals, "MACD Bullish (above signal)")
		} else {
			signals = append(signals, "MACD Bearish (below signal)")
		}
	}
	signals = append(signals, "Trend: "+capitalize(trend))
	return signals
}

// strengthScore folds the indicators into a 0-100 score starting from a
// neutral 50. Oversold RSI and a positive histogram push it up, their
// opposites pull it down, the trend adds the final tilt.
func strengthScore(rsi float64, hasRSI bool, macdHist float64, hasMACD bool, trend string) float64 {
	score := 50.0
	if hasRSI {
		switch {
		case rsi < 30:
			score += 20
		case rsi > 70:
			score -= 20
		case rsi >= 40 && rsi <= 60:
			score += 5
		}
	}
	if hasMACD {
		if macdHist > 0 {
			score += math.Min(15, macdHist*10)
		} else {
			score -= math.Min(15, math.Abs(macdHist)*10)
		}
	}
	switch trend {
	case trendBullish:
		score += 15
	case trendBearish:
		score -= 15
	}
	return clamp(score, 0, 100)
}

func recommendationFor(strength float64) string {
	switch {
	case strength >= 70:
		return actionStrongBuy
	case strength >= 55:
		return actionBuy
	case strength >= 45:
		return actionHold
	case strength >= 30:
		return actionSell
	default:
		return actionStrongSell
	}
}

func capitalize(s string) string {
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
