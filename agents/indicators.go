package agents

import (
	"math"

	"github.com/tradeflowhq/tradeflow/marketdata"
)

// Indicator periods shared by the scouting and technical units.
const (
	atrPeriod    = 14
	rsiPeriod    = 14
	macdFast     = 12
	macdSlow     = 26
	macdSignal   = 9
	smaShort     = 20
	smaLong      = 50
	minAnalysisN = 50
)

// ATR returns the average true range over the trailing period. It needs
// period+1 candles because each true range spans two consecutive bars.
func ATR(candles []marketdata.Candle, period int) (float64, bool) {
	if period <= 0 || len(candles) < period+1 {
		return 0, false
	}
	var sum float64
	for i := len(candles) - period; i < len(candles); i++ {
		tr := candles[i].High - candles[i].Low
		if v := math.Abs(candles[i].High - candles[i-1].Close); v > tr {
			tr = v
		}
		if v := math.Abs(candles[i].Low - candles[i-1].Close); v > tr {
			tr = v
		}
		sum += tr
	}
	return sum / float64(period), true
}

// ATRPercent expresses ATR as a percentage of the latest close.
func ATRPercent(candles []marketdata.Candle, period int) (float64, bool) {
	atr, ok := ATR(candles, period)
	if !ok {
		return 0, false
	}
	last := candles[len(candles)-1].Close
	if last == 0 {
		return 0, false
	}
	return atr / last * 100, true
}

// RSI returns the relative strength index using simple averages of the
// trailing period's gains and losses. It needs period+1 closes.
func RSI(closes []float64, period int) (float64, bool) {
	if period <= 0 || len(closes) < period+1 {
		return 0, false
	}
	var gains, losses float64
	for i := len(closes) - period; i < len(closes); i++ {
		delta := closes[i] - closes[i-1]
		if delta > 0 {
			gains += delta
		} else {
			losses -= delta
		}
	}
	avgGain := gains / float64(period)
	avgLoss := losses / float64(period)
	if avgLoss == 0 {
		if avgGain == 0 {
			return 0, false
		}
		return 100, true
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs), true
}

// MACD returns the MACD line, its signal line, and the histogram. The
// signal is an EMA of the MACD series itself, so the input must cover at
// least slow+signal closes.
func MACD(closes []float64, fast, slow, signal int) (line, sig, hist float64, ok bool) {
	if fast <= 0 || slow <= 0 || signal <= 0 || len(closes) < slow+signal {
		return 0, 0, 0, false
	}
	emaFast := emaSeries(closes, fast)
	emaSlow := emaSeries(closes, slow)
	macd := make([]float64, len(closes))
	for i := range closes {
		macd[i] = emaFast[i] - emaSlow[i]
	}
	sigSeries := emaSeries(macd, signal)
	last := len(closes) - 1
	return macd[last], sigSeries[last], macd[last] - sigSeries[last], true
}

// SMA returns the simple moving average of the trailing period.
func SMA(closes []float64, period int) (float64, bool) {
	if period <= 0 || len(closes) < period {
		return 0, false
	}
	var sum float64
	for _, c := range closes[len(closes)-period:] {
		sum += c
	}
	return sum / float64(period), true
}

// EMA returns the exponential moving average of the full series, seeded
// with the first value.
func EMA(closes []float64, span int) (float64, bool) {
	if span <= 0 || len(closes) < span {
		return 0, false
	}
	s := emaSeries(closes, span)
	return s[len(s)-1], true
}

func emaSeries(values []float64, span int) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}
	alpha := 2.0 / (float64(span) + 1)
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = alpha*values[i] + (1-alpha)*out[i-1]
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
