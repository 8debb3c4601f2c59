package agents

import (
	"testing"

	"github.com/tradeflowhq/tradeflow/marketdata"
)

func TestSMA(t *testing.T) {
	closes := []float64{1, 2, 3, 4, 5}

	got, ok := SMA(closes, 5)
	if !ok || !approxEqual(got, 3) {
		t.Errorf("expected SMA 3, got %v (ok=%v)", got, ok)
	}

	got, ok = SMA(closes, 3)
	if !ok || !approxEqual(got, 4) {
		t.Errorf("expected SMA 4 over last 3, got %v (ok=%v)", got, ok)
	}

	if _, ok := SMA(closes, 6); ok {
		t.Error("expected SMA to fail with insufficient data")
	}
	if _, ok := SMA(closes, 0); ok {
		t.Error("expected SMA to fail with zero period")
	}
}

func TestEMA(t *testing.T) {
	// alpha = 2/3: 1, 5/3, 23/9.
	got, ok := EMA([]float64{1, 2, 3}, 2)
	if !ok || !approxEqual(got, 23.0/9.0) {
		t.Errorf("expected EMA 23/9, got %v (ok=%v)", got, ok)
	}

	if _, ok := EMA([]float64{1, 2, 3}, 4); ok {
		t.Error("expected EMA to fail with insufficient data")
	}
}

func TestRSI(t *testing.T) {
	// Deltas over the last 2 closes: -0.5 and +1.0. Average gain 0.5,
	// average loss 0.25, RS 2, RSI 100 - 100/3.
	got, ok := RSI([]float64{10, 11, 10.5, 11.5}, 2)
	if !ok || !approxEqual(got, 100-100.0/3.0) {
		t.Errorf("expected RSI 66.667, got %v (ok=%v)", got, ok)
	}
}

func TestRSI_Extremes(t *testing.T) {
	if got, ok := RSI([]float64{1, 2, 3, 4}, 3); !ok || got != 100 {
		t.Errorf("expected RSI 100 on all gains, got %v (ok=%v)", got, ok)
	}
	if got, ok := RSI([]float64{4, 3, 2, 1}, 3); !ok || got != 0 {
		t.Errorf("expected RSI 0 on all losses, got %v (ok=%v)", got, ok)
	}
	if _, ok := RSI([]float64{2, 2, 2, 2}, 3); ok {
		t.Error("expected RSI to fail on a flat series")
	}
	if _, ok := RSI([]float64{1, 2}, 2); ok {
		t.Error("expected RSI to fail with insufficient data")
	}
}

func TestMACD_ConstantSeries(t *testing.T) {
	closes := make([]float64, 40)
	for i := range closes {
		closes[i] = 50
	}
	line, sig, hist, ok := MACD(closes, macdFast, macdSlow, macdSignal)
	if !ok {
		t.Fatal("expected MACD to succeed with 40 closes")
	}
	if !approxEqual(line, 0) || !approxEqual(sig, 0) || !approxEqual(hist, 0) {
		t.Errorf("expected zero MACD on constant series, got line=%v sig=%v hist=%v", line, sig, hist)
	}
}

func TestMACD_Uptrend(t *testing.T) {
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	line, _, hist, ok := MACD(closes, macdFast, macdSlow, macdSignal)
	if !ok {
		t.Fatal("expected MACD to succeed")
	}
	if line <= 0 {
		t.Errorf("expected positive MACD line in an uptrend, got %v", line)
	}
	if hist <= 0 {
		t.Errorf("expected positive histogram in an uptrend, got %v", hist)
	}
}

func TestMACD_InsufficientData(t *testing.T) {
	closes := make([]float64, macdSlow+macdSignal-1)
	if _, _, _, ok := MACD(closes, macdFast, macdSlow, macdSignal); ok {
		t.Error("expected MACD to fail below slow+signal closes")
	}
}

func TestATR(t *testing.T) {
	candles := []marketdata.Candle{
		{High: 10.5, Low: 9.5, Close: 10},
		{High: 11, Low: 10, Close: 10.8},
		{High: 12, Low: 10.5, Close: 11.5},
	}
	// True ranges: max(1, 1, 0)=1 and max(1.5, 1.2, 0.3)=1.5.
	got, ok := ATR(candles, 2)
	if !ok || !approxEqual(got, 1.25) {
		t.Errorf("expected ATR 1.25, got %v (ok=%v)", got, ok)
	}

	if _, ok := ATR(candles[:2], 2); ok {
		t.Error("expected ATR to fail with insufficient candles")
	}
}

func TestATRPercent(t *testing.T) {
	got, ok := ATRPercent(steadyCandles(20, 100, 3, 1_000_000), atrPeriod)
	if !ok || !approxEqual(got, 3) {
		t.Errorf("expected ATR percent 3, got %v (ok=%v)", got, ok)
	}

	if _, ok := ATRPercent(steadyCandles(10, 100, 3, 1_000_000), atrPeriod); ok {
		t.Error("expected ATR percent to fail with insufficient candles")
	}
}
