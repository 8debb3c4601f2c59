package marketdata

import (
	"context"
	"time"
)

// Candle is one daily OHLCV bar.
type Candle struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// Provider serves historical market data to the analysis units.
type Provider interface {
	// Candles returns days daily bars for symbol, oldest first.
	Candles(ctx context.Context, symbol string, days int) ([]Candle, error)

	// Headlines returns up to limit recent news headlines for symbol.
	Headlines(ctx context.Context, symbol string, limit int) ([]string, error)
}

// Closes extracts the close series from candles, oldest first.
func Closes(candles []Candle) []float64 {
	out := make([]float64, len(candles))
	for i, c := range candles {
		out[i] = c.Close
	}
	return out
}

// Volumes extracts the volume series from candles, oldest first.
func Volumes(candles []Candle) []int64 {
	out := make([]int64, len(candles))
	for i, c := range candles {
		out[i] = c.Volume
	}
	return out
}
