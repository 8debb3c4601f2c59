package marketdata

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"math/rand"
	"time"

	"github.com/tradeflowhq/tradeflow/errors"
)

const defaultHeadlineCount = 8

// SimConfig tunes the simulated feed.
type SimConfig struct {
	// Latency is an artificial delay applied to every call.
	Latency time.Duration
	// Drift is the mean daily return of the generated walk.
	Drift float64
	// Volatility is the standard deviation of daily returns.
	Volatility float64
	// BaseVolume is the typical daily share volume.
	BaseVolume int64
}

// DefaultSimConfig returns the standard generation parameters: a slight
// upward drift, 2.5% daily volatility, about a million shares a day.
func DefaultSimConfig() SimConfig {
	return SimConfig{
		Drift:      0.001,
		Volatility: 0.025,
		BaseVolume: 1_000_000,
	}
}

// SimProvider generates market data from a per-symbol seed. The same
// symbol always yields the same price and headline series, which keeps
// runs reproducible in tests and offline environments.
type SimProvider struct {
	cfg SimConfig
}

// NewSimProvider creates a simulated provider.
func NewSimProvider(cfg SimConfig) *SimProvider {
	if cfg.Volatility <= 0 {
		cfg.Volatility = 0.025
	}
	if cfg.BaseVolume <= 0 {
		cfg.BaseVolume = 1_000_000
	}
	return &SimProvider{cfg: cfg}
}

var _ Provider = (*SimProvider)(nil)

// Candles generates days daily bars for symbol, oldest first, ending on
// the most recent weekday.
func (p *SimProvider) Candles(ctx context.Context, symbol string, days int) ([]Candle, error) {
	if err := p.wait(ctx); err != nil {
		return nil, err
	}
	if symbol == "" {
		return nil, errors.InvalidInput("symbol", "must not be empty")
	}
	if days <= 0 {
		return nil, errors.InvalidInput("days", "must be positive")
	}

	seed := symbolSeed(symbol)
	rng := rand.New(rand.NewSource(int64(seed)))

	// Base price in [20, 999), fixed per symbol.
	price := 20 + float64(seed%97900)/100

	candles := make([]Candle, 0, days)
	for _, date := range tradingDays(time.Now().UTC(), days) {
		change := rng.NormFloat64()*p.cfg.Volatility + p.cfg.Drift
		price *= 1 + change
		if price < 1 {
			price = 1
		}

		dayRange := price * p.cfg.Volatility * (0.5 + rng.Float64())
		high := price + dayRange*(0.3+rng.Float64()*0.4)
		low := price - dayRange*(0.3+rng.Float64()*0.4)
		open := price + dayRange*(rng.Float64()*0.6-0.3)

		high = math.Max(high, math.Max(open, price))
		low = math.Min(low, math.Min(open, price))

		// Bigger intraday moves trade more shares.
		swing := math.Abs(price-open) / open
		volume := int64(float64(p.cfg.BaseVolume) * (1 + swing*5) * (0.7 + rng.Float64()*0.6))

		candles = append(candles, Candle{
			Date:   date,
			Open:   round2(open),
			High:   round2(high),
			Low:    round2(low),
			Close:  round2(price),
			Volume: volume,
		})
	}
	return candles, nil
}

// Headlines returns limit deterministic headlines for symbol. A
// non-positive limit falls back to the default count.
func (p *SimProvider) Headlines(ctx context.Context, symbol string, limit int) ([]string, error) {
	if err := p.wait(ctx); err != nil {
		return nil, err
	}
	if symbol == "" {
		return nil, errors.InvalidInput("symbol", "must not be empty")
	}
	if limit <= 0 {
		limit = defaultHeadlineCount
	}

	start := int(symbolSeed(symbol) % uint64(len(headlinePool)))
	headlines := make([]string, 0, limit)
	for i := 0; i < limit; i++ {
		template := headlinePool[(start+i*5)%len(headlinePool)]
		headlines = append(headlines, fmt.Sprintf(template, symbol))
	}
	return headlines, nil
}

// wait applies the configured latency, honoring context cancellation.
func (p *SimProvider) wait(ctx context.Context) error {
	if p.cfg.Latency <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(p.cfg.Latency)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func symbolSeed(symbol string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(symbol))
	return h.Sum64()
}

// tradingDays returns the last n weekdays up to end, oldest first.
func tradingDays(end time.Time, n int) []time.Time {
	days := make([]time.Time, 0, n)
	d := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	for len(days) < n {
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			days = append(days, d)
		}
		d = d.AddDate(0, 0, -1)
	}
	for i, j := 0, len(days)-1; i < j; i, j = i+1, j-1 {
		days[i], days[j] = days[j], days[i]
	}
	return days
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// headlinePool mixes bullish, bearish, and neutral stories so the
// sentiment unit sees varied vocabulary per symbol.
var headlinePool = []string{
	"%s shares surge after record quarterly profit",
	"%s beats revenue estimates on strong demand",
	"%s wins major supply contract, outlook raised",
	"Analysts upgrade %s citing robust growth",
	"%s announces expansion into new markets",
	"%s shares fall as margins come under pressure",
	"%s misses earnings estimates, guidance cut",
	"Regulators open probe into %s disclosures",
	"%s downgraded on weak demand outlook",
	"%s reports flat quarter, management cautious",
	"%s board approves dividend, payout unchanged",
	"%s trading volumes steady ahead of results",
}
