package agents

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tradeflowhq/tradeflow/cache"
	"github.com/tradeflowhq/tradeflow/dag"
	"github.com/tradeflowhq/tradeflow/logger"
	"github.com/tradeflowhq/tradeflow/marketdata"
)

// Screening thresholds. A symbol qualifies when its volatility sits in the
// tradeable band, recent volume holds up against the average, and the
// average volume clears the liquidity floor.
const (
	defaultTopN           = 10
	defaultLookbackDays   = 66
	defaultScreenParallel = 8
	minScreenBars         = 20
	minATRPct             = 2.0
	maxATRPct             = 5.0
	idealATRPct           = 3.5
	minVolumeRatio        = 0.8
	minAvgVolume          = 100_000
)

// defaultUniverse is the symbol set screened when neither the node config
// nor the run input supplies one.
var defaultUniverse = []string{
	"RELIANCE", "TCS", "HDFCBANK", "INFY", "ICICIBANK", "HINDUNILVR",
	"ITC", "SBIN", "BHARTIARTL", "KOTAKBANK", "LT", "AXISBANK",
	"ASIANPAINT", "MARUTI", "SUNPHARMA", "TITAN", "ULTRACEMCO", "WIPRO",
	"NESTLEIND", "BAJFINANCE", "POWERGRID", "NTPC", "TECHM", "HCLTECH",
	"M&M", "TATASTEEL", "TATAMOTORS", "INDUSINDBK", "ADANIENT",
	"ADANIPORTS", "GRASIM", "JSWSTEEL", "HINDALCO", "DRREDDY", "CIPLA",
	"DIVISLAB", "BRITANNIA", "COALINDIA", "EICHERMOT", "HEROMOTOCO",
	"BAJAJ-AUTO", "BPCL", "ONGC", "TATACONSUM", "APOLLOHOSP", "UPL",
	"SBILIFE", "HDFCLIFE",
}

// NewScouting builds the screening unit. Config keys: top_n, days,
// max_concurrent, universe.
func NewScouting(deps Deps) dag.Builder {
	return func(cfg map[string]any) (dag.Unit, error) {
		if err := requireProvider("scouting", deps.Provider); err != nil {
			return nil, err
		}
		u := &scoutingUnit{
			provider: deps.Provider,
			cache:    deps.Cache,
			log:      deps.logger("scouting"),
			topN:     cfgInt(cfg, "top_n", defaultTopN),
			days:     cfgInt(cfg, "days", defaultLookbackDays),
			parallel: cfgInt(cfg, "max_concurrent", defaultScreenParallel),
			universe: defaultUniverse,
		}
		if u.topN <= 0 {
			return nil, fmt.Errorf("scouting: top_n must be positive, got %d", u.topN)
		}
		if u.days < minScreenBars {
			return nil, fmt.Errorf("scouting: days must cover at least %d bars, got %d", minScreenBars, u.days)
		}
		if u.parallel <= 0 {
			u.parallel = defaultScreenParallel
		}
		if v, exists := cfg["universe"]; exists {
			universe, ok := stringSlice(v)
			if !ok || len(universe) == 0 {
				return nil, fmt.Errorf("scouting: universe must be a non-empty string list")
			}
			u.universe = universe
		}
		return u, nil
	}
}

type scoutingUnit struct {
	provider marketdata.Provider
	cache    *cache.Store
	log      *logger.Logger
	topN     int
	days     int
	parallel int
	universe []string
}

var _ dag.Unit = (*scoutingUnit)(nil)

// Validate accepts an empty input or one whose optional symbols entry is a
// string list overriding the configured universe.
func (u *scoutingUnit) Validate(input dag.Payload) bool {
	if v, ok := input["symbols"]; ok {
		if _, ok := stringSlice(v); !ok {
			return false
		}
	}
	return true
}

func (u *scoutingUnit) Run(ctx context.Context, input dag.Payload) (dag.Payload, error) {
	symbols := u.universe
	if v, ok := input["symbols"]; ok {
		if override, ok := stringSlice(v); ok && len(override) > 0 {
			symbols = override
		}
	}

	key := u.cacheKey(symbols)
	if u.cache != nil {
		if cached, ok := u.cache.Get(key); ok {
			if out, ok := cached.(dag.Payload); ok {
				u.log.Debug("Serving shortlist from cache", logger.Fields("key", key))
				return out, nil
			}
		}
	}

	results, err := u.screenAll(ctx, symbols)
	if err != nil {
		return nil, err
	}

	picks := rankShortlist(results, u.topN)
	shortlisted := make([]string, 0, len(picks))
	for _, p := range picks {
		shortlisted = append(shortlisted, p.Symbol)
	}

	qualified := 0
	details := make(map[string]any, len(results))
	for _, r := range results {
		if r.Qualified {
			qualified++
		}
		details[r.Symbol] = r.detail()
	}

	out := dag.Payload{
		"shortlist": shortlisted,
		"screened":  len(results),
		"qualified": qualified,
		"details":   details,
	}
	u.log.Info("Screening complete", logger.Fields(
		"screened", len(results),
		"qualified", qualified,
		"shortlisted", len(shortlisted),
	))

	if u.cache != nil {
		u.cache.Set(key, out)
	}
	return out, nil
}

// cacheKey scopes cached shortlists to the trading day and the exact
// screening request.
func (u *scoutingUnit) cacheKey(symbols []string) string {
	return cache.Key("scouting",
		"day", time.Now().UTC().Format("2006-01-02"),
		"n", u.topN,
		"universe", strings.Join(symbols, ","),
	)
}

// screenAll fans the universe out across a bounded worker group. A symbol
// whose fetch or screen fails is skipped rather than failing the run;
// only context cancellation aborts the whole screen.
func (u *scoutingUnit) screenAll(ctx context.Context, symbols []string) ([]screening, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(u.parallel)

	var mu sync.Mutex
	results := make([]screening, 0, len(symbols))
	for i, symbol := range symbols {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			candles, err := u.provider.Candles(gctx, symbol, u.days)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				u.log.Warn("Screening fetch failed", logger.Fields(
					logger.FieldSymbol, symbol,
					logger.FieldError, err.Error(),
				))
				return nil
			}
			result, ok := screenCandles(symbol, candles)
			if !ok {
				u.log.Debug("Not enough history to screen", logger.Fields(
					logger.FieldSymbol, symbol,
					"bars", len(candles),
				))
				return nil
			}
			result.pos = i
			mu.Lock()
			results = append(results, result)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	sort.Slice(results, func(a, b int) bool { return results[a].pos < results[b].pos })
	return results, nil
}

// screening is one symbol's screening outcome.
type screening struct {
	Symbol       string
	Price        float64
	ATRPct       float64
	HasATR       bool
	AvgVolume    float64
	RecentVolume float64
	VolumeRatio  float64
	Qualified    bool
	Notes        []string

	pos int
}

func (s screening) detail() map[string]any {
	d := map[string]any{
		"symbol":        s.Symbol,
		"price":         s.Price,
		"avg_volume":    math.Round(s.AvgVolume),
		"recent_volume": math.Round(s.RecentVolume),
		"volume_ratio":  round2(s.VolumeRatio),
		"qualified":     s.Qualified,
		"notes":         s.Notes,
	}
	if s.HasATR {
		d["atr_pct"] = s.ATRPct
	} else {
		d["atr_pct"] = nil
	}
	return d
}

func screenCandles(symbol string, candles []marketdata.Candle) (screening, bool) {
	if len(candles) < minScreenBars {
		return screening{}, false
	}
	s := screening{
		Symbol: symbol,
		Price:  candles[len(candles)-1].Close,
	}

	atrOK := false
	if atrPct, ok := ATRPercent(candles, atrPeriod); ok {
		s.ATRPct = round2(atrPct)
		s.HasATR = true
		switch {
		case atrPct < minATRPct:
			s.Notes = append(s.Notes, fmt.Sprintf("ATR too low: %.2f%%", atrPct))
		case atrPct > maxATRPct:
			s.Notes = append(s.Notes, fmt.Sprintf("ATR too high: %.2f%%", atrPct))
		default:
			atrOK = true
			s.Notes = append(s.Notes, fmt.Sprintf("ATR OK: %.2f%%", atrPct))
		}
	} else {
		s.Notes = append(s.Notes, "ATR calculation failed")
	}

	volumes := marketdata.Volumes(candles)
	var total float64
	for _, v := range volumes {
		total += float64(v)
	}
	s.AvgVolume = total / float64(len(volumes))

	recentN := 5
	if len(volumes) < recentN {
		recentN = len(volumes)
	}
	var recent float64
	for _, v := range volumes[len(volumes)-recentN:] {
		recent += float64(v)
	}
	s.RecentVolume = recent / float64(recentN)
	if s.AvgVolume > 0 {
		s.VolumeRatio = s.RecentVolume / s.AvgVolume
	}

	ratioOK := s.VolumeRatio >= minVolumeRatio
	if ratioOK {
		s.Notes = append(s.Notes, fmt.Sprintf("Volume ratio OK: %.2f", s.VolumeRatio))
	} else {
		s.Notes = append(s.Notes, fmt.Sprintf("Volume ratio low: %.2f", s.VolumeRatio))
	}

	liquidOK := s.AvgVolume >= minAvgVolume
	if liquidOK {
		s.Notes = append(s.Notes, fmt.Sprintf("Avg volume OK: %.0f", s.AvgVolume))
	} else {
		s.Notes = append(s.Notes, fmt.Sprintf("Avg volume too low: %.0f", s.AvgVolume))
	}

	s.Qualified = atrOK && ratioOK && liquidOK
	return s, true
}

// screeningScore ranks symbols when too few qualify outright. Volatility
// near the ideal band center scores highest, volume momentum and liquidity
// add the rest.
func screeningScore(s screening) float64 {
	var score float64
	if s.HasATR && s.ATRPct >= minATRPct && s.ATRPct <= maxATRPct {
		score += 50 - math.Abs(s.ATRPct-idealATRPct)*10
	} else {
		score -= 20
	}
	score += s.VolumeRatio * 30
	score += math.Min(s.AvgVolume/1_000_000, 1.0) * 20
	return score
}

// rankShortlist returns the top picks. When enough symbols qualify they
// are ranked by volume momentum, closest-to-ideal volatility breaking
// ties. Otherwise every screened symbol is scored and the best fill in.
func rankShortlist(results []screening, topN int) []screening {
	qualified := make([]screening, 0, len(results))
	for _, r := range results {
		if r.Qualified {
			qualified = append(qualified, r)
		}
	}
	if len(qualified) >= topN {
		sort.SliceStable(qualified, func(a, b int) bool {
			if qualified[a].VolumeRatio != qualified[b].VolumeRatio {
				return qualified[a].VolumeRatio > qualified[b].VolumeRatio
			}
			return math.Abs(qualified[a].ATRPct-idealATRPct) < math.Abs(qualified[b].ATRPct-idealATRPct)
		})
		return qualified[:topN]
	}

	type scored struct {
		s     screening
		score float64
	}
	ranked := make([]scored, 0, len(results))
	for _, r := range results {
		ranked = append(ranked, scored{s: r, score: screeningScore(r)})
	}
	sort.SliceStable(ranked, func(a, b int) bool { return ranked[a].score > ranked[b].score })
	if len(ranked) > topN {
		ranked = ranked[:topN]
	}
	out := make([]screening, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, r.s)
	}
	return out
}
