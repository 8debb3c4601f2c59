package agents

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/tradeflowhq/tradeflow/dag"
	"github.com/tradeflowhq/tradeflow/marketdata"
)

// fakeProvider serves canned candles and headlines and counts calls.
type fakeProvider struct {
	mu          sync.Mutex
	candles     map[string][]marketdata.Candle
	headlines   map[string][]string
	candleErr   map[string]error
	headlineErr map[string]error
	calls       map[string]int
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		candles:     make(map[string][]marketdata.Candle),
		headlines:   make(map[string][]string),
		candleErr:   make(map[string]error),
		headlineErr: make(map[string]error),
		calls:       make(map[string]int),
	}
}

var _ marketdata.Provider = (*fakeProvider)(nil)

func (f *fakeProvider) Candles(ctx context.Context, symbol string, days int) ([]marketdata.Candle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["candles:"+symbol]++
	if err := f.candleErr[symbol]; err != nil {
		return nil, err
	}
	return f.candles[symbol], nil
}

func (f *fakeProvider) Headlines(ctx context.Context, symbol string, limit int) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["headlines:"+symbol]++
	if err := f.headlineErr[symbol]; err != nil {
		return nil, err
	}
	h := f.headlines[symbol]
	if limit > 0 && len(h) > limit {
		h = h[:limit]
	}
	return h, nil
}

func (f *fakeProvider) callCount(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[key]
}

// steadyCandles returns n flat bars at price with a daily range of
// spreadPct percent and constant volume. ATR percent comes out as exactly
// spreadPct.
func steadyCandles(n int, price, spreadPct float64, volume int64) []marketdata.Candle {
	out := make([]marketdata.Candle, n)
	day := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
	half := price * spreadPct / 200
	for i := range out {
		out[i] = marketdata.Candle{
			Date:   day.AddDate(0, 0, i),
			Open:   price,
			High:   price + half,
			Low:    price - half,
			Close:  price,
			Volume: volume,
		}
	}
	return out
}

// fadeVolumes overwrites the last lastN volumes, shifting the recent to
// average volume ratio.
func fadeVolumes(candles []marketdata.Candle, lastN int, volume int64) []marketdata.Candle {
	for i := len(candles) - lastN; i < len(candles); i++ {
		candles[i].Volume = volume
	}
	return candles
}

// trendingCandles returns n bars whose close moves by step each bar,
// starting at start.
func trendingCandles(n int, start, step float64, volume int64) []marketdata.Candle {
	out := make([]marketdata.Candle, n)
	day := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
	prev := start - step
	for i := range out {
		c := start + step*float64(i)
		high, low := c, prev
		if low > high {
			high, low = low, high
		}
		out[i] = marketdata.Candle{
			Date:   day.AddDate(0, 0, i),
			Open:   prev,
			High:   high + 1,
			Low:    low - 1,
			Close:  c,
			Volume: volume,
		}
		prev = c
	}
	return out
}

func approxEqual(a, b float64) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff < 1e-9
}

func TestRegisterAll(t *testing.T) {
	reg := dag.NewRegistry()
	RegisterAll(reg, Deps{Provider: newFakeProvider()})

	for _, capability := range []string{CapScouting, CapTechnical, CapSentiment, CapStrategist} {
		if !reg.Has(capability) {
			t.Errorf("expected capability %q to be registered", capability)
		}
	}

	builder, _ := reg.Get(CapScouting)
	unit, err := builder(map[string]any{"top_n": 3})
	if err != nil {
		t.Fatalf("expected scouting builder to succeed, got %v", err)
	}
	if unit == nil {
		t.Fatal("expected a unit, got nil")
	}
}

func TestBuilders_RequireProvider(t *testing.T) {
	builders := map[string]dag.Builder{
		"scouting":  NewScouting(Deps{}),
		"technical": NewTechnical(Deps{}),
		"sentiment": NewSentiment(Deps{}),
	}
	for name, builder := range builders {
		if _, err := builder(nil); err == nil {
			t.Errorf("expected %s builder to fail without a provider", name)
		}
	}
	if _, err := NewStrategist(Deps{})(nil); err != nil {
		t.Errorf("expected strategist to build without a provider, got %v", err)
	}
}

func TestPipeline_EndToEnd(t *testing.T) {
	provider := newFakeProvider()
	provider.candles["AAA"] = steadyCandles(60, 100, 3, 1_200_000)
	provider.candles["BBB"] = steadyCandles(60, 50, 3, 900_000)
	provider.headlines["AAA"] = []string{"AAA beats revenue estimates on strong demand"}
	provider.headlines["BBB"] = []string{"BBB misses earnings estimates, guidance cut"}

	reg := dag.NewRegistry()
	RegisterAll(reg, Deps{Provider: provider})

	graph := &dag.Graph{
		Name: "analysis",
		Nodes: []dag.NodeDecl{
			{ID: "scout", Uses: CapScouting, Config: map[string]any{
				"universe": []string{"AAA", "BBB"}, "top_n": 2, "days": 60,
			}},
			{ID: "tech", Uses: CapTechnical, Config: map[string]any{"days": 60},
				Inputs: map[string]string{"symbols": "scout.shortlist"}},
			{ID: "sent", Uses: CapSentiment,
				Inputs: map[string]string{"symbols": "scout.shortlist"}},
			{ID: "plan", Uses: CapStrategist,
				Inputs: map[string]string{"technical": "tech.analyses", "sentiments": "sent.sentiments"}},
		},
		Edges: []dag.Edge{
			{From: "scout", To: "tech"},
			{From: "scout", To: "sent"},
			{From: "tech", To: "plan"},
			{From: "sent", To: "plan"},
		},
	}

	engine, err := dag.New(graph, reg)
	if err != nil {
		t.Fatalf("expected engine construction to succeed, got %v", err)
	}
	run, err := engine.Execute(context.Background(), nil)
	if err != nil {
		t.Fatalf("expected execution to succeed, got %v", err)
	}
	if run.Status != dag.StatusSuccess {
		t.Fatalf("expected success run, got %s (%s)", run.Status, run.Error)
	}

	planOut, ok := run.Output["plan"].(map[string]any)
	if !ok {
		t.Fatalf("expected strategist output payload, got %T", run.Output["plan"])
	}
	recs, ok := planOut["recommendations"].([]any)
	if !ok {
		t.Fatalf("expected recommendations list, got %T", planOut["recommendations"])
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 recommendations, got %d", len(recs))
	}
	for _, raw := range recs {
		rec := raw.(map[string]any)
		action := rec["action"].(string)
		if action != actionBuy && action != actionHold && action != actionSell {
			t.Errorf("unexpected action %q", action)
		}
	}

	scoutOut := run.Output["scout"].(map[string]any)
	if got := scoutOut["qualified"].(int); got != 2 {
		t.Errorf("expected both symbols to qualify, got %d", got)
	}
}
