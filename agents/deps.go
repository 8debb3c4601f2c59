package agents

import (
	"fmt"

	"github.com/tradeflowhq/tradeflow/cache"
	"github.com/tradeflowhq/tradeflow/dag"
	"github.com/tradeflowhq/tradeflow/logger"
	"github.com/tradeflowhq/tradeflow/marketdata"
)

// Capability locators for the analysis units.
const (
	CapScouting   = "market.scouting"
	CapTechnical  = "market.technical"
	CapSentiment  = "market.sentiment"
	CapStrategist = "market.strategist"
)

// Deps carries the collaborators injected into unit constructors.
type Deps struct {
	// Provider serves candles and headlines. Required by every unit that
	// touches market data.
	Provider marketdata.Provider
	// Cache holds screening results across runs. Optional; nil disables
	// caching.
	Cache *cache.Store
	// Log is the parent logger. Optional; nil falls back to the
	// registered agents logger.
	Log *logger.Logger
}

func (d Deps) logger(component string) *logger.Logger {
	l := d.Log
	if l == nil {
		l = logger.Get("agents")
	}
	return l.WithComponent(component)
}

// RegisterAll registers every analysis capability on reg.
func RegisterAll(reg *dag.Registry, deps Deps) {
	reg.Register(CapScouting, NewScouting(deps))
	reg.Register(CapTechnical, NewTechnical(deps))
	reg.Register(CapSentiment, NewSentiment(deps))
	reg.Register(CapStrategist, NewStrategist(deps))
}

// --- config and payload coercion helpers ---

// cfgInt reads an integer config value, tolerating the numeric types that
// YAML and JSON decoding produce.
func cfgInt(cfg map[string]any, key string, def int) int {
	v, ok := cfg[key]
	if !ok {
		return def
	}
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return def
	}
}

func cfgFloat(cfg map[string]any, key string, def float64) float64 {
	v, ok := cfg[key]
	if !ok {
		return def
	}
	f, ok := toFloat(v)
	if !ok {
		return def
	}
	return f
}

func cfgStrings(cfg map[string]any, key string) ([]string, bool) {
	v, ok := cfg[key]
	if !ok {
		return nil, false
	}
	return stringSlice(v)
}

// stringSlice coerces []string or []any-of-strings, the two shapes list
// values arrive in depending on whether they crossed a JSON boundary.
func stringSlice(v any) ([]string, bool) {
	switch s := v.(type) {
	case []string:
		return s, true
	case []any:
		out := make([]string, 0, len(s))
		for _, item := range s {
			str, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, str)
		}
		return out, true
	default:
		return nil, false
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

func toMap(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

func requireProvider(unit string, p marketdata.Provider) error {
	if p == nil {
		return fmt.Errorf("%s: market data provider is required", unit)
	}
	return nil
}
