package agents

import (
	"context"
	"sort"
	"strings"
	"unicode"

	"github.com/tradeflowhq/tradeflow/dag"
	"github.com/tradeflowhq/tradeflow/logger"
	"github.com/tradeflowhq/tradeflow/marketdata"
)

const (
	defaultHeadlineLimit = 8

	// sentimentThreshold splits the mean headline score into labels.
	// Scores within the band are neutral.
	sentimentThreshold = 0.15
)

// lexicon maps headline tokens to sentiment weights. Per-headline scores
// are the clamped sum of matched weights.
var lexicon = map[string]float64{
	"surge": 0.8, "surges": 0.8, "soar": 0.8, "soars": 0.8,
	"beat": 0.7, "beats": 0.7, "upgrade": 0.7, "upgraded": 0.7,
	"upgrades": 0.7, "rally": 0.6, "rallies": 0.6, "profit": 0.6,
	"profits": 0.6, "win": 0.6, "wins": 0.6, "gain": 0.5, "gains": 0.5,
	"strong": 0.5, "robust": 0.5, "growth": 0.5, "raised": 0.5,
	"record": 0.4, "expansion": 0.4, "dividend": 0.2,

	"plunge": -0.8, "plunges": -0.8, "slump": -0.7, "slumps": -0.7,
	"miss": -0.7, "misses": -0.7, "downgrade": -0.7, "downgraded": -0.7,
	"downgrades": -0.7, "probe": -0.7, "fall": -0.6, "falls": -0.6,
	"drop": -0.6, "drops": -0.6, "loss": -0.6, "losses": -0.6,
	"lawsuit": -0.6, "weak": -0.5, "cut": -0.5, "cuts": -0.5,
	"recall": -0.5, "pressure": -0.4, "cautious": -0.3, "flat": -0.1,
}

// NewSentiment builds the headline sentiment unit. Config keys:
// headline_limit.
func NewSentiment(deps Deps) dag.Builder {
	return func(cfg map[string]any) (dag.Unit, error) {
		if err := requireProvider("sentiment", deps.Provider); err != nil {
			return nil, err
		}
		u := &sentimentUnit{
			provider: deps.Provider,
			log:      deps.logger("sentiment"),
			limit:    cfgInt(cfg, "headline_limit", defaultHeadlineLimit),
		}
		if u.limit <= 0 {
			u.limit = defaultHeadlineLimit
		}
		return u, nil
	}
}

type sentimentUnit struct {
	provider marketdata.Provider
	log      *logger.Logger
	limit    int
}

var _ dag.Unit = (*sentimentUnit)(nil)

// Validate accepts a symbols string list, a headlines map of symbol to
// string list, or both. Supplied headlines take precedence over fetching.
func (u *sentimentUnit) Validate(input dag.Payload) bool {
	_, hasSymbols := input["symbols"]
	if hasSymbols {
		if _, ok := stringSlice(input["symbols"]); !ok {
			return false
		}
	}
	v, hasHeadlines := input["headlines"]
	if hasHeadlines {
		m, ok := toMap(v)
		if !ok {
			return false
		}
		for _, raw := range m {
			if _, ok := stringSlice(raw); !ok {
				return false
			}
		}
	}
	return hasSymbols || hasHeadlines
}

func (u *sentimentUnit) Run(ctx context.Context, input dag.Payload) (dag.Payload, error) {
	symbols, _ := stringSlice(input["symbols"])

	supplied := make(map[string][]string)
	if v, ok := input["headlines"]; ok {
		if m, ok := toMap(v); ok {
			for symbol, raw := range m {
				if list, ok := stringSlice(raw); ok {
					supplied[symbol] = list
				}
			}
		}
	}
	if len(symbols) == 0 && len(supplied) > 0 {
		symbols = make([]string, 0, len(supplied))
		for symbol := range supplied {
			symbols = append(symbols, symbol)
		}
		sort.Strings(symbols)
	}

	sentiments := make(map[string]any, len(symbols))
	skipped := make([]string, 0)
	for _, symbol := range symbols {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		headlines, ok := supplied[symbol]
		if !ok {
			var err error
			headlines, err = u.provider.Headlines(ctx, symbol, u.limit)
			if err != nil {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				u.log.Warn("Headline fetch failed", logger.Fields(
					logger.FieldSymbol, symbol,
					logger.FieldError, err.Error(),
				))
				skipped = append(skipped, symbol)
				continue
			}
		}
		score, label := scoreHeadlines(headlines)
		sentiments[symbol] = map[string]any{
			"symbol":         symbol,
			"score":          score,
			"label":          label,
			"headline_count": len(headlines),
		}
	}

	u.log.Info("Sentiment analysis complete", logger.Fields(
		"analyzed", len(sentiments),
		"skipped", len(skipped),
	))
	return dag.Payload{
		"sentiments": sentiments,
		"analyzed":   len(sentiments),
		"skipped":    skipped,
	}, nil
}

// scoreHeadlines averages per-headline scores and labels the result. A
// symbol with no headlines reads as neutral.
func scoreHeadlines(headlines []string) (float64, string) {
	if len(headlines) == 0 {
		return 0, trendNeutral
	}
	var total float64
	for _, h := range headlines {
		total += scoreHeadline(h)
	}
	score := round2(total / float64(len(headlines)))
	return score, labelFor(score)
}

// scoreHeadline sums lexicon weights over the headline's tokens, clamped
// to [-1, 1].
func scoreHeadline(headline string) float64 {
	var score float64
	for _, token := range tokenize(headline) {
		score += lexicon[token]
	}
	return clamp(score, -1, 1)
}

func labelFor(score float64) string {
	switch {
	case score > sentimentThreshold:
		return trendBullish
	case score < -sentimentThreshold:
		return trendBearish
	default:
		return trendNeutral
	}
}

func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
}
