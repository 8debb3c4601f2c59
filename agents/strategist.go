package agents

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/tradeflowhq/tradeflow/dag"
	"github.com/tradeflowhq/tradeflow/logger"
)

// Combination weights and decision thresholds. Sentiment scores are
// rescaled from [-1, 1] onto the 0-100 strength scale before mixing.
const (
	techWeight           = 0.6
	sentWeight           = 0.4
	buyThreshold         = 60.0
	sellThreshold        = 40.0
	agreementBonus       = 0.15
	defaultMinConfidence = 0.6
)

// NewStrategist builds the decision unit that folds technical and
// sentiment results into per-symbol recommendations. Config keys:
// min_confidence.
func NewStrategist(deps Deps) dag.Builder {
	return func(cfg map[string]any) (dag.Unit, error) {
		u := &strategistUnit{
			log:           deps.logger("strategist"),
			minConfidence: cfgFloat(cfg, "min_confidence", defaultMinConfidence),
		}
		if u.minConfidence < 0 || u.minConfidence > 1 {
			return nil, fmt.Errorf("strategist: min_confidence must be within [0, 1], got %v", u.minConfidence)
		}
		return u, nil
	}
}

type strategistUnit struct {
	log           *logger.Logger
	minConfidence float64
}

var _ dag.Unit = (*strategistUnit)(nil)

// Validate requires technical and sentiments maps, normally mapped in
// from the upstream analysis units. Empty maps are valid.
func (u *strategistUnit) Validate(input dag.Payload) bool {
	if _, ok := toMap(input["technical"]); !ok {
		return false
	}
	if _, ok := toMap(input["sentiments"]); !ok {
		return false
	}
	return true
}

func (u *strategistUnit) Run(ctx context.Context, input dag.Payload) (dag.Payload, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	technical, _ := toMap(input["technical"])
	sentiments, _ := toMap(input["sentiments"])

	symbols := unionKeys(technical, sentiments)
	recs := make([]recommendation, 0, len(symbols))
	for _, symbol := range symbols {
		recs = append(recs, u.decide(symbol, technical[symbol], sentiments[symbol]))
	}
	sort.SliceStable(recs, func(a, b int) bool {
		if recs[a].combined != recs[b].combined {
			return recs[a].combined > recs[b].combined
		}
		return recs[a].symbol < recs[b].symbol
	})

	out := make([]any, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.payload())
	}
	result := dag.Payload{
		"recommendations": out,
		"generated":       len(out),
	}
	if top, ok := u.topPick(recs); ok {
		result["top_pick"] = top.payload()
	}

	u.log.Info("Recommendations generated", logger.Fields("generated", len(out)))
	return result, nil
}

type recommendation struct {
	symbol     string
	action     string
	combined   float64
	confidence float64
	strength   float64
	sentScore  float64
	trend      string
	label      string
}

func (r recommendation) payload() map[string]any {
	return map[string]any{
		"symbol":         r.symbol,
		"action":         r.action,
		"confidence":     r.confidence,
		"combined_score": round2(r.combined),
		"trend":          r.trend,
		"sentiment":      r.label,
		"rationale": fmt.Sprintf("%s trend, strength %.0f, %s sentiment (%.2f)",
			capitalize(r.trend), r.strength, r.label, r.sentScore),
	}
}

// decide scores one symbol. A side missing from the input contributes its
// neutral default so a partial upstream never blocks the decision.
func (u *strategistUnit) decide(symbol string, techRaw, sentRaw any) recommendation {
	strength := 50.0
	trend := trendNeutral
	if tech, ok := toMap(techRaw); ok {
		if v, ok := toFloat(tech["strength"]); ok {
			strength = v
		}
		if v, ok := tech["trend"].(string); ok && v != "" {
			trend = v
		}
	}

	sentScore := 0.0
	label := trendNeutral
	if sent, ok := toMap(sentRaw); ok {
		if v, ok := toFloat(sent["score"]); ok {
			sentScore = v
		}
		if v, ok := sent["label"].(string); ok && v != "" {
			label = v
		}
	}

	combined := techWeight*strength + sentWeight*(sentScore+1)*50

	action := actionHold
	switch {
	case combined >= buyThreshold && trend == trendBullish && label != trendBearish:
		action = actionBuy
	case combined <= sellThreshold && trend == trendBearish && label != trendBullish:
		action = actionSell
	}

	confidence := math.Abs(combined-50) / 50
	switch {
	case trend == label && trend != trendNeutral:
		confidence += agreementBonus
	case trend == trendBullish && label == trendBearish,
		trend == trendBearish && label == trendBullish:
		confidence -= agreementBonus
	}

	return recommendation{
		symbol:     symbol,
		action:     action,
		combined:   combined,
		confidence: round2(clamp(confidence, 0, 1)),
		strength:   strength,
		sentScore:  sentScore,
		trend:      trend,
		label:      label,
	}
}

// topPick returns the strongest buy that clears the confidence floor.
func (u *strategistUnit) topPick(recs []recommendation) (recommendation, bool) {
	var top recommendation
	found := false
	for _, r := range recs {
		if r.action != actionBuy || r.confidence < u.minConfidence {
			continue
		}
		if !found || r.confidence > top.confidence ||
			(r.confidence == top.confidence && r.combined > top.combined) {
			top = r
			found = true
		}
	}
	return top, found
}

func unionKeys(maps ...map[string]any) []string {
	set := make(map[string]struct{})
	for _, m := range maps {
		for k := range m {
			set[k] = struct{}{}
		}
	}
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
