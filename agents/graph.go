package agents

import "github.com/tradeflowhq/tradeflow/dag"

// DefaultGraph returns the built-in analysis pipeline: scouting screens
// the universe and feeds its shortlist to the technical and sentiment
// units, whose results the strategist folds into recommendations.
// config/graph.yml ships the same graph in YAML form.
func DefaultGraph() *dag.Graph {
	return &dag.Graph{
		Name:        "market-analysis",
		Description: "Screen the universe, analyze the shortlist, recommend trades.",
		Nodes: []dag.NodeDecl{
			{ID: "scouting", Uses: CapScouting},
			{ID: "technical", Uses: CapTechnical, Inputs: map[string]string{
				"symbols": "scouting.shortlist",
			}},
			{ID: "sentiment", Uses: CapSentiment, Inputs: map[string]string{
				"symbols": "scouting.shortlist",
			}},
			{ID: "strategist", Uses: CapStrategist, Inputs: map[string]string{
				"technical":  "technical.analyses",
				"sentiments": "sentiment.sentiments",
			}},
		},
		Edges: []dag.Edge{
			{From: "scouting", To: "technical"},
			{From: "scouting", To: "sentiment"},
			{From: "technical", To: "strategist"},
			{From: "sentiment", To: "strategist"},
		},
	}
}
