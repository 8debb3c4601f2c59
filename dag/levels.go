package dag

import (
	"fmt"
	"sort"

	"github.com/tradeflowhq/tradeflow/errors"
)

// BuildLevels groups nodes by dependency level using Kahn's algorithm.
// Every id appears in exactly one level; for every edge (u,v), u's level
// index is strictly less than v's; nodes with no incoming edges form level 0.
// Nodes within the same level are independent and safe to execute in
// parallel. Within a level, ids keep the graph's declaration order so traces
// stay reproducible.
//
// Returns a cycle error when the frontier exhausts with nodes still
// unplaced.
func BuildLevels(g *Graph) ([][]string, error) {
	pos := make(map[string]int, len(g.Nodes))
	inDegree := make(map[string]int, len(g.Nodes))
	for i, n := range g.Nodes {
		pos[n.ID] = i
		inDegree[n.ID] = 0
	}

	dependents := make(map[string][]string) // from -> [to...]
	for _, e := range g.Edges {
		if _, ok := pos[e.From]; !ok {
			return nil, errors.GraphInvalid(fmt.Sprintf("edge references unknown node %q", e.From))
		}
		if _, ok := pos[e.To]; !ok {
			return nil, errors.GraphInvalid(fmt.Sprintf("edge references unknown node %q", e.To))
		}
		inDegree[e.To]++
		dependents[e.From] = append(dependents[e.From], e.To)
	}

	// Level 0: declaration order keeps the frontier deterministic.
	var queue []string
	for _, n := range g.Nodes {
		if inDegree[n.ID] == 0 {
			queue = append(queue, n.ID)
		}
	}

	var levels [][]string
	placed := 0

	for len(queue) > 0 {
		levels = append(levels, queue)
		placed += len(queue)

		var next []string
		for _, id := range queue {
			for _, dep := range dependents[id] {
				inDegree[dep]--
				if inDegree[dep] == 0 {
					next = append(next, dep)
				}
			}
		}
		sort.Slice(next, func(i, j int) bool { return pos[next[i]] < pos[next[j]] })
		queue = next
	}

	if placed != len(g.Nodes) {
		var unplaced []string
		for _, n := range g.Nodes {
			if inDegree[n.ID] > 0 {
				unplaced = append(unplaced, n.ID)
			}
		}
		return nil, errors.GraphCycle(unplaced)
	}

	return levels, nil
}

// FlattenLevels returns the level order as a single execution-order slice.
func FlattenLevels(levels [][]string) []string {
	var order []string
	for _, level := range levels {
		order = append(order, level...)
	}
	return order
}
