package dag

import (
	"fmt"

	"github.com/tradeflowhq/tradeflow/errors"
)

// NodeDecl declares one node of a graph.
type NodeDecl struct {
	// ID is the unique node identifier within the graph.
	ID string `yaml:"id" json:"id"`
	// Uses is the capability locator resolved through the Registry.
	Uses string `yaml:"uses" json:"uses"`
	// Config is passed to the capability's builder at construction time.
	Config map[string]any `yaml:"config,omitempty" json:"config,omitempty"`
	// Inputs maps this node's input fields to producer source paths:
	// "producerId" takes the producer's whole payload, "producerId.key"
	// a single output field. A trailing "?" opts that entry into
	// whole-payload fallback when the named field is absent.
	Inputs map[string]string `yaml:"inputs,omitempty" json:"inputs,omitempty"`
}

// Edge represents a dependency: To depends on From.
type Edge struct {
	From string `yaml:"from" json:"from"`
	To   string `yaml:"to" json:"to"`
}

// Graph is an immutable description of nodes and directed edges. Construct
// it once and never mutate it afterwards; executions share it freely.
type Graph struct {
	Name        string     `yaml:"name" json:"name"`
	Description string     `yaml:"description,omitempty" json:"description,omitempty"`
	Nodes       []NodeDecl `yaml:"nodes" json:"nodes"`
	Edges       []Edge     `yaml:"edges,omitempty" json:"edges,omitempty"`
}

// Node returns the declaration for id.
func (g *Graph) Node(id string) (NodeDecl, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return NodeDecl{}, false
}

// Producers returns the ids with an edge into node id, in edge order.
func (g *Graph) Producers(id string) []string {
	var from []string
	for _, e := range g.Edges {
		if e.To == id {
			from = append(from, e.From)
		}
	}
	return from
}

// Validate checks the structural invariants of the graph: node ids are
// unique and non-empty, every node names a capability, edge endpoints
// reference declared nodes, the edge set is acyclic, and every input
// mapping source is an upstream producer of its consumer. Violations are
// configuration errors raised before any execution.
func (g *Graph) Validate() error {
	if len(g.Nodes) == 0 {
		return errors.GraphInvalid("graph declares no nodes")
	}

	seen := make(map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		if n.ID == "" {
			return errors.GraphInvalid("node with empty id")
		}
		if seen[n.ID] {
			return errors.GraphInvalid(fmt.Sprintf("duplicate node id %q", n.ID))
		}
		seen[n.ID] = true
		if n.Uses == "" {
			return errors.GraphInvalid(fmt.Sprintf("node %q declares no capability", n.ID))
		}
	}

	for _, e := range g.Edges {
		if !seen[e.From] {
			return errors.GraphInvalid(fmt.Sprintf("edge references unknown node %q", e.From))
		}
		if !seen[e.To] {
			return errors.GraphInvalid(fmt.Sprintf("edge references unknown node %q", e.To))
		}
	}

	if _, err := BuildLevels(g); err != nil {
		return err
	}

	// Input mapping sources must be ancestors of the consuming node, not
	// merely any declared node.
	for _, n := range g.Nodes {
		if len(n.Inputs) == 0 {
			continue
		}
		upstream := g.ancestors(n.ID)
		for field, source := range n.Inputs {
			b, err := parseBinding(field, source)
			if err != nil {
				return err
			}
			if !upstream[b.producer] {
				return errors.GraphInvalid(fmt.Sprintf(
					"node %q input %q references %q which is not an upstream producer", n.ID, field, b.producer))
			}
		}
	}

	return nil
}

// ancestors returns the transitive closure of nodes upstream of id.
func (g *Graph) ancestors(id string) map[string]bool {
	incoming := make(map[string][]string)
	for _, e := range g.Edges {
		incoming[e.To] = append(incoming[e.To], e.From)
	}

	result := make(map[string]bool)
	queue := append([]string(nil), incoming[id]...)
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if result[cur] {
			continue
		}
		result[cur] = true
		queue = append(queue, incoming[cur]...)
	}
	return result
}
