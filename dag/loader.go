package dag

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"
)

// ParseGraph decodes a YAML graph definition and validates it. Violations
// (duplicate ids, dangling edges, cycles, bad input mappings) surface as
// configuration errors before any execution.
func ParseGraph(data []byte) (*Graph, error) {
	var g Graph
	if err := yaml.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("dag: parsing graph definition: %w", err)
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return &g, nil
}

// LoadGraph reads and validates a graph definition from a YAML file.
func LoadGraph(path string) (*Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("dag: reading %s: %w", path, err)
	}
	g, err := ParseGraph(data)
	if err != nil {
		return nil, fmt.Errorf("dag: loading %s: %w", path, err)
	}
	return g, nil
}

// MarshalGraph encodes a graph as YAML. Loading a definition and
// re-serializing it reproduces the same node ids, edges, and input
// mappings.
func MarshalGraph(g *Graph) ([]byte, error) {
	data, err := yaml.Marshal(g)
	if err != nil {
		return nil, fmt.Errorf("dag: marshaling graph %q: %w", g.Name, err)
	}
	return data, nil
}
