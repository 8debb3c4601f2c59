package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/tradeflowhq/tradeflow/agents"
	"github.com/tradeflowhq/tradeflow/dag"
)

var validateGraphFile string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a graph definition and print its execution plan",
	RunE: func(cmd *cobra.Command, _ []string) error {
		graph := agents.DefaultGraph()
		if validateGraphFile != "" {
			g, err := dag.LoadGraph(validateGraphFile)
			if err != nil {
				return err
			}
			graph = g
		} else if err := graph.Validate(); err != nil {
			return err
		}

		levels, err := dag.BuildLevels(graph)
		if err != nil {
			return err
		}

		cmd.Printf("graph %q: %d nodes, %d edges, %d levels\n",
			graph.Name, len(graph.Nodes), len(graph.Edges), len(levels))
		for i, level := range levels {
			cmd.Printf("  level %d: %s\n", i, strings.Join(level, ", "))
		}
		return nil
	},
}

func init() {
	validateCmd.Flags().StringVar(&validateGraphFile, "graph", "", "graph definition file (default: built-in graph)")
}
