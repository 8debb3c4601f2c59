package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tradeflowhq/tradeflow/dag"
)

var (
	runGraphFile string
	runInputs    []string
	runJSON      bool
	runTimeout   time.Duration
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute the graph once and print the result",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if runGraphFile != "" {
			cfg.Engine.GraphFile = runGraphFile
		}
		// One-shot runs skip the startup execution regardless of config.
		cfg.Engine.RunOnStart = false

		a, err := buildApp(cfg)
		if err != nil {
			return err
		}

		input, err := parseInputs(runInputs)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		if runTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, runTimeout)
			defer cancel()
		}

		result, err := a.engine.Execute(ctx, input)
		if err != nil {
			return err
		}

		if runJSON {
			data, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return err
			}
			cmd.Println(string(data))
		} else {
			printSummary(cmd, result)
		}

		if result.Status != dag.StatusSuccess {
			return fmt.Errorf("execution %s failed", result.ID)
		}
		return nil
	},
}

func init() {
	runCmd.Flags().StringVar(&runGraphFile, "graph", "", "graph definition file (default: built-in graph)")
	runCmd.Flags().StringArrayVar(&runInputs, "input", nil, "initial input entry key=value, repeatable")
	runCmd.Flags().BoolVar(&runJSON, "json", false, "print the full result as JSON")
	runCmd.Flags().DurationVar(&runTimeout, "timeout", 0, "abort the run after this duration")
}

// parseInputs turns repeated key=value flags into the initial payload.
// Values that parse as JSON keep their type; everything else is a string.
func parseInputs(entries []string) (dag.Payload, error) {
	if len(entries) == 0 {
		return nil, nil
	}
	input := make(dag.Payload, len(entries))
	for _, entry := range entries {
		key, value, ok := strings.Cut(entry, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --input %q, expected key=value", entry)
		}
		var parsed any
		if err := json.Unmarshal([]byte(value), &parsed); err == nil {
			input[key] = parsed
		} else {
			input[key] = value
		}
	}
	return input, nil
}

func printSummary(cmd *cobra.Command, result *dag.RunResult) {
	cmd.Printf("execution %s: %s (%s)\n", result.ID, result.Status, result.Duration.Round(time.Millisecond))
	for _, nr := range result.Results {
		if nr.Status == dag.StatusSuccess {
			cmd.Printf("  %-12s %s  %s\n", nr.NodeID, nr.Status, nr.Duration.Round(time.Millisecond))
		} else {
			cmd.Printf("  %-12s %s  %s\n", nr.NodeID, nr.Status, nr.Error)
		}
	}
}
