package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/halcyonsec/forge/internal/simulation"
)

var (
	simulateType       string
	simulateComplexity string
	simulateOutput     string
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Build an attack campaign plan",
	Long: `Construct a staged attack campaign without generating any events.

The plan includes the campaign window, per-stage time ranges, lateral
movement paths and the timeline confidence scores. Feed it to the
campaign command or inspect it directly.

Examples:
  forge simulate --type apt --complexity high
  forge simulate --type ransomware -o yaml`,
	RunE: runSimulate,
}

func init() {
	rootCmd.AddCommand(simulateCmd)

	simulateCmd.Flags().StringVarP(&simulateType, "type", "t", "apt", "scenario type: apt, ransomware, insider, supply_chain")
	simulateCmd.Flags().StringVar(&simulateComplexity, "complexity", "high", "campaign complexity: low, medium, high, expert")
	simulateCmd.Flags().StringVarP(&simulateOutput, "output", "o", "json", "output format: json, yaml")
}

func runSimulate(cmd *cobra.Command, args []string) error {
	engine := simulation.NewEngine(
		simulation.WithSeed(cfg.Simulation.Seed),
		simulation.WithLogger(log),
	)

	sim, err := engine.Simulate(simulateType, simulateComplexity)
	if err != nil {
		return err
	}

	return writeOutput(sim, simulateOutput)
}

func writeOutput(v interface{}, format string) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(os.Stdout)
		defer enc.Close()
		return enc.Encode(v)
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}
