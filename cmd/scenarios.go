package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/halcyonsec/forge/internal/catalog"
	"github.com/halcyonsec/forge/internal/correlation"
)

var scenariosCmd = &cobra.Command{
	Use:     "scenarios",
	Aliases: []string{"list"},
	Short:   "List attack scenarios and correlation rules",
	Long:    "Display the scenario catalog with stages and MITRE ATT&CK techniques, plus the correlation rules applied to generated campaigns",
	Run: func(cmd *cobra.Command, args []string) {
		for _, s := range catalog.Default().All() {
			fmt.Printf("%s (%s)\n", s.ID, s.Category)
			fmt.Printf("  Actor:  %s\n", s.Actor)
			fmt.Printf("  Stages: %d\n", len(s.Stages))
			for _, stage := range s.Stages {
				fmt.Printf("    - %s [%s]: %s\n", stage.Name, stage.Tactic, strings.Join(stage.Techniques, ", "))
			}
			fmt.Println()
		}

		fmt.Println("Correlation rules:")
		for _, r := range correlation.DefaultRules() {
			fmt.Printf("  %s: %s\n", r.ID, r.Name)
			fmt.Printf("    Techniques: %s\n", strings.Join(r.Techniques, ", "))
			fmt.Printf("    Window: %v, minimum events: %d\n", r.TimeWindow, r.MinimumEvents)
		}
	},
}

func init() {
	rootCmd.AddCommand(scenariosCmd)
}
