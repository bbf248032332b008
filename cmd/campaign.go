package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/halcyonsec/forge/internal/simulation"
)

var (
	campaignType       string
	campaignComplexity string
	campaignCount      int
	campaignTargets    int
	campaignSpace      string
	campaignMitre      bool
	campaignSinks      []string
)

var campaignCmd = &cobra.Command{
	Use:   "campaign",
	Short: "Generate a full attack campaign and write it to sinks",
	Long: `Build a staged campaign, generate its alert documents and deliver
them to the selected sinks.

Events are generated stage by stage so later stages can reference the
alerts produced by earlier ones. Correlation rules run over the finished
campaign and stamp matching events with the rule that caught them.

Examples:
  forge campaign --type apt --count 200
  forge campaign --type ransomware --count 500 --space detection-lab --sink opensearch
  forge campaign --type insider --count 50 --sink stdout`,
	RunE: runCampaign,
}

func init() {
	rootCmd.AddCommand(campaignCmd)

	campaignCmd.Flags().StringVarP(&campaignType, "type", "t", "apt", "scenario type: apt, ransomware, insider, supply_chain")
	campaignCmd.Flags().StringVar(&campaignComplexity, "complexity", "high", "campaign complexity: low, medium, high, expert")
	campaignCmd.Flags().IntVarP(&campaignCount, "count", "c", 0, "number of events to generate")
	campaignCmd.Flags().IntVar(&campaignTargets, "targets", 0, "number of target hosts (0 = derive from topology)")
	campaignCmd.Flags().StringVar(&campaignSpace, "space", "", "Kibana space to write into")
	campaignCmd.Flags().BoolVar(&campaignMitre, "mitre", true, "include MITRE ATT&CK fields")
	campaignCmd.Flags().StringSliceVar(&campaignSinks, "sink", []string{"stdout"}, "sinks to write to: opensearch, nats, stdout")
}

func runCampaign(cmd *cobra.Command, args []string) error {
	count := campaignCount
	if count == 0 {
		count = cfg.Simulation.EventCount
	}
	if count < 1 {
		return fmt.Errorf("event count must be positive, got %d", count)
	}

	space := campaignSpace
	if space == "" {
		space = cfg.Simulation.Space
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine := simulation.NewEngine(
		simulation.WithSeed(cfg.Simulation.Seed),
		simulation.WithLogger(log),
		simulation.WithBatchSize(cfg.Simulation.BatchSize),
		simulation.WithBatchPause(cfg.Simulation.BatchPause),
		simulation.WithCallTimeout(cfg.Simulation.CallTimeout),
	)

	sim, err := engine.Simulate(campaignType, campaignComplexity)
	if err != nil {
		return err
	}

	log.Info("campaign planned",
		"scenario", sim.ScenarioID,
		"threat_actor", sim.Campaign.ThreatActor,
		"stages", len(sim.Stages),
	)

	result, err := engine.CampaignEvents(ctx, sim, simulation.CampaignOptions{
		EventCount:  count,
		TargetCount: campaignTargets,
		Space:       space,
		Mitre:       campaignMitre,
	})
	if err != nil {
		return fmt.Errorf("event generation failed: %w", err)
	}

	sinks, err := buildSinks(ctx, campaignSinks, space)
	if err != nil {
		return err
	}
	defer closeSinks(sinks)

	for _, s := range sinks {
		wr, err := s.Write(ctx, result.Events)
		if err != nil {
			return fmt.Errorf("sink %s: %w", s.Name(), err)
		}
		log.Info("sink write complete",
			"sink", s.Name(),
			"indexed", wr.Indexed,
			"failed", wr.Failed,
		)
	}

	summary := result.Summary
	fmt.Fprintf(os.Stderr, "\nCampaign %s (%s)\n", sim.Campaign.ID, sim.Campaign.ThreatActor)
	fmt.Fprintf(os.Stderr, "  Events:       %d produced, %d failed of %d requested\n",
		summary.Produced, summary.Failed, summary.Requested)
	fmt.Fprintf(os.Stderr, "  Stages:       %d\n", len(sim.Stages))
	fmt.Fprintf(os.Stderr, "  Correlations: %d\n", summary.Correlations)
	fmt.Fprintf(os.Stderr, "  Score:        %d/100\n", summary.Score)
	return nil
}
