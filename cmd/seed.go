package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/halcyonsec/forge/internal/event"
	"github.com/halcyonsec/forge/internal/seednoise"
)

var (
	seedCount  int
	seedSpread string
	seedTypes  string
	seedSpace  string
	seedSinks  []string
	seedBatch  int
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed baseline noise events",
	Long: `Generate benign background activity spread over a time window.

Campaign alerts in an otherwise empty index are trivially obvious.
Seeding auth, network, process and similar routine documents over the
same period gives detection rules a realistic noise floor.

Examples:
  forge seed --count 10000 --spread 30d
  forge seed --count 500 --types auth,dns --sink stdout`,
	RunE: runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)

	seedCmd.Flags().IntVarP(&seedCount, "count", "c", 1000, "number of noise events")
	seedCmd.Flags().StringVarP(&seedSpread, "spread", "s", "30d", "time period to spread events over (e.g. 24h, 7d, 90d)")
	seedCmd.Flags().StringVar(&seedTypes, "types", "", "comma-separated event types (default: all)")
	seedCmd.Flags().StringVar(&seedSpace, "space", "", "Kibana space to write into")
	seedCmd.Flags().StringSliceVar(&seedSinks, "sink", []string{"stdout"}, "sinks to write to: opensearch, nats, stdout")
	seedCmd.Flags().IntVar(&seedBatch, "batch-size", 500, "documents per sink write")
}

func runSeed(cmd *cobra.Command, args []string) error {
	if seedCount < 1 {
		return fmt.Errorf("count must be positive, got %d", seedCount)
	}

	spread, err := parseDuration(seedSpread)
	if err != nil {
		return fmt.Errorf("invalid spread: %w", err)
	}

	types := seednoise.Types()
	if seedTypes != "" {
		types = strings.Split(seedTypes, ",")
		for i := range types {
			types[i] = strings.TrimSpace(types[i])
		}
	}

	space := seedSpace
	if space == "" {
		space = cfg.Simulation.Space
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sinks, err := buildSinks(ctx, seedSinks, space)
	if err != nil {
		return err
	}
	defer closeSinks(sinks)

	gen := seednoise.NewGenerator(cfg.Simulation.Seed)
	log.Info("seeding noise", "count", seedCount, "spread", spread, "types", types)

	written := 0
	batch := make([]*event.Event, 0, seedBatch)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		for _, s := range sinks {
			if _, err := s.Write(ctx, batch); err != nil {
				return fmt.Errorf("sink %s: %w", s.Name(), err)
			}
		}
		written += len(batch)
		batch = batch[:0]
		return nil
	}

	for i := 0; i < seedCount; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		batch = append(batch, gen.Event(types[i%len(types)], i, seedCount, spread))
		if len(batch) >= seedBatch {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	if err := flush(); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "\nSeeded %d noise events over %v\n", written, spread)
	return nil
}

// parseDuration accepts time.Duration syntax plus a day suffix (7d, 90d).
func parseDuration(s string) (time.Duration, error) {
	if strings.HasSuffix(s, "d") {
		var days int
		if _, err := fmt.Sscanf(strings.TrimSuffix(s, "d"), "%d", &days); err != nil {
			return 0, fmt.Errorf("invalid duration: %s", s)
		}
		return time.Duration(days) * 24 * time.Hour, nil
	}
	return time.ParseDuration(s)
}
