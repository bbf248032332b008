package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/halcyonsec/forge/internal/server"
	"github.com/halcyonsec/forge/internal/simulation"
	"github.com/halcyonsec/forge/internal/sink"
)

var (
	serveSinks []string
	serveSpace string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the simulation API server",
	Long: `Expose campaign generation over HTTP.

POST /api/v1/simulations builds a campaign plan, POST /api/v1/campaigns
generates and delivers events. Prometheus metrics are served on /metrics.

Examples:
  forge serve
  forge serve --sink opensearch --space detection-lab`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringSliceVar(&serveSinks, "sink", nil, "sinks campaigns are written to: opensearch, nats, stdout")
	serveCmd.Flags().StringVar(&serveSpace, "space", "", "Kibana space to write into")
}

func runServe(cmd *cobra.Command, args []string) error {
	space := serveSpace
	if space == "" {
		space = cfg.Simulation.Space
	}

	var sinks []sink.Sink
	if len(serveSinks) > 0 {
		var err error
		sinks, err = buildSinks(context.Background(), serveSinks, space)
		if err != nil {
			return err
		}
		defer closeSinks(sinks)
	}

	engine := simulation.NewEngine(
		simulation.WithSeed(cfg.Simulation.Seed),
		simulation.WithLogger(log),
		simulation.WithBatchSize(cfg.Simulation.BatchSize),
		simulation.WithBatchPause(cfg.Simulation.BatchPause),
		simulation.WithCallTimeout(cfg.Simulation.CallTimeout),
	)

	handler := server.NewHandler(engine, sinks, log)
	return server.Run(cfg.Server, server.NewRouter(handler), log)
}
