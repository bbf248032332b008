package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/halcyonsec/forge/internal/kibana"
	"github.com/halcyonsec/forge/internal/sink"
)

// buildSinks resolves the --sink selection into connected sinks. The
// opensearch sink also provisions the Kibana space and the target index.
func buildSinks(ctx context.Context, names []string, space string) ([]sink.Sink, error) {
	sinks := make([]sink.Sink, 0, len(names))

	for _, name := range names {
		switch strings.TrimSpace(name) {
		case "stdout":
			sinks = append(sinks, sink.NewStdout())

		case "opensearch":
			kb := kibana.New(cfg.Kibana)
			if err := kb.EnsureSpace(ctx, space); err != nil {
				closeSinks(sinks)
				return nil, fmt.Errorf("failed to ensure kibana space: %w", err)
			}

			osSink, err := sink.NewOpenSearch(cfg.OpenSearch, space)
			if err != nil {
				closeSinks(sinks)
				return nil, err
			}
			if err := osSink.EnsureIndex(ctx); err != nil {
				closeSinks(sinks)
				return nil, err
			}
			sinks = append(sinks, osSink)

		case "nats":
			n, err := sink.NewNATS(cfg.NATS.NATSConfig)
			if err != nil {
				closeSinks(sinks)
				return nil, err
			}
			sinks = append(sinks, n)

		default:
			closeSinks(sinks)
			return nil, fmt.Errorf("unknown sink: %s", name)
		}
	}

	return sinks, nil
}

func closeSinks(sinks []sink.Sink) {
	for _, s := range sinks {
		if err := s.Close(); err != nil {
			log.Warn("failed to close sink", "sink", s.Name(), "error", err)
		}
	}
}
