// Package sink delivers generated documents to their destination:
// an OpenSearch/Elasticsearch cluster, a NATS subject, or stdout.
// Writes are at-least-once attempts with no transactional guarantee
// across a batch.
package sink

import (
	"context"

	"github.com/halcyonsec/forge/internal/event"
)

// WriteResult reports the outcome of one batch write.
type WriteResult struct {
	Indexed int      `json:"indexed"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors,omitempty"`
}

// Sink accepts batches of generated events.
type Sink interface {
	// Name identifies the sink in logs and metrics.
	Name() string

	// Write delivers the batch. Per-document failures are reported in the
	// result; an error means the batch as a whole could not be attempted.
	Write(ctx context.Context, events []*event.Event) (*WriteResult, error)

	// Close releases any held connections.
	Close() error
}
