package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/halcyonsec/forge/internal/event"
	"github.com/halcyonsec/forge/internal/metrics"
)

// Stdout writes documents as newline-delimited JSON. Useful for piping
// into jq or replaying through another loader.
type Stdout struct {
	w io.Writer
}

// NewStdout writes to os.Stdout.
func NewStdout() *Stdout {
	return &Stdout{w: os.Stdout}
}

// NewWriter writes NDJSON to an arbitrary writer.
func NewWriter(w io.Writer) *Stdout {
	return &Stdout{w: w}
}

// Name implements Sink.
func (s *Stdout) Name() string { return "stdout" }

// Write implements Sink.
func (s *Stdout) Write(ctx context.Context, events []*event.Event) (*WriteResult, error) {
	result := &WriteResult{}
	enc := json.NewEncoder(s.w)

	for _, ev := range events {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if err := enc.Encode(ev.Document()); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("encode event: %v", err))
			continue
		}
		result.Indexed++
	}

	metrics.DocumentsIndexed.WithLabelValues(s.Name()).Add(float64(result.Indexed))
	return result, nil
}

// Close implements Sink.
func (s *Stdout) Close() error { return nil }
