package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/halcyonsec/forge/internal/event"
	"github.com/halcyonsec/forge/internal/metrics"
)

// NATSConfig holds broker connection settings.
type NATSConfig struct {
	URL           string        `mapstructure:"url"`
	Subject       string        `mapstructure:"subject"`
	Name          string        `mapstructure:"name"`
	MaxReconnects int           `mapstructure:"max_reconnects"`
	ReconnectWait time.Duration `mapstructure:"reconnect_wait"`
}

// DefaultNATSConfig returns a config with sensible defaults.
func DefaultNATSConfig() NATSConfig {
	return NATSConfig{
		URL:           nats.DefaultURL,
		Subject:       "forge.events",
		Name:          "forge",
		MaxReconnects: -1,
		ReconnectWait: 2 * time.Second,
	}
}

// NATS publishes each document as a JSON message on a subject.
type NATS struct {
	conn    *nats.Conn
	subject string
}

// NewNATS connects to the broker.
func NewNATS(cfg NATSConfig) (*NATS, error) {
	if cfg.Subject == "" {
		cfg.Subject = "forge.events"
	}

	conn, err := nats.Connect(cfg.URL,
		nats.Name(cfg.Name),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &NATS{conn: conn, subject: cfg.Subject}, nil
}

// Name implements Sink.
func (s *NATS) Name() string { return "nats" }

// Write publishes the batch, one message per document.
func (s *NATS) Write(ctx context.Context, events []*event.Event) (*WriteResult, error) {
	start := time.Now()
	result := &WriteResult{}

	for _, ev := range events {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		data, err := json.Marshal(ev.Document())
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("marshal event: %v", err))
			continue
		}

		if err := s.conn.Publish(s.subject, data); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("publish: %v", err))
			continue
		}
		result.Indexed++
	}

	if err := s.conn.FlushTimeout(5 * time.Second); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("flush: %v", err))
	}

	metrics.DocumentsIndexed.WithLabelValues(s.Name()).Add(float64(result.Indexed))
	if result.Failed > 0 {
		metrics.SinkErrors.WithLabelValues(s.Name()).Add(float64(result.Failed))
	}
	metrics.SinkDuration.WithLabelValues(s.Name()).Observe(time.Since(start).Seconds())
	return result, nil
}

// Close drains the connection.
func (s *NATS) Close() error {
	s.conn.Close()
	return nil
}
