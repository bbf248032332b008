package correlation

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halcyonsec/forge/internal/event"
)

func chainEvent(id, technique, host string, ts time.Time) *event.Event {
	e := event.New(id, ts)
	e.Technique = technique
	e.Host = host
	return e
}

func TestCorrelateBelowThreshold(t *testing.T) {
	base := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	// exactly minimumEvents-1 matching events
	events := []*event.Event{
		chainEvent("a", "T1078", "srv-001", base),
		chainEvent("b", "T1021.001", "dc-001", base.Add(time.Hour)),
		chainEvent("x", "T9999", "ws-001", base.Add(2*time.Hour)),
	}

	results := NewEngine().Correlate(events)
	assert.Empty(t, results)
}

func TestCorrelateAtThreshold(t *testing.T) {
	base := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	events := []*event.Event{
		chainEvent("a", "T1078", "srv-001", base),
		chainEvent("b", "T1021.001", "dc-001", base.Add(time.Hour)),
		chainEvent("c", "T1057", "dc-001", base.Add(2*time.Hour)),
	}

	results := NewEngine().Correlate(events)

	require.Len(t, results, 1)
	res := results[0]
	assert.Equal(t, "lateral-movement-chain", res.RuleID)
	assert.Equal(t, "Lateral Movement Attack Chain", res.RuleName)
	assert.Len(t, res.MatchedEvents, 3)
	assert.InDelta(t, 0.8, res.Confidence, 1e-9)
	require.Len(t, res.Timeline, 3)
	assert.Equal(t, "a", res.Timeline[0].EventID)
	assert.Equal(t, "srv-001", res.Timeline[0].Asset)
}

func TestCorrelateConfidenceCapped(t *testing.T) {
	base := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	var events []*event.Event
	for i := 0; i < 10; i++ {
		events = append(events, chainEvent(fmt.Sprintf("e%d", i), "T1078", "srv-001", base.Add(time.Duration(i)*time.Minute)))
	}

	results := NewEngine().Correlate(events)

	require.Len(t, results, 1)
	assert.InDelta(t, 1.0, results[0].Confidence, 1e-9)
}

func TestCorrelateBatchRelativeWindow(t *testing.T) {
	// Old events, far in the past relative to wall clock. Batch-relative
	// anchoring must still correlate them.
	base := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	events := []*event.Event{
		chainEvent("a", "T1078", "srv-001", base),
		chainEvent("b", "T1021.001", "dc-001", base.Add(6*time.Hour)),
		chainEvent("c", "T1057", "dc-001", base.Add(12*time.Hour)),
	}

	results := NewEngine().Correlate(events)
	require.Len(t, results, 1)
}

func TestCorrelateWallClockMode(t *testing.T) {
	base := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	events := []*event.Event{
		chainEvent("a", "T1078", "srv-001", base),
		chainEvent("b", "T1021.001", "dc-001", base.Add(time.Hour)),
		chainEvent("c", "T1057", "dc-001", base.Add(2*time.Hour)),
	}

	// Wall clock far past the events: window has decayed, nothing fires.
	e := NewEngine(WithWallClock(), withNow(func() time.Time {
		return base.Add(30 * 24 * time.Hour)
	}))
	assert.Empty(t, e.Correlate(events))

	// Wall clock right after the events: rule fires.
	e = NewEngine(WithWallClock(), withNow(func() time.Time {
		return base.Add(3 * time.Hour)
	}))
	assert.Len(t, e.Correlate(events), 1)
}

func TestCorrelateEventsOutsideWindowExcluded(t *testing.T) {
	base := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	events := []*event.Event{
		// Two recent events plus one older than the 24h window.
		chainEvent("old", "T1078", "srv-001", base.Add(-30*time.Hour)),
		chainEvent("b", "T1021.001", "dc-001", base.Add(-time.Hour)),
		chainEvent("c", "T1057", "dc-001", base),
	}

	results := NewEngine().Correlate(events)
	assert.Empty(t, results)
}

func TestCorrelateEmptyBatch(t *testing.T) {
	assert.Nil(t, NewEngine().Correlate(nil))
}

func TestCorrelateCustomRules(t *testing.T) {
	rule := Rule{
		ID:            "exfil-pair",
		Name:          "Staging Then Exfiltration",
		Techniques:    []string{"T1074.001", "T1041"},
		TimeWindow:    12 * time.Hour,
		MinimumEvents: 2,
	}
	base := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	events := []*event.Event{
		chainEvent("a", "T1074.001", "db-001", base),
		chainEvent("b", "T1041", "db-001", base.Add(4*time.Hour)),
	}

	results := NewEngine(WithRules(rule)).Correlate(events)

	require.Len(t, results, 1)
	assert.Equal(t, "exfil-pair", results[0].RuleID)
	assert.InDelta(t, 0.8, results[0].Confidence, 1e-9)
}
