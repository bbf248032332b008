// Package correlation finds attack chains inside batches of generated
// events. The engine is a stateless batch transform over an immutable rule
// table; it never retains event references across calls.
package correlation

import (
	"time"

	"github.com/halcyonsec/forge/internal/event"
)

// TimelineEntry is one matched event's position in a correlation result.
type TimelineEntry struct {
	Timestamp time.Time `json:"timestamp"`
	EventID   string    `json:"event_id"`
	Technique string    `json:"technique"`
	Asset     string    `json:"asset"`
}

// Result is one rule's match over a batch. An event may appear in more
// than one rule's result.
type Result struct {
	RuleID        string          `json:"rule_id"`
	RuleName      string          `json:"rule_name"`
	MatchedEvents []*event.Event  `json:"-"`
	Confidence    float64         `json:"confidence_score"`
	Timeline      []TimelineEntry `json:"timeline"`
}

// Engine evaluates correlation rules over event batches.
//
// By default the rule time window is anchored to the latest event timestamp
// in the batch, so a fixed synthetic dataset always correlates the same way
// regardless of when the pass runs. WithWallClock restores the legacy
// now-relative anchoring.
type Engine struct {
	rules     []Rule
	wallClock bool
	now       func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithRules replaces the default rule table.
func WithRules(rules ...Rule) Option {
	return func(e *Engine) { e.rules = rules }
}

// WithWallClock anchors rule windows to the current time instead of the
// batch's latest timestamp.
func WithWallClock() Option {
	return func(e *Engine) { e.wallClock = true }
}

// withNow overrides the clock; tests only.
func withNow(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine builds an engine with the default rule table unless overridden.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		rules: DefaultRules(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Rules returns a copy of the rule table.
func (e *Engine) Rules() []Rule {
	return append([]Rule(nil), e.rules...)
}

// Correlate runs every rule over the batch and returns the rules that
// fired. Absence of correlation is a normal outcome, not an error.
func (e *Engine) Correlate(events []*event.Event) []Result {
	if len(events) == 0 {
		return nil
	}

	reference := e.referenceTime(events)

	var results []Result
	for _, rule := range e.rules {
		if res, ok := e.evaluate(rule, events, reference); ok {
			results = append(results, res)
		}
	}
	return results
}

func (e *Engine) referenceTime(events []*event.Event) time.Time {
	if e.wallClock {
		return e.now()
	}
	latest := events[0].Timestamp
	for _, ev := range events[1:] {
		if ev.Timestamp.After(latest) {
			latest = ev.Timestamp
		}
	}
	return latest
}

func (e *Engine) evaluate(rule Rule, events []*event.Event, reference time.Time) (Result, bool) {
	techniques := make(map[string]bool, len(rule.Techniques))
	for _, t := range rule.Techniques {
		techniques[t] = true
	}

	var matched []*event.Event
	for _, ev := range events {
		if !techniques[ev.Technique] {
			continue
		}
		age := reference.Sub(ev.Timestamp)
		if age < 0 || age > rule.TimeWindow {
			continue
		}
		matched = append(matched, ev)
	}

	if len(matched) < rule.MinimumEvents {
		return Result{}, false
	}

	confidence := float64(len(matched)) / float64(rule.MinimumEvents) * 0.8
	if confidence > 1.0 {
		confidence = 1.0
	}

	timeline := make([]TimelineEntry, 0, len(matched))
	for _, ev := range matched {
		timeline = append(timeline, TimelineEntry{
			Timestamp: ev.Timestamp,
			EventID:   ev.ID,
			Technique: ev.Technique,
			Asset:     ev.Host,
		})
	}

	return Result{
		RuleID:        rule.ID,
		RuleName:      rule.Name,
		MatchedEvents: matched,
		Confidence:    confidence,
		Timeline:      timeline,
	}, true
}
