package simulation

import (
	"time"

	"github.com/halcyonsec/forge/internal/catalog"
	"github.com/halcyonsec/forge/internal/topology"
)

// Complexity is a pass-through tuning hint carried on the simulation
// metadata; it does not branch generation logic.
type Complexity string

const (
	ComplexityLow    Complexity = "low"
	ComplexityMedium Complexity = "medium"
	ComplexityHigh   Complexity = "high"
	ComplexityExpert Complexity = "expert"
)

// ParseComplexity normalizes a raw complexity string. Anything outside the
// known set falls back to high rather than failing; unlike the scenario
// type, complexity is advisory.
func ParseComplexity(s string) Complexity {
	switch Complexity(s) {
	case ComplexityLow, ComplexityMedium, ComplexityHigh, ComplexityExpert:
		return Complexity(s)
	default:
		return ComplexityHigh
	}
}

// TimeRange is a half-open interval with Start < End.
type TimeRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Duration returns the range span.
func (r TimeRange) Duration() time.Duration {
	return r.End.Sub(r.Start)
}

// Shift returns the range moved by d.
func (r TimeRange) Shift(d time.Duration) TimeRange {
	return TimeRange{Start: r.Start.Add(d), End: r.End.Add(d)}
}

// Campaign is the top-level identity of one simulated intrusion. It is
// built once per Simulate call and immutable thereafter.
type Campaign struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Category    catalog.Category `json:"type"`
	ThreatActor string           `json:"threat_actor"`
	Window      TimeRange        `json:"duration"`
	Objectives  []string         `json:"objectives"`
}

// Stage is one phase of the campaign with a concrete time window. Stages
// are ordered and never overlap.
type Stage struct {
	ID              string              `json:"id"`
	Name            string              `json:"name"`
	Tactic          string              `json:"tactic"`
	Techniques      []string            `json:"techniques"`
	Window          TimeRange           `json:"window"`
	Objectives      []string            `json:"objectives"`
	CorrelationKeys []string            `json:"correlation_keys"`
	Artifacts       []topology.Artifact `json:"artifacts"`
}

// StageConfidence is one entry of the simulation's correlation timeline.
type StageConfidence struct {
	StageID    string  `json:"stage_id"`
	StageName  string  `json:"stage_name"`
	Confidence float64 `json:"confidence"`
}

// Simulation is the fully built campaign plan: identity, staged time
// framework, topology context, and the per-stage correlation timeline.
type Simulation struct {
	ScenarioID   string            `json:"scenario_id"`
	Complexity   Complexity        `json:"complexity"`
	Campaign     Campaign          `json:"campaign"`
	Stages       []Stage           `json:"stages"`
	LateralPaths []topology.Path   `json:"lateral_paths"`
	Timeline     []StageConfidence `json:"correlation_timeline"`
}
