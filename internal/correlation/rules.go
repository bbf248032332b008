package correlation

import "time"

// ConfidenceWeights tunes how much each signal contributes to a rule's
// reported confidence.
type ConfidenceWeights struct {
	Temporal  float64 `json:"temporal"`
	Asset     float64 `json:"asset"`
	Technique float64 `json:"technique"`
}

// Rule matches subsequences of generated events by technique set, time
// window, and minimum event count. Rules are built once at engine
// construction and never mutated.
type Rule struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Techniques    []string          `json:"techniques"`
	TimeWindow    time.Duration     `json:"time_window"`
	MinimumEvents int               `json:"minimum_events"`
	Weights       ConfidenceWeights `json:"confidence_weights"`
}

// DefaultRules returns the seeded rule table.
func DefaultRules() []Rule {
	return []Rule{
		{
			ID:            "lateral-movement-chain",
			Name:          "Lateral Movement Attack Chain",
			Techniques:    []string{"T1078", "T1021.001", "T1057"},
			TimeWindow:    24 * time.Hour,
			MinimumEvents: 3,
			Weights:       ConfidenceWeights{Temporal: 0.4, Asset: 0.3, Technique: 0.3},
		},
	}
}
