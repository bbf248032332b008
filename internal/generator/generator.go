// Package generator defines the content-generation contract the simulation
// engine consumes, plus the built-in synthetic implementation. The engine
// only depends on the Generator interface; an AI-backed generator satisfies
// the same contract.
package generator

import (
	"context"
	"time"

	"github.com/halcyonsec/forge/internal/event"
)

// ChainContext carries the campaign correlation hints threaded into every
// generation request.
type ChainContext struct {
	CampaignID  string
	StageID     string
	StageName   string
	StageIndex  int
	TotalStages int
	ThreatActor string
	// ParentEvents holds up to the last 3 alert IDs from prior stages so
	// generated content can reference earlier activity.
	ParentEvents []string
}

// Request describes one alert to generate.
type Request struct {
	UserName  string
	HostName  string
	Space     string
	AlertType string
	Technique string
	// WindowStart/WindowEnd bound the alert timestamp.
	WindowStart  time.Time
	WindowEnd    time.Time
	MitreEnabled bool
	Chain        *ChainContext
}

// Generator produces a single structured alert document per request.
// A failed call means the caller drops that one event; it must not abort
// the batch.
type Generator interface {
	GenerateAlert(ctx context.Context, req Request) (*event.Event, error)
}
