package simulation

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/halcyonsec/forge/internal/correlation"
	"github.com/halcyonsec/forge/internal/event"
	"github.com/halcyonsec/forge/internal/generator"
	"github.com/halcyonsec/forge/internal/metrics"
	"github.com/halcyonsec/forge/internal/topology"
)

// ErrNilSimulation is returned when CampaignEvents is called without a
// previously built simulation.
var ErrNilSimulation = errors.New("nil simulation")

// maxParentEvents bounds the parent-id chain threaded into generator calls.
const maxParentEvents = 3

// CampaignOptions tunes one CampaignEvents run.
type CampaignOptions struct {
	// TargetCount is the number of synthetic target hostnames to generate.
	TargetCount int
	// EventCount is the total event budget distributed across stages.
	EventCount int
	// Space is the destination space identifier; empty means "default".
	Space string
	// Mitre requests technique tagging from the content generator.
	Mitre bool
	// Start, when set, rebases the campaign so its first stage begins at
	// this instant instead of the window sampled at Simulate time.
	Start time.Time
}

// GenerationFailure records one dropped generator call.
type GenerationFailure struct {
	Stage     string `json:"stage"`
	Technique string `json:"technique"`
	Reason    string `json:"reason"`
}

// Summary is the explicit outcome of a campaign run. Failed generator
// calls reduce Produced below Requested; they never abort the run.
type Summary struct {
	Requested    int                 `json:"requested"`
	Produced     int                 `json:"produced"`
	Failed       int                 `json:"failed"`
	Failures     []GenerationFailure `json:"failures,omitempty"`
	Correlations int                 `json:"correlations"`
	Score        int                 `json:"score"`
}

// CampaignResult bundles the enriched events with the correlation pass
// output and the run summary.
type CampaignResult struct {
	Events       []*event.Event       `json:"-"`
	Correlations []correlation.Result `json:"correlations,omitempty"`
	Summary      Summary              `json:"summary"`
}

// CampaignEvents generates the full event set for a previously built
// simulation. Stages are processed strictly in order because each stage's
// correlation context references prior stages' event IDs; within a stage,
// generator calls run in bounded concurrent batches. Individual call
// failures are logged, counted, and dropped.
func (e *Engine) CampaignEvents(ctx context.Context, sim *Simulation, opts CampaignOptions) (*CampaignResult, error) {
	if sim == nil {
		return nil, ErrNilSimulation
	}

	space := opts.Space
	if space == "" {
		space = "default"
	}

	var shift time.Duration
	if !opts.Start.IsZero() {
		shift = opts.Start.Sub(sim.Campaign.Window.Start)
	}

	hosts := topology.Hostnames(e.rng, opts.TargetCount)
	if len(hosts) == 0 {
		// Fall back to the topology's named assets so generation can
		// proceed with a zero target count.
		for _, a := range e.net.Assets {
			hosts = append(hosts, a.Host)
		}
	}

	result := &CampaignResult{}
	numStages := len(sim.Stages)
	if numStages == 0 || opts.EventCount <= 0 {
		result.Summary.Score = successScore(0, nil)
		return result, nil
	}

	eventsPerStage := ceilDiv(opts.EventCount, numStages)

	var (
		all       []*event.Event
		parents   []string
		seq       int
		stagesHit int
	)

	for si, stage := range sim.Stages {
		stageStart := time.Now()
		window := stage.Window.Shift(shift)

		reqs := e.stageRequests(sim, stage, si, window, space, hosts, parents, eventsPerStage, opts.Mitre)
		result.Summary.Requested += len(reqs)

		produced, failures, err := e.runBatches(ctx, reqs)
		if err != nil {
			return nil, err
		}

		for _, f := range failures {
			f.Stage = stage.Name
			result.Summary.Failures = append(result.Summary.Failures, f)
			metrics.EventsFailed.WithLabelValues(stage.Tactic).Inc()
			e.log.Warn("generator call dropped",
				"campaign_id", sim.Campaign.ID,
				"stage", stage.Name,
				"technique", f.Technique,
				"reason", f.Reason,
			)
		}
		result.Summary.Failed += len(failures)

		if len(produced) > 0 {
			stagesHit++
		}

		for _, ev := range produced {
			e.enrich(ev, sim, stage, si, numStages, seq)
			seq++
			all = append(all, ev)
			metrics.EventsGenerated.WithLabelValues(stage.Tactic).Inc()
		}
		parents = lastN(eventIDs(all), maxParentEvents)

		metrics.StageDuration.Observe(time.Since(stageStart).Seconds())
		e.log.Info("stage events generated",
			"campaign_id", sim.Campaign.ID,
			"stage", stage.Name,
			"produced", len(produced),
			"failed", len(failures),
		)
	}

	result.Events = all
	result.Summary.Produced = len(all)

	result.Correlations = e.corr.Correlate(all)
	result.Summary.Correlations = len(result.Correlations)
	for _, res := range result.Correlations {
		for _, ev := range res.MatchedEvents {
			ev.Set("correlation.rule_id", res.RuleID)
			ev.Set("correlation.rule_name", res.RuleName)
			ev.Set("correlation.confidence", res.Confidence)
		}
	}

	result.Summary.Score = successScore(stagesHit, result.Correlations)
	metrics.CampaignsTotal.WithLabelValues(string(sim.Campaign.Category)).Inc()

	e.log.Info("campaign events generated",
		"campaign_id", sim.Campaign.ID,
		"requested", result.Summary.Requested,
		"produced", result.Summary.Produced,
		"failed", result.Summary.Failed,
		"correlations", result.Summary.Correlations,
		"score", result.Summary.Score,
	)
	return result, nil
}

// stageRequests distributes the stage budget evenly across the stage's
// techniques and materializes one generator request per slot.
func (e *Engine) stageRequests(sim *Simulation, stage Stage, si int, window TimeRange, space string, hosts, parents []string, budget int, mitre bool) []generator.Request {
	perTechnique := ceilDiv(budget, len(stage.Techniques))
	reqs := make([]generator.Request, 0, budget)

	remaining := budget
	for _, tech := range stage.Techniques {
		for i := 0; i < perTechnique && remaining > 0; i++ {
			remaining--
			reqs = append(reqs, generator.Request{
				UserName:     topology.Username(e.fake, stage.Tactic),
				HostName:     hosts[e.rng.Intn(len(hosts))],
				Space:        space,
				AlertType:    stage.Tactic,
				Technique:    tech,
				WindowStart:  window.Start,
				WindowEnd:    window.End,
				MitreEnabled: mitre,
				Chain: &generator.ChainContext{
					CampaignID:   sim.Campaign.ID,
					StageID:      stage.ID,
					StageName:    stage.Name,
					StageIndex:   si + 1,
					TotalStages:  len(sim.Stages),
					ThreatActor:  sim.Campaign.ThreatActor,
					ParentEvents: append([]string(nil), parents...),
				},
			})
		}
	}
	return reqs
}

// runBatches issues the requests in bounded concurrent batches with a
// pause between batches and a per-call deadline. Only cancellation of the
// parent context aborts the run; per-call errors become failures.
func (e *Engine) runBatches(ctx context.Context, reqs []generator.Request) ([]*event.Event, []GenerationFailure, error) {
	var (
		produced []*event.Event
		failures []GenerationFailure
	)

	for start := 0; start < len(reqs); start += e.batchSize {
		end := start + e.batchSize
		if end > len(reqs) {
			end = len(reqs)
		}
		batch := reqs[start:end]

		events := make([]*event.Event, len(batch))
		errs := make([]error, len(batch))

		var wg sync.WaitGroup
		for i := range batch {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				callCtx, cancel := context.WithTimeout(ctx, e.callTimeout)
				defer cancel()
				events[i], errs[i] = e.gen.GenerateAlert(callCtx, batch[i])
			}(i)
		}
		wg.Wait()

		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		for i := range batch {
			if errs[i] != nil {
				failures = append(failures, GenerationFailure{
					Technique: batch[i].Technique,
					Reason:    errs[i].Error(),
				})
				continue
			}
			produced = append(produced, events[i])
		}

		if end < len(reqs) && e.batchPause > 0 {
			select {
			case <-time.After(e.batchPause):
			case <-ctx.Done():
				return nil, nil, ctx.Err()
			}
		}
	}
	return produced, failures, nil
}

// enrich attaches the campaign correlation metadata block to one event.
func (e *Engine) enrich(ev *event.Event, sim *Simulation, stage Stage, si, numStages, seq int) {
	ev.Set("campaign.id", sim.Campaign.ID)
	ev.Set("campaign.name", sim.Campaign.Name)
	ev.Set("campaign.type", string(sim.Campaign.Category))
	ev.Set("campaign.threat_actor", sim.Campaign.ThreatActor)
	ev.Set("campaign.correlation.id", uuid.NewString())
	ev.Set("campaign.correlation.score", 0.7+e.rng.Float64()*0.25)
	ev.Set("campaign.progression.phase", progressionPhase(si, numStages))
	ev.Set("attack_chain.stage_id", stage.ID)
	ev.Set("attack_chain.stage_name", stage.Name)
	ev.Set("attack_chain.stage_index", si+1)
	ev.Set("attack_chain.total_stages", numStages)
	ev.Set("attack_chain.tactic", stage.Tactic)
	ev.Set("event.sequence", seq)
}

// progressionPhase labels a stage by which third of the campaign it falls
// in.
func progressionPhase(si, numStages int) string {
	switch si * 3 / numStages {
	case 0:
		return "initial"
	case 1:
		return "escalation"
	default:
		return "objectives"
	}
}

func eventIDs(events []*event.Event) []string {
	ids := make([]string, 0, len(events))
	for _, ev := range events {
		ids = append(ids, ev.ID)
	}
	return ids
}

func lastN(s []string, n int) []string {
	if len(s) <= n {
		return append([]string(nil), s...)
	}
	return append([]string(nil), s[len(s)-n:]...)
}
