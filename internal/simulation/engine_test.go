package simulation

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halcyonsec/forge/internal/catalog"
)

func TestSimulateUnknownScenarioType(t *testing.T) {
	e := NewEngine(WithSeed(1))

	sim, err := e.Simulate("bogus_type", "high")

	require.Error(t, err)
	assert.True(t, errors.Is(err, catalog.ErrUnknownScenarioType))
	assert.Nil(t, sim)
}

func TestSimulateAllCategories(t *testing.T) {
	for _, cat := range catalog.Categories() {
		t.Run(string(cat), func(t *testing.T) {
			e := NewEngine(WithSeed(7))
			sim, err := e.Simulate(string(cat), "high")
			require.NoError(t, err)
			assert.Equal(t, cat, sim.Campaign.Category)
			assert.NotEmpty(t, sim.Campaign.ID)
			assert.NotEmpty(t, sim.Campaign.ThreatActor)
			assert.NotEmpty(t, sim.Stages)
			assert.Len(t, sim.Timeline, len(sim.Stages))
		})
	}
}

func TestSimulateDefaultsToAPT(t *testing.T) {
	e := NewEngine(WithSeed(3))
	sim, err := e.Simulate("", "")
	require.NoError(t, err)
	assert.Equal(t, catalog.CategoryAPT, sim.Campaign.Category)
	assert.Equal(t, ComplexityHigh, sim.Complexity)
}

func TestStagesNeverOverlap(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		e := NewEngine(WithSeed(seed))
		for _, cat := range catalog.Categories() {
			sim, err := e.Simulate(string(cat), "high")
			require.NoError(t, err)
			for i := 1; i < len(sim.Stages); i++ {
				prev, cur := sim.Stages[i-1], sim.Stages[i]
				assert.False(t, cur.Window.Start.Before(prev.Window.End),
					"seed %d %s: stage %d starts before stage %d ends", seed, cat, i, i-1)
			}
		}
	}
}

func TestCampaignWindowContainsStageStarts(t *testing.T) {
	// Stage windows begin inside the sampled campaign window. Ends may
	// legitimately overrun the campaign end because stage durations are
	// generative and not re-clamped.
	for seed := int64(0); seed < 10; seed++ {
		e := NewEngine(WithSeed(seed))
		sim, err := e.Simulate("apt", "high")
		require.NoError(t, err)
		for i, st := range sim.Stages {
			assert.False(t, st.Window.Start.Before(sim.Campaign.Window.Start),
				"seed %d: stage %d starts before campaign", seed, i)
			assert.True(t, st.Window.End.After(st.Window.Start))
		}
	}
}

func TestSimulateConcreteTwoStageScenario(t *testing.T) {
	var heron catalog.Scenario
	for _, s := range catalog.Default().Scenarios(catalog.CategoryAPT) {
		if s.ID == "apt-silent-heron" {
			heron = s
		}
	}
	require.NotEmpty(t, heron.ID)

	e := NewEngine(WithSeed(5), WithCatalog(catalog.New(heron)))
	sim, err := e.Simulate("apt", "high")
	require.NoError(t, err)

	require.Len(t, sim.Stages, 2)
	assert.Equal(t, "reconnaissance", sim.Stages[0].Name)
	assert.Equal(t, "initial_access", sim.Stages[1].Name)
	assert.True(t, sim.Stages[1].Window.Start.After(sim.Stages[0].Window.End))
}

func TestSimulateStartOffsetBounds(t *testing.T) {
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	e := NewEngine(WithSeed(9), withNow(func() time.Time { return now }))

	sim, err := e.Simulate("ransomware", "medium")
	require.NoError(t, err)

	offset := now.Sub(sim.Campaign.Window.Start)
	assert.GreaterOrEqual(t, offset, 30*24*time.Hour-time.Hour)
	assert.LessOrEqual(t, offset, 90*24*time.Hour+time.Hour)
	assert.True(t, sim.Campaign.Window.End.After(sim.Campaign.Window.Start))
}

func TestSimulateTimelineConfidenceRange(t *testing.T) {
	e := NewEngine(WithSeed(13))
	sim, err := e.Simulate("supply_chain", "expert")
	require.NoError(t, err)

	for _, entry := range sim.Timeline {
		assert.GreaterOrEqual(t, entry.Confidence, 0.6)
		assert.LessOrEqual(t, entry.Confidence, 1.0)
		assert.NotEmpty(t, entry.StageID)
	}
}

func TestSimulateDeterministicForSeed(t *testing.T) {
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	a, err := NewEngine(WithSeed(99), withNow(clock)).Simulate("apt", "high")
	require.NoError(t, err)
	b, err := NewEngine(WithSeed(99), withNow(clock)).Simulate("apt", "high")
	require.NoError(t, err)

	assert.Equal(t, a.ScenarioID, b.ScenarioID)
	require.Len(t, b.Stages, len(a.Stages))
	for i := range a.Stages {
		assert.True(t, a.Stages[i].Window.Start.Equal(b.Stages[i].Window.Start))
		assert.True(t, a.Stages[i].Window.End.Equal(b.Stages[i].Window.End))
	}
}

func TestWithSeedZeroFallsBackToClock(t *testing.T) {
	e := NewEngine(WithSeed(0))

	// NewEngine burns two draws deriving the faker and generator seeds.
	ref := rand.New(rand.NewSource(0))
	ref.Int63()
	ref.Int63()

	same := true
	for i := 0; i < 8; i++ {
		if e.rng.Int63() != ref.Int63() {
			same = false
			break
		}
	}
	assert.False(t, same, "seed 0 must not pin the engine to rand.NewSource(0)")
}

func TestSimulateArtifactsPerTechnique(t *testing.T) {
	e := NewEngine(WithSeed(17))
	sim, err := e.Simulate("insider", "low")
	require.NoError(t, err)

	for _, st := range sim.Stages {
		assert.Len(t, st.Artifacts, len(st.Techniques))
	}
}
