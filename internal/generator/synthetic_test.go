package generator

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyntheticGenerateAlert(t *testing.T) {
	g := NewSynthetic(1)
	start := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(6 * time.Hour)

	e, err := g.GenerateAlert(context.Background(), Request{
		UserName:     "adm_jdoe",
		HostName:     "srv-042",
		Space:        "default",
		Technique:    "T1021.001",
		WindowStart:  start,
		WindowEnd:    end,
		MitreEnabled: true,
		Chain: &ChainContext{
			CampaignID:   "camp-1",
			StageID:      "stage-1",
			StageName:    "lateral_movement",
			StageIndex:   3,
			TotalStages:  7,
			ThreatActor:  "Crimson Mantis",
			ParentEvents: []string{"a", "b"},
		},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, e.ID)
	assert.Equal(t, "srv-042", e.Host)
	assert.Equal(t, "adm_jdoe", e.User)
	assert.Equal(t, "T1021.001", e.Technique)
	assert.Contains(t, []string{"low", "medium", "high", "critical"}, e.Severity)
	assert.False(t, e.Timestamp.Before(start))
	assert.True(t, e.Timestamp.Before(end))
	assert.Equal(t, "Remote Services: Remote Desktop Protocol", e.GetString("kibana.alert.rule.name"))
	assert.Equal(t, "lateral_movement", e.GetString("attack_chain.stage_name"))
	assert.Equal(t, []string{"a", "b"}, e.Extra["attack_chain.parent_events"])
}

func TestSyntheticMitreDisabled(t *testing.T) {
	g := NewSynthetic(2)
	now := time.Now()

	e, err := g.GenerateAlert(context.Background(), Request{
		UserName:    "user1",
		HostName:    "ws-001",
		Technique:   "T1078",
		WindowStart: now,
		WindowEnd:   now.Add(time.Hour),
	})
	require.NoError(t, err)
	assert.Empty(t, e.Technique)
	assert.Equal(t, "Suspicious Activity Detected", e.GetString("kibana.alert.rule.name"))
}

func TestSyntheticDeterministicForSeed(t *testing.T) {
	start := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	req := Request{
		UserName:    "user1",
		HostName:    "ws-001",
		Technique:   "T1057",
		WindowStart: start,
		WindowEnd:   start.Add(time.Hour),
	}

	a := NewSynthetic(42)
	b := NewSynthetic(42)

	for i := 0; i < 10; i++ {
		ea, err := a.GenerateAlert(context.Background(), req)
		require.NoError(t, err)
		eb, err := b.GenerateAlert(context.Background(), req)
		require.NoError(t, err)

		assert.Equal(t, ea.Timestamp, eb.Timestamp)
		assert.Equal(t, ea.Severity, eb.Severity)
		assert.Equal(t, ea.Extra["host.ip"], eb.Extra["host.ip"])
		assert.Equal(t, ea.Extra["source.ip"], eb.Extra["source.ip"])
		assert.Equal(t, ea.Extra["host.os.name"], eb.Extra["host.os.name"])
		assert.Equal(t, ea.Extra["process.name"], eb.Extra["process.name"])
	}
}

func TestSyntheticHonorsCancelledContext(t *testing.T) {
	g := NewSynthetic(3)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := g.GenerateAlert(ctx, Request{HostName: "ws-001"})
	assert.Error(t, err)
}

func TestSyntheticDegenerateWindow(t *testing.T) {
	g := NewSynthetic(4)
	at := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	e, err := g.GenerateAlert(context.Background(), Request{
		HostName:    "db-001",
		WindowStart: at,
		WindowEnd:   at,
	})
	require.NoError(t, err)
	assert.True(t, e.Timestamp.Equal(at))
}
