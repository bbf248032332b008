package event

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentFlattening(t *testing.T) {
	ts := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	e := New("alert-1", ts)
	e.Host = "srv-042"
	e.User = "svc_backup"
	e.Technique = "T1021.001"
	e.Severity = "high"
	e.Set("campaign.id", "camp-9")
	e.Set("event.sequence", 7)

	doc := e.Document()

	assert.Equal(t, "alert-1", doc[FieldAlertUUID])
	assert.Equal(t, "srv-042", doc[FieldHostName])
	assert.Equal(t, "T1021.001", doc[FieldTechnique])
	assert.Equal(t, "high", doc[FieldSeverity])
	assert.Equal(t, "camp-9", doc["campaign.id"])
	assert.Equal(t, 7, doc["event.sequence"])
	assert.Equal(t, ts.Format(time.RFC3339Nano), doc[FieldTimestamp])
}

func TestDocumentOmitsEmptyEnvelopeFields(t *testing.T) {
	e := New("alert-2", time.Now())

	doc := e.Document()

	_, hasHost := doc[FieldHostName]
	_, hasTechnique := doc[FieldTechnique]
	assert.False(t, hasHost)
	assert.False(t, hasTechnique)
}

func TestFromDocumentRoundTrip(t *testing.T) {
	ts := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	e := New("alert-3", ts)
	e.Host = "ws-101"
	e.Technique = "T1078"
	e.Severity = "medium"
	e.Set("threat.tactic.name", "lateral_movement")

	got := FromDocument(e.Document())

	assert.Equal(t, "alert-3", got.ID)
	assert.Equal(t, "ws-101", got.Host)
	assert.Equal(t, "T1078", got.Technique)
	assert.Equal(t, "medium", got.Severity)
	assert.True(t, got.Timestamp.Equal(ts))
	assert.Equal(t, "lateral_movement", got.GetString("threat.tactic.name"))

	// Envelope fields must not leak into the extension bag.
	_, leaked := got.Extra[FieldAlertUUID]
	assert.False(t, leaked)
}

func TestMarshalJSON(t *testing.T) {
	e := New("alert-4", time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
	e.Host = "dc-001"
	e.Set("correlation.score", 0.85)

	data, err := json.Marshal(e)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "alert-4", doc[FieldAlertUUID])
	assert.Equal(t, "dc-001", doc[FieldHostName])
	assert.InDelta(t, 0.85, doc["correlation.score"], 1e-9)
}
