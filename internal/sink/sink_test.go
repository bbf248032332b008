package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halcyonsec/forge/internal/event"
)

// newMockOpenSearch returns a server that answers the info, index template,
// index existence and bulk endpoints the sink touches. failEvery marks every
// n-th bulk item as rejected; zero means everything succeeds.
func newMockOpenSearch(t *testing.T, failEvery int, calls *atomic.Int64) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if calls != nil {
			calls.Add(1)
		}

		switch {
		case r.URL.Path == "/":
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"name":"test-node","cluster_name":"test-cluster","version":{"number":"2.11.0"}}`))

		case strings.HasPrefix(r.URL.Path, "/_index_template/"):
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"acknowledged": true}`))

		case strings.Contains(r.URL.Path, "/_bulk"):
			body, _ := io.ReadAll(r.Body)
			lines := strings.Split(strings.TrimSpace(string(body)), "\n")

			itemCount := len(lines) / 2
			items := make([]map[string]interface{}, 0, itemCount)
			failed := false
			for i := 0; i < itemCount; i++ {
				entry := map[string]interface{}{
					"_index": "forge-alerts-default",
					"_id":    fmt.Sprintf("%d", i+1),
					"result": "created",
					"status": 201,
				}
				if failEvery > 0 && (i+1)%failEvery == 0 {
					failed = true
					entry["status"] = 400
					entry["error"] = map[string]interface{}{
						"type":   "mapper_parsing_exception",
						"reason": "failed to parse field",
					}
					delete(entry, "result")
				}
				items = append(items, map[string]interface{}{"index": entry})
			}

			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"took":   5,
				"errors": failed,
				"items":  items,
			})

		case r.Method == http.MethodHead:
			// Index existence check.
			w.WriteHeader(http.StatusNotFound)

		default:
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"acknowledged": true}`))
		}
	}))
}

func testEvents(n int) []*event.Event {
	events := make([]*event.Event, 0, n)
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		ev := event.New(fmt.Sprintf("evt-%04d", i), base.Add(time.Duration(i)*time.Minute))
		ev.Host = fmt.Sprintf("ws-%03d", i)
		ev.User = "jdoe"
		ev.Technique = "T1078"
		ev.Severity = "high"
		events = append(events, ev)
	}
	return events
}

func TestNewOpenSearchPingsCluster(t *testing.T) {
	var calls atomic.Int64
	server := newMockOpenSearch(t, 0, &calls)
	defer server.Close()

	s, err := NewOpenSearch(OpenSearchConfig{URL: server.URL}, "default")
	require.NoError(t, err)
	assert.Equal(t, "opensearch", s.Name())
	assert.Equal(t, "forge-alerts-default", s.Index())
	assert.GreaterOrEqual(t, calls.Load(), int64(1))
}

func TestNewOpenSearchRejectsUnreachableCluster(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := NewOpenSearch(OpenSearchConfig{URL: server.URL}, "default")
	assert.Error(t, err)
}

func TestOpenSearchIndexUsesSpace(t *testing.T) {
	server := newMockOpenSearch(t, 0, nil)
	defer server.Close()

	s, err := NewOpenSearch(OpenSearchConfig{URL: server.URL, IndexPrefix: "alerts"}, "detection-lab")
	require.NoError(t, err)
	assert.Equal(t, "alerts-detection-lab", s.Index())
}

func TestOpenSearchEnsureIndex(t *testing.T) {
	server := newMockOpenSearch(t, 0, nil)
	defer server.Close()

	s, err := NewOpenSearch(OpenSearchConfig{URL: server.URL}, "default")
	require.NoError(t, err)

	err = s.EnsureIndex(context.Background())
	assert.NoError(t, err)
}

func TestOpenSearchWriteBulkIndexes(t *testing.T) {
	server := newMockOpenSearch(t, 0, nil)
	defer server.Close()

	s, err := NewOpenSearch(OpenSearchConfig{URL: server.URL}, "default")
	require.NoError(t, err)

	result, err := s.Write(context.Background(), testEvents(25))
	require.NoError(t, err)
	assert.Equal(t, 25, result.Indexed)
	assert.Equal(t, 0, result.Failed)
	assert.Empty(t, result.Errors)
}

func TestOpenSearchWriteReportsItemFailures(t *testing.T) {
	server := newMockOpenSearch(t, 5, nil)
	defer server.Close()

	s, err := NewOpenSearch(OpenSearchConfig{URL: server.URL}, "default")
	require.NoError(t, err)

	result, err := s.Write(context.Background(), testEvents(20))
	require.NoError(t, err)
	assert.Equal(t, 16, result.Indexed)
	assert.Equal(t, 4, result.Failed)
	assert.NotEmpty(t, result.Errors)
	assert.Contains(t, result.Errors[0], "mapper_parsing_exception")
}

func TestStdoutWritesNDJSON(t *testing.T) {
	var buf bytes.Buffer
	s := NewWriter(&buf)
	defer s.Close()

	result, err := s.Write(context.Background(), testEvents(3))
	require.NoError(t, err)
	assert.Equal(t, 3, result.Indexed)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)

	for _, line := range lines {
		var doc map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &doc))
		assert.Contains(t, doc, "@timestamp")
		assert.Equal(t, "T1078", doc["threat.technique.id"])
	}
}

func TestStdoutStopsOnCancelledContext(t *testing.T) {
	var buf bytes.Buffer
	s := NewWriter(&buf)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Write(ctx, testEvents(3))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, buf.Len())
}
