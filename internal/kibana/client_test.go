package kibana

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureSpaceSkipsDefault(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	c := New(Config{URL: server.URL})
	require.NoError(t, c.EnsureSpace(context.Background(), "default"))
	require.NoError(t, c.EnsureSpace(context.Background(), ""))
	assert.False(t, called)
}

func TestEnsureSpaceExisting(t *testing.T) {
	var posts int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			posts++
		}
		assert.Equal(t, "true", r.Header.Get("kbn-xsrf"))
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"id":"detection-lab","name":"detection-lab"}`))
	}))
	defer server.Close()

	c := New(Config{URL: server.URL})
	require.NoError(t, c.EnsureSpace(context.Background(), "detection-lab"))
	assert.Zero(t, posts)
}

func TestEnsureSpaceCreatesMissing(t *testing.T) {
	var created Space
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.WriteHeader(http.StatusNotFound)
		case http.MethodPost:
			assert.Equal(t, "/api/spaces/space", r.URL.Path)
			require.NoError(t, json.NewDecoder(r.Body).Decode(&created))
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{}`))
		}
	}))
	defer server.Close()

	c := New(Config{URL: server.URL})
	require.NoError(t, c.EnsureSpace(context.Background(), "attack-sim"))
	assert.Equal(t, "attack-sim", created.ID)
	assert.Equal(t, "attack-sim", created.Name)
}

func TestEnsureSpaceSurfacesServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	c := New(Config{URL: server.URL})
	err := c.EnsureSpace(context.Background(), "attack-sim")
	assert.Error(t, err)
}

func TestEnsureSpaceNilClient(t *testing.T) {
	var c *Client
	assert.Error(t, c.EnsureSpace(context.Background(), "x"))
}
