package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/halcyonsec/forge/internal/logging"
	"github.com/halcyonsec/forge/internal/simulation"
	"github.com/halcyonsec/forge/internal/sink"
)

// Handler serves the simulation API.
type Handler struct {
	engine *simulation.Engine
	sinks  []sink.Sink
	log    *logging.Logger
}

// NewHandler constructs a Handler. Sinks are optional; without them the
// campaign endpoint returns the generated documents in the response.
func NewHandler(engine *simulation.Engine, sinks []sink.Sink, log *logging.Logger) *Handler {
	return &Handler{engine: engine, sinks: sinks, log: log}
}

// SimulateRequest is the body of POST /api/v1/simulations.
type SimulateRequest struct {
	ScenarioType string `json:"scenario_type"`
	Complexity   string `json:"complexity"`
}

// CampaignRequest is the body of POST /api/v1/campaigns. It builds a
// simulation and generates its events in one call.
type CampaignRequest struct {
	ScenarioType string `json:"scenario_type"`
	Complexity   string `json:"complexity"`
	EventCount   int    `json:"event_count"`
	TargetCount  int    `json:"target_count"`
	Space        string `json:"space"`
	Mitre        *bool  `json:"mitre,omitempty"`
	IncludeDocs  bool   `json:"include_docs"`
}

// CampaignResponse summarizes a generated campaign.
type CampaignResponse struct {
	Simulation *simulation.Simulation       `json:"simulation"`
	Summary    simulation.Summary           `json:"summary"`
	Sinks      map[string]*sink.WriteResult `json:"sinks,omitempty"`
	Documents  []map[string]interface{}     `json:"documents,omitempty"`
}

// Simulate handles POST /api/v1/simulations.
func (h *Handler) Simulate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req SimulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	sim, err := h.engine.Simulate(req.ScenarioType, req.Complexity)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, sim)
}

// Campaign handles POST /api/v1/campaigns.
func (h *Handler) Campaign(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req CampaignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	if req.EventCount < 1 {
		writeError(w, http.StatusBadRequest, "event_count must be positive")
		return
	}

	sim, err := h.engine.Simulate(req.ScenarioType, req.Complexity)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	mitre := true
	if req.Mitre != nil {
		mitre = *req.Mitre
	}

	result, err := h.engine.CampaignEvents(r.Context(), sim, simulation.CampaignOptions{
		EventCount:  req.EventCount,
		TargetCount: req.TargetCount,
		Space:       req.Space,
		Mitre:       mitre,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp := CampaignResponse{
		Simulation: sim,
		Summary:    result.Summary,
	}

	if len(h.sinks) > 0 {
		resp.Sinks = make(map[string]*sink.WriteResult, len(h.sinks))
		for _, s := range h.sinks {
			wr, err := s.Write(r.Context(), result.Events)
			if err != nil {
				h.log.Error("sink write failed", "sink", s.Name(), "error", err)
				writeError(w, http.StatusBadGateway, fmt.Sprintf("sink %s: %v", s.Name(), err))
				return
			}
			resp.Sinks[s.Name()] = wr
		}
	}

	if req.IncludeDocs || len(h.sinks) == 0 {
		resp.Documents = make([]map[string]interface{}, 0, len(result.Events))
		for _, ev := range result.Events {
			resp.Documents = append(resp.Documents, ev.Document())
		}
	}

	writeJSON(w, http.StatusCreated, resp)
}

// Scenarios handles GET /api/v1/scenarios.
func (h *Handler) Scenarios(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, h.engine.Scenarios())
}

// Health handles GET /healthz.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready handles GET /readyz. The generator is in-process, so readiness
// only verifies a campaign can be assembled.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	_, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if _, err := h.engine.Simulate("", ""); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready", "reason": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
