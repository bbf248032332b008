package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter constructs a ServeMux with the simulation API routes registered.
func NewRouter(h *Handler) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/simulations", h.Simulate)
	mux.HandleFunc("/api/v1/campaigns", h.Campaign)
	mux.HandleFunc("/api/v1/scenarios", h.Scenarios)
	mux.HandleFunc("/healthz", h.Health)
	mux.HandleFunc("/readyz", h.Ready)
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}
