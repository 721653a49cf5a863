package server

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"
)

// Health status constants for health check responses.
const (
	healthStatusOK           = "ok"
	healthStatusNotReady     = "not ready"
	healthStatusShuttingDown = "shutting down"
)

// HealthChecker provides health check endpoints for Kubernetes probes.
type HealthChecker struct {
	// ready indicates whether the server is ready to receive traffic
	ready atomic.Bool
	// shuttingDown is set once graceful shutdown begins
	shuttingDown atomic.Bool
	// startTime tracks when the server started
	startTime time.Time
}

// NewHealthChecker creates a new HealthChecker.
func NewHealthChecker() *HealthChecker {
	h := &HealthChecker{
		startTime: time.Now(),
	}
	// Server starts as ready by default
	h.ready.Store(true)
	return h
}

// SetReady sets the readiness state of the server.
func (h *HealthChecker) SetReady(ready bool) {
	h.ready.Store(ready)
}

// SetShuttingDown marks the server as shutting down; readiness fails from
// then on so load balancers drain traffic.
func (h *HealthChecker) SetShuttingDown() {
	h.shuttingDown.Store(true)
}

// IsReady returns whether the server is ready to receive traffic.
func (h *HealthChecker) IsReady() bool {
	return h.ready.Load() && !h.shuttingDown.Load()
}

// HealthResponse represents the JSON response for health endpoints.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
	Uptime string            `json:"uptime,omitempty"`
}

// LivenessHandler returns an HTTP handler for the /healthz endpoint.
// Liveness probes indicate whether the process should be restarted, so this
// is a plain is-the-process-running check.
func (h *HealthChecker) LivenessHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)

		_ = json.NewEncoder(w).Encode(HealthResponse{
			Status: healthStatusOK,
			Uptime: time.Since(h.startTime).Round(time.Second).String(),
		})
	})
}

// ReadinessHandler returns an HTTP handler for the /readyz endpoint.
// Readiness probes indicate whether the server is ready to receive traffic.
func (h *HealthChecker) ReadinessHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		checks := make(map[string]string)
		status := healthStatusOK
		code := http.StatusOK

		switch {
		case h.shuttingDown.Load():
			checks["ready"] = healthStatusShuttingDown
			status = healthStatusShuttingDown
			code = http.StatusServiceUnavailable
		case !h.ready.Load():
			checks["ready"] = healthStatusNotReady
			status = healthStatusNotReady
			code = http.StatusServiceUnavailable
		default:
			checks["ready"] = healthStatusOK
		}

		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(HealthResponse{
			Status: status,
			Checks: checks,
		})
	})
}
