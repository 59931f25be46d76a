package healthprobe

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"
)

// HealthChecker provides liveness and readiness checks. Readiness flips on
// only after startup recovery has finished and the scan loop is running.
type HealthChecker struct {
	startTime time.Time
	ready     atomic.Bool
}

// New creates a HealthChecker.
func New() *HealthChecker {
	return &HealthChecker{
		startTime: time.Now(),
	}
}

// SetReady marks the application as ready to serve traffic.
func (h *HealthChecker) SetReady(ready bool) {
	h.ready.Store(ready)
}

// ProbeResponse is the JSON body of both probes.
type ProbeResponse struct {
	Status  string `json:"status"`
	Uptime  string `json:"uptime"`
	Message string `json:"message,omitempty"`
}

// Health returns an HTTP handler for liveness checks. Always 200 while the
// process runs.
func (h *HealthChecker) Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeProbe(w, http.StatusOK, ProbeResponse{
			Status: "healthy",
			Uptime: time.Since(h.startTime).String(),
		})
	}
}

// Ready returns an HTTP handler for readiness checks: 200 once ready, 503
// while recovery is still replaying pending hedges.
func (h *HealthChecker) Ready() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !h.ready.Load() {
			writeProbe(w, http.StatusServiceUnavailable, ProbeResponse{
				Status:  "not_ready",
				Message: "recovery or startup in progress",
			})
			return
		}

		writeProbe(w, http.StatusOK, ProbeResponse{
			Status: "ready",
			Uptime: time.Since(h.startTime).String(),
		})
	}
}

func writeProbe(w http.ResponseWriter, code int, resp ProbeResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(resp)
}
