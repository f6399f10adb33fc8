package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"
)

// Health status values reported by the probe endpoints.
const (
	healthStatusOK           = "ok"
	healthStatusNotReady     = "not ready"
	healthStatusShuttingDown = "shutting down"
)

// storeProbeTimeout bounds the readiness store probe so a stuck backend
// cannot hang the probe endpoint.
const storeProbeTimeout = 2 * time.Second

// HealthChecker serves liveness and readiness probes on the metrics port.
// Liveness only proves the process runs; readiness also proves the calendar
// store answers a listing within the probe timeout and the server context is
// not shutting down.
type HealthChecker struct {
	ready         atomic.Bool
	serverContext *ServerContext
	startTime     time.Time
}

// NewHealthChecker creates a health checker for a server context. A nil
// context is allowed; store and shutdown checks are then skipped.
func NewHealthChecker(sc *ServerContext) *HealthChecker {
	h := &HealthChecker{
		serverContext: sc,
		startTime:     time.Now(),
	}
	h.ready.Store(true)
	return h
}

// SetReady flips the readiness flag, for draining before shutdown.
func (h *HealthChecker) SetReady(ready bool) {
	h.ready.Store(ready)
}

// IsReady reports the current readiness flag.
func (h *HealthChecker) IsReady() bool {
	return h.ready.Load()
}

// HealthResponse is the JSON body of both probe endpoints.
type HealthResponse struct {
	Status string            `json:"status"`
	Uptime string            `json:"uptime,omitempty"`
	Checks map[string]string `json:"checks,omitempty"`
}

// LivenessHandler answers /healthz. A live process always reports ok; a
// broken store must fail readiness, not liveness, or restarts would loop.
func (h *HealthChecker) LivenessHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeHealth(w, http.StatusOK, HealthResponse{Status: healthStatusOK})
	})
}

// ReadinessHandler answers /readyz with the readiness flag, the shutdown
// state, and a live store probe.
func (h *HealthChecker) ReadinessHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		checks := make(map[string]string)
		healthy := true

		if h.ready.Load() {
			checks["ready"] = healthStatusOK
		} else {
			checks["ready"] = healthStatusNotReady
			healthy = false
		}

		if h.serverContext != nil {
			if h.serverContext.IsShutdown() {
				checks["shutdown"] = healthStatusShuttingDown
				healthy = false
			} else {
				checks["shutdown"] = healthStatusOK
			}

			if err := h.probeStore(r.Context()); err != nil {
				checks["store"] = err.Error()
				healthy = false
			} else {
				checks["store"] = healthStatusOK
			}
		}

		response := HealthResponse{
			Status: healthStatusOK,
			Uptime: time.Since(h.startTime).Truncate(time.Second).String(),
			Checks: checks,
		}
		status := http.StatusOK
		if !healthy {
			response.Status = healthStatusNotReady
			status = http.StatusServiceUnavailable
		}
		writeHealth(w, status, response)
	})
}

// probeStore lists calendars with a bounded deadline. The listing is the
// cheapest store call that still exercises the backend.
func (h *HealthChecker) probeStore(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, storeProbeTimeout)
	defer cancel()

	_, err := h.serverContext.Store().ListCalendars(ctx)
	return err
}

// Register mounts the probe endpoints on the given mux.
func (h *HealthChecker) Register(mux *http.ServeMux) {
	mux.Handle("/healthz", h.LivenessHandler())
	mux.Handle("/readyz", h.ReadinessHandler())
}

func writeHealth(w http.ResponseWriter, status int, response HealthResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(response)
}
