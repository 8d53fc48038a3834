package api

import (
	"net/http"

	"github.com/voice-for-nature/wadden-sea/internal/backend"
	"github.com/voice-for-nature/wadden-sea/internal/log"
)

// HealthHandler serves the liveness and readiness probes.
type HealthHandler struct {
	client *backend.Client
	logger log.Logger
}

// NewHealthHandler creates a health handler. client may be nil; readiness
// then reports unavailable.
func NewHealthHandler(client *backend.Client, logger log.Logger) *HealthHandler {
	return &HealthHandler{client: client, logger: logger}
}

// RegisterRoutes registers health routes on mux.
func (h *HealthHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.liveness)
	mux.HandleFunc("GET /ready", h.readiness)
	mux.HandleFunc("GET /hello", h.hello)
}

// HelloResponse is the body of GET /hello.
type HelloResponse struct {
	Message string `json:"message"`
	Service string `json:"service"`
}

// hello is a trivial smoke-test endpoint kept for deployment checks.
func (h *HealthHandler) hello(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, h.logger, http.StatusOK, HelloResponse{
		Message: "Hello World from wadden-sea!",
		Service: "wadden-sea",
	})
}

// liveness reports that the process is up.
func (h *HealthHandler) liveness(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// readiness reports whether the storage backend is reachable. The probe
// dials the backend if no connection exists yet, so a ready instance has
// a warm pool before the first query arrives.
func (h *HealthHandler) readiness(w http.ResponseWriter, r *http.Request) {
	if h.client == nil {
		http.Error(w, "storage backend not configured", http.StatusServiceUnavailable)
		return
	}
	pool, err := h.client.Get(r.Context())
	if err != nil {
		h.logger.Error("readiness check failed", "error", err)
		http.Error(w, "storage backend not ready", http.StatusServiceUnavailable)
		return
	}
	if err := pool.Ping(r.Context()); err != nil {
		h.logger.Error("readiness ping failed", "error", err)
		http.Error(w, "storage backend not ready", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
