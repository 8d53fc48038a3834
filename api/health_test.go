package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/voice-for-nature/wadden-sea/internal/log"
)

func TestLiveness(t *testing.T) {
	h := NewHealthHandler(nil, log.NewNop())

	w := httptest.NewRecorder()
	h.liveness(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
}

func TestHello(t *testing.T) {
	h := NewHealthHandler(nil, log.NewNop())

	w := httptest.NewRecorder()
	h.hello(w, httptest.NewRequest(http.MethodGet, "/hello", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "wadden-sea")
}

func TestReadinessWithoutBackend(t *testing.T) {
	h := NewHealthHandler(nil, log.NewNop())

	w := httptest.NewRecorder()
	h.readiness(w, httptest.NewRequest(http.MethodGet, "/ready", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
