package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/voice-for-nature/wadden-sea/internal/backend"
	"github.com/voice-for-nature/wadden-sea/internal/engine"
	"github.com/voice-for-nature/wadden-sea/internal/knowledge"
	"github.com/voice-for-nature/wadden-sea/internal/log"
	"github.com/voice-for-nature/wadden-sea/internal/registry"
)

// QueryEngine is the slice of the engine the HTTP layer consumes.
type QueryEngine interface {
	ProcessQuery(ctx context.Context, query, entity string) (*engine.Result, error)
	ListEntities() map[string]string
}

// QueryRequest is the body of POST /query.
type QueryRequest struct {
	Query  string `json:"query"`
	Entity string `json:"entity"`
}

// QueryHandler serves the query and entity-listing endpoints.
type QueryHandler struct {
	engine QueryEngine
	logger log.Logger
}

// NewQueryHandler creates a query handler.
func NewQueryHandler(engine QueryEngine, logger log.Logger) *QueryHandler {
	return &QueryHandler{engine: engine, logger: logger}
}

// RegisterRoutes registers query routes on mux.
func (h *QueryHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /query", h.handleQuery)
	mux.HandleFunc("GET /entities", h.handleEntities)
}

func (h *QueryHandler) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "invalid_request", "request body must be JSON with query and entity fields")
		return
	}
	if req.Entity == "" {
		writeError(w, h.logger, http.StatusBadRequest, "missing_entity", "entity is required")
		return
	}

	result, err := h.engine.ProcessQuery(r.Context(), req.Query, req.Entity)
	if err != nil {
		h.writeQueryError(w, req.Entity, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, result)
}

// writeQueryError maps pipeline errors to HTTP statuses. The error text
// for an unknown entity already enumerates the valid names; pass it on.
func (h *QueryHandler) writeQueryError(w http.ResponseWriter, entity string, err error) {
	switch {
	case errors.Is(err, registry.ErrUnknownEntity):
		writeError(w, h.logger, http.StatusBadRequest, "unknown_entity", err.Error())
	case errors.Is(err, backend.ErrUnavailable), errors.Is(err, knowledge.ErrIndexLoad):
		h.logger.Error("query failed", "entity", entity, "error", err)
		writeError(w, h.logger, http.StatusServiceUnavailable, "knowledge_base_unavailable", "knowledge base is not available")
	default:
		h.logger.Error("query failed", "entity", entity, "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "query_failed", "query could not be answered")
	}
}

// EntityInfo describes one knowledge base in the entities listing.
type EntityInfo struct {
	Description string `json:"description"`
}

// EntitiesResponse is the body of GET /entities.
type EntitiesResponse struct {
	Entities map[string]EntityInfo `json:"entities"`
}

func (h *QueryHandler) handleEntities(w http.ResponseWriter, _ *http.Request) {
	entities := make(map[string]EntityInfo)
	for name, description := range h.engine.ListEntities() {
		entities[name] = EntityInfo{Description: description}
	}
	writeJSON(w, h.logger, http.StatusOK, EntitiesResponse{Entities: entities})
}
