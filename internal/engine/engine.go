// Package engine implements the entity-scoped query pipeline: the mapping
// from (query, entity) to a grounded answer with source attribution.
//
// Routing is a two-way dispatch decided per call from the entity
// configuration. Simple-query entities go straight to the language model;
// everything else goes through retrieval: bind the entity's index, search,
// and compose an answer from the retrieved context. No state is carried
// between calls.
package engine

import (
	"context"
	"fmt"

	"github.com/voice-for-nature/wadden-sea/internal/knowledge"
	"github.com/voice-for-nature/wadden-sea/internal/log"
	"github.com/voice-for-nature/wadden-sea/internal/registry"
)

// Result is the answer to one query. Sources lists the origin-file label
// of every retrieved chunk in ranking order, duplicates preserved; it is
// empty in simple mode. Query always echoes the caller's original text,
// never the internally prefixed form.
type Result struct {
	Answer  string   `json:"answer"`
	Sources []string `json:"sources"`
	Query   string   `json:"query"`
	Entity  string   `json:"entity"`
}

// Generator is the slice of the language-model client the engine uses.
// Chat sends a system+user message pair; Complete sends a bare prompt
// with no chat framing. The two condition the model differently and are
// deliberately separate.
type Generator interface {
	Chat(ctx context.Context, systemPrompt, userQuery string) (string, error)
	Complete(ctx context.Context, prompt string) (string, error)
}

// Index is a queryable view over one entity partition.
type Index interface {
	Search(ctx context.Context, query string, topK int) ([]knowledge.Chunk, error)
}

// IndexLoader binds an entity configuration to a live Index.
type IndexLoader interface {
	Load(ctx context.Context, entity string, cfg registry.EntityConfig) (Index, error)
}

// IndexLoaderFunc adapts a function to the IndexLoader interface.
type IndexLoaderFunc func(ctx context.Context, entity string, cfg registry.EntityConfig) (Index, error)

// Load calls f.
func (f IndexLoaderFunc) Load(ctx context.Context, entity string, cfg registry.EntityConfig) (Index, error) {
	return f(ctx, entity, cfg)
}

// Engine routes queries for all registered entities.
type Engine struct {
	registry  *registry.Registry
	generator Generator
	indexes   IndexLoader
	topK      int
	logger    log.Logger
}

// New creates an Engine. topK bounds the number of chunks retrieved per
// query in retrieval mode.
func New(reg *registry.Registry, generator Generator, indexes IndexLoader, topK int, logger log.Logger) *Engine {
	if logger == nil {
		logger = log.NewNop()
	}
	return &Engine{
		registry:  reg,
		generator: generator,
		indexes:   indexes,
		topK:      topK,
		logger:    logger,
	}
}

// ProcessQuery answers query for entity.
//
// Unknown entities fail with registry.ErrUnknownEntity. Simple-query
// entities are answered directly by the model, with the entity's grounding
// prompt as system instruction, and carry no sources. All other entities
// are answered from their index; a configured grounding prompt is
// prepended to the query sent downstream, while the returned Query field
// keeps the caller's original text.
//
// The query string is passed through untrimmed and unvalidated; input
// policy belongs to the front ends.
func (e *Engine) ProcessQuery(ctx context.Context, query, entity string) (*Result, error) {
	cfg, err := e.registry.Get(entity)
	if err != nil {
		return nil, err
	}

	if cfg.SimpleQuery {
		answer, err := e.simpleChat(ctx, query, cfg.GroundedPrompt)
		if err != nil {
			return nil, fmt.Errorf("entity %q: simple chat: %w", entity, err)
		}
		e.logger.Debug("query answered", "entity", entity, "mode", "simple")
		return &Result{
			Answer:  answer,
			Sources: []string{},
			Query:   query,
			Entity:  entity,
		}, nil
	}

	effectiveQuery := query
	if cfg.GroundedPrompt != "" {
		effectiveQuery = cfg.GroundedPrompt + " " + query
	}

	idx, err := e.indexes.Load(ctx, entity, cfg)
	if err != nil {
		return nil, fmt.Errorf("entity %q: loading index: %w", entity, err)
	}

	answer, sources, err := e.compose(ctx, effectiveQuery, idx)
	if err != nil {
		return nil, fmt.Errorf("entity %q: retrieval: %w", entity, err)
	}

	e.logger.Debug("query answered", "entity", entity, "mode", "retrieval", "sources", len(sources))
	return &Result{
		Answer:  answer,
		Sources: sources,
		Query:   query, // original, never the prefixed form
		Entity:  entity,
	}, nil
}

// ListEntities returns the registered entities as a name-to-description
// mapping for discovery endpoints.
func (e *Engine) ListEntities() map[string]string {
	out := make(map[string]string, e.registry.Len())
	for _, ent := range e.registry.List() {
		out[ent.Name] = ent.Description
	}
	return out
}

// simpleChat answers without retrieval. A non-empty system prompt becomes
// a two-message chat exchange; an empty one sends the query as a bare
// completion with no chat framing.
func (e *Engine) simpleChat(ctx context.Context, query, systemPrompt string) (string, error) {
	if systemPrompt != "" {
		return e.generator.Chat(ctx, systemPrompt, query)
	}
	return e.generator.Complete(ctx, query)
}
