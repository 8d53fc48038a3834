// Package registry holds the static entity table: the mapping from an
// entity name (seal, seagrass, ...) to the knowledge-base configuration
// used to answer queries about it.
//
// The table is populated once at startup and read-only afterwards, so a
// Registry is safe for concurrent use without locking.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownEntity indicates the requested entity is not registered.
// Errors returned by Get wrap this sentinel and include the list of
// valid entity names so front ends can surface it to callers.
var ErrUnknownEntity = errors.New("unknown entity")

// EntityConfig describes one knowledge base. Immutable after registration.
type EntityConfig struct {
	// Description is the human-readable label shown by discovery endpoints.
	Description string `mapstructure:"description" json:"description"`

	// DatabaseName and ContainerName locate the entity's partition in the
	// retrieval backend. Unused when SimpleQuery is set.
	DatabaseName  string `mapstructure:"database_name" json:"database_name"`
	ContainerName string `mapstructure:"container_name" json:"container_name"`

	// SimpleQuery routes queries straight to the language model,
	// bypassing retrieval entirely.
	SimpleQuery bool `mapstructure:"simple_query" json:"simple_query"`

	// GroundedPrompt is the entity's grounding instruction. In simple mode
	// it becomes the chat system message; in retrieval mode it is prepended
	// verbatim to the user query. The two uses are intentionally distinct.
	GroundedPrompt string `mapstructure:"grounded_prompt" json:"grounded_prompt"`
}

// Entity pairs a registered name with its description, for listings.
type Entity struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Registry is the read-only entity table.
type Registry struct {
	entities map[string]EntityConfig
	names    []string // sorted, cached for error messages and listings
}

// New builds a Registry from the given table. The map is copied; later
// mutation of the argument does not affect the registry.
func New(entities map[string]EntityConfig) *Registry {
	m := make(map[string]EntityConfig, len(entities))
	names := make([]string, 0, len(entities))
	for name, cfg := range entities {
		m[name] = cfg
		names = append(names, name)
	}
	sort.Strings(names)

	return &Registry{entities: m, names: names}
}

// Get returns the configuration for entity. Lookup is case-sensitive.
// Unknown names return an error wrapping ErrUnknownEntity that enumerates
// the registered entities.
func (r *Registry) Get(entity string) (EntityConfig, error) {
	cfg, ok := r.entities[entity]
	if !ok {
		return EntityConfig{}, fmt.Errorf("%w: %q (available entities: %s)",
			ErrUnknownEntity, entity, strings.Join(r.names, ", "))
	}
	return cfg, nil
}

// List returns all registered entities with their descriptions, ordered by
// name. The result is freshly allocated on each call.
func (r *Registry) List() []Entity {
	out := make([]Entity, 0, len(r.names))
	for _, name := range r.names {
		out = append(out, Entity{Name: name, Description: r.entities[name].Description})
	}
	return out
}

// Names returns the sorted registered entity names.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Len returns the number of registered entities.
func (r *Registry) Len() int { return len(r.entities) }
