package knowledge

import (
	"context"
	"fmt"

	"github.com/firebase/genkit/go/ai"
	"github.com/jackc/pgx/v5"

	"github.com/voice-for-nature/wadden-sea/internal/backend"
	"github.com/voice-for-nature/wadden-sea/internal/log"
	"github.com/voice-for-nature/wadden-sea/internal/registry"
)

// Accessor binds entity configurations to live partitions. Every Load
// re-resolves against the backend, so index contents always reflect the
// backend's current state; the cost is one existence check per query.
type Accessor struct {
	backend  *backend.Client
	embedder ai.Embedder
	logger   log.Logger
}

// NewAccessor creates an Accessor over the shared backend client and the
// process-wide embedder.
func NewAccessor(client *backend.Client, embedder ai.Embedder, logger log.Logger) *Accessor {
	if logger == nil {
		logger = log.NewNop()
	}
	return &Accessor{backend: client, embedder: embedder, logger: logger}
}

// Load binds entity's partition and returns a queryable store over it.
// Backend acquisition errors propagate unchanged (backend.ErrUnavailable);
// a missing partition returns an error wrapping ErrIndexLoad.
func (a *Accessor) Load(ctx context.Context, entity string, cfg registry.EntityConfig) (*Store, error) {
	pool, err := a.backend.Get(ctx)
	if err != nil {
		return nil, err
	}

	exists, err := partitionExists(ctx, pool, cfg.DatabaseName, cfg.ContainerName)
	if err != nil {
		return nil, fmt.Errorf("%w: checking partition %s.%s for entity %q: %v",
			ErrIndexLoad, cfg.DatabaseName, cfg.ContainerName, entity, err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: partition %s.%s for entity %q does not exist",
			ErrIndexLoad, cfg.DatabaseName, cfg.ContainerName, entity)
	}

	relation := pgx.Identifier{cfg.DatabaseName, cfg.ContainerName}.Sanitize()
	a.logger.Debug("index bound", "entity", entity, "relation", relation)

	return NewStore(pool, a.embedder, relation, a.logger), nil
}

// partitionExists checks for the schema-qualified table in the catalog.
func partitionExists(ctx context.Context, db DB, schema, table string) (bool, error) {
	var exists bool
	err := db.QueryRow(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM information_schema.tables
			WHERE table_schema = $1 AND table_name = $2
		)`, schema, table).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}
