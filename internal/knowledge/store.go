// Package knowledge provides read access to the per-entity vector
// partitions in the retrieval backend. A partition is a PostgreSQL table
// of embedded document chunks; the entity configuration names it as
// (database_name, container_name), mapped here to schema and table.
package knowledge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/firebase/genkit/go/ai"
	"github.com/jackc/pgx/v5"
	"github.com/pgvector/pgvector-go"

	"github.com/voice-for-nature/wadden-sea/internal/log"
	"github.com/voice-for-nature/wadden-sea/internal/model"
)

// ErrIndexLoad indicates the backend is reachable but the entity's
// partition does not exist or cannot be bound.
var ErrIndexLoad = errors.New("index load failed")

// DB is the slice of pgxpool.Pool the store needs. Defined here so tests
// can substitute a mock connection.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store is a queryable index over one entity partition. It embeds queries
// with the shared embedder and runs cosine-distance search against the
// partition's pgvector column.
//
// A Store is bound to the partition at construction and holds no other
// state; it is safe for concurrent use.
type Store struct {
	db       DB
	embedder ai.Embedder
	relation string // sanitized schema.table
	logger   log.Logger
}

// NewStore binds a store to an already-sanitized relation name. Callers
// normally go through Accessor.Load, which validates the partition.
func NewStore(db DB, embedder ai.Embedder, relation string, logger log.Logger) *Store {
	if logger == nil {
		logger = log.NewNop()
	}
	return &Store{db: db, embedder: embedder, relation: relation, logger: logger}
}

// Search embeds query and returns the topK most similar chunks, in the
// backend's ranking order. Embedding failures carry model.ErrInvocation.
func (s *Store) Search(ctx context.Context, query string, topK int) ([]Chunk, error) {
	embedding, err := s.embedQuery(ctx, query)
	if err != nil {
		return nil, err
	}

	vec := pgvector.NewVector(embedding)

	// Relation name is validated and sanitized at bind time; only values
	// travel as parameters.
	sql := fmt.Sprintf(`SELECT id, content, metadata, 1 - (embedding <=> $1) AS similarity
FROM %s
ORDER BY embedding <=> $1
LIMIT $2`, s.relation)

	rows, err := s.db.Query(ctx, sql, vec, topK)
	if err != nil {
		return nil, fmt.Errorf("searching %s: %w", s.relation, err)
	}
	defer rows.Close()

	var chunks []Chunk
	for rows.Next() {
		var (
			chunk        Chunk
			metadataJSON []byte
			similarity   float64
		)
		if err := rows.Scan(&chunk.ID, &chunk.Content, &metadataJSON, &similarity); err != nil {
			return nil, fmt.Errorf("scanning chunk from %s: %w", s.relation, err)
		}
		if len(metadataJSON) > 0 {
			if err := json.Unmarshal(metadataJSON, &chunk.Metadata); err != nil {
				return nil, fmt.Errorf("decoding chunk metadata from %s: %w", s.relation, err)
			}
		}
		chunk.Similarity = float32(similarity)
		chunks = append(chunks, chunk)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading chunks from %s: %w", s.relation, err)
	}

	s.logger.Debug("vector search complete", "relation", s.relation, "chunks", len(chunks))
	return chunks, nil
}

// embedQuery generates the query embedding via the shared embedder.
func (s *Store) embedQuery(ctx context.Context, query string) ([]float32, error) {
	resp, err := s.embedder.Embed(ctx, &ai.EmbedRequest{
		Input: []*ai.Document{ai.DocumentFromText(query, nil)},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: embedding query: %v", model.ErrInvocation, err)
	}
	if len(resp.Embeddings) == 0 || len(resp.Embeddings[0].Embedding) == 0 {
		return nil, fmt.Errorf("%w: empty embedding returned", model.ErrInvocation)
	}
	return resp.Embeddings[0].Embedding, nil
}
