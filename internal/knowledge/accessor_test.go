package knowledge

import (
	"context"
	"errors"
	"testing"

	"github.com/pashagolub/pgxmock/v4"

	"github.com/voice-for-nature/wadden-sea/internal/backend"
	"github.com/voice-for-nature/wadden-sea/internal/log"
	"github.com/voice-for-nature/wadden-sea/internal/registry"
)

func TestPartitionExists(t *testing.T) {
	pool, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer pool.Close()

	pool.ExpectQuery(`SELECT EXISTS`).
		WithArgs("wadden", "seal_documents").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := partitionExists(context.Background(), pool, "wadden", "seal_documents")
	if err != nil {
		t.Fatalf("partitionExists: %v", err)
	}
	if !ok {
		t.Error("expected partition to exist")
	}

	pool.ExpectQuery(`SELECT EXISTS`).
		WithArgs("wadden", "missing_documents").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

	ok, err = partitionExists(context.Background(), pool, "wadden", "missing_documents")
	if err != nil {
		t.Fatalf("partitionExists: %v", err)
	}
	if ok {
		t.Error("expected partition to be absent")
	}
}

func TestLoadPropagatesBackendUnavailable(t *testing.T) {
	// A client with no DSN fails at Get; Load must pass that through
	// unchanged so callers can distinguish it from a missing partition.
	client := backend.New("", log.NewNop())
	accessor := NewAccessor(client, &mockEmbedder{}, log.NewNop())

	_, err := accessor.Load(context.Background(), "seal", registry.EntityConfig{
		DatabaseName:  "wadden",
		ContainerName: "seal_documents",
	})
	if !errors.Is(err, backend.ErrUnavailable) {
		t.Fatalf("expected backend.ErrUnavailable, got %v", err)
	}
	if errors.Is(err, ErrIndexLoad) {
		t.Error("backend failure must not be reported as an index-load failure")
	}
}
