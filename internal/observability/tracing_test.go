package observability

import (
	"context"
	"testing"

	"github.com/voice-for-nature/wadden-sea/internal/log"
)

func TestSetupDefaultEndpoint(t *testing.T) {
	shutdown, err := Setup(context.Background(), Config{ServiceName: "test-service"}, log.NewNop())
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	if shutdown == nil {
		t.Fatal("shutdown is nil")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("shutdown: %v", err)
	}
}

func TestSetupUnreachableCollectorDegrades(t *testing.T) {
	cfg := Config{
		Endpoint:    "localhost:1", // nothing listens here
		ServiceName: "degrade-test",
		Environment: "test",
	}

	// Span export fails silently in the background; setup itself must
	// succeed and shutdown must not panic.
	shutdown, err := Setup(context.Background(), cfg, log.NewNop())
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("shutdown: %v", err)
	}
}

func TestDefaultEndpointValue(t *testing.T) {
	if DefaultEndpoint != "localhost:4318" {
		t.Errorf("DefaultEndpoint = %q", DefaultEndpoint)
	}
}
