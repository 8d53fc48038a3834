// Package observability wires an OTLP trace exporter into Genkit's tracer
// provider so every generation and retrieval step shows up in the collector
// configured for the deployment.
//
// Tracing is best effort. A missing or unreachable collector must never
// take the service down, so exporter setup degrades to a no-op shutdown
// instead of returning an error.
package observability

import (
	"context"
	"os"

	"github.com/firebase/genkit/go/core/tracing"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/voice-for-nature/wadden-sea/internal/log"
)

// DefaultEndpoint is the local OTLP HTTP collector endpoint.
const DefaultEndpoint = "localhost:4318"

// Config for trace export.
type Config struct {
	// Endpoint is the OTLP HTTP collector address (host:port).
	Endpoint string
	// ServiceName tags exported spans; shown as the service in the APM UI.
	ServiceName string
	// Environment is the deployment environment (dev, staging, prod).
	Environment string
}

// Setup registers a batch span processor backed by an OTLP HTTP exporter
// with Genkit's TracerProvider. It returns a shutdown function that
// flushes pending spans; the returned function is always safe to call.
func Setup(ctx context.Context, cfg Config, logger log.Logger) (shutdown func(context.Context) error, err error) {
	if logger == nil {
		logger = log.NewNop()
	}
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	// Genkit's TracerProvider reads the service identity from the
	// standard OTEL environment variables.
	if cfg.ServiceName != "" {
		_ = os.Setenv("OTEL_SERVICE_NAME", cfg.ServiceName)
	}
	if cfg.Environment != "" {
		_ = os.Setenv("OTEL_RESOURCE_ATTRIBUTES", "deployment.environment="+cfg.Environment)
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(endpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		logger.Warn("trace exporter setup failed, tracing disabled", "endpoint", endpoint, "error", err)
		return func(context.Context) error { return nil }, nil
	}

	tracing.TracerProvider().RegisterSpanProcessor(sdktrace.NewBatchSpanProcessor(exporter))
	logger.Debug("tracing enabled", "endpoint", endpoint, "service", cfg.ServiceName, "environment", cfg.Environment)

	return tracing.TracerProvider().Shutdown, nil
}
