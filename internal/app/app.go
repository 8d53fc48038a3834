// Package app assembles the service: configuration, secrets, tracing,
// the storage backend, the Genkit runtime and the query engine.
package app

import (
	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"

	"github.com/voice-for-nature/wadden-sea/internal/backend"
	"github.com/voice-for-nature/wadden-sea/internal/config"
	"github.com/voice-for-nature/wadden-sea/internal/engine"
	"github.com/voice-for-nature/wadden-sea/internal/log"
)

// App is the assembled application container.
type App struct {
	Config   *config.Config
	Logger   log.Logger
	Genkit   *genkit.Genkit
	Embedder ai.Embedder
	Backend  *backend.Client
	Engine   *engine.Engine

	otelCleanup func()
}

// Close releases everything Setup acquired. Safe to call on a partially
// initialized App and safe to call more than once.
func (a *App) Close() error {
	if a.otelCleanup != nil {
		a.otelCleanup()
		a.otelCleanup = nil
	}
	if a.Backend != nil {
		a.Backend.Close()
	}
	return nil
}
