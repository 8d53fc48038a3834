package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/core/api"
	"github.com/firebase/genkit/go/genkit"
	"github.com/firebase/genkit/go/plugins/compat_oai/openai"
	"github.com/firebase/genkit/go/plugins/googlegenai"
	"github.com/openai/openai-go/option"

	"github.com/voice-for-nature/wadden-sea/internal/backend"
	"github.com/voice-for-nature/wadden-sea/internal/config"
	"github.com/voice-for-nature/wadden-sea/internal/engine"
	"github.com/voice-for-nature/wadden-sea/internal/knowledge"
	"github.com/voice-for-nature/wadden-sea/internal/log"
	"github.com/voice-for-nature/wadden-sea/internal/model"
	"github.com/voice-for-nature/wadden-sea/internal/observability"
	"github.com/voice-for-nature/wadden-sea/internal/registry"
	"github.com/voice-for-nature/wadden-sea/internal/vault"
)

// Setup builds the application from configuration. It resolves secrets,
// starts trace export, initializes the Genkit runtime for the configured
// provider and wires the query engine. The Postgres backend is created
// but not connected; the first retrieval query dials it.
//
// On error everything already acquired is released before returning.
func Setup(ctx context.Context, cfg *config.Config, logger log.Logger) (_ *App, retErr error) {
	if cfg == nil {
		return nil, config.ErrConfigNil
	}
	if logger == nil {
		logger = log.NewNop()
	}

	a := &App{Config: cfg, Logger: logger}
	defer func() {
		if retErr != nil {
			if err := a.Close(); err != nil {
				logger.Warn("cleanup during setup failure", "error", err)
			}
		}
	}()

	if err := resolveSecrets(ctx, cfg, logger); err != nil {
		return nil, err
	}

	// Tracing must be registered before genkit.Init so spans from the
	// runtime land in the exporter.
	a.otelCleanup = provideTracing(ctx, cfg, logger)

	a.Backend = backend.New(cfg.PostgresConnectionString(), logger)

	g, err := provideGenkit(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	a.Genkit = g

	a.Embedder = provideEmbedder(g, cfg)
	if a.Embedder == nil {
		return nil, fmt.Errorf("embedder %q not found for provider %q", cfg.EmbedderModel, cfg.Provider)
	}

	generator := model.New(g, cfg.FullModelName(), cfg.ModelRequestsPerSecond, logger)
	accessor := knowledge.NewAccessor(a.Backend, a.Embedder, logger)
	reg := registry.New(cfg.Entities)

	a.Engine = engine.New(reg, generator, engine.IndexLoaderFunc(
		func(ctx context.Context, entity string, ec registry.EntityConfig) (engine.Index, error) {
			return accessor.Load(ctx, entity, ec)
		},
	), cfg.TopK, logger)

	logger.Info("application ready",
		"provider", cfg.Provider,
		"model", cfg.FullModelName(),
		"entities", reg.Len(),
	)
	return a, nil
}

// resolveSecrets fills credentials the config left empty. The model key
// is required for the openai provider; the database password is optional
// because local setups may use trust auth.
func resolveSecrets(ctx context.Context, cfg *config.Config, logger log.Logger) error {
	if cfg.OpenAIKey != "" && cfg.PostgresPassword != "" {
		return nil
	}

	resolver, err := vault.New(cfg.VaultURL, logger)
	if err != nil {
		return fmt.Errorf("setting up secret resolution: %w", err)
	}

	if cfg.OpenAIKey == "" && cfg.Provider == config.ProviderOpenAI {
		key, err := resolver.Get(ctx, vault.SecretOpenAIKey)
		if err != nil {
			return fmt.Errorf("resolving model credentials: %w", err)
		}
		cfg.OpenAIKey = key
	}

	if cfg.PostgresPassword == "" {
		pw, err := resolver.Get(ctx, vault.SecretPostgresPassword)
		switch {
		case errors.Is(err, vault.ErrSecretNotFound):
			logger.Warn("no database password configured, relying on server-side auth")
		case err != nil:
			return fmt.Errorf("resolving database credentials: %w", err)
		default:
			cfg.PostgresPassword = pw
		}
	}
	return nil
}

// provideTracing starts trace export and returns its teardown.
func provideTracing(ctx context.Context, cfg *config.Config, logger log.Logger) func() {
	if cfg.OTLPEndpoint == "" {
		return func() {}
	}

	shutdown, err := observability.Setup(ctx, observability.Config{
		Endpoint:    cfg.OTLPEndpoint,
		ServiceName: cfg.ServiceName,
		Environment: cfg.Environment,
	}, logger)
	if err != nil || shutdown == nil {
		return func() {}
	}

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			logger.Warn("shutting down tracer provider", "error", err)
		}
	}
}

// provideGenkit initializes the Genkit runtime for the configured
// provider. The openai path also covers Azure-hosted deployments via
// a custom base URL.
func provideGenkit(ctx context.Context, cfg *config.Config, logger log.Logger) (*genkit.Genkit, error) {
	var g *genkit.Genkit

	switch cfg.Provider {
	case config.ProviderGemini:
		g = genkit.Init(ctx, genkit.WithPlugins(&googlegenai.GoogleAI{}))
		if g == nil {
			return nil, errors.New("initializing genkit with gemini provider")
		}
		logger.Info("initialized genkit", "provider", cfg.Provider, "model", cfg.ModelName)

	default: // openai
		plugin := &openai.OpenAI{APIKey: cfg.OpenAIKey}
		if cfg.OpenAIEndpoint != "" {
			plugin.Opts = append(plugin.Opts, option.WithBaseURL(cfg.OpenAIEndpoint))
		}
		g = genkit.Init(ctx, genkit.WithPlugins(plugin))
		if g == nil {
			return nil, errors.New("initializing genkit with openai provider")
		}
		logger.Info("initialized genkit",
			"provider", cfg.Provider,
			"model", cfg.ModelName,
			"endpoint", cfg.OpenAIEndpoint,
		)
	}

	return g, nil
}

// provideEmbedder looks up the embedder registered by the provider
// plugin. Gemini exposes a typed lookup; openai embedders are
// auto-registered in Init and found by name.
func provideEmbedder(g *genkit.Genkit, cfg *config.Config) ai.Embedder {
	if cfg.Provider == config.ProviderGemini {
		return googlegenai.GoogleAIEmbedder(g, cfg.EmbedderModel)
	}
	return genkit.LookupEmbedder(g, api.NewName("openai", cfg.EmbedderModel))
}
