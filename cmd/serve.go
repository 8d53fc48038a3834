package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/voice-for-nature/wadden-sea/api"
	"github.com/voice-for-nature/wadden-sea/internal/app"
	"github.com/voice-for-nature/wadden-sea/internal/config"
	"github.com/voice-for-nature/wadden-sea/internal/log"
)

// runServe starts the HTTP API server and blocks until SIGINT/SIGTERM.
func runServe(logger log.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("validating config: %w", err)
	}

	addr, err := parseServeAddr()
	if err != nil {
		return fmt.Errorf("parsing address: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a, err := app.Setup(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("initializing application: %w", err)
	}
	defer func() {
		if closeErr := a.Close(); closeErr != nil {
			logger.Warn("shutdown error", "error", closeErr)
		}
	}()

	return api.NewServer(a.Engine, a.Backend, logger).Run(ctx, addr)
}
