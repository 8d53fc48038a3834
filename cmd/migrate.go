package cmd

import (
	"fmt"

	"github.com/voice-for-nature/wadden-sea/db"
	"github.com/voice-for-nature/wadden-sea/internal/config"
	"github.com/voice-for-nature/wadden-sea/internal/log"
)

// runMigrate applies pending database migrations. This is the only
// command that touches Postgres at startup; serve connects lazily on
// the first retrieval query.
func runMigrate(logger log.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := db.Migrate(cfg.PostgresURL(), logger); err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}
	fmt.Println("migrations applied")
	return nil
}
