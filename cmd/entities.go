package cmd

import (
	"fmt"

	"github.com/voice-for-nature/wadden-sea/internal/config"
	"github.com/voice-for-nature/wadden-sea/internal/registry"
)

// runEntities lists the registered knowledge bases. Only the config is
// needed; no model or database access happens here.
func runEntities() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	reg := registry.New(cfg.Entities)
	for _, name := range reg.Names() {
		entity, err := reg.Get(name)
		if err != nil {
			return err
		}
		mode := "retrieval"
		if entity.SimpleQuery {
			mode = "simple"
		}
		fmt.Printf("%-12s %-10s %s\n", name, mode, entity.Description)
	}
	return nil
}
