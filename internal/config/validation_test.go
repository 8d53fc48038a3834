package config

import (
	"errors"
	"testing"

	"github.com/voice-for-nature/wadden-sea/internal/registry"
)

func TestValidateAccepts(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"nil entities", func(c *Config) { c.Entities = nil }, ErrNoEntities},
		{"bad provider", func(c *Config) { c.Provider = "anthropic" }, ErrInvalidProvider},
		{"empty model", func(c *Config) { c.ModelName = " " }, ErrMissingModelName},
		{"empty embedder", func(c *Config) { c.EmbedderModel = "" }, ErrMissingEmbedderModel},
		{"empty host", func(c *Config) { c.PostgresHost = "" }, ErrInvalidPostgresHost},
		{"port zero", func(c *Config) { c.PostgresPort = 0 }, ErrInvalidPostgresPort},
		{"port high", func(c *Config) { c.PostgresPort = 70000 }, ErrInvalidPostgresPort},
		{"bad sslmode", func(c *Config) { c.PostgresSSLMode = "maybe" }, ErrInvalidPostgresSSLMode},
		{"topk zero", func(c *Config) { c.TopK = 0 }, ErrInvalidTopK},
		{"topk high", func(c *Config) { c.TopK = MaxTopK + 1 }, ErrInvalidTopK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateNilConfig(t *testing.T) {
	var cfg *Config
	if err := cfg.Validate(); !errors.Is(err, ErrConfigNil) {
		t.Errorf("Validate() = %v, want ErrConfigNil", err)
	}
}

func TestValidateEntityPartitions(t *testing.T) {
	cfg := validConfig()
	cfg.Entities = map[string]registry.EntityConfig{
		"bad": {DatabaseName: "wadden; DROP TABLE x", ContainerName: "docs"},
	}
	if err := cfg.Validate(); !errors.Is(err, ErrInvalidEntity) {
		t.Errorf("Validate() = %v, want ErrInvalidEntity", err)
	}

	// Simple-query entities skip partition checks entirely.
	cfg.Entities = map[string]registry.EntityConfig{
		"chat": {SimpleQuery: true},
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("simple-query entity rejected: %v", err)
	}
}

func TestIdentPattern(t *testing.T) {
	good := []string{"wadden", "seal_documents", "_private", "a1"}
	bad := []string{"", "Wadden", "1abc", "a-b", `a"b`, "a b"}

	for _, s := range good {
		if !identPattern.MatchString(s) {
			t.Errorf("identPattern rejected %q", s)
		}
	}
	for _, s := range bad {
		if identPattern.MatchString(s) {
			t.Errorf("identPattern accepted %q", s)
		}
	}
}
