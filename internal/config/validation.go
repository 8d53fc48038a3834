package config

import (
	"fmt"
	"regexp"
	"strings"
)

// identPattern restricts partition identifiers (schema and table names) to
// unquoted PostgreSQL identifiers. Anything else is rejected up front so
// entity configuration can never smuggle SQL into a query.
var identPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]{0,62}$`)

// validSSLModes are the libpq sslmode values pgx accepts.
var validSSLModes = map[string]bool{
	"disable":     true,
	"allow":       true,
	"prefer":      true,
	"require":     true,
	"verify-ca":   true,
	"verify-full": true,
}

// Validate checks the full configuration. It is called by serve and query
// before any connection is attempted.
func (c *Config) Validate() error {
	if c == nil {
		return ErrConfigNil
	}

	switch c.Provider {
	case ProviderGemini, ProviderOpenAI:
	default:
		return fmt.Errorf("%w: %q (want %q or %q)", ErrInvalidProvider, c.Provider, ProviderOpenAI, ProviderGemini)
	}

	if strings.TrimSpace(c.ModelName) == "" {
		return ErrMissingModelName
	}
	if strings.TrimSpace(c.EmbedderModel) == "" {
		return ErrMissingEmbedderModel
	}

	if strings.TrimSpace(c.PostgresHost) == "" {
		return fmt.Errorf("%w: host is empty", ErrInvalidPostgresHost)
	}
	if c.PostgresPort < 1 || c.PostgresPort > 65535 {
		return fmt.Errorf("%w: %d", ErrInvalidPostgresPort, c.PostgresPort)
	}
	if !validSSLModes[c.PostgresSSLMode] {
		return fmt.Errorf("%w: %q", ErrInvalidPostgresSSLMode, c.PostgresSSLMode)
	}

	if c.TopK < 1 || c.TopK > MaxTopK {
		return fmt.Errorf("%w: %d (want 1-%d)", ErrInvalidTopK, c.TopK, MaxTopK)
	}

	return c.validateEntities()
}

// validateEntities checks the entity table. Simple-query entities need no
// partition; everything else must name a valid schema and table.
func (c *Config) validateEntities() error {
	if len(c.Entities) == 0 {
		return ErrNoEntities
	}

	for name, e := range c.Entities {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("%w: empty entity name", ErrInvalidEntity)
		}
		if e.SimpleQuery {
			continue
		}
		if !identPattern.MatchString(e.DatabaseName) {
			return fmt.Errorf("%w: entity %q has invalid database_name %q", ErrInvalidEntity, name, e.DatabaseName)
		}
		if !identPattern.MatchString(e.ContainerName) {
			return fmt.Errorf("%w: entity %q has invalid container_name %q", ErrInvalidEntity, name, e.ContainerName)
		}
	}
	return nil
}
