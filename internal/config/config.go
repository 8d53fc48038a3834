// Package config loads and validates the wadden-sea service configuration.
//
// Sources, highest priority first:
//  1. Environment variables (WADDEN_* plus DATABASE_URL)
//  2. Config file (~/.wadden-sea/config.yaml)
//  3. Built-in defaults, including the default entity table
//
// Secrets (model keys, database password) may also be resolved through
// Azure Key Vault; see the vault package. Sensitive fields are masked in
// MarshalJSON so a dumped config never leaks credentials.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/voice-for-nature/wadden-sea/internal/registry"
)

var (
	// ErrConfigNil indicates the configuration is nil.
	ErrConfigNil = errors.New("configuration is nil")

	// ErrInvalidProvider indicates the model provider is not supported.
	ErrInvalidProvider = errors.New("invalid provider")

	// ErrMissingModelName indicates no language model is configured.
	ErrMissingModelName = errors.New("missing model name")

	// ErrMissingEmbedderModel indicates no embedding model is configured.
	ErrMissingEmbedderModel = errors.New("missing embedder model")

	// ErrInvalidPostgresHost indicates the PostgreSQL host is invalid.
	ErrInvalidPostgresHost = errors.New("invalid PostgreSQL host")

	// ErrInvalidPostgresPort indicates the PostgreSQL port is out of range.
	ErrInvalidPostgresPort = errors.New("invalid PostgreSQL port")

	// ErrInvalidPostgresSSLMode indicates the PostgreSQL SSL mode is invalid.
	ErrInvalidPostgresSSLMode = errors.New("invalid PostgreSQL SSL mode")

	// ErrInvalidTopK indicates the retrieval top-k is out of range.
	ErrInvalidTopK = errors.New("invalid retrieval top-k")

	// ErrNoEntities indicates the entity table is empty.
	ErrNoEntities = errors.New("no entities configured")

	// ErrInvalidEntity indicates an entity entry is incomplete.
	ErrInvalidEntity = errors.New("invalid entity configuration")
)

// Model provider identifiers used in Config.Provider.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

const (
	// DefaultModelName is used when no model is configured.
	DefaultModelName = "gpt-4o"

	// DefaultEmbedderModel is the default embedding model.
	DefaultEmbedderModel = "text-embedding-3-large"

	// DefaultTopK is the number of chunks retrieved per query.
	DefaultTopK = 5

	// MaxTopK bounds top-k to keep augmented prompts reasonable.
	MaxTopK = 20
)

// Config stores the full service configuration.
// SECURITY: sensitive fields are masked in MarshalJSON; keep it updated
// when adding keys, passwords or tokens.
type Config struct {
	// Model provider configuration
	Provider      string `mapstructure:"provider" json:"provider"`             // "openai" (default) or "gemini"
	ModelName     string `mapstructure:"model_name" json:"model_name"`         // e.g. "gpt-4o"
	EmbedderModel string `mapstructure:"embedder_model" json:"embedder_model"` // e.g. "text-embedding-3-large"

	// Azure OpenAI deployment (openai provider only). Endpoint is the
	// deployment base URL; Key may come from the vault.
	OpenAIEndpoint string `mapstructure:"openai_endpoint" json:"openai_endpoint"`
	OpenAIKey      string `mapstructure:"openai_key" json:"-"`

	// Retrieval backend (PostgreSQL + pgvector)
	PostgresHost     string `mapstructure:"postgres_host" json:"postgres_host"`
	PostgresPort     int    `mapstructure:"postgres_port" json:"postgres_port"`
	PostgresUser     string `mapstructure:"postgres_user" json:"postgres_user"`
	PostgresPassword string `mapstructure:"postgres_password" json:"-"`
	PostgresDBName   string `mapstructure:"postgres_dbname" json:"postgres_dbname"`
	PostgresSSLMode  string `mapstructure:"postgres_sslmode" json:"postgres_sslmode"`

	// Retrieval behavior
	TopK int `mapstructure:"top_k" json:"top_k"`

	// Model request pacing, requests per second. 0 disables the limiter.
	ModelRequestsPerSecond float64 `mapstructure:"model_requests_per_second" json:"model_requests_per_second"`

	// Secret resolution. When VaultURL is set, missing secrets are looked
	// up in Azure Key Vault before falling back to environment variables.
	VaultURL string `mapstructure:"vault_url" json:"vault_url"`

	// Tracing. Empty OTLPEndpoint disables export.
	OTLPEndpoint string `mapstructure:"otlp_endpoint" json:"otlp_endpoint"`
	ServiceName  string `mapstructure:"service_name" json:"service_name"`
	Environment  string `mapstructure:"environment" json:"environment"`

	// Entities is the static entity table. Overriding it in the config
	// file replaces the built-in defaults wholesale.
	Entities map[string]registry.EntityConfig `mapstructure:"entities" json:"entities"`
}

// MarshalJSON masks credentials so configs can be logged safely.
func (c *Config) MarshalJSON() ([]byte, error) {
	type alias Config // avoid recursion
	masked := alias(*c)
	if masked.PostgresPassword != "" {
		masked.PostgresPassword = "***"
	}
	if masked.OpenAIKey != "" {
		masked.OpenAIKey = "***"
	}
	return json.Marshal(masked)
}

// FullModelName returns the provider-qualified model name for Genkit,
// e.g. "openai/gpt-4o" or "googleai/gemini-2.5-flash". A name that
// already carries a provider prefix is returned as-is.
func (c *Config) FullModelName() string {
	if strings.Contains(c.ModelName, "/") {
		return c.ModelName
	}
	if c.Provider == ProviderGemini {
		return "googleai/" + c.ModelName
	}
	return ProviderOpenAI + "/" + c.ModelName
}

// Load reads configuration from defaults, the config file and the
// environment, in ascending priority.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".wadden-sea"))
	}
	v.AddConfigPath(".")

	v.SetEnvPrefix("WADDEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// No config file is fine; defaults plus env apply.
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.parseDatabaseURL(); err != nil {
		return nil, err
	}

	if len(cfg.Entities) == 0 {
		cfg.Entities = DefaultEntities()
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("provider", ProviderOpenAI)
	v.SetDefault("model_name", DefaultModelName)
	v.SetDefault("embedder_model", DefaultEmbedderModel)

	v.SetDefault("postgres_host", "localhost")
	v.SetDefault("postgres_port", 5432)
	v.SetDefault("postgres_user", "wadden")
	v.SetDefault("postgres_dbname", "wadden")
	v.SetDefault("postgres_sslmode", "prefer")

	v.SetDefault("top_k", DefaultTopK)
	v.SetDefault("model_requests_per_second", 0)

	v.SetDefault("service_name", "wadden-sea")
	v.SetDefault("environment", "development")
}
