// Package vault resolves secrets from Azure Key Vault with a fallback to
// environment variables. This is the one place in the service where a
// failure is silently recovered: a secret missing from the vault is looked
// up in the environment before giving up, so local development works
// without any Azure access.
package vault

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/security/keyvault/azsecrets"

	"github.com/voice-for-nature/wadden-sea/internal/log"
)

// Secret names used by the service.
const (
	SecretOpenAIKey        = "OPENAI-API-KEY"
	SecretPostgresPassword = "POSTGRES-PASSWORD"
)

// ErrSecretNotFound indicates a secret exists in neither the vault nor
// the environment.
var ErrSecretNotFound = errors.New("secret not found")

// secretGetter is the slice of azsecrets.Client the resolver needs.
type secretGetter interface {
	GetSecret(ctx context.Context, name, version string, options *azsecrets.GetSecretOptions) (azsecrets.GetSecretResponse, error)
}

// Resolver looks up secrets. With no vault configured it is env-only.
type Resolver struct {
	client secretGetter // nil when no vault is configured
	logger log.Logger
}

// New creates a Resolver. An empty vaultURL skips Azure entirely and
// resolves from the environment alone. Credential setup uses the default
// Azure credential chain (CLI login, managed identity, env variables).
func New(vaultURL string, logger log.Logger) (*Resolver, error) {
	if logger == nil {
		logger = log.NewNop()
	}
	if vaultURL == "" {
		return &Resolver{logger: logger}, nil
	}

	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("authenticating to key vault: %w", err)
	}
	client, err := azsecrets.NewClient(vaultURL, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("creating key vault client: %w", err)
	}
	return &Resolver{client: client, logger: logger}, nil
}

// Get resolves name from the vault, falling back to the environment
// variable of the same name with dashes replaced by underscores. Returns
// an error wrapping ErrSecretNotFound when both sources come up empty.
func (r *Resolver) Get(ctx context.Context, name string) (string, error) {
	if r.client != nil {
		resp, err := r.client.GetSecret(ctx, name, "", nil)
		if err == nil && resp.Value != nil {
			return *resp.Value, nil
		}
		if err != nil {
			r.logger.Warn("secret not resolved from vault, trying environment", "secret", name, "error", err)
		}
	}

	if v := os.Getenv(envName(name)); v != "" {
		return v, nil
	}
	return "", fmt.Errorf("%w: %q missing from vault and environment (checked %s)", ErrSecretNotFound, name, envName(name))
}

// envName maps a vault secret name to its environment fallback.
func envName(secretName string) string {
	return strings.ReplaceAll(secretName, "-", "_")
}
