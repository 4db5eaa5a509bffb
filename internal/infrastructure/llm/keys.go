package llm

import (
	"fmt"
	"os"

	"LinkStash/internal/ports"
)

// EnvKeyProvider resolves the API key from an environment variable,
// falling back to a configured key.
type EnvKeyProvider struct {
	envVar   string
	fallback string
}

var _ ports.KeyProvider = (*EnvKeyProvider)(nil)

// NewEnvKeyProvider wires the env var name and the configured fallback.
func NewEnvKeyProvider(envVar, fallback string) *EnvKeyProvider {
	return &EnvKeyProvider{envVar: envVar, fallback: fallback}
}

// APIKey returns the first non-empty key in the chain.
func (p *EnvKeyProvider) APIKey() (string, error) {
	if p.envVar != "" {
		if key := os.Getenv(p.envVar); key != "" {
			return key, nil
		}
	}
	if p.fallback != "" {
		return p.fallback, nil
	}
	return "", fmt.Errorf("no api key configured")
}
