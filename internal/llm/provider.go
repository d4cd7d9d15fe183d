package llm

import (
	"context"
	"errors"
)

// ErrUnavailable is returned when a provider cannot serve requests
var ErrUnavailable = errors.New("embedding provider unavailable")

// EmbeddingProvider defines the interface for embedding providers
type EmbeddingProvider interface {
	// Name returns the provider name
	Name() string

	// Embed returns one vector per input text, in input order
	Embed(ctx context.Context, texts []string) ([][]float64, error)

	// IsAvailable checks if the provider is configured and can take requests
	IsAvailable(ctx context.Context) bool
}

// Config holds embedding provider configuration
type Config struct {
	// Provider name: "openai", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama's OpenAI-compatible API)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// MonthlyQuota caps requests per calendar month, 0 means unlimited
	MonthlyQuota int
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:     "", // Disabled by default
		Model:        "",
		Timeout:      30,
		MonthlyQuota: 30000,
	}
}
