package llm

import (
	"fmt"
	"strings"

	"github.com/ppiankov/politikcred/internal/model"
)

// DefaultOllamaBaseURL is Ollama's OpenAI-compatible endpoint
const DefaultOllamaBaseURL = "http://localhost:11434/v1"

// NewProvider creates a new embedding provider based on configuration.
// An empty provider name returns nil: callers use the keyword fallback.
func NewProvider(config Config) (EmbeddingProvider, error) {
	provider := strings.ToLower(config.Provider)

	switch provider {
	case "openai":
		return NewOpenAIProvider(config)

	case "ollama":
		// Ollama serves the OpenAI embeddings API and ignores the key
		if config.BaseURL == "" {
			config.BaseURL = DefaultOllamaBaseURL
		}
		if config.APIKey == "" {
			config.APIKey = "ollama"
		}
		if config.Model == "" {
			config.Model = "nomic-embed-text"
		}
		p, err := NewOpenAIProvider(config)
		if err != nil {
			return nil, err
		}
		p.name = "ollama"
		return p, nil

	case "":
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown embedding provider: %s (supported: openai, ollama)", config.Provider)
	}
}

// ConfigFromModel converts model.EmbeddingConfig to llm.Config
func ConfigFromModel(modelConfig model.EmbeddingConfig) Config {
	return Config{
		Provider:     modelConfig.Provider,
		Model:        modelConfig.Model,
		APIKey:       modelConfig.APIKey,
		BaseURL:      modelConfig.BaseURL,
		Timeout:      int(modelConfig.Timeout.Seconds()),
		MonthlyQuota: modelConfig.MonthlyQuota,
	}
}
