package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"
	log "github.com/sirupsen/logrus"
)

// OpenAIProvider implements EmbeddingProvider for OpenAI-compatible APIs
type OpenAIProvider struct {
	client *openai.Client
	config Config
	name   string
}

// NewOpenAIProvider creates a new OpenAI provider
func NewOpenAIProvider(config Config) (*OpenAIProvider, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
		name:   "openai",
	}, nil
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string {
	return p.name
}

// IsAvailable checks if the provider is properly configured
func (p *OpenAIProvider) IsAvailable(ctx context.Context) bool {
	// Listing models is the cheapest authenticated call
	_, err := p.client.ListModels(ctx)
	if err != nil {
		log.WithFields(log.Fields{"provider": p.name, "error": err}).Warn("embedding provider check failed")
		return false
	}
	return true
}

// Embed generates embeddings using the embeddings endpoint
func (p *OpenAIProvider) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return [][]float64{}, nil
	}

	model := openai.EmbeddingModel(p.config.Model)
	if model == "" {
		model = openai.SmallEmbedding3
	}

	timeout := time.Duration(p.config.Timeout) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	ctxWithTimeout, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := p.client.CreateEmbeddings(ctxWithTimeout, openai.EmbeddingRequestStrings{
		Input: texts,
		Model: model,
	})
	if err != nil {
		return nil, fmt.Errorf("%s embeddings error: %w", p.name, err)
	}

	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("%s returned %d embeddings for %d inputs", p.name, len(resp.Data), len(texts))
	}

	vectors := make([][]float64, len(texts))
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(texts) {
			return nil, fmt.Errorf("%s returned out-of-range embedding index %d", p.name, d.Index)
		}
		v := make([]float64, len(d.Embedding))
		for i, x := range d.Embedding {
			v[i] = float64(x)
		}
		vectors[d.Index] = v
	}

	return vectors, nil
}
