package similarity

import (
	"context"
	"fmt"
	"math"

	"github.com/ppiankov/politikcred/internal/cache"
	"github.com/ppiankov/politikcred/internal/llm"
	"github.com/ppiankov/politikcred/internal/metrics"
	"github.com/ppiankov/politikcred/internal/model"
)

// EmbeddingStrategy scores text pairs by cosine similarity of provider
// embeddings. Negative cosines are reported as 0.
type EmbeddingStrategy struct {
	provider llm.EmbeddingProvider
	vectors  *cache.VectorCache
}

// NewEmbeddingStrategy creates an embedding strategy. vectors may be nil.
func NewEmbeddingStrategy(provider llm.EmbeddingProvider, vectors *cache.VectorCache) *EmbeddingStrategy {
	return &EmbeddingStrategy{provider: provider, vectors: vectors}
}

// Name returns the method recorded on matches scored by this strategy
func (e *EmbeddingStrategy) Name() model.Method {
	return model.MethodEmbedding
}

// Provider returns the underlying provider name
func (e *EmbeddingStrategy) Provider() string {
	return e.provider.Name()
}

// IsAvailable reports whether the provider can serve requests
func (e *EmbeddingStrategy) IsAvailable(ctx context.Context) bool {
	return e.provider.IsAvailable(ctx)
}

// Similarity implements Strategy
func (e *EmbeddingStrategy) Similarity(ctx context.Context, promise, candidate string) (float64, error) {
	vecs, err := e.embed(ctx, []string{promise, candidate})
	if err != nil {
		return 0, err
	}
	return Cosine(vecs[0], vecs[1])
}

// embed resolves cached vectors and requests the rest in one call
func (e *EmbeddingStrategy) embed(ctx context.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, len(texts))
	var missing []string
	var missingIdx []int

	for i, text := range texts {
		if e.vectors != nil {
			if vec, ok := e.vectors.Get(text); ok {
				metrics.EmbeddingCacheTotal.WithLabelValues("hit").Inc()
				out[i] = vec
				continue
			}
			metrics.EmbeddingCacheTotal.WithLabelValues("miss").Inc()
		}
		missing = append(missing, text)
		missingIdx = append(missingIdx, i)
	}

	if len(missing) == 0 {
		return out, nil
	}

	vecs, err := e.provider.Embed(ctx, missing)
	if err != nil {
		return nil, err
	}
	if len(vecs) != len(missing) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(missing), len(vecs))
	}

	for j, vec := range vecs {
		out[missingIdx[j]] = vec
		if e.vectors != nil {
			_ = e.vectors.Set(missing[j], vec)
		}
	}
	return out, nil
}

// Cosine returns the cosine similarity of a and b clamped to [0,1]
func Cosine(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("vector dimensions differ: %d vs %d", len(a), len(b))
	}
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0, nil
	}
	return model.Clamp01(dot / (math.Sqrt(na) * math.Sqrt(nb))), nil
}
