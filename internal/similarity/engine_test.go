package similarity

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ppiankov/politikcred/internal/cache"
	"github.com/ppiankov/politikcred/internal/model"
)

// stubStrategy returns a fixed score or error and counts calls
type stubStrategy struct {
	mu        sync.Mutex
	score     float64
	err       error
	available bool
	calls     int
}

func (s *stubStrategy) Name() model.Method { return model.MethodEmbedding }

func (s *stubStrategy) IsAvailable(ctx context.Context) bool { return s.available }

func (s *stubStrategy) Similarity(ctx context.Context, promise, candidate string) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.score, s.err
}

// stubProvider embeds texts from a fixed table
type stubProvider struct {
	mu      sync.Mutex
	vectors map[string][]float64
	calls   int
}

func (p *stubProvider) Name() string                         { return "stub" }
func (p *stubProvider) IsAvailable(ctx context.Context) bool { return true }

func (p *stubProvider) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	out := make([][]float64, len(texts))
	for i, t := range texts {
		vec, ok := p.vectors[t]
		if !ok {
			return nil, errors.New("unknown text")
		}
		out[i] = vec
	}
	return out, nil
}

func TestEngine_UsesPrimaryWhenHealthy(t *testing.T) {
	primary := &stubStrategy{score: 0.42, available: true}
	e := NewEngine(primary, NewKeywordStrategy())
	e.Prepare(context.Background())

	score, method := e.Similarity(context.Background(), "a", "b")
	if score != 0.42 || method != model.MethodEmbedding {
		t.Errorf("expected (0.42, embedding), got (%.2f, %s)", score, method)
	}
	if e.Degraded() {
		t.Error("expected engine not to be degraded")
	}
}

func TestEngine_DegradesPermanentlyOnFailure(t *testing.T) {
	primary := &stubStrategy{err: errors.New("quota exhausted"), available: true}
	e := NewEngine(primary, NewKeywordStrategy())

	_, method := e.Similarity(context.Background(), "baisser les impôts", "baisse des impôts")
	if method != model.MethodKeywordFallback {
		t.Errorf("expected keyword fallback after failure, got %s", method)
	}

	// Recovery of the provider must not bring the primary back mid-run
	primary.err = nil
	primary.score = 0.99
	for i := 0; i < 5; i++ {
		if _, method := e.Similarity(context.Background(), "x", "y"); method != model.MethodKeywordFallback {
			t.Fatalf("expected fallback to stick, got %s", method)
		}
	}
	if primary.calls != 1 {
		t.Errorf("expected primary to be called once, got %d", primary.calls)
	}
	if e.Method() != model.MethodKeywordFallback {
		t.Errorf("expected active method keyword_fallback, got %s", e.Method())
	}
}

func TestEngine_PrepareDegradesWithoutCalling(t *testing.T) {
	primary := &stubStrategy{score: 0.9, available: false}
	e := NewEngine(primary, NewKeywordStrategy())
	e.Prepare(context.Background())

	if !e.Degraded() {
		t.Fatal("expected unavailable provider to degrade the engine")
	}
	e.Similarity(context.Background(), "a", "b")
	if primary.calls != 0 {
		t.Errorf("expected no primary calls, got %d", primary.calls)
	}
}

func TestEngine_NilPrimary(t *testing.T) {
	e := NewEngine(nil, NewKeywordStrategy())
	e.Prepare(context.Background())

	if e.Method() != model.MethodKeywordFallback {
		t.Errorf("expected keyword fallback, got %s", e.Method())
	}
	if _, method := e.Similarity(context.Background(), "a", "b"); method != model.MethodKeywordFallback {
		t.Errorf("expected keyword fallback, got %s", method)
	}
}

func TestEngine_ClampsPrimaryOvershoot(t *testing.T) {
	e := NewEngine(&stubStrategy{score: 1.3, available: true}, NewKeywordStrategy())

	if score, _ := e.Similarity(context.Background(), "a", "b"); score != 1 {
		t.Errorf("expected clamped score 1, got %v", score)
	}
}

func TestEngine_ConcurrentFailuresDegradeOnce(t *testing.T) {
	primary := &stubStrategy{err: errors.New("boom"), available: true}
	e := NewEngine(primary, NewKeywordStrategy())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e.Similarity(context.Background(), "a", "b")
		}()
	}
	wg.Wait()

	if !e.Degraded() {
		t.Error("expected engine to be degraded")
	}
}

func TestEmbeddingStrategy_CosineAndCache(t *testing.T) {
	provider := &stubProvider{vectors: map[string][]float64{
		"promise": {1, 0},
		"action":  {1, 1},
		"opposed": {-1, 0},
	}}
	vectors := cache.NewVectorCache(cache.NewMemoryCache(time.Minute, time.Minute), "test", 0)
	s := NewEmbeddingStrategy(provider, vectors)

	got, err := s.Similarity(context.Background(), "promise", "action")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got < 0.707 || got > 0.708 {
		t.Errorf("expected cosine ~0.7071, got %.4f", got)
	}

	if _, err := s.Similarity(context.Background(), "promise", "action"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if provider.calls != 1 {
		t.Errorf("expected cached vectors on second call, got %d provider calls", provider.calls)
	}

	got, _ = s.Similarity(context.Background(), "promise", "opposed")
	if got != 0 {
		t.Errorf("expected negative cosine clamped to 0, got %v", got)
	}
}

func TestEmbeddingStrategy_ProviderError(t *testing.T) {
	s := NewEmbeddingStrategy(&stubProvider{vectors: map[string][]float64{}}, nil)

	if _, err := s.Similarity(context.Background(), "a", "b"); err == nil {
		t.Error("expected provider error to surface")
	}
}

func TestCosine_DimensionMismatch(t *testing.T) {
	if _, err := Cosine([]float64{1}, []float64{1, 2}); err == nil {
		t.Error("expected error for mismatched dimensions")
	}
	if got, _ := Cosine([]float64{0, 0}, []float64{1, 2}); got != 0 {
		t.Errorf("expected 0 for zero vector, got %v", got)
	}
}
