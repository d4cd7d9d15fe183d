package llm

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type stubProvider struct {
	mu        sync.Mutex
	calls     int
	available bool
	err       error
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) IsAvailable(ctx context.Context) bool { return s.available }

func (s *stubProvider) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	out := make([][]float64, len(texts))
	for i := range texts {
		out[i] = []float64{1, 0}
	}
	return out, nil
}

func TestQuota_TakeAndRemaining(t *testing.T) {
	q := NewQuota(2)

	if err := q.Take(1); err != nil {
		t.Fatalf("first take failed: %v", err)
	}
	if err := q.Take(1); err != nil {
		t.Fatalf("second take failed: %v", err)
	}
	if err := q.Take(1); !errors.Is(err, ErrQuotaExhausted) {
		t.Errorf("expected ErrQuotaExhausted, got %v", err)
	}
	if q.Remaining() != 0 {
		t.Errorf("expected 0 remaining, got %d", q.Remaining())
	}
}

func TestQuota_Unlimited(t *testing.T) {
	q := NewQuota(0)
	for i := 0; i < 1000; i++ {
		if err := q.Take(1); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if q.Remaining() != -1 {
		t.Errorf("expected -1 for unlimited, got %d", q.Remaining())
	}
}

func TestQuota_MonthRollover(t *testing.T) {
	now := time.Date(2025, 1, 31, 23, 0, 0, 0, time.UTC)
	q := NewQuota(1)
	q.now = func() time.Time { return now }
	q.month = q.currentMonth()

	if err := q.Take(1); err != nil {
		t.Fatalf("take failed: %v", err)
	}
	if err := q.Take(1); err == nil {
		t.Fatal("expected quota exhausted within the month")
	}

	now = now.Add(2 * time.Hour)
	if err := q.Take(1); err != nil {
		t.Errorf("expected quota reset in new month, got %v", err)
	}
}

func TestQuota_ConcurrentTakesNeverExceedLimit(t *testing.T) {
	q := NewQuota(50)

	var wg sync.WaitGroup
	var mu sync.Mutex
	granted := 0
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if q.Take(1) == nil {
				mu.Lock()
				granted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if granted != 50 {
		t.Errorf("expected exactly 50 grants, got %d", granted)
	}
}

func TestQuota_SnapshotRestore(t *testing.T) {
	q := NewQuota(10)
	month, _ := q.Snapshot()

	q.Restore(month, 7)
	if q.Remaining() != 3 {
		t.Errorf("expected 3 remaining after restore, got %d", q.Remaining())
	}

	q.Restore("1999-01", 9)
	if q.Remaining() != 3 {
		t.Errorf("expected usage from another month to be ignored, got %d remaining", q.Remaining())
	}
}

func TestQuotaProvider_UnavailableWhenExhausted(t *testing.T) {
	inner := &stubProvider{available: true}
	p := NewQuotaProvider(inner, NewQuota(1), nil, "")

	if !p.IsAvailable(context.Background()) {
		t.Fatal("expected provider available before use")
	}
	if _, err := p.Embed(context.Background(), []string{"a"}); err != nil {
		t.Fatalf("embed failed: %v", err)
	}
	if p.IsAvailable(context.Background()) {
		t.Error("expected provider unavailable after quota is spent")
	}
	if _, err := p.Embed(context.Background(), []string{"a"}); !errors.Is(err, ErrQuotaExhausted) {
		t.Errorf("expected ErrQuotaExhausted, got %v", err)
	}
	if inner.calls != 1 {
		t.Errorf("expected inner provider called once, got %d", inner.calls)
	}
}
