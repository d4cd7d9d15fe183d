package llm

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrQuotaExhausted is returned once the monthly request budget is spent
var ErrQuotaExhausted = errors.New("embedding monthly quota exhausted")

// Quota is a monthly request counter shared by every worker of a run.
// The count resets when the calendar month (UTC) changes.
type Quota struct {
	mu    sync.Mutex
	limit int
	month string
	used  int
	now   func() time.Time
}

// NewQuota creates a quota of limit requests per month. A limit <= 0 is unlimited.
func NewQuota(limit int) *Quota {
	q := &Quota{limit: limit, now: time.Now}
	q.month = q.currentMonth()
	return q
}

func (q *Quota) currentMonth() string {
	return q.now().UTC().Format("2006-01")
}

// rollover resets the counter on month change. Callers hold mu.
func (q *Quota) rollover() {
	if m := q.currentMonth(); m != q.month {
		q.month = m
		q.used = 0
	}
}

// Take consumes n requests or fails without consuming any
func (q *Quota) Take(n int) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.rollover()
	if q.limit > 0 && q.used+n > q.limit {
		return fmt.Errorf("%w (%d/%d used in %s)", ErrQuotaExhausted, q.used, q.limit, q.month)
	}
	q.used += n
	return nil
}

// Remaining returns the requests left this month, -1 when unlimited
func (q *Quota) Remaining() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.rollover()
	if q.limit <= 0 {
		return -1
	}
	if q.used >= q.limit {
		return 0
	}
	return q.limit - q.used
}

// Snapshot returns the month and the usage to persist between runs
func (q *Quota) Snapshot() (string, int) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.rollover()
	return q.month, q.used
}

// Restore loads persisted usage; usage recorded for another month is ignored
func (q *Quota) Restore(month string, used int) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.rollover()
	if month == q.month && used > q.used {
		q.used = used
	}
}

// Waiter throttles outbound calls, keyed by endpoint
type Waiter interface {
	Wait(ctx context.Context, key string) error
}

// QuotaProvider guards an EmbeddingProvider with a quota and an optional rate limiter
type QuotaProvider struct {
	inner   EmbeddingProvider
	quota   *Quota
	limiter Waiter
	key     string
}

// NewQuotaProvider wraps inner. limiter may be nil.
func NewQuotaProvider(inner EmbeddingProvider, quota *Quota, limiter Waiter, endpoint string) *QuotaProvider {
	if endpoint == "" {
		endpoint = "https://api.openai.com/v1"
	}
	return &QuotaProvider{inner: inner, quota: quota, limiter: limiter, key: endpoint}
}

// Name returns the wrapped provider name
func (p *QuotaProvider) Name() string {
	return p.inner.Name()
}

// IsAvailable is false once the quota is spent, without calling out
func (p *QuotaProvider) IsAvailable(ctx context.Context) bool {
	if p.quota.Remaining() == 0 {
		return false
	}
	return p.inner.IsAvailable(ctx)
}

// Embed consumes one request from the quota per call
func (p *QuotaProvider) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	if err := p.quota.Take(1); err != nil {
		return nil, err
	}
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx, p.key); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}
	return p.inner.Embed(ctx, texts)
}

// Quota exposes the shared counter
func (p *QuotaProvider) Quota() *Quota {
	return p.quota
}
