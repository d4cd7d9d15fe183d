package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewPool(t *testing.T) {
	p1 := NewPool(5)
	if p1.workers != 5 {
		t.Errorf("expected 5 workers, got %d", p1.workers)
	}

	p2 := NewPool(0)
	if p2.workers != 1 {
		t.Errorf("expected default 1 worker for 0 input, got %d", p2.workers)
	}

	p3 := NewPool(-1)
	if p3.workers != 1 {
		t.Errorf("expected default 1 worker for negative input, got %d", p3.workers)
	}
}

func TestPool_Execution(t *testing.T) {
	var executed int32
	count := 10

	jobs := make([]Job, count)
	for i := range jobs {
		jobs[i] = func(ctx context.Context) error {
			atomic.AddInt32(&executed, 1)
			return nil
		}
	}

	errs := NewPool(2).Run(context.Background(), jobs)

	if len(errs) != count {
		t.Errorf("expected %d results, got %d", count, len(errs))
	}
	if atomic.LoadInt32(&executed) != int32(count) {
		t.Errorf("expected %d executed jobs, got %d", count, executed)
	}
}

func TestPool_ErrorsKeepJobIndex(t *testing.T) {
	jobs := []Job{
		func(ctx context.Context) error { time.Sleep(20 * time.Millisecond); return nil },
		func(ctx context.Context) error { return errors.New("job 1 failed") },
		func(ctx context.Context) error { return nil },
		func(ctx context.Context) error { return errors.New("job 3 failed") },
	}

	errs := NewPool(4).Run(context.Background(), jobs)

	if errs[0] != nil || errs[2] != nil {
		t.Errorf("expected jobs 0 and 2 to succeed, got %v", errs)
	}
	if errs[1] == nil || errs[1].Error() != "job 1 failed" {
		t.Errorf("expected job 1 error at index 1, got %v", errs[1])
	}
	if errs[3] == nil || errs[3].Error() != "job 3 failed" {
		t.Errorf("expected job 3 error at index 3, got %v", errs[3])
	}
}

func TestPool_Concurrency(t *testing.T) {
	workers := 10
	var current, maxConcurrent, completed int32
	var mu sync.Mutex

	totalJobs := 50
	jobs := make([]Job, totalJobs)
	for i := range jobs {
		jobs[i] = func(ctx context.Context) error {
			curr := atomic.AddInt32(&current, 1)
			mu.Lock()
			if curr > maxConcurrent {
				maxConcurrent = curr
			}
			mu.Unlock()
			time.Sleep(10 * time.Millisecond)
			atomic.AddInt32(&current, -1)
			atomic.AddInt32(&completed, 1)
			return nil
		}
	}

	NewPool(workers).Run(context.Background(), jobs)

	if atomic.LoadInt32(&completed) != int32(totalJobs) {
		t.Errorf("expected %d completed jobs, got %d", totalJobs, completed)
	}

	mu.Lock()
	max := maxConcurrent
	mu.Unlock()

	if max > int32(workers) {
		t.Errorf("max concurrency %d exceeded workers %d", max, workers)
	}
}

func TestPool_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var executed int32
	jobs := []Job{
		func(ctx context.Context) error { atomic.AddInt32(&executed, 1); return nil },
		func(ctx context.Context) error { atomic.AddInt32(&executed, 1); return nil },
	}

	errs := NewPool(1).Run(ctx, jobs)
	for i, err := range errs {
		if !errors.Is(err, context.Canceled) {
			t.Errorf("job %d: expected context.Canceled, got %v", i, err)
		}
	}
	if executed != 0 {
		t.Errorf("expected no job to run, got %d", executed)
	}
}

func TestPool_Empty(t *testing.T) {
	if errs := NewPool(3).Run(context.Background(), nil); len(errs) != 0 {
		t.Errorf("expected no results, got %d", len(errs))
	}
}
