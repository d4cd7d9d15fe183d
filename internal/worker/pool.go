// Package worker runs bounded concurrent work and throttles outbound calls.
package worker

import (
	"context"
	"sync"
)

// Job is one unit of work
type Job func(ctx context.Context) error

// Pool runs jobs on a fixed number of workers
type Pool struct {
	workers int
}

// NewPool creates a pool with the specified number of workers
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	return &Pool{workers: workers}
}

// Run executes every job and returns their errors indexed like jobs.
// Jobs that never started because ctx was cancelled report ctx.Err().
func (p *Pool) Run(ctx context.Context, jobs []Job) []error {
	errs := make([]error, len(jobs))
	if len(jobs) == 0 {
		return errs
	}

	indexes := make(chan int)
	var wg sync.WaitGroup

	workers := p.workers
	if workers > len(jobs) {
		workers = len(jobs)
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				if err := ctx.Err(); err != nil {
					errs[i] = err
					continue
				}
				errs[i] = jobs[i](ctx)
			}
		}()
	}

	for i := range jobs {
		indexes <- i
	}
	close(indexes)
	wg.Wait()

	return errs
}
