package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/politikcred/internal/pipeline"
	log "github.com/sirupsen/logrus"
)

// Verifier runs the verification job for one politician
type Verifier interface {
	VerifyPolitician(ctx context.Context, politicianID string) (*pipeline.Report, error)
}

// PoliticianResult is the outcome of one politician's run
type PoliticianResult struct {
	PoliticianID string
	Report       *pipeline.Report
	Error        error
}

// BatchProcessor verifies many politicians concurrently
type BatchProcessor struct {
	verifier    Verifier
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(verifier Verifier, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		verifier:    verifier,
		concurrency: concurrency,
	}
}

// ProcessPoliticians runs every politician and returns results in input
// order. One politician failing does not stop the others.
func (b *BatchProcessor) ProcessPoliticians(ctx context.Context, ids []string) []*PoliticianResult {
	results := make([]*PoliticianResult, len(ids))
	jobs := make([]Job, len(ids))
	for i, id := range ids {
		results[i] = &PoliticianResult{PoliticianID: id}
		jobs[i] = func(ctx context.Context) error {
			report, err := b.verifier.VerifyPolitician(ctx, id)
			results[i].Report = report
			return err
		}
	}

	errs := NewPool(b.concurrency).Run(ctx, jobs)
	for i, err := range errs {
		if err != nil {
			results[i].Report = nil
			results[i].Error = err
			log.WithError(err).WithField("politician", ids[i]).Warn("Verification run failed")
		}
	}
	return results
}

// ReadIDsFromFile reads ids from a file (one per line)
func ReadIDsFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var ids []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !seen[line] {
			seen[line] = true
			ids = append(ids, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return ids, nil
}
