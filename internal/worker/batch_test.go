package worker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ppiankov/politikcred/internal/model"
	"github.com/ppiankov/politikcred/internal/pipeline"
)

// mockVerifier fails for ids listed in failing
type mockVerifier struct {
	failing map[string]bool
	calls   int32
}

func (m *mockVerifier) VerifyPolitician(ctx context.Context, id string) (*pipeline.Report, error) {
	atomic.AddInt32(&m.calls, 1)
	time.Sleep(5 * time.Millisecond)
	if m.failing[id] {
		return nil, errors.New("verification failed")
	}
	return &pipeline.Report{Politician: model.Politician{ID: id}}, nil
}

func TestBatchProcessor_ProcessPoliticians(t *testing.T) {
	verifier := &mockVerifier{failing: map[string]bool{"marie_curie": true}}
	processor := NewBatchProcessor(verifier, 2)

	ids := []string{"jean_dupont", "marie_curie", "paul_martin"}
	results := processor.ProcessPoliticians(context.Background(), ids)

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for i, res := range results {
		if res.PoliticianID != ids[i] {
			t.Errorf("result %d: expected %s, got %s", i, ids[i], res.PoliticianID)
		}
	}
	if results[1].Error == nil || results[1].Report != nil {
		t.Errorf("expected failure for marie_curie, got %+v", results[1])
	}
	for _, i := range []int{0, 2} {
		if results[i].Error != nil || results[i].Report == nil || results[i].Report.Politician.ID != ids[i] {
			t.Errorf("expected report for %s, got %+v", ids[i], results[i])
		}
	}
	if verifier.calls != 3 {
		t.Errorf("expected 3 calls, got %d", verifier.calls)
	}
}

func TestBatchProcessor_CancelledContext(t *testing.T) {
	verifier := &mockVerifier{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := NewBatchProcessor(verifier, 2).ProcessPoliticians(ctx, []string{"a", "b"})
	for _, res := range results {
		if !errors.Is(res.Error, context.Canceled) {
			t.Errorf("expected cancellation for %s, got %v", res.PoliticianID, res.Error)
		}
	}
}

func TestReadIDsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ids.txt")
	content := "# deputies\njean_dupont\n\nmarie_curie\njean_dupont\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	ids, err := ReadIDsFromFile(path)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(ids) != 2 || ids[0] != "jean_dupont" || ids[1] != "marie_curie" {
		t.Errorf("expected 2 de-duplicated ids in file order, got %v", ids)
	}
}

func TestReadIDsFromFile_Missing(t *testing.T) {
	if _, err := ReadIDsFromFile(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Error("expected error for missing file")
	}
}
