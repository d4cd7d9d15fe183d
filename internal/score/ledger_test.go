package score

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/ppiankov/politikcred/internal/model"
	"github.com/ppiankov/politikcred/internal/store"
)

func newTestLedger(s Store) *Ledger {
	l := NewLedger(s, model.CredibilityScale)
	tick := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)
	l.now = func() time.Time {
		tick = tick.Add(time.Second)
		return tick
	}
	return l
}

func TestDelta(t *testing.T) {
	tests := []struct {
		status     model.Status
		confidence float64
		importance model.Importance
		expected   float64
	}{
		{model.StatusBroken, 0.9, model.ImportanceHigh, -5.63},
		{model.StatusKept, 1.0, model.ImportanceMedium, 3.0},
		{model.StatusKept, 0.85, model.ImportanceCritical, 3.83},
		{model.StatusPartial, 0.7, model.ImportanceLow, 0.53},
		{model.StatusInProgress, 1.0, model.ImportanceMedium, 0.5},
		{model.StatusPending, 1.0, model.ImportanceCritical, 0},
		{model.StatusKept, 1.7, model.ImportanceMedium, 3.0},
		{model.StatusBroken, -0.4, model.ImportanceMedium, 0},
	}

	for _, tt := range tests {
		if got := Delta(tt.status, tt.confidence, tt.importance); got != tt.expected {
			t.Errorf("Delta(%s, %.2f, %s): expected %.2f, got %v", tt.status, tt.confidence, tt.importance, tt.expected, got)
		}
	}
}

func TestLedger_BrokenHighImportanceScenario(t *testing.T) {
	l := newTestLedger(store.NewMemoryStore())

	entry, err := l.RecordVerification(context.Background(), "jean_dupont", "p1", model.StatusBroken,
		[]string{"embedding"}, 0.9, model.ImportanceHigh)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if entry.PreviousScore != 100 {
		t.Errorf("expected previous score 100, got %v", entry.PreviousScore)
	}
	if entry.ScoreDelta != -5.63 {
		t.Errorf("expected delta -5.63, got %v", entry.ScoreDelta)
	}
	if entry.NewScore != 94.37 {
		t.Errorf("expected new score 94.37, got %v", entry.NewScore)
	}
	if entry.ChangeReason != model.ReasonPromiseBroken {
		t.Errorf("expected promise_broken, got %s", entry.ChangeReason)
	}
}

func TestLedger_SourcesDoNotScaleDelta(t *testing.T) {
	one := newTestLedger(store.NewMemoryStore())
	many := newTestLedger(store.NewMemoryStore())
	ctx := context.Background()

	a, _ := one.RecordVerification(ctx, "x", "p1", model.StatusKept, []string{"embedding"}, 0.9, model.ImportanceMedium)
	b, _ := many.RecordVerification(ctx, "x", "p1", model.StatusKept, []string{"embedding", "manual", "senat.fr", "manual"}, 0.9, model.ImportanceMedium)

	if a.ScoreDelta != b.ScoreDelta {
		t.Errorf("expected equal deltas, got %v and %v", a.ScoreDelta, b.ScoreDelta)
	}
	if len(b.Sources) != 3 {
		t.Errorf("expected de-duplicated sources, got %v", b.Sources)
	}
}

func TestLedger_ClampsAtBounds(t *testing.T) {
	s := store.NewMemoryStore()
	l := newTestLedger(s)
	ctx := context.Background()

	var last model.LedgerEntry
	for i := 0; i < 25; i++ {
		e, err := l.Record(ctx, Event{PoliticianID: "x", PromiseID: "p", ActionID: string(rune('a' + i)),
			Status: model.StatusBroken, Confidence: 1, Importance: model.ImportanceCritical})
		if err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
		last = e
	}
	if last.NewScore != 0 {
		t.Errorf("expected score to bottom out at 0, got %v", last.NewScore)
	}
	if last.ScoreDelta != 0 {
		t.Errorf("expected effective delta 0 at the floor, got %v", last.ScoreDelta)
	}
	if last.Data["computed_delta"] != -7.5 || last.Data["clamped"] != true {
		t.Errorf("expected raw delta to be kept for audit, got %v", last.Data)
	}

	entries, _ := s.LedgerEntries(ctx, "x")
	if err := Audit(model.CredibilityScale, entries); err != nil {
		t.Errorf("expected ledger to audit cleanly, got %v", err)
	}
}

func TestLedger_RetryIsIdempotent(t *testing.T) {
	s := store.NewMemoryStore()
	l := newTestLedger(s)
	ctx := context.Background()
	ev := Event{
		ID:           EventID("x", "p1", "", model.StatusKept),
		PoliticianID: "x",
		PromiseID:    "p1",
		ActionID:     "a1",
		Status:       model.StatusKept,
		Confidence:   1,
		Importance:   model.ImportanceMedium,
	}

	first, err := l.Record(ctx, ev)
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	second, err := l.Record(ctx, ev)
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if first.ID != second.ID || second.NewScore != first.NewScore {
		t.Errorf("expected retry to return the stored entry, got %+v", second)
	}
	entries, _ := s.LedgerEntries(ctx, "x")
	if len(entries) != 1 {
		t.Errorf("expected 1 entry after retry, got %d", len(entries))
	}
}

func TestLedger_RecordVerificationAppendsEveryCall(t *testing.T) {
	s := store.NewMemoryStore()
	l := newTestLedger(s)
	ctx := context.Background()

	var last model.LedgerEntry
	for i := 0; i < 3; i++ {
		e, err := l.RecordVerification(ctx, "x", "", model.StatusKept, nil, 1, model.ImportanceMedium)
		if err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
		if e.ID == last.ID {
			t.Errorf("expected a new entry id on call %d, got %s again", i, e.ID)
		}
		last = e
	}

	if last.PreviousScore != 106 || last.NewScore != 109 {
		t.Errorf("expected 106 -> 109 on the third call, got %v -> %v", last.PreviousScore, last.NewScore)
	}
	entries, _ := s.LedgerEntries(ctx, "x")
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if err := Audit(model.CredibilityScale, entries); err != nil {
		t.Errorf("expected chained entries, got %v", err)
	}
}

func TestLedger_RejectsBadEvents(t *testing.T) {
	l := newTestLedger(store.NewMemoryStore())
	ctx := context.Background()

	if _, err := l.Record(ctx, Event{Status: model.StatusKept}); err == nil {
		t.Error("expected error for missing politician")
	}
	if _, err := l.Record(ctx, Event{PoliticianID: "x", Status: "lied"}); err == nil {
		t.Error("expected error for unknown status")
	}
}

type failingStore struct{ Store }

func (failingStore) LedgerEntry(context.Context, string) (model.LedgerEntry, bool, error) {
	return model.LedgerEntry{}, false, store.Transient("get ledger entry", errors.New("disk I/O error"))
}

func (failingStore) CurrentScore(context.Context, string) (float64, bool, error) {
	return 0, false, store.Transient("current score", errors.New("disk I/O error"))
}

func TestLedger_SurfacesTypedStoreErrors(t *testing.T) {
	l := newTestLedger(failingStore{})

	_, err := l.RecordVerification(context.Background(), "x", "p", model.StatusKept, nil, 1, model.ImportanceMedium)
	if !store.IsTransient(err) {
		t.Errorf("expected transient error to surface, got %v", err)
	}
}

func TestReplay_MatchesCurrentScore(t *testing.T) {
	s := store.NewMemoryStore()
	l := newTestLedger(s)
	ctx := context.Background()

	statuses := []model.Status{model.StatusKept, model.StatusBroken, model.StatusPartial, model.StatusInProgress, model.StatusKept, model.StatusPending}
	for i, st := range statuses {
		if _, err := l.Record(ctx, Event{PoliticianID: "x", PromiseID: string(rune('a' + i)), Status: st, Confidence: 0.77, Importance: model.ImportanceHigh}); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	entries, _ := s.LedgerEntries(ctx, "x")
	current, _, _ := s.CurrentScore(ctx, "x")

	// Replay must not depend on the order entries are handed in
	reversed := make([]model.LedgerEntry, len(entries))
	for i, e := range entries {
		reversed[len(entries)-1-i] = e
	}
	if got := Replay(model.CredibilityScale, reversed); got != current {
		t.Errorf("expected replay %v to equal current score %v", got, current)
	}
	if err := Audit(model.CredibilityScale, entries); err != nil {
		t.Errorf("expected clean audit, got %v", err)
	}
}

func TestAudit_DetectsTampering(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	entries := []model.LedgerEntry{
		{ID: "e1", PreviousScore: 100, ScoreDelta: 3, NewScore: 103, Timestamp: base},
		{ID: "e2", PreviousScore: 100, ScoreDelta: 3, NewScore: 103, Timestamp: base.Add(time.Second)},
	}
	if err := Audit(model.CredibilityScale, entries); err == nil {
		t.Error("expected broken chain to be reported")
	}
}

func TestLedger_Properties(t *testing.T) {
	properties := gopter.NewProperties(nil)
	statuses := []model.Status{model.StatusKept, model.StatusBroken, model.StatusPartial, model.StatusInProgress, model.StatusPending}
	importances := []model.Importance{model.ImportanceCritical, model.ImportanceHigh, model.ImportanceMedium, model.ImportanceLow}

	properties.Property("new score is the clamp of previous plus delta and stays in bounds", prop.ForAll(
		func(previous, confidence float64, si, ii int) bool {
			raw := Delta(statuses[si], confidence, importances[ii])
			prev := model.Round2(previous)
			next, effective := Apply(model.CredibilityScale, prev, raw)

			expected := model.Round2(model.CredibilityScale.Clamp(prev + raw))
			if math.Abs(next-expected) > 1e-9 {
				return false
			}
			if next < 0 || next > 200 {
				return false
			}
			return Cents(next)-Cents(prev) == Cents(effective)
		},
		gen.Float64Range(0, 200),
		gen.Float64Range(-1, 2),
		gen.IntRange(0, len(statuses)-1),
		gen.IntRange(0, len(importances)-1),
	))

	properties.Property("descriptions never pass character judgment", prop.ForAll(
		func(si int, confidence float64) bool {
			return !ContainsJudgment(Describe(statuses[si], confidence))
		},
		gen.IntRange(0, len(statuses)-1),
		gen.Float64Range(0, 1),
	))

	properties.TestingRun(t)
}

func TestContainsJudgment(t *testing.T) {
	if !ContainsJudgment("Le député a menti sur les retraites") {
		t.Error("expected 'a menti' to be flagged")
	}
	if !ContainsJudgment("He lied.") {
		t.Error("expected 'lied' to be flagged")
	}
	if ContainsJudgment("Promise not honored: recorded action runs counter to the commitment") {
		t.Error("expected factual description to pass")
	}
	if ContainsJudgment("Reliable delivery") {
		t.Error("expected substrings inside words to pass")
	}
}

func TestEventID(t *testing.T) {
	a := EventID("x", "p", "a", model.StatusKept)
	if a != EventID("x", "p", "a", model.StatusKept) {
		t.Error("expected stable event ids")
	}
	if a == EventID("x", "p", "a", model.StatusBroken) {
		t.Error("expected status to be part of the id")
	}
}
