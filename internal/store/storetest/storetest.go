// Package storetest runs the behavioral contract of store.Store against
// any implementation.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/ppiankov/politikcred/internal/model"
	"github.com/ppiankov/politikcred/internal/store"
)

// Run exercises every Store operation. open must return an empty store.
func Run(t *testing.T, open func(t *testing.T) store.Store) {
	t.Run("Politicians", func(t *testing.T) { testPoliticians(t, open(t)) })
	t.Run("Promises", func(t *testing.T) { testPromises(t, open(t)) })
	t.Run("Actions", func(t *testing.T) { testActions(t, open(t)) })
	t.Run("VerificationIdempotence", func(t *testing.T) { testVerifications(t, open(t)) })
	t.Run("Ledger", func(t *testing.T) { testLedger(t, open(t)) })
	t.Run("Quota", func(t *testing.T) { testQuota(t, open(t)) })
	t.Run("InvalidData", func(t *testing.T) { testInvalid(t, open(t)) })
}

func seed(t *testing.T, s store.Store) {
	t.Helper()
	ctx := context.Background()
	if err := s.SavePolitician(ctx, model.Politician{ID: "jean_dupont", Name: "Jean Dupont", Party: "LR", CredibilityScore: 100}); err != nil {
		t.Fatalf("save politician: %v", err)
	}
	promises := []model.PromiseCandidate{
		{ID: "p1", PoliticianID: "jean_dupont", Text: "Je m'engage à baisser les impôts.", Confidence: 0.9,
			Category: model.CategoryEconomic, IsActionable: true, Keywords: []string{"baisser", "impôts"},
			Source: model.SourceReference{URL: "https://example.fr", EffectiveURL: "https://example.fr", Usable: true, Authority: model.TierSecondary, Sentence: 2}},
		{ID: "p2", PoliticianID: "jean_dupont", Text: "Nous devons rouvrir les maternités.", Confidence: 0.6, Category: model.CategoryHealthcare},
	}
	for _, p := range promises {
		if _, err := s.SavePromise(ctx, p); err != nil {
			t.Fatalf("save promise: %v", err)
		}
	}
}

func testPoliticians(t *testing.T, s store.Store) {
	ctx := context.Background()
	defer func() { _ = s.Close() }()
	seed(t, s)

	p, ok, err := s.Politician(ctx, "jean_dupont")
	if err != nil || !ok {
		t.Fatalf("expected politician, got ok=%v err=%v", ok, err)
	}
	if p.Name != "Jean Dupont" || p.Party != "LR" {
		t.Errorf("unexpected politician: %+v", p)
	}
	if _, ok, _ := s.Politician(ctx, "missing"); ok {
		t.Error("expected missing politician")
	}

	all, err := s.Politicians(ctx)
	if err != nil || len(all) != 1 {
		t.Errorf("expected 1 politician, got %d (err=%v)", len(all), err)
	}
}

func testPromises(t *testing.T, s store.Store) {
	ctx := context.Background()
	defer func() { _ = s.Close() }()
	seed(t, s)

	inserted, err := s.SavePromise(ctx, model.PromiseCandidate{ID: "p1", PoliticianID: "jean_dupont", Text: "autre texte"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if inserted {
		t.Error("expected duplicate promise id not to be inserted")
	}

	promises, err := s.Promises(ctx, "jean_dupont")
	if err != nil {
		t.Fatalf("list promises: %v", err)
	}
	if len(promises) != 2 {
		t.Fatalf("expected 2 promises, got %d", len(promises))
	}
	p := promises[0]
	if p.ID != "p1" || p.Status != model.PromisePending || !p.IsActionable {
		t.Errorf("unexpected first promise: %+v", p)
	}
	if len(p.Keywords) != 2 || p.Keywords[1] != "impôts" {
		t.Errorf("expected keywords to round-trip, got %v", p.Keywords)
	}
	if p.Source.Authority != model.TierSecondary || p.Source.Sentence != 2 || !p.Source.Usable {
		t.Errorf("expected source to round-trip, got %+v", p.Source)
	}
}

func testActions(t *testing.T, s store.Store) {
	ctx := context.Background()
	defer func() { _ = s.Close() }()

	actions := []model.Action{
		{ID: "a1", PoliticianID: "jean_dupont", Description: "Projet de loi de finances", Category: model.CategoryEconomic, VotePosition: model.VoteFor},
		{ID: "a2", PoliticianID: "jean_dupont", Description: "Motion de censure", Category: model.CategoryOther, BillTitle: "PLFSS"},
		{ID: "a3", PoliticianID: "marie_curie", Description: "Autre", Category: model.CategoryOther},
	}
	if err := s.SaveActions(ctx, actions); err != nil {
		t.Fatalf("save actions: %v", err)
	}
	got, err := s.ActionsFor(ctx, "jean_dupont")
	if err != nil {
		t.Fatalf("list actions: %v", err)
	}
	if len(got) != 2 || got[0].ID != "a1" || got[1].BillTitle != "PLFSS" || got[0].VotePosition != model.VoteFor {
		t.Errorf("unexpected actions: %+v", got)
	}
}

func testVerifications(t *testing.T, s store.Store) {
	ctx := context.Background()
	defer func() { _ = s.Close() }()
	seed(t, s)

	now := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	rec := model.VerificationRecord{
		ID: "r1", PromiseID: "p1", ActionID: "a1", MatchType: model.MatchKept,
		MatchConfidence: 0.9, Method: model.MethodEmbedding, VerifiedAt: &now, Explanation: "ok",
	}

	inserted, err := s.InsertVerification(ctx, rec)
	if err != nil || !inserted {
		t.Fatalf("expected first insert to succeed, got inserted=%v err=%v", inserted, err)
	}
	rec.ID = "r1-retry"
	inserted, err = s.InsertVerification(ctx, rec)
	if err != nil {
		t.Fatalf("expected duplicate insert to be a no-op, got %v", err)
	}
	if inserted {
		t.Error("expected duplicate pair not to be inserted")
	}

	review := model.VerificationRecord{ID: "r2", PromiseID: "p1", ActionID: "a2", MatchType: model.MatchPartial, MatchConfidence: 0.7, Method: model.MethodKeywordFallback}
	if _, err := s.InsertVerification(ctx, review); err != nil {
		t.Fatalf("insert review record: %v", err)
	}

	records, err := s.Verifications(ctx, "jean_dupont")
	if err != nil {
		t.Fatalf("list verifications: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected exactly 2 records, got %d", len(records))
	}
	if records[0].VerifiedAt == nil || !records[0].VerifiedAt.Equal(now) {
		t.Errorf("expected verification time to round-trip, got %v", records[0].VerifiedAt)
	}
	if !records[1].NeedsReview() {
		t.Error("expected second record to need review")
	}

	pending, err := s.PendingPromises(ctx, "jean_dupont")
	if err != nil {
		t.Fatalf("pending promises: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != "p2" {
		t.Errorf("expected only p2 to remain pending, got %+v", pending)
	}
}

func testLedger(t *testing.T, s store.Store) {
	ctx := context.Background()
	defer func() { _ = s.Close() }()
	seed(t, s)

	if _, ok, err := s.CurrentScore(ctx, "jean_dupont"); err != nil || ok {
		t.Fatalf("expected no score before any entry, got ok=%v err=%v", ok, err)
	}

	base := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	entries := []model.LedgerEntry{
		{ID: "e1", PoliticianID: "jean_dupont", PromiseID: "p1", PreviousScore: 100, ScoreDelta: -5.63, NewScore: 94.37,
			ChangeReason: model.ReasonPromiseBroken, Description: "Promise not honored", Sources: []string{"embedding"},
			Confidence: 0.9, Timestamp: base, Data: map[string]interface{}{"formula": "x"}},
		{ID: "e2", PoliticianID: "jean_dupont", PromiseID: "p2", PreviousScore: 94.37, ScoreDelta: 3, NewScore: 97.37,
			ChangeReason: model.ReasonPromiseKept, Description: "Promise honored", Confidence: 1, Timestamp: base.Add(time.Minute)},
	}
	for _, e := range entries {
		inserted, err := s.AppendLedger(ctx, e)
		if err != nil || !inserted {
			t.Fatalf("append %s: inserted=%v err=%v", e.ID, inserted, err)
		}
	}
	if inserted, err := s.AppendLedger(ctx, entries[0]); err != nil || inserted {
		t.Errorf("expected duplicate event to be skipped, got inserted=%v err=%v", inserted, err)
	}

	score, ok, err := s.CurrentScore(ctx, "jean_dupont")
	if err != nil || !ok || score != 97.37 {
		t.Errorf("expected current score 97.37, got %v (ok=%v err=%v)", score, ok, err)
	}

	got, ok, err := s.LedgerEntry(ctx, "e1")
	if err != nil || !ok {
		t.Fatalf("expected entry e1, got ok=%v err=%v", ok, err)
	}
	if got.ScoreDelta != -5.63 || !got.Timestamp.Equal(base) || len(got.Sources) != 1 {
		t.Errorf("unexpected entry: %+v", got)
	}

	all, err := s.LedgerEntries(ctx, "jean_dupont")
	if err != nil || len(all) != 2 || all[1].ID != "e2" {
		t.Errorf("expected entries in append order, got %+v (err=%v)", all, err)
	}

	p, _, _ := s.Politician(ctx, "jean_dupont")
	if p.CredibilityScore != 97.37 {
		t.Errorf("expected politician score to follow the ledger, got %v", p.CredibilityScore)
	}
	// Re-importing the roster must not reset a ledger-backed score
	if err := s.SavePolitician(ctx, model.Politician{ID: "jean_dupont", Name: "Jean Dupont", CredibilityScore: 100}); err != nil {
		t.Fatalf("save politician: %v", err)
	}
	p, _, _ = s.Politician(ctx, "jean_dupont")
	if p.CredibilityScore != 97.37 {
		t.Errorf("expected score to survive re-import, got %v", p.CredibilityScore)
	}
}

func testQuota(t *testing.T, s store.Store) {
	ctx := context.Background()
	defer func() { _ = s.Close() }()

	if month, used, err := s.LoadQuota(ctx); err != nil || month != "" || used != 0 {
		t.Fatalf("expected empty quota, got %q %d %v", month, used, err)
	}
	if err := s.SaveQuota(ctx, "2026-03", 42); err != nil {
		t.Fatalf("save quota: %v", err)
	}
	if err := s.SaveQuota(ctx, "2026-03", 43); err != nil {
		t.Fatalf("save quota: %v", err)
	}
	if month, used, err := s.LoadQuota(ctx); err != nil || month != "2026-03" || used != 43 {
		t.Errorf("expected 2026-03/43, got %q %d %v", month, used, err)
	}

	// An older snapshot of the same month arrives last
	if err := s.SaveQuota(ctx, "2026-03", 40); err != nil {
		t.Fatalf("save quota: %v", err)
	}
	if _, used, _ := s.LoadQuota(ctx); used != 43 {
		t.Errorf("expected count to stay at 43, got %d", used)
	}

	if err := s.SaveQuota(ctx, "2026-04", 2); err != nil {
		t.Fatalf("save quota: %v", err)
	}
	if err := s.SaveQuota(ctx, "2026-03", 50); err != nil {
		t.Fatalf("save quota: %v", err)
	}
	if month, used, _ := s.LoadQuota(ctx); month != "2026-04" || used != 2 {
		t.Errorf("expected new month to reset and stick at 2026-04/2, got %q %d", month, used)
	}
}

func testInvalid(t *testing.T, s store.Store) {
	ctx := context.Background()
	defer func() { _ = s.Close() }()

	_, err := s.SavePromise(ctx, model.PromiseCandidate{ID: "p1", Text: "orphan"})
	if !store.IsInvalid(err) {
		t.Errorf("expected invalid error for promise without politician, got %v", err)
	}
	_, err = s.InsertVerification(ctx, model.VerificationRecord{ID: "r1", PromiseID: "p1", MatchConfidence: 1.4})
	if !store.IsInvalid(err) {
		t.Errorf("expected invalid error for out-of-range confidence, got %v", err)
	}
	if store.IsTransient(err) {
		t.Error("expected invalid data not to be retryable")
	}
}
