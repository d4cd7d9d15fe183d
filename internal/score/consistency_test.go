package score

import (
	"testing"
	"time"

	"github.com/ppiankov/politikcred/internal/model"
)

func TestComputeConsistencyScore(t *testing.T) {
	if got := ComputeConsistencyScore(Counts{}); got != nil {
		t.Errorf("expected nil for no outcomes, got %v", *got)
	}

	got := ComputeConsistencyScore(Counts{Kept: 2, Broken: 1, Partial: 1})
	if got == nil || *got != 62.5 {
		t.Errorf("expected 62.5, got %v", got)
	}

	if got := ComputeConsistencyScore(Counts{Broken: 3}); got == nil || *got != 0 {
		t.Errorf("expected 0 for only broken promises, got %v", got)
	}
	if got := ComputeConsistencyScore(Counts{Kept: 4}); got == nil || *got != 100 {
		t.Errorf("expected 100 for only kept promises, got %v", got)
	}
}

func TestCountRecords(t *testing.T) {
	now := time.Now()
	records := []model.VerificationRecord{
		{MatchType: model.MatchKept, VerifiedAt: &now},
		{MatchType: model.MatchKept, VerifiedAt: &now},
		{MatchType: model.MatchContradictory, VerifiedAt: &now},
		{MatchType: model.MatchPartial, VerifiedAt: &now},
		{MatchType: model.MatchBroken},
	}

	c := CountRecords(records)
	if c.Kept != 2 || c.Broken != 1 || c.Partial != 1 {
		t.Errorf("unexpected counts: %+v", c)
	}
}

func TestSummarizeSources(t *testing.T) {
	promises := []model.PromiseCandidate{
		{Source: model.SourceReference{URL: "https://www.assemblee-nationale.fr/x", Authority: model.TierPrimary, Usable: true}},
		{Source: model.SourceReference{URL: "https://www.assemblee-nationale.fr/x", Authority: model.TierPrimary, Usable: true}},
		{Source: model.SourceReference{URL: "https://lemonde.fr/y", Authority: model.TierSecondary, Usable: true,
			EffectiveURL: "https://web.archive.org/web/https://lemonde.fr/y"}},
		{Source: model.SourceReference{URL: "https://blog.example/z", Authority: model.TierTertiary}},
	}

	s := SummarizeSources(promises)
	if s.Total != 3 || s.Primary != 1 || s.Secondary != 1 || s.Tertiary != 1 {
		t.Errorf("unexpected tier counts: %+v", s)
	}
	if s.Archived != 1 || s.Usable != 2 {
		t.Errorf("unexpected usability counts: %+v", s)
	}
	if s.AuthorityRate != 0.67 {
		t.Errorf("expected authority rate 0.67, got %v", s.AuthorityRate)
	}

	if empty := SummarizeSources(nil); empty.Total != 0 || empty.Description == "" {
		t.Errorf("unexpected empty summary: %+v", empty)
	}
}
