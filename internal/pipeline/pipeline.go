// Package pipeline runs the batch job: promise ingestion from source
// documents and per-politician verification into the credibility ledger.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ppiankov/politikcred/internal/extract"
	"github.com/ppiankov/politikcred/internal/llm"
	"github.com/ppiankov/politikcred/internal/match"
	"github.com/ppiankov/politikcred/internal/model"
	"github.com/ppiankov/politikcred/internal/score"
	"github.com/ppiankov/politikcred/internal/similarity"
	"github.com/ppiankov/politikcred/internal/store"
	"github.com/ppiankov/politikcred/internal/validate"
	"github.com/ppiankov/politikcred/internal/verify"
	log "github.com/sirupsen/logrus"
)

// ErrUnknownPolitician is returned for runs against an id not in the store
var ErrUnknownPolitician = errors.New("unknown politician")

// SourceChecker checks a promise source; *validate.Validator implements it
type SourceChecker interface {
	Check(ctx context.Context, rawURL string) (validate.SourceCheck, error)
}

// Pipeline orchestrates ingestion and verification
type Pipeline struct {
	store      store.Store
	classifier *extract.Classifier
	validator  SourceChecker // nil when source validation is disabled
	engine     *similarity.Engine
	resolver   *match.Resolver
	ledger     *score.Ledger
	quota      *llm.Quota // nil without an embedding provider
	config     *model.Config
	now        func() time.Time
}

// NewPipeline creates a pipeline. validator and quota may be nil.
func NewPipeline(cfg *model.Config, st store.Store, engine *similarity.Engine, validator SourceChecker, quota *llm.Quota) *Pipeline {
	return &Pipeline{
		store:      st,
		classifier: extract.NewClassifier(),
		validator:  validator,
		engine:     engine,
		resolver:   match.NewResolver(engine, match.ConfigFromModel(cfg.Matching)),
		ledger:     score.NewLedger(st, cfg.Ledger.Scale),
		quota:      quota,
		config:     cfg,
		now:        time.Now,
	}
}

// IngestResult summarizes one ingested document
type IngestResult struct {
	PoliticianID string                   `json:"politician_id"`
	Source       model.SourceReference    `json:"source"`
	Outcome      validate.Outcome         `json:"outcome,omitempty"`
	Extracted    int                      `json:"extracted"`
	Saved        int                      `json:"saved"`
	Promises     []model.PromiseCandidate `json:"promises"`
}

// Ingest extracts promises from a document, attaches the checked source
// and stores the ones not seen before.
func (p *Pipeline) Ingest(ctx context.Context, politicianID string, doc *Document) (*IngestResult, error) {
	if _, ok, err := p.store.Politician(ctx, politicianID); err != nil {
		return nil, fmt.Errorf("load politician: %w", err)
	} else if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPolitician, politicianID)
	}

	result := &IngestResult{PoliticianID: politicianID}
	result.Source = p.checkSource(ctx, doc.URL, &result.Outcome)

	var promises []model.PromiseCandidate
	if doc.HTML {
		extracted, err := p.classifier.ExtractPromisesFromHTML(doc.Body, result.Source)
		if err != nil {
			return nil, fmt.Errorf("extract promises: %w", err)
		}
		promises = extracted
	} else {
		promises = p.classifier.ExtractPromises(doc.Body, result.Source)
	}
	result.Extracted = len(promises)

	for _, promise := range promises {
		promise.PoliticianID = politicianID
		saved, err := p.store.SavePromise(ctx, promise)
		if err != nil {
			return result, fmt.Errorf("save promise %s: %w", promise.ID, err)
		}
		if saved {
			result.Saved++
		}
		result.Promises = append(result.Promises, promise)
	}

	log.WithFields(log.Fields{
		"politician": politicianID,
		"source":     doc.URL,
		"extracted":  result.Extracted,
		"saved":      result.Saved,
	}).Info("Ingested source document")

	return result, nil
}

// checkSource validates the citation URL. Check failures never stop
// ingestion; the promise keeps whatever provenance could be established.
func (p *Pipeline) checkSource(ctx context.Context, rawURL string, outcome *validate.Outcome) model.SourceReference {
	if rawURL == "" {
		return model.SourceReference{}
	}
	if p.validator == nil || !strings.HasPrefix(rawURL, "http") {
		return model.SourceReference{URL: rawURL, EffectiveURL: rawURL, Usable: true, Authority: model.TierUnknown}
	}

	check, err := p.validator.Check(ctx, rawURL)
	if err != nil {
		log.WithError(err).WithField("url", rawURL).Warn("Source check failed")
	}
	*outcome = check.Outcome
	return check.Reference(0)
}

// Report is the outcome of one politician's verification run
type Report struct {
	Politician       model.Politician           `json:"politician"`
	GeneratedAt      time.Time                  `json:"generated_at"`
	Method           model.Method               `json:"method"`
	Degraded         bool                       `json:"degraded"`
	Promises         int                        `json:"promises"`
	SkippedPromises  int                        `json:"skipped_promises"` // Not actionable
	Actions          int                        `json:"actions"`
	AutoVerified     int                        `json:"auto_verified"`
	NeedsReview      int                        `json:"needs_review"`
	Discarded        int                        `json:"discarded"`
	Records          []model.VerificationRecord `json:"records"`
	Ledger           []model.LedgerEntry        `json:"ledger"`
	Counts           score.Counts               `json:"counts"`
	Consistency      *float64                   `json:"consistency_score"`
	CredibilityScore float64                    `json:"credibility_score"`
	Sources          score.SourceSummary        `json:"sources"`
}

// VerifyPolitician matches the politician's pending promises against their
// recorded actions, stores the routed records and scores the
// auto-verified ones in the ledger. Re-running after a partial failure
// does not duplicate records or ledger entries.
func (p *Pipeline) VerifyPolitician(ctx context.Context, politicianID string) (*Report, error) {
	pol, ok, err := p.store.Politician(ctx, politicianID)
	if err != nil {
		return nil, fmt.Errorf("load politician: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPolitician, politicianID)
	}

	p.engine.Prepare(ctx)

	promises, err := p.store.PendingPromises(ctx, politicianID)
	if err != nil {
		return nil, fmt.Errorf("load promises: %w", err)
	}
	actions, err := p.store.ActionsFor(ctx, politicianID)
	if err != nil {
		return nil, fmt.Errorf("load actions: %w", err)
	}

	report := &Report{
		Politician:  pol,
		GeneratedAt: p.now().UTC(),
		Actions:     len(actions),
	}

	for _, promise := range promises {
		if p.config.Matching.ActionableOnly && !promise.IsActionable {
			report.SkippedPromises++
			continue
		}
		report.Promises++
		if err := p.verifyPromise(ctx, politicianID, promise, actions, report); err != nil {
			p.saveQuota(ctx)
			return report, err
		}
	}
	p.saveQuota(ctx)

	report.Method = p.engine.Method()
	report.Degraded = p.engine.Degraded()
	if err := p.summarize(ctx, report); err != nil {
		return report, err
	}

	log.WithFields(log.Fields{
		"politician":    politicianID,
		"method":        report.Method,
		"auto_verified": report.AutoVerified,
		"needs_review":  report.NeedsReview,
		"score":         report.CredibilityScore,
	}).Info("Verification run complete")

	return report, nil
}

func (p *Pipeline) verifyPromise(ctx context.Context, politicianID string, promise model.PromiseCandidate, actions []model.Action, report *Report) error {
	matches, err := p.resolver.MatchPromiseToActions(ctx, promise, actions)
	if err != nil {
		return err
	}

	routed := verify.RouteWithThresholds(matches, p.config.Routing.MinConfidence, p.config.Routing.AutoVerify)
	report.AutoVerified += len(routed.AutoVerify)
	report.NeedsReview += len(routed.NeedsReview)
	report.Discarded += len(routed.Discard)

	records := routed.Records(p.now().UTC())

	// The ledger entry is written before the records that mark the promise verified
	if ev, ok := ledgerEvent(politicianID, promise, records); ok {
		entry, err := p.ledger.Record(ctx, ev)
		if err != nil {
			return fmt.Errorf("record ledger entry for promise %s: %w", promise.ID, err)
		}
		report.Ledger = append(report.Ledger, entry)
	}

	for _, rec := range records {
		inserted, err := p.store.InsertVerification(ctx, rec)
		if err != nil {
			return fmt.Errorf("store verification for promise %s: %w", promise.ID, err)
		}
		if inserted {
			report.Records = append(report.Records, rec)
		}
	}
	return nil
}

// ledgerEvent reduces the auto-verified records of one promise to a single
// scoring event. A broken or contradictory record decides the status;
// otherwise the most confident record does. Every matched action is listed
// in the sources.
func ledgerEvent(politicianID string, promise model.PromiseCandidate, records []model.VerificationRecord) (score.Event, bool) {
	var auto []model.VerificationRecord
	for _, rec := range records {
		if !rec.NeedsReview() {
			auto = append(auto, rec)
		}
	}
	if len(auto) == 0 {
		return score.Event{}, false
	}

	lead := auto[0]
	for _, rec := range auto[1:] {
		leadBroken := model.StatusFromMatch(lead.MatchType) == model.StatusBroken
		recBroken := model.StatusFromMatch(rec.MatchType) == model.StatusBroken
		if (recBroken && !leadBroken) || (recBroken == leadBroken && rec.MatchConfidence > lead.MatchConfidence) {
			lead = rec
		}
	}

	status := model.StatusFromMatch(lead.MatchType)
	return score.Event{
		ID:           score.EventID(politicianID, promise.ID, "", status),
		PoliticianID: politicianID,
		PromiseID:    promise.ID,
		ActionID:     lead.ActionID,
		Status:       status,
		Sources:      ledgerSources(auto, promise),
		Confidence:   lead.MatchConfidence,
		Importance:   promise.Importance,
	}, true
}

// ledgerSources lists the methods, the matched actions and the citable
// source of a promise
func ledgerSources(records []model.VerificationRecord, promise model.PromiseCandidate) []string {
	var sources []string
	for _, rec := range records {
		sources = append(sources, string(rec.Method), "action:"+rec.ActionID)
	}
	if promise.Source.EffectiveURL != "" {
		sources = append(sources, promise.Source.EffectiveURL)
	} else if promise.Source.URL != "" {
		sources = append(sources, promise.Source.URL)
	}
	return sources
}

// summarize fills the aggregate figures from the stored state
func (p *Pipeline) summarize(ctx context.Context, report *Report) error {
	records, err := p.store.Verifications(ctx, report.Politician.ID)
	if err != nil {
		return fmt.Errorf("load verifications: %w", err)
	}
	report.Counts = score.CountRecords(records)
	report.Consistency = score.ComputeConsistencyScore(report.Counts)

	all, err := p.store.Promises(ctx, report.Politician.ID)
	if err != nil {
		return fmt.Errorf("load promises: %w", err)
	}
	report.Sources = score.SummarizeSources(all)

	current, ok, err := p.store.CurrentScore(ctx, report.Politician.ID)
	if err != nil {
		return fmt.Errorf("read current score: %w", err)
	}
	if !ok {
		current = p.ledger.Scale().Baseline
	}
	report.CredibilityScore = current
	return nil
}

// saveQuota persists embedding usage so the monthly budget spans runs
func (p *Pipeline) saveQuota(ctx context.Context) {
	if p.quota == nil {
		return
	}
	month, used := p.quota.Snapshot()
	if err := p.store.SaveQuota(ctx, month, used); err != nil {
		log.WithError(err).Warn("Failed to persist embedding quota")
	}
}
