// Package score turns verification outcomes into bounded credibility deltas.
package score

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ppiankov/politikcred/internal/metrics"
	"github.com/ppiankov/politikcred/internal/model"
)

// Base delta per status. Breaking a promise costs more than keeping one gains.
var baseDeltas = map[model.Status]float64{
	model.StatusKept:       3.0,
	model.StatusBroken:     -5.0,
	model.StatusPartial:    1.0,
	model.StatusInProgress: 0.5,
	model.StatusPending:    0.0,
}

var importanceMultipliers = map[model.Importance]float64{
	model.ImportanceCritical: 1.5,
	model.ImportanceHigh:     1.25,
	model.ImportanceMedium:   1.0,
	model.ImportanceLow:      0.75,
}

var eventNamespace = uuid.MustParse("5d7c2f0a-91b4-5c3e-8e26-4a1f0b9c7d13")

// BaseDelta returns the unweighted delta for a status
func BaseDelta(s model.Status) float64 {
	return baseDeltas[s]
}

// ImportanceMultiplier returns the weight of an importance level (medium if unknown)
func ImportanceMultiplier(i model.Importance) float64 {
	if m, ok := importanceMultipliers[i]; ok {
		return m
	}
	return 1.0
}

// Delta computes round(base x clamp01(confidence) x importance, 2).
// The number of sources never scales the result.
func Delta(status model.Status, confidence float64, importance model.Importance) float64 {
	return model.Round2(BaseDelta(status) * model.Clamp01(confidence) * ImportanceMultiplier(importance))
}

// Cents converts a score to hundredths. Ledger arithmetic is exact in cents.
func Cents(v float64) int64 {
	return int64(math.Round(v * 100))
}

func fromCents(c int64) float64 {
	return float64(c) / 100
}

// Apply adds delta to previous and clamps into the scale. It returns the
// new score and the effective delta, which differs from delta only when
// the bound was hit.
func Apply(scale model.Scale, previous, delta float64) (float64, float64) {
	prev := Cents(previous)
	next := Cents(scale.Clamp(fromCents(prev + Cents(delta))))
	return fromCents(next), fromCents(next - prev)
}

// EventID derives a stable id for one scoring event. Callers that retry
// pass it as Event.ID so a repeated event is recorded once.
func EventID(politicianID, promiseID, actionID string, status model.Status) string {
	key := politicianID + "|" + promiseID + "|" + actionID + "|" + string(status)
	return uuid.NewSHA1(eventNamespace, []byte(key)).String()
}

// Store is the persistence the ledger needs
type Store interface {
	CurrentScore(ctx context.Context, politicianID string) (float64, bool, error)
	LedgerEntry(ctx context.Context, id string) (model.LedgerEntry, bool, error)
	AppendLedger(ctx context.Context, entry model.LedgerEntry) (bool, error)
}

// Event is one verification outcome to score
type Event struct {
	ID           string // Optional; a fresh id is generated when empty
	PoliticianID string
	PromiseID    string
	ActionID     string // Optional; the action that decided the status
	Status       model.Status
	Sources      []string
	Confidence   float64
	Importance   model.Importance
}

// Ledger appends scoring events. Calls are serialized so the previous score
// read and the append happen atomically within one process.
type Ledger struct {
	mu    sync.Mutex
	store Store
	scale model.Scale
	now   func() time.Time
}

// NewLedger creates a ledger on the given scale
func NewLedger(store Store, scale model.Scale) *Ledger {
	if scale.Max <= scale.Min {
		scale = model.CredibilityScale
	}
	return &Ledger{store: store, scale: scale, now: time.Now}
}

// Scale returns the ledger scale
func (l *Ledger) Scale() model.Scale {
	return l.scale
}

// RecordVerification appends one entry for a promise outcome. Every call
// appends; use Record with an Event.ID to de-duplicate retries.
func (l *Ledger) RecordVerification(ctx context.Context, politicianID, promiseID string, status model.Status, sources []string, confidence float64, importance model.Importance) (model.LedgerEntry, error) {
	return l.Record(ctx, Event{
		PoliticianID: politicianID,
		PromiseID:    promiseID,
		Status:       status,
		Sources:      sources,
		Confidence:   confidence,
		Importance:   importance,
	})
}

// Record appends one entry for an event. Recording an event whose ID is
// already in the ledger returns the stored entry unchanged.
func (l *Ledger) Record(ctx context.Context, ev Event) (model.LedgerEntry, error) {
	if ev.PoliticianID == "" {
		return model.LedgerEntry{}, fmt.Errorf("politician id is required")
	}
	if _, ok := baseDeltas[ev.Status]; !ok {
		return model.LedgerEntry{}, fmt.Errorf("unknown status %q", ev.Status)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	id := ev.ID
	if id == "" {
		id = uuid.New().String()
	} else if existing, ok, err := l.store.LedgerEntry(ctx, id); err != nil {
		return model.LedgerEntry{}, fmt.Errorf("lookup ledger entry: %w", err)
	} else if ok {
		return existing, nil
	}

	previous, ok, err := l.store.CurrentScore(ctx, ev.PoliticianID)
	if err != nil {
		return model.LedgerEntry{}, fmt.Errorf("read current score: %w", err)
	}
	if !ok {
		previous = l.scale.Baseline
	}

	entry := l.build(id, previous, ev)
	inserted, err := l.store.AppendLedger(ctx, entry)
	if err != nil {
		return model.LedgerEntry{}, fmt.Errorf("append ledger entry: %w", err)
	}
	if !inserted {
		if existing, ok, err := l.store.LedgerEntry(ctx, id); err == nil && ok {
			return existing, nil
		}
	}

	metrics.LedgerDelta.Observe(entry.ScoreDelta)
	return entry, nil
}

// build computes the entry without touching the store
func (l *Ledger) build(id string, previous float64, ev Event) model.LedgerEntry {
	importance := ev.Importance
	if _, ok := importanceMultipliers[importance]; !ok {
		importance = model.ImportanceMedium
	}
	confidence := model.Clamp01(ev.Confidence)
	raw := Delta(ev.Status, confidence, importance)
	newScore, effective := Apply(l.scale, previous, raw)

	return model.LedgerEntry{
		ID:            id,
		PoliticianID:  ev.PoliticianID,
		PromiseID:     ev.PromiseID,
		PreviousScore: fromCents(Cents(previous)),
		ScoreDelta:    effective,
		NewScore:      newScore,
		ChangeReason:  model.ReasonForStatus(ev.Status),
		Description:   Describe(ev.Status, confidence),
		Sources:       normalizeSources(ev.Sources),
		Confidence:    confidence,
		Timestamp:     l.now().UTC(),
		Data: map[string]interface{}{
			"status":                ev.Status,
			"action_id":             ev.ActionID,
			"base_delta":            BaseDelta(ev.Status),
			"confidence":            confidence,
			"importance":            importance,
			"importance_multiplier": ImportanceMultiplier(importance),
			"computed_delta":        raw,
			"clamped":               effective != raw,
			"source_count":          len(normalizeSources(ev.Sources)),
			"scale":                 fmt.Sprintf("%g-%g", l.scale.Min, l.scale.Max),
			"formula":               "clamp(previous + round(base * confidence * importance, 2), min, max)",
		},
	}
}

// normalizeSources de-duplicates and sorts source tags
func normalizeSources(sources []string) []string {
	if len(sources) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(sources))
	var out []string
	for _, s := range sources {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// Replay folds entries in timestamp order from the scale baseline. The
// result equals the politician's current score.
func Replay(scale model.Scale, entries []model.LedgerEntry) float64 {
	sorted := make([]model.LedgerEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	current := scale.Baseline
	for _, e := range sorted {
		current, _ = Apply(scale, current, e.ScoreDelta)
	}
	return current
}

// Audit checks that every entry chains from its predecessor and that
// new - previous equals the delta, in cents
func Audit(scale model.Scale, entries []model.LedgerEntry) error {
	sorted := make([]model.LedgerEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	current := Cents(scale.Baseline)
	for _, e := range sorted {
		if Cents(e.PreviousScore) != current {
			return fmt.Errorf("entry %s: previous score %.2f does not follow %.2f", e.ID, e.PreviousScore, fromCents(current))
		}
		if Cents(e.NewScore)-Cents(e.PreviousScore) != Cents(e.ScoreDelta) {
			return fmt.Errorf("entry %s: %.2f - %.2f != %.2f", e.ID, e.NewScore, e.PreviousScore, e.ScoreDelta)
		}
		if e.NewScore < scale.Min || e.NewScore > scale.Max {
			return fmt.Errorf("entry %s: score %.2f out of bounds", e.ID, e.NewScore)
		}
		current = Cents(e.NewScore)
	}
	return nil
}
