package store

import (
	"context"
	"sort"
	"sync"

	"github.com/ppiankov/politikcred/internal/model"
)

// MemoryStore is an in-process Store for tests and dry runs
type MemoryStore struct {
	mu            sync.RWMutex
	politicians   map[string]model.Politician
	promises      map[string]model.PromiseCandidate
	promiseOrder  []string
	actions       map[string]model.Action
	actionOrder   []string
	verifications map[string]model.VerificationRecord
	verifyOrder   []string
	ledger        map[string]model.LedgerEntry
	ledgerOrder   []string
	quotaMonth    string
	quotaUsed     int
}

// NewMemoryStore creates an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		politicians:   make(map[string]model.Politician),
		promises:      make(map[string]model.PromiseCandidate),
		actions:       make(map[string]model.Action),
		verifications: make(map[string]model.VerificationRecord),
		ledger:        make(map[string]model.LedgerEntry),
	}
}

// SavePolitician inserts or replaces a politician
func (s *MemoryStore) SavePolitician(_ context.Context, p model.Politician) error {
	if p.ID == "" {
		return Invalid("save politician", errMissingID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.politicians[p.ID]; ok && s.hasLedger(p.ID) {
		p.CredibilityScore = existing.CredibilityScore
	}
	s.politicians[p.ID] = p
	return nil
}

// Politician returns one politician
func (s *MemoryStore) Politician(_ context.Context, id string) (model.Politician, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.politicians[id]
	return p, ok, nil
}

// Politicians returns every politician ordered by id
func (s *MemoryStore) Politicians(_ context.Context) ([]model.Politician, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Politician, 0, len(s.politicians))
	for _, p := range s.politicians {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// SavePromise inserts a promise unless its id exists
func (s *MemoryStore) SavePromise(_ context.Context, p model.PromiseCandidate) (bool, error) {
	if err := ValidatePromise(p); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.promises[p.ID]; ok {
		return false, nil
	}
	if p.Status == "" {
		p.Status = model.PromisePending
	}
	s.promises[p.ID] = p
	s.promiseOrder = append(s.promiseOrder, p.ID)
	return true, nil
}

// Promises returns a politician's promises in insertion order
func (s *MemoryStore) Promises(_ context.Context, politicianID string) ([]model.PromiseCandidate, error) {
	return s.promisesWhere(politicianID, func(model.PromiseCandidate) bool { return true }), nil
}

// PendingPromises returns promises with no verification record yet
func (s *MemoryStore) PendingPromises(_ context.Context, politicianID string) ([]model.PromiseCandidate, error) {
	return s.promisesWhere(politicianID, func(p model.PromiseCandidate) bool {
		return p.Status != model.PromiseVerified
	}), nil
}

func (s *MemoryStore) promisesWhere(politicianID string, keep func(model.PromiseCandidate) bool) []model.PromiseCandidate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.PromiseCandidate
	for _, id := range s.promiseOrder {
		p := s.promises[id]
		if p.PoliticianID == politicianID && keep(p) {
			out = append(out, p)
		}
	}
	return out
}

// SaveActions inserts or replaces actions
func (s *MemoryStore) SaveActions(_ context.Context, actions []model.Action) error {
	for _, a := range actions {
		if err := ValidateAction(a); err != nil {
			return err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range actions {
		if _, ok := s.actions[a.ID]; !ok {
			s.actionOrder = append(s.actionOrder, a.ID)
		}
		s.actions[a.ID] = a
	}
	return nil
}

// ActionsFor returns a politician's actions in insertion order
func (s *MemoryStore) ActionsFor(_ context.Context, politicianID string) ([]model.Action, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Action
	for _, id := range s.actionOrder {
		if a := s.actions[id]; a.PoliticianID == politicianID {
			out = append(out, a)
		}
	}
	return out, nil
}

// InsertVerification stores a record once per promise and action pair and
// marks the promise verified
func (s *MemoryStore) InsertVerification(_ context.Context, rec model.VerificationRecord) (bool, error) {
	if err := ValidateVerification(rec); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	key := VerificationKey(rec)
	if _, ok := s.verifications[key]; ok {
		return false, nil
	}
	s.verifications[key] = rec
	s.verifyOrder = append(s.verifyOrder, key)
	if p, ok := s.promises[rec.PromiseID]; ok {
		p.Status = model.PromiseVerified
		s.promises[rec.PromiseID] = p
	}
	return true, nil
}

// Verifications returns the records of a politician's promises
func (s *MemoryStore) Verifications(_ context.Context, politicianID string) ([]model.VerificationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.VerificationRecord
	for _, key := range s.verifyOrder {
		rec := s.verifications[key]
		if p, ok := s.promises[rec.PromiseID]; ok && p.PoliticianID == politicianID {
			out = append(out, rec)
		}
	}
	return out, nil
}

// CurrentScore returns the newest ledger score; false when there is none
func (s *MemoryStore) CurrentScore(_ context.Context, politicianID string) (float64, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := len(s.ledgerOrder) - 1; i >= 0; i-- {
		if e := s.ledger[s.ledgerOrder[i]]; e.PoliticianID == politicianID {
			return e.NewScore, true, nil
		}
	}
	return 0, false, nil
}

// LedgerEntry returns one entry by event id
func (s *MemoryStore) LedgerEntry(_ context.Context, id string) (model.LedgerEntry, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.ledger[id]
	return e, ok, nil
}

// AppendLedger appends an entry unless its event id exists
func (s *MemoryStore) AppendLedger(_ context.Context, entry model.LedgerEntry) (bool, error) {
	if err := ValidateLedgerEntry(entry); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ledger[entry.ID]; ok {
		return false, nil
	}
	s.ledger[entry.ID] = entry
	s.ledgerOrder = append(s.ledgerOrder, entry.ID)
	if p, ok := s.politicians[entry.PoliticianID]; ok {
		p.CredibilityScore = entry.NewScore
		s.politicians[entry.PoliticianID] = p
	}
	return true, nil
}

// LedgerEntries returns a politician's entries in append order
func (s *MemoryStore) LedgerEntries(_ context.Context, politicianID string) ([]model.LedgerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.LedgerEntry
	for _, id := range s.ledgerOrder {
		if e := s.ledger[id]; e.PoliticianID == politicianID {
			out = append(out, e)
		}
	}
	return out, nil
}

// LoadQuota returns the persisted embedding quota counter
func (s *MemoryStore) LoadQuota(_ context.Context) (string, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.quotaMonth, s.quotaUsed, nil
}

// SaveQuota persists the embedding quota counter. Within one month the
// stored count never decreases.
func (s *MemoryStore) SaveQuota(_ context.Context, month string, used int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case month < s.quotaMonth:
		// Snapshot of an earlier month
	case month == s.quotaMonth:
		if used > s.quotaUsed {
			s.quotaUsed = used
		}
	default:
		s.quotaMonth, s.quotaUsed = month, used
	}
	return nil
}

// Close is a no-op
func (s *MemoryStore) Close() error {
	return nil
}

func (s *MemoryStore) hasLedger(politicianID string) bool {
	for _, id := range s.ledgerOrder {
		if s.ledger[id].PoliticianID == politicianID {
			return true
		}
	}
	return false
}
