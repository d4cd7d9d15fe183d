// Package store persists politicians, promises, actions, verification
// records and the credibility ledger.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/ppiankov/politikcred/internal/model"
)

// Store is the persistence contract of the verification pipeline.
// Inserts of an existing verification pair or ledger event report
// inserted=false with a nil error.
type Store interface {
	SavePolitician(ctx context.Context, p model.Politician) error
	Politician(ctx context.Context, id string) (model.Politician, bool, error)
	Politicians(ctx context.Context) ([]model.Politician, error)

	SavePromise(ctx context.Context, p model.PromiseCandidate) (bool, error)
	Promises(ctx context.Context, politicianID string) ([]model.PromiseCandidate, error)
	PendingPromises(ctx context.Context, politicianID string) ([]model.PromiseCandidate, error)

	SaveActions(ctx context.Context, actions []model.Action) error
	ActionsFor(ctx context.Context, politicianID string) ([]model.Action, error)

	InsertVerification(ctx context.Context, rec model.VerificationRecord) (bool, error)
	Verifications(ctx context.Context, politicianID string) ([]model.VerificationRecord, error)

	CurrentScore(ctx context.Context, politicianID string) (float64, bool, error)
	LedgerEntry(ctx context.Context, id string) (model.LedgerEntry, bool, error)
	AppendLedger(ctx context.Context, entry model.LedgerEntry) (bool, error)
	LedgerEntries(ctx context.Context, politicianID string) ([]model.LedgerEntry, error)

	LoadQuota(ctx context.Context) (string, int, error)
	SaveQuota(ctx context.Context, month string, used int) error

	Close() error
}

var errMissingID = errors.New("id is required")

// ValidatePromise rejects promises that cannot be stored
func ValidatePromise(p model.PromiseCandidate) error {
	switch {
	case p.ID == "":
		return Invalid("save promise", errors.New("promise id is required"))
	case p.PoliticianID == "":
		return Invalid("save promise", fmt.Errorf("promise %s has no politician", p.ID))
	case p.Text == "":
		return Invalid("save promise", fmt.Errorf("promise %s has no text", p.ID))
	}
	return nil
}

// ValidateAction rejects actions that cannot be stored
func ValidateAction(a model.Action) error {
	switch {
	case a.ID == "":
		return Invalid("save action", errors.New("action id is required"))
	case a.PoliticianID == "":
		return Invalid("save action", fmt.Errorf("action %s has no politician", a.ID))
	}
	return nil
}

// ValidateVerification rejects records that cannot be stored
func ValidateVerification(rec model.VerificationRecord) error {
	switch {
	case rec.ID == "":
		return Invalid("insert verification", errors.New("record id is required"))
	case rec.PromiseID == "":
		return Invalid("insert verification", fmt.Errorf("record %s has no promise", rec.ID))
	case rec.MatchConfidence < 0 || rec.MatchConfidence > 1:
		return Invalid("insert verification", fmt.Errorf("record %s confidence %v out of [0,1]", rec.ID, rec.MatchConfidence))
	}
	return nil
}

// ValidateLedgerEntry rejects entries that cannot be stored
func ValidateLedgerEntry(e model.LedgerEntry) error {
	switch {
	case e.ID == "":
		return Invalid("append ledger", errors.New("entry id is required"))
	case e.PoliticianID == "":
		return Invalid("append ledger", fmt.Errorf("entry %s has no politician", e.ID))
	}
	return nil
}

// VerificationKey is the uniqueness key of a record: the promise and action
// pair, or the record id for manual records with no action
func VerificationKey(rec model.VerificationRecord) string {
	if rec.ActionID == "" {
		return rec.PromiseID + "\x00#" + rec.ID
	}
	return rec.PromiseID + "\x00" + rec.ActionID
}
