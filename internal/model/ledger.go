package model

import (
	"strings"
	"time"
)

// Status is the verification status fed into the credibility ledger
type Status string

const (
	StatusKept       Status = "kept"
	StatusBroken     Status = "broken"
	StatusPartial    Status = "partial"
	StatusInProgress Status = "in_progress"
	StatusPending    Status = "pending"
)

// StatusFromMatch maps a resolved match type to a ledger status.
// A contradiction is evidence that the promise was not honored.
func StatusFromMatch(mt MatchType) Status {
	switch mt {
	case MatchKept:
		return StatusKept
	case MatchBroken, MatchContradictory:
		return StatusBroken
	case MatchPartial:
		return StatusPartial
	default:
		return StatusPending
	}
}

// Importance weights how much a promise moves the score
type Importance string

const (
	ImportanceCritical Importance = "critical"
	ImportanceHigh     Importance = "high"
	ImportanceMedium   Importance = "medium"
	ImportanceLow      Importance = "low"
)

// ParseImportance defaults to medium for unknown labels
func ParseImportance(s string) Importance {
	switch Importance(strings.ToLower(strings.TrimSpace(s))) {
	case ImportanceCritical:
		return ImportanceCritical
	case ImportanceHigh:
		return ImportanceHigh
	case ImportanceLow:
		return ImportanceLow
	default:
		return ImportanceMedium
	}
}

// ChangeReason classifies a ledger entry
type ChangeReason string

const (
	ReasonPromiseKept       ChangeReason = "promise_kept"
	ReasonPromiseBroken     ChangeReason = "promise_broken"
	ReasonPromisePartial    ChangeReason = "promise_partial"
	ReasonPromiseInProgress ChangeReason = "promise_in_progress"
	ReasonPromisePending    ChangeReason = "promise_pending"
)

// ReasonForStatus returns the change reason recorded for a status
func ReasonForStatus(s Status) ChangeReason {
	switch s {
	case StatusKept:
		return ReasonPromiseKept
	case StatusBroken:
		return ReasonPromiseBroken
	case StatusPartial:
		return ReasonPromisePartial
	case StatusInProgress:
		return ReasonPromiseInProgress
	default:
		return ReasonPromisePending
	}
}

// LedgerEntry is one append-only scoring event
type LedgerEntry struct {
	ID            string                 `json:"id"` // Event id, used to de-duplicate retries
	PoliticianID  string                 `json:"politician_id"`
	PromiseID     string                 `json:"promise_id,omitempty"`
	PreviousScore float64                `json:"previous_score"`
	ScoreDelta    float64                `json:"score_delta"`
	NewScore      float64                `json:"new_score"`
	ChangeReason  ChangeReason           `json:"change_reason"`
	Description   string                 `json:"description"`
	Sources       []string               `json:"sources,omitempty"`
	Confidence    float64                `json:"confidence"`
	Timestamp     time.Time              `json:"timestamp"`
	Data          map[string]interface{} `json:"data,omitempty"` // Transparent scoring inputs and formula
}

// Scale bounds a score
type Scale struct {
	Min      float64 `json:"min" yaml:"min"`
	Max      float64 `json:"max" yaml:"max"`
	Baseline float64 `json:"baseline" yaml:"baseline"`
}

// CredibilityScale is the 0-200 scale of the credibility ledger
var CredibilityScale = Scale{Min: 0, Max: 200, Baseline: 100}

// ConsistencyScale is the 0-100 scale of the aggregate consistency score
var ConsistencyScale = Scale{Min: 0, Max: 100, Baseline: 50}

// Clamp bounds v into the scale
func (s Scale) Clamp(v float64) float64 {
	return Clamp(v, s.Min, s.Max)
}
