package model

import "time"

// MatchType is the outcome of pairing a promise with an action
type MatchType string

const (
	MatchKept          MatchType = "kept"
	MatchBroken        MatchType = "broken"
	MatchPartial       MatchType = "partial"
	MatchContradictory MatchType = "contradictory"
)

// Match is a scored pairing of one promise to one action. Never mutated.
type Match struct {
	PromiseID   string    `json:"promise_id"`
	ActionID    string    `json:"action_id"`
	Similarity  float64   `json:"similarity"`
	MatchType   MatchType `json:"match_type"`
	Confidence  float64   `json:"confidence"`
	Method      Method    `json:"method"` // Similarity strategy that scored the pair
	Explanation string    `json:"explanation"`
}

// Method records how a verification was produced
type Method string

const (
	MethodEmbedding       Method = "embedding"
	MethodKeywordFallback Method = "keyword_fallback"
	MethodManual          Method = "manual"
)

// VerificationRecord is a persisted match outcome. A nil VerifiedAt means
// the record awaits human review.
type VerificationRecord struct {
	ID              string     `json:"id"`
	PromiseID       string     `json:"promise_id"`
	ActionID        string     `json:"action_id,omitempty"`
	MatchType       MatchType  `json:"match_type"`
	MatchConfidence float64    `json:"match_confidence"`
	Method          Method     `json:"method"`
	VerifiedAt      *time.Time `json:"verified_at,omitempty"`
	Explanation     string     `json:"explanation"`
}

// NeedsReview reports whether the record is waiting for a moderator
func (r VerificationRecord) NeedsReview() bool {
	return r.VerifiedAt == nil
}
