// Package verify routes resolved matches into confidence bands.
package verify

import (
	"time"

	"github.com/google/uuid"
	"github.com/ppiankov/politikcred/internal/metrics"
	"github.com/ppiankov/politikcred/internal/model"
)

const (
	// DefaultMinConfidence is the floor below which matches are discarded
	DefaultMinConfidence = 0.6
	// AutoVerifyConfidence is the inclusive floor for automatic verification
	AutoVerifyConfidence = 0.85
)

var recordNamespace = uuid.MustParse("8a0b6d3e-2c4f-5e71-9a8b-3f6c1d2e4b70")

// Routed is the three-way split of a match list
type Routed struct {
	AutoVerify  []model.Match `json:"auto_verify"`
	NeedsReview []model.Match `json:"needs_review"`
	Discard     []model.Match `json:"discard"`
}

// RouteByConfidence partitions matches with the default auto-verify floor
func RouteByConfidence(matches []model.Match, minConfidence float64) Routed {
	return RouteWithThresholds(matches, minConfidence, AutoVerifyConfidence)
}

// RouteWithThresholds partitions matches: confidence >= autoVerify is
// verified automatically, [minConfidence, autoVerify) awaits review and
// anything lower is discarded. Input order is kept within each band.
func RouteWithThresholds(matches []model.Match, minConfidence, autoVerify float64) Routed {
	if autoVerify < minConfidence {
		autoVerify = minConfidence
	}
	var r Routed
	for _, m := range matches {
		conf := model.Clamp01(m.Confidence)
		switch {
		case conf >= autoVerify:
			r.AutoVerify = append(r.AutoVerify, m)
		case conf >= minConfidence:
			r.NeedsReview = append(r.NeedsReview, m)
		default:
			r.Discard = append(r.Discard, m)
		}
	}
	metrics.RoutedTotal.WithLabelValues("auto_verify").Add(float64(len(r.AutoVerify)))
	metrics.RoutedTotal.WithLabelValues("needs_review").Add(float64(len(r.NeedsReview)))
	metrics.RoutedTotal.WithLabelValues("discard").Add(float64(len(r.Discard)))
	return r
}

// Records builds the verification records to persist. Discarded matches
// produce none; review records carry a nil VerifiedAt.
func (r Routed) Records(now time.Time) []model.VerificationRecord {
	records := make([]model.VerificationRecord, 0, len(r.AutoVerify)+len(r.NeedsReview))
	for _, m := range r.AutoVerify {
		at := now
		records = append(records, newRecord(m, &at))
	}
	for _, m := range r.NeedsReview {
		records = append(records, newRecord(m, nil))
	}
	return records
}

func newRecord(m model.Match, verifiedAt *time.Time) model.VerificationRecord {
	method := m.Method
	if method == "" {
		method = model.MethodKeywordFallback
	}
	return model.VerificationRecord{
		ID:              RecordID(m.PromiseID, m.ActionID),
		PromiseID:       m.PromiseID,
		ActionID:        m.ActionID,
		MatchType:       m.MatchType,
		MatchConfidence: model.Clamp01(m.Confidence),
		Method:          method,
		VerifiedAt:      verifiedAt,
		Explanation:     m.Explanation,
	}
}

// RecordID derives a stable id from the promise and action ids, so a retried
// insert of the same pair carries the same id
func RecordID(promiseID, actionID string) string {
	return uuid.NewSHA1(recordNamespace, []byte(promiseID+"\x00"+actionID)).String()
}
