package score

import "github.com/ppiankov/politikcred/internal/model"

// Counts tallies verification outcomes for the consistency score
type Counts struct {
	Kept    int `json:"kept"`
	Broken  int `json:"broken"`
	Partial int `json:"partial"`
}

// ComputeConsistencyScore returns (kept*100 + partial*50) / (kept+broken+partial)
// on the 0-100 scale, or nil when there is nothing to score
func ComputeConsistencyScore(c Counts) *float64 {
	total := c.Kept + c.Broken + c.Partial
	if total <= 0 || c.Kept < 0 || c.Broken < 0 || c.Partial < 0 {
		return nil
	}
	score := model.ConsistencyScale.Clamp(float64(c.Kept*100+c.Partial*50) / float64(total))
	return &score
}

// CountRecords tallies verified records. Records awaiting review are not
// counted; contradictions count as broken.
func CountRecords(records []model.VerificationRecord) Counts {
	var c Counts
	for _, r := range records {
		if r.NeedsReview() {
			continue
		}
		switch model.StatusFromMatch(r.MatchType) {
		case model.StatusKept:
			c.Kept++
		case model.StatusBroken:
			c.Broken++
		case model.StatusPartial:
			c.Partial++
		}
	}
	return c
}
