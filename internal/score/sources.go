package score

import (
	"fmt"

	"github.com/ppiankov/politikcred/internal/model"
)

// SourceSummary describes the provenance quality of a politician's promises
type SourceSummary struct {
	Total         int                    `json:"total"`
	Primary       int                    `json:"primary"`
	Secondary     int                    `json:"secondary"`
	Tertiary      int                    `json:"tertiary"`
	Usable        int                    `json:"usable"`
	Archived      int                    `json:"archived"`
	AuthorityRate float64                `json:"authority_rate"` // 0-1, weighted by tier
	UsableRate    float64                `json:"usable_rate"`
	Description   string                 `json:"description"`
	Data          map[string]interface{} `json:"data,omitempty"`
}

// SummarizeSources weighs promise sources by authority tier and accessibility
func SummarizeSources(promises []model.PromiseCandidate) SourceSummary {
	var s SourceSummary
	seen := make(map[string]bool)

	for _, p := range promises {
		ref := p.Source
		key := ref.URL
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		s.Total++

		switch ref.Authority {
		case model.TierPrimary:
			s.Primary++
		case model.TierSecondary:
			s.Secondary++
		default:
			s.Tertiary++
		}
		if ref.Usable {
			s.Usable++
		}
		if ref.EffectiveURL != "" && ref.EffectiveURL != ref.URL {
			s.Archived++
		}
	}

	if s.Total == 0 {
		s.Description = "No source data available"
		return s
	}

	weightedSum := float64(s.Primary*3 + s.Secondary*2 + s.Tertiary)
	s.AuthorityRate = model.Round2(weightedSum / float64(s.Total*3))
	s.UsableRate = model.Round2(float64(s.Usable) / float64(s.Total))
	s.Description = fmt.Sprintf("Sources: %d primary, %d secondary, %d tertiary; %d/%d usable (%d archived)",
		s.Primary, s.Secondary, s.Tertiary, s.Usable, s.Total, s.Archived)
	s.Data = map[string]interface{}{
		"authority_formula": "(primary*3 + secondary*2 + tertiary*1) / (total*3)",
		"usable_formula":    "usable / total",
	}
	return s
}
