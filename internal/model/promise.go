package model

import "strings"

// Category classifies the policy domain of a promise or an action
type Category string

const (
	CategoryEconomic      Category = "economic"
	CategorySocial        Category = "social"
	CategoryEnvironmental Category = "environmental"
	CategorySecurity      Category = "security"
	CategoryHealthcare    Category = "healthcare"
	CategoryEducation     Category = "education"
	CategoryJustice       Category = "justice"
	CategoryImmigration   Category = "immigration"
	CategoryForeignPolicy Category = "foreign_policy"
	CategoryOther         Category = "other"
)

// Categories lists every category in enumeration order. Ties in keyword
// scoring are broken by position in this slice.
var Categories = []Category{
	CategoryEconomic,
	CategorySocial,
	CategoryEnvironmental,
	CategorySecurity,
	CategoryHealthcare,
	CategoryEducation,
	CategoryJustice,
	CategoryImmigration,
	CategoryForeignPolicy,
	CategoryOther,
}

// ParseCategory maps a free-form label to a Category, defaulting to other
func ParseCategory(s string) Category {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, c := range Categories {
		if string(c) == s {
			return c
		}
	}
	return CategoryOther
}

// PromiseCandidate is one sentence classified as a political commitment.
// It is immutable once built by the classifier.
type PromiseCandidate struct {
	ID           string          `json:"id,omitempty" yaml:"id,omitempty"`
	PoliticianID string          `json:"politician_id,omitempty" yaml:"politician_id,omitempty"`
	Text         string          `json:"text" yaml:"text"`
	Confidence   float64         `json:"confidence" yaml:"confidence"` // Confidence of being a promise, in [0,1]
	Category     Category        `json:"category" yaml:"category"`
	IsActionable bool            `json:"is_actionable" yaml:"is_actionable"`
	Keywords     []string        `json:"keywords,omitempty" yaml:"keywords,omitempty"` // Most frequent first
	Source       SourceReference `json:"source" yaml:"source"`
	Status       PromiseStatus   `json:"status,omitempty" yaml:"status,omitempty"`
	Importance   Importance      `json:"importance,omitempty" yaml:"importance,omitempty"`
}

// SourceReference records where a promise was read
type SourceReference struct {
	URL          string        `json:"url,omitempty" yaml:"url,omitempty"`
	EffectiveURL string        `json:"effective_url,omitempty" yaml:"effective_url,omitempty"` // Archived copy when the original is unreachable
	Usable       bool          `json:"usable" yaml:"usable"`
	Authority    AuthorityTier `json:"authority,omitempty" yaml:"authority,omitempty"`
	Sentence     int           `json:"sentence,omitempty" yaml:"sentence,omitempty"` // Sentence index in source (0-based)
}

// PromiseStatus is the verification lifecycle of a promise
type PromiseStatus string

const (
	PromisePending  PromiseStatus = "pending"
	PromiseVerified PromiseStatus = "verified"
)

// AuthorityTier represents the classification of source authority
type AuthorityTier int

const (
	TierUnknown   AuthorityTier = 0
	TierPrimary   AuthorityTier = 1 // Parliament records, official journals, government sites
	TierSecondary AuthorityTier = 2 // National press, encyclopedias
	TierTertiary  AuthorityTier = 3 // Blogs, social media, everything else
)

func (t AuthorityTier) String() string {
	switch t {
	case TierPrimary:
		return "primary"
	case TierSecondary:
		return "secondary"
	case TierTertiary:
		return "tertiary"
	default:
		return "unknown"
	}
}
