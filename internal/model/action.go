package model

import "strings"

// VotePosition is how a politician voted on a recorded act
type VotePosition string

const (
	VoteNone    VotePosition = ""
	VoteFor     VotePosition = "for"
	VoteAgainst VotePosition = "against"
	VoteAbstain VotePosition = "abstain"
	VoteAbsent  VotePosition = "absent"
)

// ParseVotePosition accepts English and French labels as published by
// the Assemblée nationale and Sénat open data.
func ParseVotePosition(s string) VotePosition {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "for", "pour", "yes", "oui":
		return VoteFor
	case "against", "contre", "no", "non":
		return VoteAgainst
	case "abstain", "abstention", "abstenu":
		return VoteAbstain
	case "absent", "non-votant", "non votant":
		return VoteAbsent
	default:
		return VoteNone
	}
}

// Invert swaps for and against; other positions are returned unchanged
func (v VotePosition) Invert() VotePosition {
	switch v {
	case VoteFor:
		return VoteAgainst
	case VoteAgainst:
		return VoteFor
	default:
		return v
	}
}

// Action is one recorded legislative act. Read-only to the matching core.
type Action struct {
	ID           string       `json:"id" yaml:"id"`
	PoliticianID string       `json:"politician_id,omitempty" yaml:"politician_id,omitempty"`
	Description  string       `json:"description" yaml:"description"`
	Category     Category     `json:"category" yaml:"category"`
	VotePosition VotePosition `json:"vote_position,omitempty" yaml:"vote_position,omitempty"`
	BillTitle    string       `json:"bill_title,omitempty" yaml:"bill_title,omitempty"`
}

// MatchText is the text compared against a promise
func (a Action) MatchText() string {
	if a.BillTitle == "" {
		return a.Description
	}
	return a.Description + " " + a.BillTitle
}
