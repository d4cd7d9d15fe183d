package match

import (
	"regexp"

	"github.com/ppiankov/politikcred/internal/model"
)

// PolarityVersion identifies the polarity tables. Bump it whenever
// patterns change so contradiction results are re-validated.
const PolarityVersion = "2025.1"

// Polarity is the direction a promise or action text pushes in
type Polarity int

const (
	PolarityNone Polarity = iota
	PolaritySupport
	PolarityOppose
	PolarityRestrict
	PolarityExpand
)

func (p Polarity) String() string {
	switch p {
	case PolaritySupport:
		return "support"
	case PolarityOppose:
		return "oppose"
	case PolarityRestrict:
		return "restrict"
	case PolarityExpand:
		return "expand"
	default:
		return "none"
	}
}

// PolarityPattern detects one polarity in folded promise text
type PolarityPattern struct {
	Polarity Polarity
	Pattern  *regexp.Regexp
}

// Procedure is a procedural vote whose surface position is the opposite of
// the politician's stance on the underlying text
type Procedure struct {
	Name    string
	Pattern *regexp.Regexp
}

// Rule flags a contradiction between a promise polarity and an action.
// A nil Action pattern matches any action.
type Rule struct {
	Name    string
	Promise Polarity
	Action  *regexp.Regexp
	Vote    model.VotePosition // Effective vote, after procedural inversion
}

// VotePattern infers a vote position from an action description
type VotePattern struct {
	Vote    model.VotePosition
	Pattern *regexp.Regexp
}

// PolarityTables groups the lookups used to detect contradictions
type PolarityTables struct {
	Promise    []PolarityPattern
	Procedures []Procedure
	Rules      []Rule
	Votes      []VotePattern
}

var (
	actionRestrict = regexp.MustCompile(`\b(?:interdi\w*|reduction|reduire|baisse\w*|supprim\w*|suppression|abrog\w*|limit\w*|plafonn\w*|restrei\w*|restrict\w*|ban|bans|cut|cuts|reduc\w*|lower\w*|repeal\w*|abolish\w*)\b`)
	actionExpand   = regexp.MustCompile(`\b(?:augment\w*|hausse|relev\w*|creation|cree\w*|creer|instaur\w*|autoris\w*|legalis\w*|develop\w*|etend\w*|extension|elargi\w*|increas\w*|raise\w*|expand\w*|allow\w*|creat\w*|legaliz\w*)\b`)
)

// DefaultPolarityTables returns the French and English tables
func DefaultPolarityTables() PolarityTables {
	return PolarityTables{
		Promise: []PolarityPattern{
			{PolaritySupport, regexp.MustCompile(`\b(?:soutenir|soutiendrai|soutiendrons|soutien|defendre|defendrai|defendrons|favorable|voter pour|voterai pour|support\w*|back|defend|vote for)\b`)},
			{PolarityOppose, regexp.MustCompile(`\b(?:opposer|opposerai|opposerons|oppose|rejeter|rejetterai|rejetterons|refuser|refuserai|refuserons|voter contre|voterai contre|reject|vote against)\b`)},
			{PolarityRestrict, regexp.MustCompile(`\b(?:interdi\w*|reduire|reduirai|reduirons|reduction|baisser|baisserai|baisserons|baisse|supprimer|supprimerai|supprimerons|suppression|abroger|abrogerai|abrogation|limiter|limiterai|plafonner|restreindre|ban|cut|reduce|lower|abolish|repeal|scrap)\b`)},
			{PolarityExpand, regexp.MustCompile(`\b(?:augmenter|augmenterai|augmenterons|augmentation|hausse|relever|releverai|creer|creerai|creerons|creation|instaurer|instaurerai|autoriser|autoriserai|legaliser|developper|etendre|increase|raise|create|expand|allow|legalize|build)\b`)},
		},
		Procedures: []Procedure{
			{"rejection_motion", regexp.MustCompile(`\bmotion\s+(?:de\s+)?(?:censure|rejet(?:\s+prealable)?|renvoi(?:\s+en\s+commission)?)\b|\bquestion\s+prealable\b|\bexception\s+d'irrecevabilite\b|\bmotion\s+(?:to\s+reject|of\s+no[- ]confidence|of\s+censure)\b|\bno[- ]confidence\s+motion\b`)},
			{"deletion_amendment", regexp.MustCompile(`\b(?:sous-)?amendements?\s+(?:de\s+)?suppression\b|\bamendements?\s+(?:visant|tendant)\s+a\s+supprimer\b|\bdeletion\s+amendment\b|\bamendment\s+to\s+(?:delete|strike)\b`)},
		},
		Rules: []Rule{
			{"support_voted_against", PolaritySupport, nil, model.VoteAgainst},
			{"oppose_voted_for", PolarityOppose, nil, model.VoteFor},
			{"restrict_voted_expansion", PolarityRestrict, actionExpand, model.VoteFor},
			{"expand_voted_restriction", PolarityExpand, actionRestrict, model.VoteFor},
			{"restrict_voted_against_restriction", PolarityRestrict, actionRestrict, model.VoteAgainst},
			{"expand_voted_against_expansion", PolarityExpand, actionExpand, model.VoteAgainst},
		},
		Votes: []VotePattern{
			{model.VoteFor, regexp.MustCompile(`\b(?:vote|a vote|votant)\s+pour\b|\bvoted\s+for\b`)},
			{model.VoteAgainst, regexp.MustCompile(`\b(?:vote|a vote|votant)\s+contre\b|\bvoted\s+against\b`)},
			{model.VoteAbstain, regexp.MustCompile(`\babstention\b|\bs'est abstenu\w*|\babstained\b`)},
		},
	}
}

// promisePolarities returns every polarity found in folded promise text
func (t PolarityTables) promisePolarities(folded string) map[Polarity]bool {
	found := make(map[Polarity]bool)
	for _, p := range t.Promise {
		if p.Pattern.MatchString(folded) {
			found[p.Polarity] = true
		}
	}
	return found
}

// procedure returns the procedural vote found in folded action text and
// the text with the procedural phrase removed
func (t PolarityTables) procedure(folded string) (string, string) {
	for _, p := range t.Procedures {
		if p.Pattern.MatchString(folded) {
			return p.Name, p.Pattern.ReplaceAllString(folded, " ")
		}
	}
	return "", folded
}

// inferVote reads a vote position from folded action text
func (t PolarityTables) inferVote(folded string) model.VotePosition {
	for _, v := range t.Votes {
		if v.Pattern.MatchString(folded) {
			return v.Vote
		}
	}
	return model.VoteNone
}
