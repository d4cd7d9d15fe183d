package model

import "strings"

// Politician is a tracked elected official or minister
type Politician struct {
	ID               string      `json:"id" yaml:"id"`
	Name             string      `json:"name" yaml:"name"`
	FirstName        string      `json:"first_name" yaml:"first_name"`
	LastName         string      `json:"last_name" yaml:"last_name"`
	Party            string      `json:"party,omitempty" yaml:"party,omitempty"`
	Position         string      `json:"position" yaml:"position"`
	Constituency     string      `json:"constituency,omitempty" yaml:"constituency,omitempty"`
	Orientation      Orientation `json:"political_orientation,omitempty" yaml:"political_orientation,omitempty"`
	CredibilityScore float64     `json:"credibility_score" yaml:"credibility_score"`
}

// Orientation is the left/right placement derived from the party label
type Orientation string

const (
	OrientationLeft        Orientation = "left"
	OrientationCenterLeft  Orientation = "center-left"
	OrientationCenter      Orientation = "center"
	OrientationCenterRight Orientation = "center-right"
	OrientationRight       Orientation = "right"
)

// partyOrientations is checked in order; the first substring hit wins
var partyOrientations = []struct {
	party       string
	orientation Orientation
}{
	{"la france insoumise", OrientationLeft},
	{"parti socialiste", OrientationCenterLeft},
	{"europe ecologie", OrientationCenterLeft},
	{"renaissance", OrientationCenter},
	{"modem", OrientationCenter},
	{"agir", OrientationCenter},
	{"les republicains", OrientationCenterRight},
	{"lr", OrientationCenterRight},
	{"rassemblement national", OrientationRight},
	{"reconquete", OrientationRight},
}

// DetermineOrientation places a party label; unknown parties are center
func DetermineOrientation(party string) Orientation {
	lower := strings.ToLower(party)
	if lower == "" {
		return OrientationCenter
	}
	for _, po := range partyOrientations {
		if strings.Contains(lower, po.party) {
			return po.orientation
		}
	}
	return OrientationCenter
}

// DedupeKey identifies a politician across sources
func (p Politician) DedupeKey() string {
	key := strings.ToLower(strings.TrimSpace(p.FirstName)) + "_" + strings.ToLower(strings.TrimSpace(p.LastName))
	return strings.ReplaceAll(key, " ", "_")
}

// CleanPoliticians trims fields, fills derived values and drops duplicates
// and records without a name or position. First occurrence wins.
func CleanPoliticians(in []Politician) []Politician {
	seen := make(map[string]bool)
	var out []Politician

	for _, p := range in {
		p.Name = strings.TrimSpace(p.Name)
		p.FirstName = strings.TrimSpace(p.FirstName)
		p.LastName = strings.TrimSpace(p.LastName)
		p.Party = strings.TrimSpace(p.Party)
		if p.Name == "" {
			p.Name = strings.TrimSpace(p.FirstName + " " + p.LastName)
		}

		key := p.DedupeKey()
		if key == "_" || seen[key] || p.Name == "" || p.Position == "" {
			continue
		}
		seen[key] = true

		if p.Orientation == "" {
			p.Orientation = DetermineOrientation(p.Party)
		}
		if p.CredibilityScore == 0 {
			p.CredibilityScore = CredibilityScale.Baseline
		}
		if p.ID == "" {
			p.ID = key
		}
		out = append(out, p)
	}

	return out
}
