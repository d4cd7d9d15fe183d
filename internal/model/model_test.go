package model

import (
	"math"
	"testing"
)

func TestCleanPoliticians(t *testing.T) {
	in := []Politician{
		{FirstName: " Jean ", LastName: "Dupont", Position: "Député", Party: "Renaissance"},
		{FirstName: "jean", LastName: "dupont", Position: "Sénateur"}, // Duplicate key
		{FirstName: "Marie", LastName: "Martin"},                      // No position
		{Name: "Anne Le Pen", FirstName: "Anne", LastName: "Le Pen", Position: "Députée", Party: "Rassemblement National", CredibilityScore: 120},
		{Position: "Maire"}, // No name
	}

	out := CleanPoliticians(in)
	if len(out) != 2 {
		t.Fatalf("expected 2 politicians, got %d: %+v", len(out), out)
	}

	jean := out[0]
	if jean.Name != "Jean Dupont" {
		t.Errorf("expected name Jean Dupont, got %q", jean.Name)
	}
	if jean.ID != "jean_dupont" {
		t.Errorf("expected id jean_dupont, got %q", jean.ID)
	}
	if jean.Orientation != OrientationCenter {
		t.Errorf("expected center, got %s", jean.Orientation)
	}
	if jean.CredibilityScore != 100 {
		t.Errorf("expected baseline 100, got %.2f", jean.CredibilityScore)
	}
	if jean.Position != "Député" {
		t.Errorf("expected first occurrence to win, got %s", jean.Position)
	}

	anne := out[1]
	if anne.ID != "anne_le_pen" {
		t.Errorf("expected id anne_le_pen, got %q", anne.ID)
	}
	if anne.Orientation != OrientationRight {
		t.Errorf("expected right, got %s", anne.Orientation)
	}
	if anne.CredibilityScore != 120 {
		t.Errorf("expected existing score kept, got %.2f", anne.CredibilityScore)
	}
}

func TestDetermineOrientation(t *testing.T) {
	tests := []struct {
		party string
		want  Orientation
	}{
		{"La France Insoumise", OrientationLeft},
		{"Parti Socialiste", OrientationCenterLeft},
		{"Renaissance", OrientationCenter},
		{"Les Republicains", OrientationCenterRight},
		{"Reconquete", OrientationRight},
		{"", OrientationCenter},
		{"Parti Pirate", OrientationCenter},
	}

	for _, tt := range tests {
		if got := DetermineOrientation(tt.party); got != tt.want {
			t.Errorf("DetermineOrientation(%q): expected %s, got %s", tt.party, tt.want, got)
		}
	}
}

func TestDedupeKey(t *testing.T) {
	p := Politician{FirstName: "Jean Pierre", LastName: " De La Tour "}
	if got := p.DedupeKey(); got != "jean_pierre_de_la_tour" {
		t.Errorf("expected jean_pierre_de_la_tour, got %s", got)
	}
}

func TestClampAndRound(t *testing.T) {
	if got := Clamp01(1.4); got != 1 {
		t.Errorf("expected 1, got %f", got)
	}
	if got := Clamp01(-0.2); got != 0 {
		t.Errorf("expected 0, got %f", got)
	}
	if got := Clamp01(math.NaN()); got != 0 {
		t.Errorf("expected NaN to clamp to 0, got %f", got)
	}
	if got := CredibilityScale.Clamp(250); got != 200 {
		t.Errorf("expected 200, got %f", got)
	}
	if got := Round2(-5.625); got != -5.63 {
		t.Errorf("expected -5.63, got %f", got)
	}
	if got := Round2(2.375); got != 2.38 {
		t.Errorf("expected 2.38, got %f", got)
	}
}

func TestParseVotePosition(t *testing.T) {
	tests := map[string]VotePosition{
		"Pour":       VoteFor,
		"contre":     VoteAgainst,
		" yes ":      VoteFor,
		"Abstention": VoteAbstain,
		"non-votant": VoteAbsent,
		"":           VoteNone,
		"peut-être":  VoteNone,
	}
	for in, want := range tests {
		if got := ParseVotePosition(in); got != want {
			t.Errorf("ParseVotePosition(%q): expected %q, got %q", in, want, got)
		}
	}

	if VoteFor.Invert() != VoteAgainst || VoteAgainst.Invert() != VoteFor {
		t.Error("expected for and against to swap")
	}
	if VoteAbstain.Invert() != VoteAbstain {
		t.Error("expected abstain unchanged")
	}
}

func TestParseCategory(t *testing.T) {
	if got := ParseCategory(" Healthcare "); got != CategoryHealthcare {
		t.Errorf("expected healthcare, got %s", got)
	}
	if got := ParseCategory("astrologie"); got != CategoryOther {
		t.Errorf("expected other, got %s", got)
	}
}

func TestActionMatchText(t *testing.T) {
	a := Action{Description: "Vote sur le budget"}
	if a.MatchText() != "Vote sur le budget" {
		t.Errorf("expected description only, got %q", a.MatchText())
	}
	a.BillTitle = "Loi de finances 2025"
	if a.MatchText() != "Vote sur le budget Loi de finances 2025" {
		t.Errorf("expected description and title, got %q", a.MatchText())
	}
}

func TestStatusFromMatch(t *testing.T) {
	tests := map[MatchType]Status{
		MatchKept:          StatusKept,
		MatchPartial:       StatusPartial,
		MatchContradictory: StatusBroken,
	}
	for mt, want := range tests {
		if got := StatusFromMatch(mt); got != want {
			t.Errorf("StatusFromMatch(%s): expected %s, got %s", mt, want, got)
		}
	}
}
