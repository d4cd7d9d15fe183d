package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ppiankov/politikcred/internal/model"
)

type stubLister []model.Politician

func (s stubLister) Politicians(ctx context.Context) ([]model.Politician, error) {
	return s, nil
}

func TestSanitizeFilename(t *testing.T) {
	tests := map[string]string{
		"jean_dupont":    "jean_dupont",
		"jean dupont":    "jean_dupont",
		"a/b:c":          "a_b_c",
		"..":             "report",
		"  ":             "report",
		"marie|martin?":  "marie_martin_",
	}
	for in, want := range tests {
		if got := sanitizeFilename(in); got != want {
			t.Errorf("sanitizeFilename(%q): expected %q, got %q", in, want, got)
		}
	}
}

func TestResolveIDs(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "ids.txt")
	if err := os.WriteFile(file, []byte("# roster\nb\nc\n\nb\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	idsFile, runAll = file, true
	defer func() { idsFile, runAll = "", false }()

	ids, err := resolveIDs(context.Background(), []string{"a", "b"}, stubLister{{ID: "d"}, {ID: "a"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"a", "b", "c", "d"}
	if len(ids) != len(want) {
		t.Fatalf("expected %v, got %v", want, ids)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("expected ids[%d] = %s, got %s", i, want[i], ids[i])
		}
	}
}

func TestDecodeFile(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "roster.yaml")
	yamlData := "- first_name: Jean\n  last_name: Dupont\n  position: Député\n  party: Renaissance\n"
	if err := os.WriteFile(yamlPath, []byte(yamlData), 0o644); err != nil {
		t.Fatal(err)
	}
	var fromYAML []model.Politician
	if err := decodeFile(yamlPath, &fromYAML); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fromYAML) != 1 || fromYAML[0].LastName != "Dupont" {
		t.Errorf("expected Dupont, got %+v", fromYAML)
	}

	jsonPath := filepath.Join(dir, "votes.json")
	jsonData := `[{"description": "Vote sur le budget", "category": "économie", "vote_position": "pour"}]`
	if err := os.WriteFile(jsonPath, []byte(jsonData), 0o644); err != nil {
		t.Fatal(err)
	}
	var raw []rawAction
	if err := decodeFile(jsonPath, &raw); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(raw) != 1 {
		t.Fatalf("expected 1 action, got %d", len(raw))
	}

	txtPath := filepath.Join(dir, "roster.txt")
	if err := os.WriteFile(txtPath, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := decodeFile(txtPath, &raw); err == nil {
		t.Error("expected error for unsupported extension")
	}
}

func TestRawActionToAction(t *testing.T) {
	r := rawAction{Description: " Vote sur la loi climat ", VotePosition: "Contre", Category: "environmental"}

	a := r.toAction("jean_dupont")
	if a.VotePosition != model.VoteAgainst {
		t.Errorf("expected against, got %s", a.VotePosition)
	}
	if a.Category != model.CategoryEnvironmental {
		t.Errorf("expected environmental, got %s", a.Category)
	}
	if a.Description != "Vote sur la loi climat" {
		t.Errorf("expected trimmed description, got %q", a.Description)
	}
	if a.ID == "" {
		t.Fatal("expected derived id")
	}
	if again := r.toAction("jean_dupont"); again.ID != a.ID {
		t.Errorf("expected stable id, got %s and %s", a.ID, again.ID)
	}
	if other := r.toAction("marie_martin"); other.ID == a.ID {
		t.Error("expected different id for another politician")
	}

	r.ID = "scrutin-1234"
	if got := r.toAction("jean_dupont").ID; got != "scrutin-1234" {
		t.Errorf("expected given id kept, got %s", got)
	}
}
