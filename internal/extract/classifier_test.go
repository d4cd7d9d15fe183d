package extract

import (
	"strings"
	"testing"

	"github.com/ppiankov/politikcred/internal/model"
)

func TestClassifier_DetectPromise_Tiers(t *testing.T) {
	c := NewClassifier()

	tests := []struct {
		name       string
		sentence   string
		isPromise  bool
		confidence float64
	}{
		{"strong french", "Je m'engage à réduire les impôts de 5 milliards d'euros d'ici 2027.", true, 0.9},
		{"strong english", "We promise to build ten new hospitals.", true, 0.9},
		{"medium french", "Nous devons investir dans les écoles rurales.", true, 0.6},
		{"medium english", "My proposal is a national housing plan.", true, 0.6},
		{"hedged french", "Si je suis élu, peut-être que je réduirai les impôts.", false, 0.2},
		{"elided hedge", "S'il le faut, je m'engage à baisser les impôts.", false, 0.2},
		{"elided hedge plural", "S’ils le demandent, nous promettons une réforme.", false, 0.2},
		{"hedged english", "Maybe I will lower taxes.", false, 0.2},
		{"plain", "La séance est ouverte à quinze heures.", false, 0.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isPromise, confidence := c.DetectPromise(tt.sentence)
			if isPromise != tt.isPromise {
				t.Errorf("expected isPromise=%v, got %v", tt.isPromise, isPromise)
			}
			if confidence != tt.confidence {
				t.Errorf("expected confidence %.1f, got %.1f", tt.confidence, confidence)
			}
		})
	}
}

func TestClassifier_DetectPromise_AntiPatternOverridesCommitment(t *testing.T) {
	c := NewClassifier()

	hedges := []string{"si", "peut-être", "envisager", "j'aimerais", "if", "maybe", "consider", "I would like"}
	commitments := []string{"je m'engage à", "nous promettons de", "I will", "we promise to", "nous devons"}

	for _, hedge := range hedges {
		for _, commitment := range commitments {
			sentence := commitment + " agir, " + hedge + " la majorité le permet."
			if isPromise, confidence := c.DetectPromise(sentence); isPromise || confidence != AntiPatternConfidence {
				t.Errorf("%q: expected hedged non-promise, got (%v, %.1f)", sentence, isPromise, confidence)
			}
		}
	}
}

func TestClassifier_TaxScenario(t *testing.T) {
	c := NewClassifier()
	sentence := "Je m'engage à réduire les impôts de 5 milliards d'euros d'ici 2027."

	promises := c.ExtractPromises(sentence, model.SourceReference{URL: "https://example.fr/discours"})
	if len(promises) != 1 {
		t.Fatalf("expected 1 promise, got %d", len(promises))
	}

	p := promises[0]
	if p.Confidence != 0.9 {
		t.Errorf("expected confidence 0.9, got %.2f", p.Confidence)
	}
	if p.Category != model.CategoryEconomic {
		t.Errorf("expected economic category, got %s", p.Category)
	}
	if !p.IsActionable {
		t.Error("expected promise to be actionable")
	}
	if p.Status != model.PromisePending {
		t.Errorf("expected pending status, got %s", p.Status)
	}
	if p.ID == "" {
		t.Error("expected a derived promise id")
	}
}

func TestClassifier_IsActionable(t *testing.T) {
	c := NewClassifier()

	tests := map[string]bool{
		"Je voterai contre cette réforme.":             true,
		"Nous allons supprimer la taxe d'habitation.":  true,
		"Le budget de la défense atteindra 2% du PIB.": true,
		"La France sera neutre en carbone en 2050.":    true,
		"We will increase teacher salaries.":           true,
		"Je veux une France plus juste et plus forte.": false,
		"Nous défendrons toujours nos valeurs.":        false,
	}

	for sentence, expected := range tests {
		if got := c.IsActionable(sentence); got != expected {
			t.Errorf("%q: expected actionable=%v, got %v", sentence, expected, got)
		}
	}
}

func TestClassifier_Categorize(t *testing.T) {
	c := NewClassifier()

	tests := map[string]model.Category{
		"Baisser les impôts et la TVA":                          model.CategoryEconomic,
		"Fermer les centrales à charbon pour le climat":         model.CategoryEnvironmental,
		"Recruter dix mille policiers et gendarmes":             model.CategorySecurity,
		"Rouvrir les hôpitaux de proximité":                     model.CategoryHealthcare,
		"Revaloriser le salaire des professeurs des écoles":     model.CategoryEducation,
		"Construire quinze mille places de prison":              model.CategoryJustice,
		"Réduire l'immigration et contrôler les frontières":     model.CategoryImmigration,
		"Renforcer notre soutien à l'Ukraine au sein de l'OTAN": model.CategoryForeignPolicy,
		"Il fait beau aujourd'hui":                              model.CategoryOther,
	}

	for sentence, expected := range tests {
		if got := c.Categorize(sentence); got != expected {
			t.Errorf("%q: expected %s, got %s", sentence, expected, got)
		}
	}
}

func TestClassifier_Categorize_TieBreaksByEnumerationOrder(t *testing.T) {
	c := NewClassifier()

	// One economic hit ("impôts") and one healthcare hit ("hôpital")
	if got := c.Categorize("Les impôts financeront l'hôpital"); got != model.CategoryEconomic {
		t.Errorf("expected economic to win the tie, got %s", got)
	}
}

func TestClassifier_ExtractKeywords(t *testing.T) {
	c := NewClassifier()

	keywords := c.ExtractKeywords("Réduire les impôts, réduire la dette, et réduire les dépenses publiques.")
	if len(keywords) == 0 {
		t.Fatal("expected keywords")
	}
	if keywords[0] != "réduire" {
		t.Errorf("expected most frequent keyword first, got %q", keywords[0])
	}
	// Ties keep first occurrence order
	expected := []string{"réduire", "impôts", "dette", "dépenses", "publiques"}
	if strings.Join(keywords, ",") != strings.Join(expected, ",") {
		t.Errorf("expected %v, got %v", expected, keywords)
	}
}

func TestClassifier_ExtractKeywords_Limit(t *testing.T) {
	c := NewClassifier()

	keywords := c.ExtractKeywords("alpha bravo charlie delta echos foxtrot golfe hotel india juliett kilos limas")
	if len(keywords) != MaxKeywords {
		t.Errorf("expected %d keywords, got %d", MaxKeywords, len(keywords))
	}
}

func TestClassifier_ExtractPromises_FiltersShortAndHedged(t *testing.T) {
	c := NewClassifier()

	text := `Je vais agir. Je m'engage à créer cent mille logements sociaux.
Si les finances le permettent, nous promettons une baisse de la TVA.
Nous devons protéger les retraites des Français ! La séance est levée.`

	promises := c.ExtractPromises(text, model.SourceReference{})
	if len(promises) != 2 {
		t.Fatalf("expected 2 promises, got %d: %+v", len(promises), promises)
	}
	if !strings.Contains(promises[0].Text, "logements") {
		t.Errorf("unexpected first promise: %q", promises[0].Text)
	}
	if promises[1].Confidence != MediumConfidence {
		t.Errorf("expected medium confidence for second promise, got %.1f", promises[1].Confidence)
	}
	if promises[1].Source.Sentence != 3 {
		t.Errorf("expected sentence index 3, got %d", promises[1].Source.Sentence)
	}
}

func TestClassifier_ExtractPromises_EmptyInput(t *testing.T) {
	c := NewClassifier()

	for _, text := range []string{"", "   ", "...", "!!!???"} {
		if promises := c.ExtractPromises(text, model.SourceReference{}); len(promises) != 0 {
			t.Errorf("%q: expected no promises, got %d", text, len(promises))
		}
	}
}

func TestClassifier_ExtractPromises_Dedupe(t *testing.T) {
	c := NewClassifier()

	text := "Je m'engage à baisser les impôts. Je m'engage à baisser les impôts."
	if promises := c.ExtractPromises(text, model.SourceReference{}); len(promises) != 1 {
		t.Errorf("expected duplicates to collapse, got %d", len(promises))
	}
}

func TestClassifier_ExtractPromisesFromHTML(t *testing.T) {
	c := NewClassifier()

	page := `<html><head><script>var x = "Je m'engage à tout.";</script></head>
	<body>
		<p>Je m'engage à supprimer la redevance audiovisuelle avant 2026.</p>
		<p>Merci à toutes et à tous.</p>
	</body></html>`

	promises, err := c.ExtractPromisesFromHTML(page, model.SourceReference{URL: "https://example.fr"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(promises) != 1 {
		t.Fatalf("expected 1 promise, got %d", len(promises))
	}
	if strings.Contains(promises[0].Text, "var x") {
		t.Error("expected script content to be skipped")
	}
}

func TestSplitSentences_KeepsDecimals(t *testing.T) {
	sentences := splitSentences("Le taux passera à 5.5 points. Ensuite nous verrons")
	if len(sentences) != 2 {
		t.Fatalf("expected 2 sentences, got %d: %v", len(sentences), sentences)
	}
}

func TestPromiseID_Stable(t *testing.T) {
	a := PromiseID("https://example.fr", "Je m'engage à agir.")
	b := PromiseID("https://example.fr", "  je m'engage à agir. ")
	if a != b {
		t.Errorf("expected stable ids, got %s and %s", a, b)
	}
	if a == PromiseID("https://other.fr", "Je m'engage à agir.") {
		t.Error("expected different sources to yield different ids")
	}
}
