package score

import (
	"fmt"
	"strings"

	"github.com/ppiankov/politikcred/internal/model"
)

// judgmentTerms may never appear in a ledger description. Descriptions
// state what was recorded, not what the politician is.
var judgmentTerms = []string{
	"lie", "lied", "lies", "liar", "lying", "dishonest", "fraud",
	"menteur", "menteuse", "mensonge", "mentir", "a menti", "malhonnete", "escroc",
}

var descriptions = map[model.Status]string{
	model.StatusKept:       "Promise honored: recorded action matches the commitment",
	model.StatusBroken:     "Promise not honored: recorded action runs counter to the commitment",
	model.StatusPartial:    "Promise partially honored: recorded action covers part of the commitment",
	model.StatusInProgress: "Promise in progress: related action recorded, outcome not yet final",
	model.StatusPending:    "Promise pending: no qualifying action recorded yet",
}

// Describe returns the fact-only ledger description for a status
func Describe(status model.Status, confidence float64) string {
	base, ok := descriptions[status]
	if !ok {
		base = descriptions[model.StatusPending]
	}
	return fmt.Sprintf("%s (match confidence %.0f%%)", base, model.Clamp01(confidence)*100)
}

// ContainsJudgment reports whether text uses character-judgment vocabulary
func ContainsJudgment(text string) bool {
	words := " " + strings.Join(strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return r == ' ' || r == ',' || r == '.' || r == ':' || r == ';' || r == '(' || r == ')' || r == '!' || r == '?'
	}), " ") + " "
	for _, term := range judgmentTerms {
		if strings.Contains(words, " "+term+" ") {
			return true
		}
	}
	return false
}
