package similarity

import (
	"context"
	"strings"

	"github.com/ppiankov/politikcred/internal/model"
	"github.com/ppiankov/politikcred/internal/textnorm"
)

// KeywordStrategy scores text pairs by Jaccard overlap of expanded keyword
// sets. It needs no network and never fails.
type KeywordStrategy struct {
	tables Tables
}

// NewKeywordStrategy creates a keyword strategy with the default tables
func NewKeywordStrategy() *KeywordStrategy {
	return NewKeywordStrategyWithTables(DefaultTables())
}

// NewKeywordStrategyWithTables creates a keyword strategy with custom tables
func NewKeywordStrategyWithTables(t Tables) *KeywordStrategy {
	return &KeywordStrategy{tables: t}
}

// Name returns the method recorded on matches scored by this strategy
func (k *KeywordStrategy) Name() model.Method {
	return model.MethodKeywordFallback
}

// Similarity implements Strategy
func (k *KeywordStrategy) Similarity(_ context.Context, promise, candidate string) (float64, error) {
	return k.Score(promise, candidate), nil
}

// Score compares a promise with a candidate action text. Noise is stripped
// from the candidate only, so Score(a, b) and Score(b, a) may differ.
func (k *KeywordStrategy) Score(promise, candidate string) float64 {
	cleaned := k.StripNoise(candidate)

	promiseTerms := k.Terms(promise)
	score := jaccard(k.Expand(promiseTerms), k.Expand(k.Terms(cleaned)))

	padded := textnorm.Padded(cleaned)
	for _, term := range promiseTerms {
		if strings.Contains(padded, term) {
			score += VerbatimBonus
		}
	}

	return model.Clamp01(score)
}

// JaccardCore is the expanded-set Jaccard similarity without noise stripping
// or verbatim bonus. It is symmetric.
func (k *KeywordStrategy) JaccardCore(a, b string) float64 {
	return jaccard(k.Expand(k.Terms(a)), k.Expand(k.Terms(b)))
}

// StripNoise folds text and removes procedural boilerplate such as
// amendment numbers, article references and reading-stage labels
func (k *KeywordStrategy) StripNoise(text string) string {
	folded := textnorm.Fold(text)
	for _, re := range k.tables.Noise {
		folded = re.ReplaceAllString(folded, " ")
	}
	return folded
}

// Terms folds and tokenizes text, dropping stop words and short tokens.
// Order of first occurrence is kept and duplicates are removed.
func (k *KeywordStrategy) Terms(text string) []string {
	var terms []string
	seen := make(map[string]bool)
	for _, tok := range textnorm.Tokens(textnorm.Fold(text)) {
		if textnorm.RuneLen(tok) < MinTermLength || k.tables.StopWords[tok] || seen[tok] {
			continue
		}
		seen[tok] = true
		terms = append(terms, tok)
	}
	return terms
}

// Expand returns the terms plus every expansion of each topic they trigger
func (k *KeywordStrategy) Expand(terms []string) map[string]struct{} {
	set := make(map[string]struct{}, len(terms))
	for _, term := range terms {
		set[term] = struct{}{}
		for _, group := range k.tables.Expansions {
			if !triggers(term, group.Triggers) {
				continue
			}
			for _, word := range group.Expansions {
				set[word] = struct{}{}
			}
		}
	}
	return set
}

func triggers(term string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(term, p) {
			return true
		}
	}
	return false
}

func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	inter := 0
	for w := range a {
		if _, ok := b[w]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}
