package extract

import (
	"regexp"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/ppiankov/politikcred/internal/model"
	"github.com/ppiankov/politikcred/internal/textnorm"
)

var (
	// Amounts such as "5 milliards", "10 %", "300 €", "2.5 billion"
	amountPattern = regexp.MustCompile(`(?i)\d[\d\s.,]*\s*(%|€|\$|£|euros?\b|milliards?\b|millions?\b|billions?\b|dollars?\b|percent\b|pour\s?cent\b|points?\b)`)
	// Deadline years written as four digits
	yearPattern = regexp.MustCompile(`\b(20[2-9]\d)\b`)

	// promiseNamespace seeds deterministic promise ids
	promiseNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("politikcred:promise"))
)

// Classifier detects and classifies promise statements in free text
type Classifier struct {
	anti       []string
	strong     []string
	medium     []string
	votes      []string
	verbWords  map[string]bool
	verbPrefix []string
	categories map[model.Category][]string
	stopWords  map[string]bool
}

// NewClassifier creates a classifier over the default tables
func NewClassifier() *Classifier {
	return NewClassifierWithTables(DefaultTables())
}

// NewClassifierWithTables creates a classifier over custom tables
func NewClassifierWithTables(t Tables) *Classifier {
	c := &Classifier{
		anti:       foldAll(t.AntiPatterns),
		strong:     foldAll(t.StrongPhrases),
		medium:     foldAll(t.MediumPhrases),
		votes:      foldAll(t.VotePhrases),
		verbWords:  make(map[string]bool),
		verbPrefix: foldAll(t.ChangeVerbPrefix),
		categories: make(map[model.Category][]string),
		stopWords:  make(map[string]bool),
	}
	for _, w := range t.ChangeVerbWords {
		c.verbWords[textnorm.Fold(w)] = true
	}
	for cat, keywords := range t.CategoryKeywords {
		c.categories[cat] = foldAll(keywords)
	}
	for _, w := range t.StopWords {
		c.stopWords[strings.ToLower(w)] = true
	}
	return c
}

// DetectPromise applies the rule tiers in order: hedging overrides
// everything, then strong commitments, then medium ones.
func (c *Classifier) DetectPromise(sentence string) (bool, float64) {
	padded := textnorm.Padded(sentence)

	if containsAny(padded, c.anti) {
		return false, AntiPatternConfidence
	}
	if containsAny(padded, c.strong) {
		return true, StrongConfidence
	}
	if containsAny(padded, c.medium) {
		return true, MediumConfidence
	}
	return false, NoMatchConfidence
}

// IsActionable reports whether a sentence names something a vote could
// check: a vote direction, a change verb, an amount or a deadline year.
func (c *Classifier) IsActionable(sentence string) bool {
	padded := textnorm.Padded(sentence)
	if containsAny(padded, c.votes) {
		return true
	}

	for _, token := range textnorm.Tokens(textnorm.Fold(sentence)) {
		if c.verbWords[token] {
			return true
		}
		for _, prefix := range c.verbPrefix {
			if strings.HasPrefix(token, prefix) {
				return true
			}
		}
	}

	return amountPattern.MatchString(sentence) || yearPattern.MatchString(sentence)
}

// Categorize returns the category with the most keyword hits. Ties go to
// the category listed first in model.Categories; no hits yields other.
func (c *Classifier) Categorize(sentence string) model.Category {
	padded := textnorm.Padded(sentence)
	tokens := textnorm.Tokens(textnorm.Fold(sentence))

	best := model.CategoryOther
	bestScore := 0
	for _, cat := range model.Categories {
		score := 0
		for _, keyword := range c.categories[cat] {
			if strings.ContainsAny(keyword, " '") {
				if strings.Contains(padded, " "+keyword+" ") {
					score++
				}
				continue
			}
			for _, token := range tokens {
				if strings.HasPrefix(token, keyword) {
					score++
				}
			}
		}
		if score > bestScore {
			best = cat
			bestScore = score
		}
	}

	return best
}

// ExtractKeywords returns up to MaxKeywords distinct tokens, most frequent
// first, ties broken by first occurrence.
func (c *Classifier) ExtractKeywords(sentence string) []string {
	counts := make(map[string]int)
	var order []string

	for _, token := range textnorm.Tokens(strings.ToLower(sentence)) {
		if textnorm.RuneLen(token) < MinKeywordLength || c.stopWords[token] {
			continue
		}
		if counts[token] == 0 {
			order = append(order, token)
		}
		counts[token]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	if len(order) > MaxKeywords {
		order = order[:MaxKeywords]
	}
	return order
}

// ExtractPromises splits text into sentences and keeps the ones that read
// as commitments. Empty or malformed input yields no candidates.
func (c *Classifier) ExtractPromises(text string, source model.SourceReference) []model.PromiseCandidate {
	var promises []model.PromiseCandidate

	for i, sentence := range splitSentences(text) {
		if textnorm.RuneLen(sentence) < MinSentenceLength {
			continue
		}

		isPromise, confidence := c.DetectPromise(sentence)
		if !isPromise || confidence <= MinPromiseConfidence {
			continue
		}

		src := source
		src.Sentence = i
		promises = append(promises, model.PromiseCandidate{
			ID:           PromiseID(source.URL, sentence),
			Text:         sentence,
			Confidence:   confidence,
			Category:     c.Categorize(sentence),
			IsActionable: c.IsActionable(sentence),
			Keywords:     c.ExtractKeywords(sentence),
			Source:       src,
			Status:       model.PromisePending,
			Importance:   model.ImportanceMedium,
		})
	}

	return dedupePromises(promises)
}

// PromiseID derives a stable id from the source and the sentence so that
// re-extracting the same page does not create new promises.
func PromiseID(sourceURL, sentence string) string {
	key := sourceURL + "\x00" + strings.ToLower(strings.TrimSpace(sentence))
	return uuid.NewSHA1(promiseNamespace, []byte(key)).String()
}

// splitSentences splits text on sentence terminators followed by space
func splitSentences(text string) []string {
	text = strings.ReplaceAll(text, "\r", " ")
	text = strings.ReplaceAll(text, "\n", " ")

	var sentences []string
	var current strings.Builder

	flush := func() {
		sentence := strings.TrimSpace(current.String())
		if sentence != "" {
			sentences = append(sentences, sentence)
		}
		current.Reset()
	}

	for i, r := range text {
		current.WriteRune(r)

		if r == '.' || r == '!' || r == '?' || r == '…' {
			// Look ahead so "5.5" or "art. L.123" stays inside one sentence
			next := i + len(string(r))
			if next >= len(text) || text[next] == ' ' || text[next] == '\t' {
				flush()
			}
		}
	}
	flush()

	return sentences
}

// dedupePromises removes repeated sentences, keeping the first
func dedupePromises(promises []model.PromiseCandidate) []model.PromiseCandidate {
	seen := make(map[string]bool)
	var unique []model.PromiseCandidate

	for _, p := range promises {
		key := strings.ToLower(strings.TrimSpace(p.Text))
		if !seen[key] {
			seen[key] = true
			unique = append(unique, p)
		}
	}

	return unique
}

func foldAll(phrases []string) []string {
	out := make([]string, 0, len(phrases))
	for _, p := range phrases {
		out = append(out, strings.TrimSpace(textnorm.Padded(p)))
	}
	return out
}

// containsAny checks folded phrases against a padded sentence
func containsAny(padded string, phrases []string) bool {
	for _, p := range phrases {
		if p != "" && strings.Contains(padded, " "+p+" ") {
			return true
		}
	}
	return false
}
