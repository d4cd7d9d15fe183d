// Package match resolves promises against a politician's recorded actions.
package match

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/ppiankov/politikcred/internal/metrics"
	"github.com/ppiankov/politikcred/internal/model"
	"github.com/ppiankov/politikcred/internal/textnorm"
	"golang.org/x/sync/errgroup"
)

// Minimum similarity per strategy. Jaccard over expanded keywords scores
// systematically lower than embedding cosine, so the floors differ.
const (
	EmbeddingMinSimilarity = 0.3
	KeywordMinSimilarity   = 0.08
)

const (
	// KeptSimilarity is the exclusive floor for a strong kept match
	KeptSimilarity = 0.7
	// PartialSimilarity is the inclusive floor for a partial match
	PartialSimilarity = 0.5
	// ContradictionMultiplier boosts confidence when polarity is inverted
	ContradictionMultiplier = 1.2
)

// Policy decides what a weak match (above the floor, below PartialSimilarity)
// resolves to. The default is optimistic: a weak match counts as kept at
// reduced confidence, and only a detected contradiction breaks a promise.
type Policy struct {
	WeakMatchType        model.MatchType
	WeakConfidenceFactor float64
}

// DefaultPolicy returns the optimistic weak-match policy
func DefaultPolicy() Policy {
	return Policy{WeakMatchType: model.MatchKept, WeakConfidenceFactor: 0.8}
}

// Config tunes the resolver
type Config struct {
	EmbeddingMinSimilarity float64
	KeywordMinSimilarity   float64
	SameCategoryOnly       bool
	Workers                int
	Policy                 Policy
}

// DefaultConfig returns the production defaults
func DefaultConfig() Config {
	return Config{
		EmbeddingMinSimilarity: EmbeddingMinSimilarity,
		KeywordMinSimilarity:   KeywordMinSimilarity,
		SameCategoryOnly:       true,
		Workers:                4,
		Policy:                 DefaultPolicy(),
	}
}

// ConfigFromModel converts the user configuration
func ConfigFromModel(c model.MatchingConfig) Config {
	cfg := DefaultConfig()
	if c.EmbeddingMinSimilarity > 0 {
		cfg.EmbeddingMinSimilarity = c.EmbeddingMinSimilarity
	}
	if c.KeywordMinSimilarity > 0 {
		cfg.KeywordMinSimilarity = c.KeywordMinSimilarity
	}
	if c.Workers > 0 {
		cfg.Workers = c.Workers
	}
	cfg.SameCategoryOnly = c.SameCategoryOnly
	switch model.MatchType(c.WeakMatchType) {
	case model.MatchKept, model.MatchPartial, model.MatchBroken:
		cfg.Policy.WeakMatchType = model.MatchType(c.WeakMatchType)
	}
	return cfg
}

// Scorer computes a pair similarity and reports the strategy used.
// *similarity.Engine implements it.
type Scorer interface {
	Similarity(ctx context.Context, promise, candidate string) (float64, model.Method)
}

// Resolver matches one promise against candidate actions
type Resolver struct {
	scorer   Scorer
	config   Config
	polarity PolarityTables
}

// NewResolver creates a resolver with the default polarity tables
func NewResolver(scorer Scorer, config Config) *Resolver {
	return NewResolverWithTables(scorer, config, DefaultPolarityTables())
}

// NewResolverWithTables creates a resolver with custom polarity tables
func NewResolverWithTables(scorer Scorer, config Config, tables PolarityTables) *Resolver {
	if config.Workers <= 0 {
		config.Workers = 1
	}
	if config.Policy.WeakMatchType == "" {
		config.Policy = DefaultPolicy()
	}
	return &Resolver{scorer: scorer, config: config, polarity: tables}
}

// MatchPromiseToActions scores every candidate action against the promise and
// returns the matches that clear the similarity floor, highest confidence
// first. Equal confidences keep the input order of actions.
func (r *Resolver) MatchPromiseToActions(ctx context.Context, promise model.PromiseCandidate, actions []model.Action) ([]model.Match, error) {
	candidates := r.filterCategory(promise, actions)
	results := make([]*model.Match, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.config.Workers)
	for i := range candidates {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = r.resolve(gctx, promise, candidates[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("match promise %s: %w", promise.ID, err)
	}

	matches := make([]model.Match, 0, len(results))
	for _, m := range results {
		if m != nil {
			matches = append(matches, *m)
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Confidence > matches[j].Confidence
	})

	for _, m := range matches {
		metrics.MatchesTotal.WithLabelValues(string(m.MatchType)).Inc()
	}
	return matches, nil
}

func (r *Resolver) filterCategory(promise model.PromiseCandidate, actions []model.Action) []model.Action {
	if !r.config.SameCategoryOnly || promise.Category == model.CategoryOther || promise.Category == "" {
		return actions
	}
	var filtered []model.Action
	for _, a := range actions {
		if a.Category == promise.Category {
			filtered = append(filtered, a)
		}
	}
	return filtered
}

// Threshold returns the similarity floor for a strategy
func (r *Resolver) Threshold(method model.Method) float64 {
	if method == model.MethodEmbedding {
		return r.config.EmbeddingMinSimilarity
	}
	return r.config.KeywordMinSimilarity
}

// resolve returns nil when the pair does not clear the floor
func (r *Resolver) resolve(ctx context.Context, promise model.PromiseCandidate, action model.Action) *model.Match {
	sim, method := r.scorer.Similarity(ctx, promise.Text, action.MatchText())
	sim = model.Clamp01(sim)
	if sim < r.Threshold(method) {
		return nil
	}

	v := r.verdict(promise, action)
	m := &model.Match{
		PromiseID:  promise.ID,
		ActionID:   action.ID,
		Similarity: sim,
		Method:     method,
	}

	switch {
	case v.contradiction != "":
		m.MatchType = model.MatchContradictory
		m.Confidence = model.Clamp01(sim * ContradictionMultiplier)
	case v.aligned:
		m.MatchType = model.MatchKept
		m.Confidence = sim
	case sim > KeptSimilarity:
		m.MatchType = model.MatchKept
		m.Confidence = sim
	case sim >= PartialSimilarity:
		m.MatchType = model.MatchPartial
		m.Confidence = sim
	default:
		m.MatchType = r.config.Policy.WeakMatchType
		m.Confidence = model.Clamp01(sim * r.config.Policy.WeakConfidenceFactor)
	}

	m.Explanation = explain(action, v, sim)
	return m
}

// verdict is the polarity reading of one promise/action pair
type verdict struct {
	vote          model.VotePosition // Effective vote after procedural inversion
	procedure     string
	contradiction string // Name of the rule that fired
	aligned       bool   // Procedural vote whose effective position agrees with the promise
}

func (r *Resolver) verdict(promise model.PromiseCandidate, action model.Action) verdict {
	actionText := textnorm.Fold(action.MatchText())

	vote := action.VotePosition
	if vote == model.VoteNone {
		vote = r.polarity.inferVote(actionText)
	}

	procedure, signalText := r.polarity.procedure(actionText)
	if procedure != "" {
		vote = vote.Invert()
	}

	v := verdict{vote: vote, procedure: procedure}
	if vote != model.VoteFor && vote != model.VoteAgainst {
		return v
	}

	polarities := r.polarity.promisePolarities(textnorm.Fold(promise.Text))
	for _, rule := range r.polarity.Rules {
		if !polarities[rule.Promise] || rule.Vote != vote {
			continue
		}
		if rule.Action != nil && !rule.Action.MatchString(signalText) {
			continue
		}
		v.contradiction = rule.Name
		return v
	}

	if procedure != "" {
		switch vote {
		case model.VoteAgainst:
			v.aligned = polarities[PolarityRestrict] || polarities[PolarityOppose]
		case model.VoteFor:
			v.aligned = polarities[PolaritySupport] || polarities[PolarityExpand]
		}
	}
	return v
}

func explain(action model.Action, v verdict, sim float64) string {
	var b strings.Builder
	name := action.Description
	if name == "" {
		name = action.BillTitle
	}
	fmt.Fprintf(&b, "Action %q", name)
	if action.VotePosition != model.VoteNone {
		fmt.Fprintf(&b, " (vote: %s)", action.VotePosition)
	}
	fmt.Fprintf(&b, " matched at %.0f%% similarity", sim*100)
	if v.procedure != "" {
		fmt.Fprintf(&b, "; %s, effective position: %s", strings.ReplaceAll(v.procedure, "_", " "), v.vote)
	}
	if v.contradiction != "" {
		fmt.Fprintf(&b, "; position contradicts the promise (%s)", strings.ReplaceAll(v.contradiction, "_", " "))
	}
	return b.String()
}
