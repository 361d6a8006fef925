package ranker

import (
	"context"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/dshills/snipmatch-mcp/internal/relevance"
	"github.com/dshills/snipmatch-mcp/internal/scorer"
	"github.com/dshills/snipmatch-mcp/pkg/types"
)

const (
	// DefaultFuzzyScoreThreshold is the minimum lexical score a snippet
	// needs to be admitted for a non-empty query
	DefaultFuzzyScoreThreshold = 50
	// DefaultMaxResults caps the result list
	DefaultMaxResults = 8

	// maxScore is the lexical score assigned to every snippet when the
	// query is empty, so an empty query matches everything
	maxScore = 100
)

// Config tunes a single ranking call
type Config struct {
	FuzzyScoreThreshold float64
	MaxResults          int
	ContextualLearning  bool
	// SmartSingleRatio enables the smart single result heuristic when in
	// (0, 1]. Zero or out-of-range values disable it, never error.
	SmartSingleRatio float64
}

// Match is one admitted, scored snippet
type Match struct {
	Name         string
	Content      string
	LexicalScore float64 // fused title/content similarity, [0, 100]
	ContextScore float64 // usage-history boost, >= 0
}

// Ranker fuses lexical and contextual scores into an ordered result list
type Ranker struct {
	scorer scorer.Scorer
}

// New creates a ranker using the given lexical scorer
func New(sc scorer.Scorer) *Ranker {
	return &Ranker{scorer: sc}
}

// Rank scores every snippet against the query, admits those above the
// lexical threshold (or all of them for an empty query), sorts descending
// by (context score, lexical score) and applies the smart single result
// heuristic before truncating to MaxResults. counts is the selection map
// recorded for exactly this normalized query, used only by the heuristic.
//
// Scoring has no ordering dependency between snippets, so it runs in
// parallel bounded by the CPU count.
func (r *Ranker) Rank(ctx context.Context, query string, snippets []types.Snippet,
	contexts map[string]relevance.Context, counts map[string]int, cfg Config) ([]Match, error) {

	if cfg.MaxResults <= 0 {
		cfg.MaxResults = DefaultMaxResults
	}

	nq := types.NormalizeQuery(query)

	scores := make([]float64, len(snippets))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i := range snippets {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if nq == "" {
				scores[i] = maxScore
				return nil
			}
			scores[i] = r.scorer.Score(nq, snippets[i].Name, snippets[i].Content)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	matches := make([]Match, 0, len(snippets))
	for i, s := range snippets {
		lexical := scores[i]
		if nq != "" && lexical < cfg.FuzzyScoreThreshold {
			continue
		}
		matches = append(matches, Match{
			Name:         s.Name,
			Content:      s.Content,
			LexicalScore: lexical,
			ContextScore: r.contextScore(s.Name, contexts, cfg),
		})
	}

	// Context dominates lexical: learned preference overrides raw textual
	// similarity. The sort is stable so equal-score snippets keep their
	// input order.
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].ContextScore != matches[j].ContextScore {
			return matches[i].ContextScore > matches[j].ContextScore
		}
		return matches[i].LexicalScore > matches[j].LexicalScore
	})

	if single, ok := smartSingle(matches, counts, cfg); ok {
		matches = []Match{single}
	}

	if len(matches) > cfg.MaxResults {
		matches = matches[:cfg.MaxResults]
	}
	return matches, nil
}

// contextScore is the best usage-history boost across all relevant
// historical queries whose selection map contains this snippet
func (r *Ranker) contextScore(name string, contexts map[string]relevance.Context, cfg Config) float64 {
	if !cfg.ContextualLearning || len(contexts) == 0 {
		return 0
	}
	best := 0.0
	for _, c := range contexts {
		count, ok := c.Counts[name]
		if !ok {
			continue
		}
		if candidate := float64(count) * c.Relevance * 100; candidate > best {
			best = candidate
		}
	}
	return best
}

// smartSingle collapses the result list to one match when the selection
// history for exactly this query shows a dominant, repeated preference:
// the first match in rank order whose share of all selections reaches the
// configured ratio wins the whole list.
func smartSingle(matches []Match, counts map[string]int, cfg Config) (Match, bool) {
	if !cfg.ContextualLearning || len(matches) == 0 {
		return Match{}, false
	}
	ratio := cfg.SmartSingleRatio
	if ratio <= 0 || ratio > 1 {
		return Match{}, false
	}

	total := 0
	for _, c := range counts {
		total += c
	}
	if total == 0 {
		return Match{}, false
	}

	for _, m := range matches {
		if c := counts[m.Name]; c > 0 && float64(c)/float64(total) >= ratio {
			return m, true
		}
	}
	return Match{}, false
}
