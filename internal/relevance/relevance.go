package relevance

import (
	"strings"

	"github.com/dshills/snipmatch-mcp/internal/history"
	"github.com/dshills/snipmatch-mcp/internal/scorer"
	"github.com/dshills/snipmatch-mcp/pkg/types"
)

// Rule weights. The rule order encodes priority: exact reuse beats being a
// refinement of a past query, which beats being a broadening of one, which
// beats mere typo-level similarity.
const (
	exactWeight      = 1.0
	refinementWeight = 0.9
	broadeningWeight = 0.8
	typoWeight       = 0.7

	// prefixMinLen is the minimum length of the shorter side before a
	// prefix rule applies
	prefixMinLen = 2
	// fuzzyMinLen is the minimum length of both sides before the fuzzy
	// rule applies
	fuzzyMinLen = 3
	// fuzzyRatioFloor is the similarity ratio the fuzzy rule must exceed
	fuzzyRatioFloor = 85
)

// Context is the relevance assessment of one historical query
type Context struct {
	Counts    map[string]int // snippet name -> selection count
	Relevance float64        // in (0, 1]
}

// Engine finds historically related queries and weights their relevance
type Engine struct {
	scorer scorer.Scorer
}

// New creates a context engine using the given scorer for the fuzzy rule
func New(sc scorer.Scorer) *Engine {
	return &Engine{scorer: sc}
}

// FindRelevant returns the historical queries related to the current one,
// each with its relevance weight. An empty normalized query returns an
// empty map. Only strictly positive relevances are retained; if a query
// were assessed more than once the highest relevance would win.
func (e *Engine) FindRelevant(query string, h *history.History) map[string]Context {
	nq := types.NormalizeQuery(query)
	relevant := make(map[string]Context)
	if nq == "" || h == nil {
		return relevant
	}

	h.Each(func(histQuery string, counts map[string]int) {
		rel := e.relevance(nq, histQuery)
		if rel <= 0 {
			return
		}
		if existing, ok := relevant[histQuery]; ok && existing.Relevance >= rel {
			return
		}
		relevant[histQuery] = Context{Counts: counts, Relevance: rel}
	})
	return relevant
}

// relevance applies the first matching rule, not a cumulative score
func (e *Engine) relevance(query, histQuery string) float64 {
	switch {
	case histQuery == query:
		return exactWeight

	// The user is refining a past query: "git" -> "git commit"
	case len(query) > prefixMinLen && strings.HasPrefix(histQuery, query):
		return float64(len(query)) / float64(len(histQuery)) * refinementWeight

	// The user is broadening a past query: "git commit" -> "git"
	case len(histQuery) > prefixMinLen && strings.HasPrefix(query, histQuery):
		return float64(len(histQuery)) / float64(len(query)) * broadeningWeight

	case len(query) > fuzzyMinLen && len(histQuery) > fuzzyMinLen:
		if ratio := e.scorer.Ratio(query, histQuery); ratio > fuzzyRatioFloor {
			return float64(ratio) / 100 * typoWeight
		}
	}
	return 0
}
