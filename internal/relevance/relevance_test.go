package relevance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/snipmatch-mcp/internal/history"
	"github.com/dshills/snipmatch-mcp/internal/scorer"
)

func newEngine(t *testing.T) *Engine {
	t.Helper()
	sc, err := scorer.New(scorer.KindFuzzy, 50)
	require.NoError(t, err)
	return New(sc)
}

func historyOf(queries ...string) *history.History {
	h := history.NewHistory()
	for _, q := range queries {
		h.Increment(q, "snippet")
	}
	return h
}

func TestFindRelevant_EmptyQuery(t *testing.T) {
	e := newEngine(t)
	h := historyOf("git commit")

	assert.Empty(t, e.FindRelevant("", h))
	assert.Empty(t, e.FindRelevant("   ", h))
	assert.Empty(t, e.FindRelevant("git", nil))
}

func TestFindRelevant_ExactMatch(t *testing.T) {
	e := newEngine(t)
	h := historyOf("git commit")

	relevant := e.FindRelevant("  Git Commit ", h)
	require.Contains(t, relevant, "git commit")
	assert.Equal(t, 1.0, relevant["git commit"].Relevance)
	assert.Equal(t, map[string]int{"snippet": 1}, relevant["git commit"].Counts)
}

func TestFindRelevant_QueryIsPrefixOfHistory(t *testing.T) {
	e := newEngine(t)
	h := historyOf("git commit")

	// "git" refines toward "git commit": (3/10) * 0.9
	relevant := e.FindRelevant("git", h)
	require.Contains(t, relevant, "git commit")
	assert.InDelta(t, 0.27, relevant["git commit"].Relevance, 1e-9)

	// Too-short queries never trigger the refinement rule
	relevant = e.FindRelevant("gi", h)
	assert.NotContains(t, relevant, "git commit")
}

func TestFindRelevant_HistoryIsPrefixOfQuery(t *testing.T) {
	e := newEngine(t)
	h := historyOf("git")

	// "git" broadens into "git commit": (3/10) * 0.8
	relevant := e.FindRelevant("git commit", h)
	require.Contains(t, relevant, "git")
	assert.InDelta(t, 0.24, relevant["git"].Relevance, 1e-9)

	// Too-short historical queries never trigger the broadening rule
	h = historyOf("gi")
	relevant = e.FindRelevant("git commit", h)
	assert.NotContains(t, relevant, "gi")
}

func TestFindRelevant_FuzzyRule(t *testing.T) {
	e := newEngine(t)
	h := historyOf("git comit") // past typo

	// ratio("git commit", "git comit") = round(200*9/19) = 95 > 85
	relevant := e.FindRelevant("git commit", h)
	require.Contains(t, relevant, "git comit")
	assert.InDelta(t, 0.95*0.7, relevant["git comit"].Relevance, 1e-9)

	// Unrelated history stays out
	h = historyOf("docker compose")
	relevant = e.FindRelevant("git commit", h)
	assert.Empty(t, relevant)
}

func TestFindRelevant_FuzzyRuleLengthGuard(t *testing.T) {
	e := newEngine(t)

	// Both sides must exceed length 3 for the fuzzy rule:
	// ratio("cat", "caat") = 86 would pass the floor, but len("cat") == 3
	h := historyOf("caat")
	relevant := e.FindRelevant("cat", h)
	assert.Empty(t, relevant)
}

func TestFindRelevant_RulePriority(t *testing.T) {
	e := newEngine(t)

	// An exact match must not be downgraded by the prefix or fuzzy rules
	h := historyOf("git commit", "git commit -m", "git comit")
	relevant := e.FindRelevant("git commit", h)

	require.Contains(t, relevant, "git commit")
	assert.Equal(t, 1.0, relevant["git commit"].Relevance)

	// The refinement entry scores under its own rule
	require.Contains(t, relevant, "git commit -m")
	assert.InDelta(t, float64(10)/float64(13)*0.9, relevant["git commit -m"].Relevance, 1e-9)

	// And the typo entry under the fuzzy rule
	require.Contains(t, relevant, "git comit")
	assert.InDelta(t, 0.95*0.7, relevant["git comit"].Relevance, 1e-9)
}
