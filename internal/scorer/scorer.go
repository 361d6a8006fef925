package scorer

import (
	"fmt"
	"math"
	"strings"

	"github.com/hbollon/go-edlib"

	"github.com/dshills/snipmatch-mcp/pkg/types"
)

// Kind selects the scoring strategy
type Kind string

const (
	// KindFuzzy is the precise partial-ratio scorer backed by go-edlib
	KindFuzzy Kind = "fuzzy"
	// KindSubstring is the degraded containment scorer
	KindSubstring Kind = "substring"
)

// Weights for fusing title and content similarity
const (
	titleWeight   = 0.7
	contentWeight = 0.3
)

// Scorer computes lexical similarity between a query and snippet text.
// The strategy is fixed at construction; there is no per-call fallback.
type Scorer interface {
	// Score returns the fused title/content similarity in [0, 100].
	// Scoring an empty query is the caller's concern: ranking treats an
	// empty query as matching everything and never calls Score for it.
	Score(query, title, body string) float64

	// Ratio returns the whole-string similarity ratio in [0, 100],
	// case-insensitive and symmetric. Used for historical query matching.
	Ratio(a, b string) int

	// Kind reports which strategy this scorer implements.
	Kind() Kind
}

// New constructs the scorer for the requested kind. An unknown kind
// degrades to the substring strategy and reports a wrapped
// ErrScorerUnavailable so the caller can signal that approximate matching
// is in effect; the returned scorer is always usable.
func New(kind Kind, threshold float64) (Scorer, error) {
	switch kind {
	case KindFuzzy, "":
		return &fuzzyScorer{}, nil
	case KindSubstring:
		return &substringScorer{threshold: threshold}, nil
	default:
		return &substringScorer{threshold: threshold},
			fmt.Errorf("unknown scorer kind %q: %w", kind, types.ErrScorerUnavailable)
	}
}

// fuzzyScorer scores with a partial-ratio alignment: the shorter string is
// slid across every contiguous window of the longer one and the best
// LCS-based edit-similarity ratio wins.
type fuzzyScorer struct{}

func (f *fuzzyScorer) Kind() Kind { return KindFuzzy }

func (f *fuzzyScorer) Score(query, title, body string) float64 {
	titleScore := float64(partialRatio(query, title))
	contentScore := 0.0
	if body != "" {
		contentScore = float64(partialRatio(query, body))
	}
	return titleWeight*titleScore + contentWeight*contentScore
}

func (f *fuzzyScorer) Ratio(a, b string) int {
	return fullRatio([]rune(strings.ToLower(a)), []rune(strings.ToLower(b)))
}

// fullRatio is the symmetric whole-string ratio: 2*LCS/(len(a)+len(b))*100,
// rounded. Either side empty scores 0.
func fullRatio(a, b []rune) int {
	la, lb := len(a), len(b)
	if la == 0 || lb == 0 {
		return 0
	}
	lcs := edlib.LCS(string(a), string(b))
	return int(math.Round(200 * float64(lcs) / float64(la+lb)))
}

// partialRatio aligns the shorter string against all contiguous rune
// windows of the longer string and returns the best fullRatio.
func partialRatio(a, b string) int {
	ra := []rune(strings.ToLower(a))
	rb := []rune(strings.ToLower(b))
	if len(ra) == 0 || len(rb) == 0 {
		return 0
	}

	shorter, longer := ra, rb
	if len(rb) < len(ra) {
		shorter, longer = rb, ra
	}

	window := len(shorter)
	best := 0
	for i := 0; i+window <= len(longer); i++ {
		r := fullRatio(shorter, longer[i:i+window])
		if r > best {
			best = r
			if best == 100 {
				break
			}
		}
	}
	return best
}

// substringScorer is the degraded strategy used when the fuzzy scorer is
// unavailable or explicitly configured away. Containment earns a fixed
// score just above the admission threshold so matches still surface;
// everything else scores 0.
type substringScorer struct {
	threshold float64
}

func (s *substringScorer) Kind() Kind { return KindSubstring }

func (s *substringScorer) Score(query, title, body string) float64 {
	q := strings.ToLower(query)
	if strings.Contains(strings.ToLower(title), q) {
		return s.threshold + 1
	}
	if body != "" && strings.Contains(strings.ToLower(body), q) {
		return s.threshold + 1
	}
	return 0
}

// Ratio only recognizes equality, so typo-level historical matches never
// fire under the degraded strategy.
func (s *substringScorer) Ratio(a, b string) int {
	if strings.EqualFold(a, b) {
		return 100
	}
	return 0
}
