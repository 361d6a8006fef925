// Package scorer implements lexical similarity scoring between a query
// and snippet text.
//
// Two strategies exist, selected once at construction:
//
//   - Fuzzy (default): a partial-ratio alignment. The shorter of the two
//     strings is compared against every contiguous window of the longer
//     one and the best LCS-based ratio wins. Title and content scores are
//     fused as 0.7*title + 0.3*content.
//   - Substring: a degraded containment check that returns a fixed score
//     just above the admission threshold. Selected when the fuzzy scorer
//     cannot be constructed, and reported via types.ErrScorerUnavailable.
//
// All scores are in [0, 100] and comparisons are case-insensitive.
//
//	sc, err := scorer.New(scorer.KindFuzzy, 50)
//	if err != nil {
//	    // degraded to substring matching, still usable
//	}
//	score := sc.Score("git co", "git commit", "git commit -m")
package scorer
