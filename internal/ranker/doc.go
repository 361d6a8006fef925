// Package ranker fuses lexical and contextual scores per snippet,
// filters, sorts and applies the smart single result heuristic.
//
// Admission requires the fused lexical score to reach the configured
// threshold; an empty query admits every snippet at the maximum score.
// Admitted snippets sort descending by (context score, lexical score) so
// learned preference deliberately overrides textual similarity. When the
// current query has prior history and one snippet owns at least the
// configured share of its selections, the list collapses to that single
// snippet. The final list is capped at MaxResults.
package ranker
