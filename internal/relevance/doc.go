// Package relevance finds historical queries related to the current one
// and assigns each a weight in (0, 1].
//
// Four rules are tried in order, first match wins: exact reuse of a past
// query (1.0), the current query being a prefix of a past query (scaled
// 0.9), a past query being a prefix of the current one (scaled 0.8), and
// typo-level fuzzy similarity above 85 (scaled 0.7). The resulting
// contexts carry the past selection counts used for context scoring.
package relevance
