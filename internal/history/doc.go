// Package history persists the bounded mapping of past queries to
// per-snippet selection counts that feeds contextual ranking.
//
// The on-disk format is a single JSON object keyed by normalized query;
// key order in the file is insertion order, preserved across round-trips
// by the ordered map. The store rewrites the whole document on every
// update using a write-temp-then-rename so a crashed writer never leaves
// a truncated file behind.
//
// Eviction is strict FIFO by insertion order: when the configured maximum
// is exceeded the oldest-inserted queries are dropped, and re-recording an
// existing query does not refresh its position.
//
// A missing file loads as an empty history. A corrupted file is reset to
// empty on disk and reported as types.ErrHistoryCorrupted without failing
// the caller.
package history
