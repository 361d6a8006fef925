// Package engine wires the ranking pipeline behind the two operations the
// host layer needs: Search and ReportSelection.
//
// # Control flow
//
// Search loads and normalizes the snippet corpus, derives relevant
// historical queries, scores every snippet lexically and contextually,
// and emits an ordered, capped match list. ReportSelection increments the
// selection history out-of-band and invalidates the response cache.
//
// # Error model
//
// The engine never fails a search over a bad input file or a missing
// optional capability. Each classified condition (missing source,
// malformed source, format mismatch, corrupted history, degraded scorer)
// is recovered where it occurs and carried to the caller as a Notice in
// the response envelope, alongside an empty or degraded match list. There
// is no ambient logger inside the core.
//
// # Caching
//
// Responses are cached per normalized query in a bounded LRU with a short
// TTL. Any reported selection purges the cache, since new history can
// reorder results for every related query. Set cache_ttl_seconds to 0 to
// disable caching entirely.
package engine
