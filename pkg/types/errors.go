package types

import "errors"

// Domain errors for type validation
var (
	ErrEmptyName           = errors.New("snippet name cannot be empty")
	ErrInvalidRank         = errors.New("rank must be >= 1")
	ErrInvalidLexicalScore = errors.New("lexical score must be between 0 and 100")
	ErrInvalidContextScore = errors.New("context score must be >= 0")
)

// Classified failure conditions. All are recovered locally by the engine
// and surfaced as notices alongside an empty or degraded result set; none
// of them aborts a search.
var (
	// ErrSourceNotFound indicates the snippet source file does not exist.
	ErrSourceNotFound = errors.New("snippet source not found")
	// ErrSourceMalformed indicates the snippet source exists but failed to parse.
	ErrSourceMalformed = errors.New("snippet source malformed")
	// ErrSourceFormatMismatch indicates the detected on-disk format disagrees
	// with the configured backend format.
	ErrSourceFormatMismatch = errors.New("snippet source format mismatch")
	// ErrHistoryCorrupted indicates the history file failed to parse and was
	// reset to empty on disk.
	ErrHistoryCorrupted = errors.New("history file corrupted")
	// ErrScorerUnavailable indicates the fuzzy scorer could not be
	// constructed and matching degraded to substring containment.
	ErrScorerUnavailable = errors.New("fuzzy scorer unavailable")
)
