package engine

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/dshills/snipmatch-mcp/internal/config"
	"github.com/dshills/snipmatch-mcp/internal/history"
	"github.com/dshills/snipmatch-mcp/internal/ranker"
	"github.com/dshills/snipmatch-mcp/internal/relevance"
	"github.com/dshills/snipmatch-mcp/internal/scorer"
	"github.com/dshills/snipmatch-mcp/internal/store"
	"github.com/dshills/snipmatch-mcp/pkg/types"
)

// Notice kinds, one per classified condition
const (
	NoticeSourceNotFound       = "source_not_found"
	NoticeSourceMalformed      = "source_malformed"
	NoticeSourceFormatMismatch = "source_format_mismatch"
	NoticeHistoryCorrupted     = "history_corrupted"
	NoticeScorerDegraded       = "scorer_degraded"
	NoticeInternal             = "internal"
)

// cacheSize bounds the query response cache
const cacheSize = 256

// Notice is one recovered, classified condition. Conditions travel in the
// response envelope instead of through an ambient logger.
type Notice struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// SearchResponse is the result envelope for one query
type SearchResponse struct {
	Matches  []types.SnippetMatch `json:"matches"`
	Notices  []Notice             `json:"notices,omitempty"`
	Duration time.Duration        `json:"-"`
	CacheHit bool                 `json:"-"`

	// Approximate is true when the degraded substring scorer is in effect
	Approximate bool `json:"approximate,omitempty"`
}

// Status summarizes the engine's view of its data sources
type Status struct {
	BackendFormat      string   `json:"backend_format"`
	SnippetPath        string   `json:"snippet_path"`
	SnippetCount       int      `json:"snippet_count"`
	HistoryPath        string   `json:"history_path"`
	HistoryQueries     int      `json:"history_queries"`
	ScorerKind         string   `json:"scorer"`
	ContextualLearning bool     `json:"contextual_learning"`
	BuildMode          string   `json:"build_mode"`
	Notices            []Notice `json:"notices,omitempty"`
}

// cacheEntry is a cached search response with its expiration time
type cacheEntry struct {
	response  *SearchResponse
	expiresAt time.Time
}

// Engine wires the ranking pipeline behind the two inbound operations:
// Search and ReportSelection.
type Engine struct {
	cfg       *config.Config
	snippets  *store.Store
	history   *history.Store
	scorer    scorer.Scorer
	relevance *relevance.Engine
	ranker    *ranker.Ranker

	// startupNotices are conditions resolved once at construction, such
	// as scorer degradation, replayed into every response
	startupNotices []Notice

	cache    *lru.Cache[[32]byte, *cacheEntry]
	cacheTTL time.Duration
}

// New builds an engine from a validated configuration
func New(cfg *config.Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	st, err := store.New(cfg.SnippetDBPath, store.Format(cfg.BackendFormat))
	if err != nil {
		return nil, err
	}

	var startup []Notice
	sc, err := scorer.New(scorer.Kind(cfg.Scorer), cfg.FuzzyScoreThreshold)
	if err != nil {
		// Degraded but usable: matching falls back to substring
		// containment and every response says so
		startup = append(startup, Notice{Kind: NoticeScorerDegraded, Message: err.Error()})
	}

	cache, err := lru.New[[32]byte, *cacheEntry](cacheSize)
	if err != nil {
		// Only possible with an invalid size constant
		panic(fmt.Sprintf("failed to create LRU cache: %v", err))
	}

	return &Engine{
		cfg:            cfg,
		snippets:       st,
		history:        history.NewStore(cfg.HistoryPath, cfg.MaxHistoryQueries),
		scorer:         sc,
		relevance:      relevance.New(sc),
		ranker:         ranker.New(sc),
		startupNotices: startup,
		cache:          cache,
		cacheTTL:       time.Duration(cfg.CacheTTLSeconds) * time.Second,
	}, nil
}

// Search ranks the snippet corpus against the query. Every classified
// failure (missing or malformed source, format mismatch, corrupted
// history) is recovered locally and reported as a notice alongside an
// empty or degraded match list; the error return is reserved for
// cancellation and programming errors.
func (e *Engine) Search(ctx context.Context, query string) (*SearchResponse, error) {
	start := time.Now()
	nq := types.NormalizeQuery(query)

	if resp, ok := e.checkCache(nq); ok {
		resp.CacheHit = true
		resp.Duration = time.Since(start)
		return resp, nil
	}

	resp := &SearchResponse{
		Matches:     []types.SnippetMatch{},
		Approximate: e.scorer.Kind() == scorer.KindSubstring,
	}
	resp.Notices = append(resp.Notices, e.startupNotices...)

	snippets, err := e.snippets.Load(ctx)
	if err != nil {
		resp.Notices = append(resp.Notices, classify(err))
		resp.Duration = time.Since(start)
		return resp, nil
	}

	var contexts map[string]relevance.Context
	var counts map[string]int
	if e.cfg.ContextualLearning {
		h, herr := e.history.Load()
		if herr != nil {
			resp.Notices = append(resp.Notices, classify(herr))
		}
		contexts = e.relevance.FindRelevant(nq, h)
		counts = h.Counts(nq)
	}

	ranked, err := e.ranker.Rank(ctx, nq, snippets, contexts, counts, ranker.Config{
		FuzzyScoreThreshold: e.cfg.FuzzyScoreThreshold,
		MaxResults:          e.cfg.MaxResults,
		ContextualLearning:  e.cfg.ContextualLearning,
		SmartSingleRatio:    e.cfg.SmartSingleResultRatio,
	})
	if err != nil {
		return nil, err
	}

	resp.Matches = toSnippetMatches(ranked)
	resp.Duration = time.Since(start)
	e.storeInCache(nq, resp)
	return resp, nil
}

// ReportSelection records that the user picked a snippet for a query.
// A no-op when contextual learning is disabled or either input normalizes
// to empty. The returned error is classified when the history file was
// corrupted and reset; the selection itself is still persisted.
func (e *Engine) ReportSelection(ctx context.Context, query, snippetName string) error {
	if !e.cfg.ContextualLearning {
		return nil
	}
	err := e.history.Record(query, snippetName)

	// A recorded selection changes ranking inputs for every query that
	// considers this one relevant; drop all cached responses
	e.cache.Purge()
	return err
}

// Status reports the engine's view of its data sources, recovering
// classified conditions into notices
func (e *Engine) Status(ctx context.Context) *Status {
	st := &Status{
		BackendFormat:      string(e.snippets.Format()),
		SnippetPath:        e.snippets.Path(),
		HistoryPath:        e.history.Path(),
		ScorerKind:         string(e.scorer.Kind()),
		ContextualLearning: e.cfg.ContextualLearning,
		BuildMode:          store.BuildMode,
	}
	st.Notices = append(st.Notices, e.startupNotices...)

	snippets, err := e.snippets.Load(ctx)
	if err != nil {
		st.Notices = append(st.Notices, classify(err))
	}
	st.SnippetCount = len(snippets)

	h, err := e.history.Load()
	if err != nil {
		st.Notices = append(st.Notices, classify(err))
	}
	st.HistoryQueries = h.Len()

	return st
}

// classify maps a classified error to its notice kind
func classify(err error) Notice {
	kind := NoticeInternal
	switch {
	case errors.Is(err, types.ErrSourceNotFound):
		kind = NoticeSourceNotFound
	case errors.Is(err, types.ErrSourceFormatMismatch):
		kind = NoticeSourceFormatMismatch
	case errors.Is(err, types.ErrSourceMalformed):
		kind = NoticeSourceMalformed
	case errors.Is(err, types.ErrHistoryCorrupted):
		kind = NoticeHistoryCorrupted
	case errors.Is(err, types.ErrScorerUnavailable):
		kind = NoticeScorerDegraded
	}
	return Notice{Kind: kind, Message: err.Error()}
}

// toSnippetMatches converts ranked matches to the public result shape
func toSnippetMatches(ranked []ranker.Match) []types.SnippetMatch {
	matches := make([]types.SnippetMatch, len(ranked))
	for i, m := range ranked {
		matches[i] = types.SnippetMatch{
			Name:         m.Name,
			Content:      m.Content,
			Rank:         i + 1,
			LexicalScore: m.LexicalScore,
			ContextScore: m.ContextScore,
			Contextual:   m.ContextScore > 0,
		}
	}
	return matches
}

// cacheKey hashes the normalized query; all other ranking inputs are
// fixed for the lifetime of the engine or invalidated on change
func cacheKey(query string) [32]byte {
	return sha256.Sum256([]byte(query))
}

// checkCache returns a copy of a fresh cached response
func (e *Engine) checkCache(query string) (*SearchResponse, bool) {
	if e.cacheTTL <= 0 {
		return nil, false
	}
	key := cacheKey(query)
	entry, found := e.cache.Get(key)
	if !found {
		return nil, false
	}
	if time.Now().After(entry.expiresAt) {
		e.cache.Remove(key)
		return nil, false
	}
	return copyResponse(entry.response), true
}

// storeInCache saves a copy of the response under the query hash
func (e *Engine) storeInCache(query string, resp *SearchResponse) {
	if e.cacheTTL <= 0 {
		return
	}
	e.cache.Add(cacheKey(query), &cacheEntry{
		response:  copyResponse(resp),
		expiresAt: time.Now().Add(e.cacheTTL),
	})
}

// copyResponse deep-copies a response so cached entries cannot be
// mutated by callers
func copyResponse(src *SearchResponse) *SearchResponse {
	dst := &SearchResponse{
		Duration:    src.Duration,
		CacheHit:    src.CacheHit,
		Approximate: src.Approximate,
		Matches:     make([]types.SnippetMatch, len(src.Matches)),
	}
	copy(dst.Matches, src.Matches)
	if len(src.Notices) > 0 {
		dst.Notices = make([]Notice, len(src.Notices))
		copy(dst.Notices, src.Notices)
	}
	return dst
}
