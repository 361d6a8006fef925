// Package config loads and validates the SnipMatch configuration from
// TOML files and SNIPMATCH_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/snipmatch-mcp/internal/ranker"
	"github.com/dshills/snipmatch-mcp/internal/scorer"
	"github.com/dshills/snipmatch-mcp/internal/store"
)

// Defaults not owned by another package
const (
	DefaultMaxHistoryQueries = 100
	DefaultCacheTTLSeconds   = 30
)

// Config is the surface consumed by the ranking core. Values come from a
// TOML file merged over defaults, then SNIPMATCH_* environment overrides.
type Config struct {
	SnippetDBPath string `toml:"snippet_db_path"`
	BackendFormat string `toml:"backend_format"` // "flat" or "relational"
	HistoryPath   string `toml:"history_path"`

	FuzzyScoreThreshold float64 `toml:"fuzzy_score_threshold"`
	MaxResults          int     `toml:"max_results"`
	MaxHistoryQueries   int     `toml:"max_history_queries"`
	ContextualLearning  bool    `toml:"contextual_learning"`

	// SmartSingleResultRatio in (0, 1] enables the smart single result
	// heuristic; 0 disables it. Out-of-range values normalize to 0.
	SmartSingleResultRatio float64 `toml:"smart_single_result_ratio"`

	Scorer          string `toml:"scorer"` // "fuzzy" or "substring"
	CacheTTLSeconds int    `toml:"cache_ttl_seconds"`
}

// Default returns the configuration defaults
func Default() *Config {
	return &Config{
		BackendFormat:       string(store.FormatFlat),
		FuzzyScoreThreshold: ranker.DefaultFuzzyScoreThreshold,
		MaxResults:          ranker.DefaultMaxResults,
		MaxHistoryQueries:   DefaultMaxHistoryQueries,
		Scorer:              string(scorer.KindFuzzy),
		CacheTTLSeconds:     DefaultCacheTTLSeconds,
	}
}

// Load builds the effective configuration: defaults, overlaid by the TOML
// file at path when given, overlaid by environment variables. The result
// is normalized but not validated; call Validate before use.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := toml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	cfg.Normalize()
	return cfg, nil
}

// applyEnv overrides fields from SNIPMATCH_* environment variables
func (c *Config) applyEnv() {
	if v := os.Getenv("SNIPMATCH_DB_PATH"); v != "" {
		c.SnippetDBPath = v
	}
	if v := os.Getenv("SNIPMATCH_BACKEND_FORMAT"); v != "" {
		c.BackendFormat = v
	}
	if v := os.Getenv("SNIPMATCH_HISTORY_PATH"); v != "" {
		c.HistoryPath = v
	}
	if v := os.Getenv("SNIPMATCH_SCORER"); v != "" {
		c.Scorer = v
	}
	if v := os.Getenv("SNIPMATCH_CONTEXTUAL_LEARNING"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.ContextualLearning = b
		}
	}
	if v := os.Getenv("SNIPMATCH_SMART_SINGLE_RATIO"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.SmartSingleResultRatio = f
		}
	}
	if v := os.Getenv("SNIPMATCH_MAX_RESULTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxResults = n
		}
	}
}

// Normalize clamps tunables to usable values. An out-of-range smart ratio
// disables the heuristic rather than erroring.
func (c *Config) Normalize() {
	if c.SmartSingleResultRatio < 0 || c.SmartSingleResultRatio > 1 {
		c.SmartSingleResultRatio = 0
	}
	if c.FuzzyScoreThreshold < 0 {
		c.FuzzyScoreThreshold = ranker.DefaultFuzzyScoreThreshold
	}
	if c.MaxResults <= 0 {
		c.MaxResults = ranker.DefaultMaxResults
	}
	if c.MaxHistoryQueries <= 0 {
		c.MaxHistoryQueries = DefaultMaxHistoryQueries
	}
	if c.CacheTTLSeconds < 0 {
		c.CacheTTLSeconds = DefaultCacheTTLSeconds
	}
	if c.Scorer == "" {
		c.Scorer = string(scorer.KindFuzzy)
	}
	c.SnippetDBPath = expandHome(c.SnippetDBPath)
	c.HistoryPath = expandHome(c.HistoryPath)
	if c.HistoryPath == "" {
		if home, err := os.UserHomeDir(); err == nil {
			c.HistoryPath = filepath.Join(home, ".snipmatch", "context_history.json")
		}
	}
}

// Validate rejects configurations the engine cannot run with
func (c *Config) Validate() error {
	if c.SnippetDBPath == "" {
		return fmt.Errorf("snippet_db_path is required")
	}
	switch store.Format(c.BackendFormat) {
	case store.FormatFlat, store.FormatRelational:
	default:
		return fmt.Errorf("backend_format must be %q or %q, got %q",
			store.FormatFlat, store.FormatRelational, c.BackendFormat)
	}
	if c.HistoryPath == "" {
		return fmt.Errorf("history_path is required")
	}
	return nil
}

// expandHome resolves a leading ~/ against the current user's home
func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(strings.TrimPrefix(path, "~"), "/"))
	}
	return path
}
