package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "flat", cfg.BackendFormat)
	assert.Equal(t, 50.0, cfg.FuzzyScoreThreshold)
	assert.Equal(t, 8, cfg.MaxResults)
	assert.Equal(t, 100, cfg.MaxHistoryQueries)
	assert.False(t, cfg.ContextualLearning)
	assert.Equal(t, 0.0, cfg.SmartSingleResultRatio, "smart single result defaults to disabled")
	assert.Equal(t, "fuzzy", cfg.Scorer)
}

func TestLoad_TOMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snipmatch.toml")
	content := `
snippet_db_path = "/data/db.json"
backend_format = "relational"
history_path = "/data/history.json"
fuzzy_score_threshold = 60
max_results = 4
contextual_learning = true
smart_single_result_ratio = 0.75
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/data/db.json", cfg.SnippetDBPath)
	assert.Equal(t, "relational", cfg.BackendFormat)
	assert.Equal(t, "/data/history.json", cfg.HistoryPath)
	assert.Equal(t, 60.0, cfg.FuzzyScoreThreshold)
	assert.Equal(t, 4, cfg.MaxResults)
	assert.True(t, cfg.ContextualLearning)
	assert.Equal(t, 0.75, cfg.SmartSingleResultRatio)
	require.NoError(t, cfg.Validate())
}

func TestLoad_MissingFileErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestLoad_MalformedTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("snippet_db_path = [unclosed"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SNIPMATCH_DB_PATH", "/env/db.json")
	t.Setenv("SNIPMATCH_BACKEND_FORMAT", "relational")
	t.Setenv("SNIPMATCH_CONTEXTUAL_LEARNING", "true")
	t.Setenv("SNIPMATCH_SMART_SINGLE_RATIO", "0.5")
	t.Setenv("SNIPMATCH_MAX_RESULTS", "3")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/env/db.json", cfg.SnippetDBPath)
	assert.Equal(t, "relational", cfg.BackendFormat)
	assert.True(t, cfg.ContextualLearning)
	assert.Equal(t, 0.5, cfg.SmartSingleResultRatio)
	assert.Equal(t, 3, cfg.MaxResults)
}

func TestNormalize_OutOfRangeSmartRatioDisables(t *testing.T) {
	cfg := Default()
	cfg.SmartSingleResultRatio = 1.5
	cfg.Normalize()
	assert.Equal(t, 0.0, cfg.SmartSingleResultRatio)

	cfg.SmartSingleResultRatio = -0.1
	cfg.Normalize()
	assert.Equal(t, 0.0, cfg.SmartSingleResultRatio)

	// Exactly 1 is valid
	cfg.SmartSingleResultRatio = 1.0
	cfg.Normalize()
	assert.Equal(t, 1.0, cfg.SmartSingleResultRatio)
}

func TestNormalize_DefaultsForBadTunables(t *testing.T) {
	cfg := Default()
	cfg.MaxResults = -1
	cfg.MaxHistoryQueries = 0
	cfg.FuzzyScoreThreshold = -5
	cfg.Normalize()
	assert.Equal(t, 8, cfg.MaxResults)
	assert.Equal(t, 100, cfg.MaxHistoryQueries)
	assert.Equal(t, 50.0, cfg.FuzzyScoreThreshold)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.HistoryPath = "/tmp/history.json"
	assert.Error(t, cfg.Validate(), "missing snippet db path")

	cfg.SnippetDBPath = "/data/db.json"
	assert.NoError(t, cfg.Validate())

	cfg.BackendFormat = "csv"
	assert.Error(t, cfg.Validate())
}
