package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/snipmatch-mcp/pkg/types"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestNew_Validation(t *testing.T) {
	_, err := New("", FormatFlat)
	assert.Error(t, err)

	_, err = New("db.json", "yaml")
	assert.Error(t, err)

	st, err := New("db.json", FormatFlat)
	require.NoError(t, err)
	assert.Equal(t, FormatFlat, st.Format())
	assert.Equal(t, "db.json", st.Path())
}

func TestDetectFormat_Flat(t *testing.T) {
	path := writeTempFile(t, "db.json", `{"snippets": []}`)
	format, err := DetectFormat(path)
	require.NoError(t, err)
	assert.Equal(t, FormatFlat, format)

	// Leading whitespace and a top-level array are still flat
	path = writeTempFile(t, "array.json", "\n\t [1, 2]")
	format, err = DetectFormat(path)
	require.NoError(t, err)
	assert.Equal(t, FormatFlat, format)
}

func TestDetectFormat_Relational(t *testing.T) {
	path := writeTempFile(t, "fake.db", "SQLite format 3\x00garbage")
	format, err := DetectFormat(path)
	require.NoError(t, err)
	assert.Equal(t, FormatRelational, format)
}

func TestDetectFormat_Errors(t *testing.T) {
	_, err := DetectFormat(filepath.Join(t.TempDir(), "missing.json"))
	assert.True(t, errors.Is(err, types.ErrSourceNotFound))

	path := writeTempFile(t, "garbage.txt", "hello world")
	_, err = DetectFormat(path)
	assert.True(t, errors.Is(err, types.ErrSourceMalformed))

	path = writeTempFile(t, "empty.json", "")
	_, err = DetectFormat(path)
	assert.True(t, errors.Is(err, types.ErrSourceMalformed))
}

func TestLoad_FormatMismatch(t *testing.T) {
	// A relational byte stream behind a flat-configured store must report
	// a mismatch, not a parse failure
	path := writeTempFile(t, "db.json", "SQLite format 3\x00garbage")
	st, err := New(path, FormatFlat)
	require.NoError(t, err)

	snippets, err := st.Load(context.Background())
	assert.Empty(t, snippets)
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrSourceFormatMismatch))
	assert.False(t, errors.Is(err, types.ErrSourceMalformed))

	// And the reverse direction
	path = writeTempFile(t, "db.sqlite", `{"snippets": []}`)
	st, err = New(path, FormatRelational)
	require.NoError(t, err)

	_, err = st.Load(context.Background())
	assert.True(t, errors.Is(err, types.ErrSourceFormatMismatch))
}

func TestLoadFlat_PlainStringContent(t *testing.T) {
	path := writeTempFile(t, "db.json", `{
		"snippets": [
			{"name": "git commit", "content": "git commit -m"},
			{"name": "git push", "content": "git push origin", "isDeleted": false}
		]
	}`)
	st, err := New(path, FormatFlat)
	require.NoError(t, err)

	snippets, err := st.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, snippets, 2)
	assert.Equal(t, "git commit", snippets[0].Name)
	assert.Equal(t, "git commit -m", snippets[0].Content)
	assert.Nil(t, snippets[0].Fragments)
}

func TestLoadFlat_FragmentContent(t *testing.T) {
	path := writeTempFile(t, "db.json", `{
		"snippets": [
			{
				"name": "docker compose",
				"content": [
					{"label": "up", "value": "docker compose up -d", "language": "shell"},
					{"label": "down", "value": "docker compose down", "language": "shell"}
				]
			},
			{
				"name": "single",
				"content": [{"label": "only", "value": "echo hi", "language": "shell"}]
			},
			{"name": "hollow", "content": []}
		]
	}`)
	st, err := New(path, FormatFlat)
	require.NoError(t, err)

	snippets, err := st.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, snippets, 3)

	// Multiple fragments flatten in stored order and keep the list
	assert.Equal(t, "docker compose up -d\ndocker compose down", snippets[0].Content)
	require.Len(t, snippets[0].Fragments, 2)
	assert.Equal(t, "up", snippets[0].Fragments[0].Label)

	// Exactly one fragment collapses to a bare string
	assert.Equal(t, "echo hi", snippets[1].Content)
	assert.Nil(t, snippets[1].Fragments)

	// Zero fragments normalize to empty content
	assert.Equal(t, "", snippets[2].Content)
	assert.Nil(t, snippets[2].Fragments)
}

func TestLoadFlat_DeletedFiltered(t *testing.T) {
	path := writeTempFile(t, "db.json", `{
		"snippets": [
			{"name": "keep", "content": "a"},
			{"name": "drop", "content": "b", "isDeleted": true}
		]
	}`)
	st, err := New(path, FormatFlat)
	require.NoError(t, err)

	snippets, err := st.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, snippets, 1)
	assert.Equal(t, "keep", snippets[0].Name)
}

func TestLoadFlat_Malformed(t *testing.T) {
	path := writeTempFile(t, "db.json", `{"snippets": [{"name": "broken"`)
	st, err := New(path, FormatFlat)
	require.NoError(t, err)

	snippets, err := st.Load(context.Background())
	assert.Empty(t, snippets)
	assert.True(t, errors.Is(err, types.ErrSourceMalformed))
}

func TestLoadFlat_BadContentShape(t *testing.T) {
	path := writeTempFile(t, "db.json", `{"snippets": [{"name": "odd", "content": 42}]}`)
	st, err := New(path, FormatFlat)
	require.NoError(t, err)

	_, err = st.Load(context.Background())
	assert.True(t, errors.Is(err, types.ErrSourceMalformed))
}

func TestLoad_MissingFile(t *testing.T) {
	st, err := New(filepath.Join(t.TempDir(), "nope.json"), FormatFlat)
	require.NoError(t, err)

	snippets, err := st.Load(context.Background())
	assert.Empty(t, snippets)
	assert.True(t, errors.Is(err, types.ErrSourceNotFound))
}
