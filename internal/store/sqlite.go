package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dshills/snipmatch-mcp/pkg/types"
)

// relationalQuery joins snippets with their folder and content fragments.
// Fragments are grouped per snippet in label order; deleted snippets are
// filtered at the source.
const relationalQuery = `
	SELECT s.id, s.name, COALESCE(s.description, ''), COALESCE(f.name, ''),
	       COALESCE(s.isFavorites, 0),
	       c.label, c.value, c.language
	FROM snippets s
	LEFT JOIN folders f ON f.id = s.folderId
	LEFT JOIN snippet_contents c ON c.snippetId = s.id
	WHERE s.isDeleted = 0
	ORDER BY s.id, c.label
`

// loadRelational reads the SQLite backend and reconstructs the same
// normalized snippet shape the flat backend produces.
func loadRelational(ctx context.Context, path string) ([]types.Snippet, error) {
	db, err := sql.Open(DriverName, readOnlyDSN(path))
	if err != nil {
		return nil, fmt.Errorf("open %s: %v: %w", path, err, types.ErrSourceMalformed)
	}
	defer func() { _ = db.Close() }()

	// The source is read-only for the ranking core
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	rows, err := db.QueryContext(ctx, relationalQuery)
	if err != nil {
		return nil, fmt.Errorf("query snippets in %s: %v: %w", path, err, types.ErrSourceMalformed)
	}
	defer func() { _ = rows.Close() }()

	type joinedRow struct {
		id          int64
		name        string
		description string
		folder      string
		favorite    int64
	}

	var snippets []types.Snippet
	var cur joinedRow
	var fragments []types.Fragment
	started := false

	flush := func() {
		snippets = append(snippets, normalizeRelational(cur.name, cur.description, cur.folder, cur.favorite != 0, fragments))
		fragments = nil
	}

	for rows.Next() {
		var row joinedRow
		var label, value, language sql.NullString
		if err := rows.Scan(&row.id, &row.name, &row.description, &row.folder,
			&row.favorite, &label, &value, &language); err != nil {
			return nil, fmt.Errorf("scan snippet row in %s: %v: %w", path, err, types.ErrSourceMalformed)
		}

		if started && row.id != cur.id {
			flush()
		}
		cur = row
		started = true

		// A snippet without fragments still produces one LEFT JOIN row
		// with NULL fragment columns
		if value.Valid {
			fragments = append(fragments, types.Fragment{
				Label:    label.String,
				Value:    value.String,
				Language: language.String,
			})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snippets in %s: %v: %w", path, err, types.ErrSourceMalformed)
	}
	if started {
		flush()
	}

	if snippets == nil {
		snippets = []types.Snippet{}
	}
	return snippets, nil
}

// normalizeRelational applies the fragment shape rules: zero fragments is
// empty content, one fragment collapses to a bare string, two or more keep
// the fragment list alongside the flattened body.
func normalizeRelational(name, description, folder string, favorite bool, fragments []types.Fragment) types.Snippet {
	s := types.Snippet{
		Name:        name,
		Description: description,
		Folder:      folder,
		IsFavorite:  favorite,
	}
	switch len(fragments) {
	case 0:
	case 1:
		s.Content = fragments[0].Value
	default:
		s.Content = types.FlattenFragments(fragments)
		s.Fragments = fragments
	}
	return s
}

// readOnlyDSN builds a read-only connection string understood by both
// SQLite drivers
func readOnlyDSN(path string) string {
	return "file:" + path + "?mode=ro"
}
