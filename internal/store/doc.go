// Package store loads and normalizes snippet records from either of two
// storage backends into a single in-memory shape.
//
// # Backends
//
// Flat: a JSON document with a top-level "snippets" array. Each record's
// content is a plain string or an ordered array of {label, value,
// language} fragments. Deleted records are dropped at load time.
//
// Relational: a SQLite database with snippets, folders and
// snippet_contents tables. Loading performs a LEFT JOIN grouping
// fragments per snippet in label order and reconstructs the same
// normalized shape the flat backend produces. The SQLite driver is
// selected at build time: mattn/go-sqlite3 under the cgo_sqlite tag,
// modernc.org/sqlite otherwise.
//
// # Normalization
//
// Fragment bodies are flattened once at load: values joined by newline in
// stored order. Zero fragments normalize to empty content, exactly one to
// a bare string, two or more keep the fragment list alongside the
// flattened body.
//
// # Format detection
//
// Before parsing, the first bytes of the source are inspected: the SQLite
// magic identifies the relational backend, a leading '{' or '[' the flat
// one. When the detected format disagrees with the configured one, Load
// reports types.ErrSourceFormatMismatch instead of attempting to parse.
//
//	st, _ := store.New("~/massCode/db.json", store.FormatFlat)
//	snippets, err := st.Load(ctx)
//	if errors.Is(err, types.ErrSourceFormatMismatch) {
//	    // the user pointed the flat backend at a SQLite file
//	}
package store
