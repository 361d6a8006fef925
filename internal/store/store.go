package store

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dshills/snipmatch-mcp/pkg/types"
)

// Format identifies a snippet source backend
type Format string

const (
	// FormatFlat is a single JSON document with a top-level snippets array
	FormatFlat Format = "flat"
	// FormatRelational is a SQLite database with snippets, folders and
	// snippet_contents tables
	FormatRelational Format = "relational"
)

// sqliteMagic is the header prefix every SQLite 3 database file starts with
var sqliteMagic = []byte("SQLite format 3\x00")

// sniffLen is how many leading bytes are inspected for format detection
const sniffLen = 64

// Store loads and normalizes snippet records from a configured source
type Store struct {
	path   string
	format Format
}

// New creates a snippet store for the given source path and format
func New(path string, format Format) (*Store, error) {
	switch format {
	case FormatFlat, FormatRelational:
	default:
		return nil, fmt.Errorf("unknown backend format %q", format)
	}
	if path == "" {
		return nil, fmt.Errorf("snippet source path is required")
	}
	return &Store{path: path, format: format}, nil
}

// Path returns the configured source path
func (s *Store) Path() string {
	return s.path
}

// Format returns the configured backend format
func (s *Store) Format() Format {
	return s.format
}

// Load reads and normalizes all non-deleted snippets from the source.
// It never panics; on any failure it returns a nil slice and one of the
// classified errors (ErrSourceNotFound, ErrSourceFormatMismatch,
// ErrSourceMalformed) for the caller to surface.
func (s *Store) Load(ctx context.Context) ([]types.Snippet, error) {
	detected, err := DetectFormat(s.path)
	if err != nil {
		return nil, err
	}
	if detected != s.format {
		return nil, fmt.Errorf("source %s is a %s-format file but backend_format is %q: %w",
			s.path, detected, s.format, types.ErrSourceFormatMismatch)
	}

	switch s.format {
	case FormatRelational:
		return loadRelational(ctx, s.path)
	default:
		return loadFlat(s.path)
	}
}

// DetectFormat classifies a source file by its leading bytes: the SQLite
// magic identifies the relational backend, a leading '{' or '[' (after
// whitespace) the flat backend. Detection happens before any parsing so a
// misconfigured backend yields a format mismatch instead of an opaque
// parse failure.
func DetectFormat(path string) (Format, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("open %s: %w", path, types.ErrSourceNotFound)
		}
		return "", fmt.Errorf("open %s: %v: %w", path, err, types.ErrSourceNotFound)
	}
	defer func() { _ = f.Close() }()

	head := make([]byte, sniffLen)
	n, err := f.Read(head)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("read %s: %v: %w", path, err, types.ErrSourceMalformed)
	}
	head = head[:n]

	if bytes.HasPrefix(head, sqliteMagic) {
		return FormatRelational, nil
	}
	for _, b := range head {
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		case '{', '[':
			return FormatFlat, nil
		default:
			return "", fmt.Errorf("unrecognized leading byte %q in %s: %w", b, path, types.ErrSourceMalformed)
		}
	}
	return "", fmt.Errorf("source %s is empty: %w", path, types.ErrSourceMalformed)
}
