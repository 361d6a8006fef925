package store

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dshills/snipmatch-mcp/pkg/types"
)

// flatDocument is the top-level shape of the flat JSON backend
type flatDocument struct {
	Snippets []flatSnippet `json:"snippets"`
}

// flatSnippet is one raw record. Content is either a plain string or an
// array of fragment objects, so it stays raw until decodeContent.
type flatSnippet struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Content     json.RawMessage `json:"content"`
	IsDeleted   bool            `json:"isDeleted"`
	IsFavorites bool            `json:"isFavorites"`
}

// loadFlat parses the flat JSON backend and normalizes every record
func loadFlat(path string) ([]types.Snippet, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("read %s: %w", path, types.ErrSourceNotFound)
		}
		return nil, fmt.Errorf("read %s: %v: %w", path, err, types.ErrSourceNotFound)
	}

	var doc flatDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %v: %w", path, err, types.ErrSourceMalformed)
	}

	snippets := make([]types.Snippet, 0, len(doc.Snippets))
	for i, rec := range doc.Snippets {
		if rec.IsDeleted {
			continue
		}
		content, fragments, err := decodeContent(rec.Content)
		if err != nil {
			return nil, fmt.Errorf("snippet %d (%q) content: %v: %w", i, rec.Name, err, types.ErrSourceMalformed)
		}
		snippets = append(snippets, types.Snippet{
			Name:        rec.Name,
			Description: rec.Description,
			Content:     content,
			Fragments:   fragments,
			IsFavorite:  rec.IsFavorites,
		})
	}
	return snippets, nil
}

// decodeContent normalizes the two raw content shapes. Zero fragments
// yield empty content, exactly one collapses to a bare string, and two or
// more keep the fragment list alongside the flattened body.
func decodeContent(raw json.RawMessage) (string, []types.Fragment, error) {
	if len(raw) == 0 {
		return "", nil, nil
	}

	var plain string
	if err := json.Unmarshal(raw, &plain); err == nil {
		return plain, nil, nil
	}

	var fragments []types.Fragment
	if err := json.Unmarshal(raw, &fragments); err != nil {
		return "", nil, err
	}

	switch len(fragments) {
	case 0:
		return "", nil, nil
	case 1:
		return fragments[0].Value, nil, nil
	default:
		return types.FlattenFragments(fragments), fragments, nil
	}
}
