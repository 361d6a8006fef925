package types

import "strings"

// Fragment is one labeled sub-block of a multi-part snippet body.
type Fragment struct {
	Label    string `json:"label"`
	Value    string `json:"value"`
	Language string `json:"language"`
}

// Snippet is the normalized in-memory shape shared by both storage
// backends. Content is always the flattened body: fragment values joined
// by newline in stored order. Fragments is populated only when the source
// carried two or more fragments; a single fragment collapses to a bare
// Content string and zero fragments to an empty one, matching the flat
// file shape.
type Snippet struct {
	Name        string
	Description string
	Folder      string
	Content     string
	Fragments   []Fragment
	IsFavorite  bool
}

// FlattenFragments joins fragment values with newlines in their stored
// order. The empty slice flattens to the empty string.
func FlattenFragments(fragments []Fragment) string {
	if len(fragments) == 0 {
		return ""
	}
	values := make([]string, len(fragments))
	for i, f := range fragments {
		values[i] = f.Value
	}
	return strings.Join(values, "\n")
}

// NormalizeQuery lower-cases a query and trims surrounding whitespace.
// History keys and all query comparisons use this form.
func NormalizeQuery(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}
