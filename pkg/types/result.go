package types

// SnippetMatch is a single ranked search result.
type SnippetMatch struct {
	Name    string `json:"name"`
	Content string `json:"content"`
	Rank    int    `json:"rank"` // Position in result set (1-based)

	// Scoring
	LexicalScore float64 `json:"lexical_score"` // Fuzzy similarity in [0, 100]
	ContextScore float64 `json:"context_score"` // Usage-history boost, >= 0

	// Contextual is true when selection history contributed to the rank.
	Contextual bool `json:"contextual"`
}

// Validate checks if the match is structurally valid
func (m *SnippetMatch) Validate() error {
	if m.Name == "" {
		return ErrEmptyName
	}

	if m.Rank < 1 {
		return ErrInvalidRank
	}

	if m.LexicalScore < 0 || m.LexicalScore > 100 {
		return ErrInvalidLexicalScore
	}

	if m.ContextScore < 0 {
		return ErrInvalidContextScore
	}

	return nil
}
