// Package types provides shared type definitions for the SnipMatch MCP server.
//
// This package defines the domain types used across the ranking core:
// snippets, search results, and the classified error conditions that the
// engine recovers from locally.
//
// # Core Types
//
// Snippet is the normalized shape shared by both storage backends. The
// flat JSON backend and the relational SQLite backend both load into it,
// with fragment bodies flattened once at load time:
//
//	snippet := types.Snippet{
//	    Name:    "git commit",
//	    Content: "git commit -m",
//	}
//
// SnippetMatch combines a snippet with its ranking scores:
//
//	match := types.SnippetMatch{
//	    Name:         "git commit",
//	    Rank:         1,
//	    LexicalScore: 100,
//	    ContextScore: 270,
//	}
//
// Lexical scores are in [0, 100]; context scores are unbounded above and
// dominate lexical scores when sorting.
//
// # Classified Errors
//
// The sentinel errors (ErrSourceNotFound, ErrSourceMalformed,
// ErrSourceFormatMismatch, ErrHistoryCorrupted, ErrScorerUnavailable)
// classify every recoverable failure the core can hit. Callers match them
// with errors.Is; none of them is ever allowed to abort a search.
package types
