// Package mcp implements the Model Context Protocol (MCP) server for SnipMatch.
//
// The MCP server exposes three tools on stdio:
//   - search_snippets: rank the snippet corpus against a free-text query
//   - report_selection: record a user selection for contextual learning
//   - get_status: report snippet source, history and scorer status
//
// The handlers translate tool calls into the engine's two core operations
// and render responses as indented JSON. Classified engine conditions
// arrive as a "notices" array rather than protocol errors, so a malformed
// snippet database degrades the result instead of failing the call.
package mcp
