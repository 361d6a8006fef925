package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// searchSnippetsTool returns the tool definition for search_snippets
func searchSnippetsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "search_snippets",
		Description: "Rank stored snippets against a query, blending fuzzy matching with past selections",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Free-text query; an empty query lists all snippets",
				},
				"limit": map[string]interface{}{
					"type":        "number",
					"description": "Optional cap on returned matches, below the configured maximum",
				},
			},
			Required: []string{"query"},
		},
	}
}

// reportSelectionTool returns the tool definition for report_selection
func reportSelectionTool() mcp.Tool {
	return mcp.Tool{
		Name:        "report_selection",
		Description: "Record that the user selected a snippet for a query, feeding contextual ranking",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "The query the selection was made for",
				},
				"snippet_name": map[string]interface{}{
					"type":        "string",
					"description": "Name of the selected snippet",
				},
			},
			Required: []string{"query", "snippet_name"},
		},
	}
}

// getStatusTool returns the tool definition for get_status
func getStatusTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_status",
		Description: "Report snippet source, history and scorer status",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}
