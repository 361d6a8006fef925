package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// MCP error codes
const (
	ErrorCodeInvalidParams = -32602 // Invalid method parameters
	ErrorCodeInternalError = -32603 // Internal JSON-RPC error
)

// handleSearchSnippets handles the search_snippets tool invocation
func (s *Server) handleSearchSnippets(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	// An empty query is valid and lists everything, so only the key's
	// presence and type are checked
	query, ok := args["query"].(string)
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "query parameter is required", map[string]interface{}{
			"param":  "query",
			"reason": "missing or not a string",
		})
	}

	resp, err := s.engine.Search(ctx, query)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "search failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// JSON numbers decode as float64
	if limit, ok := args["limit"].(float64); ok && limit > 0 && int(limit) < len(resp.Matches) {
		resp.Matches = resp.Matches[:int(limit)]
	}

	response := map[string]interface{}{
		"matches":     resp.Matches,
		"total":       len(resp.Matches),
		"approximate": resp.Approximate,
		"duration_ms": resp.Duration.Milliseconds(),
	}
	if len(resp.Notices) > 0 {
		response["notices"] = resp.Notices
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleReportSelection handles the report_selection tool invocation
func (s *Server) handleReportSelection(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	query, ok := args["query"].(string)
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "query parameter is required", map[string]interface{}{
			"param":  "query",
			"reason": "missing or not a string",
		})
	}
	snippetName, ok := args["snippet_name"].(string)
	if !ok || snippetName == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "snippet_name parameter is required", map[string]interface{}{
			"param":  "snippet_name",
			"reason": "missing or empty",
		})
	}

	response := map[string]interface{}{"recorded": true}
	if err := s.engine.ReportSelection(ctx, query, snippetName); err != nil {
		// Classified history conditions are recoverable: the selection
		// was persisted on a reset history
		response["notice"] = err.Error()
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleGetStatus handles the get_status tool invocation
func (s *Server) handleGetStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status := s.engine.Status(ctx)

	response := map[string]interface{}{
		"backend_format":      status.BackendFormat,
		"snippet_path":        status.SnippetPath,
		"snippet_count":       status.SnippetCount,
		"history_path":        status.HistoryPath,
		"history_queries":     status.HistoryQueries,
		"scorer":              status.ScorerKind,
		"contextual_learning": status.ContextualLearning,
		"build_mode":          status.BuildMode,
	}
	if len(status.Notices) > 0 {
		response["notices"] = status.Notices
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// Helper functions

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// formatJSON formats a map as indented JSON
func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}
