package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/server"

	"github.com/dshills/snipmatch-mcp/internal/config"
	"github.com/dshills/snipmatch-mcp/internal/engine"
)

const (
	// ServerName is the MCP server name
	ServerName = "snipmatch-mcp"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
)

// Server wraps the MCP server with the ranking engine
type Server struct {
	mcp    *server.MCPServer
	engine *engine.Engine
}

// NewServer creates a new MCP server instance from a loaded configuration
func NewServer(cfg *config.Config) (*Server, error) {
	eng, err := engine.New(cfg)
	if err != nil {
		return nil, err
	}

	mcpServer := server.NewMCPServer(
		ServerName,
		ServerVersion,
	)

	s := &Server{
		mcp:    mcpServer,
		engine: eng,
	}

	s.registerTools()
	return s, nil
}

// Serve starts the MCP server on stdio and blocks until shutdown
func (s *Server) Serve(ctx context.Context) error {
	return server.ServeStdio(s.mcp)
}

// registerTools registers all MCP tools
func (s *Server) registerTools() {
	s.mcp.AddTool(searchSnippetsTool(), s.handleSearchSnippets)
	s.mcp.AddTool(reportSelectionTool(), s.handleReportSelection)
	s.mcp.AddTool(getStatusTool(), s.handleGetStatus)
}
