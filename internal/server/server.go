// Package server provides the shared MCP server shell for all four
// OceanBase servers.
package server

import (
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Transport selects how a server talks to its MCP client.
type Transport string

const (
	// TransportStdio serves a single client over stdin/stdout.
	TransportStdio Transport = "stdio"
	// TransportSSE serves clients over HTTP with server-sent events.
	TransportSSE Transport = "sse"
)

// ParseTransport validates a transport name from a flag or environment
// variable.
func ParseTransport(name string) (Transport, error) {
	switch Transport(name) {
	case TransportStdio, TransportSSE:
		return Transport(name), nil
	default:
		return "", fmt.Errorf("unknown transport %q (expected stdio or sse)", name)
	}
}

// Server wraps the MCP server with the serving loop shared by the
// OceanBase binaries.
type Server struct {
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// New creates a named MCP server.
func New(name, version string, logger *slog.Logger) *Server {
	mcpServer := server.NewMCPServer(
		name,
		version,
		server.WithResourceCapabilities(true, true),
		server.WithLogging(),
	)

	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		mcpServer: mcpServer,
		logger:    logger,
	}
}

// MCPServer returns the underlying MCP server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// AddTool is a convenience wrapper for adding tools.
func (s *Server) AddTool(tool mcp.Tool, handler server.ToolHandlerFunc) {
	s.mcpServer.AddTool(tool, handler)
}

// Serve runs the server on the chosen transport and blocks until the
// client disconnects or the listener fails. For SSE, addr is the listen
// address like "127.0.0.1:8000"; it is ignored for stdio.
func (s *Server) Serve(transport Transport, addr string) error {
	switch transport {
	case TransportSSE:
		s.logger.Info("serving MCP over SSE", "addr", addr)
		sse := server.NewSSEServer(s.mcpServer, server.WithBaseURL("http://"+addr))
		return sse.Start(addr)
	case TransportStdio:
		s.logger.Info("serving MCP over stdio")
		return server.ServeStdio(s.mcpServer)
	default:
		return fmt.Errorf("unknown transport %q", transport)
	}
}
