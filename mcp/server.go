// Package mcp exposes a vtsclient.Client as a stdio MCP server, so an LLM
// agent can query VTube Studio model/hotkey/parameter state and trigger
// actions without bespoke glue code.
package mcp

import (
	"encoding/json"
	"log/slog"

	mcpsdk "github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/walfie/vts-plugin-go/internal/obslog"
	"github.com/walfie/vts-plugin-go/vtsclient"
)

const serverName = "vts-plugin-go"
const serverVersion = "1.0.0"

// Server wraps a vtsclient.Client and a *mcpserver.MCPServer with the tool
// set registered in tools.go.
type Server struct {
	client *vtsclient.Client
	mcp    *mcpserver.MCPServer
	log    *slog.Logger
}

// NewServer builds a Server backed by client. log may be nil.
func NewServer(client *vtsclient.Client, log *slog.Logger) *Server {
	if log == nil {
		log = obslog.Discard()
	}

	s := &Server{
		client: client,
		mcp:    mcpserver.NewMCPServer(serverName, serverVersion, mcpserver.WithToolCapabilities(true)),
		log:    log,
	}
	s.registerTools()
	return s
}

// Run serves tool calls over stdio until the process's stdin is closed.
func (s *Server) Run() error {
	return mcpserver.ServeStdio(s.mcp)
}

func jsonResult(v any) (*mcpsdk.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return internalError(err), nil
	}
	return mcpsdk.NewToolResultText(string(data)), nil
}
