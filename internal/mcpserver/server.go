// Package mcpserver exposes the backend command surface as MCP tools over
// stdio, so agent tooling can drive the same commands as the GUI shell.
package mcpserver

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/dagaz/internal/commands"
)

// Server wraps the MCP server with every registered backend command.
type Server struct {
	mcp *server.MCPServer
	reg *commands.Registry
}

// New creates an MCP server with one tool per registry command. The tool
// arguments mirror the command's named string arguments.
func New(reg *commands.Registry) *Server {
	s := &Server{reg: reg}

	s.mcp = server.NewMCPServer(
		"Dagaz",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	for _, cmd := range reg.All() {
		opts := []mcp.ToolOption{mcp.WithDescription(cmd.Description)}
		for _, arg := range cmd.Args {
			propOpts := []mcp.PropertyOption{mcp.Description(arg.Description)}
			if arg.Required {
				propOpts = append(propOpts, mcp.Required())
			}
			opts = append(opts, mcp.WithString(arg.Name, propOpts...))
		}
		s.mcp.AddTool(mcp.NewTool(cmd.Name, opts...), s.invokeHandler(cmd))
	}

	return s
}

// invokeHandler adapts one command into an MCP tool handler. Command
// failures become tool error results carrying the plain message string.
func (s *Server) invokeHandler(cmd commands.Command) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := make(map[string]string, len(cmd.Args))
		for _, arg := range cmd.Args {
			if arg.Required {
				v, err := req.RequireString(arg.Name)
				if err != nil {
					return mcp.NewToolResultError(err.Error()), nil
				}
				args[arg.Name] = v
				continue
			}
			args[arg.Name] = req.GetString(arg.Name, "")
		}

		result, err := s.reg.Invoke(ctx, cmd.Name, args)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if text, ok := result.(string); ok {
			return mcp.NewToolResultText(text), nil
		}
		out, _ := json.MarshalIndent(result, "", "  ")
		return mcp.NewToolResultText(string(out)), nil
	}
}

// ServeStdio runs the MCP server on stdin/stdout until the peer disconnects.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}
