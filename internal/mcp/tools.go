package mcp

import (
	"context"

	"github.com/bobmcallan/toolbridge/internal/common"
	"github.com/bobmcallan/toolbridge/internal/interfaces"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// RegisterTools adds every describable tool from source to an mcp-go server.
// Calls re-read source so configuration edits apply without a restart, but the
// advertised list is fixed at registration.
func RegisterTools(ctx context.Context, s *server.MCPServer, source interfaces.ToolSource, bridge *Bridge, author string, logger *common.Logger) (int, error) {
	raw, err := source.Tools(ctx)
	if err != nil {
		return 0, err
	}
	reg, err := BuildRegistry(raw, WithAuthor(author))
	if err != nil {
		return 0, err
	}

	count := 0
	for _, r := range TranslateTools(reg.Definitions()) {
		if r.Err != nil {
			logger.Warn().Str("tool", r.Name).Err(r.Err).Msg("skipping tool that cannot be described")
			continue
		}
		tool, err := r.Manifest.ToMCPTool()
		if err != nil {
			logger.Warn().Str("tool", r.Name).Err(err).Msg("skipping tool with unencodable schema")
			continue
		}
		s.AddTool(tool, ToolHandler(source, bridge, author, r.Name))
		count++
	}
	return count, nil
}

// ToolHandler returns an mcp-go handler that invokes name through bridge.
func ToolHandler(source interfaces.ToolSource, bridge *Bridge, author, name string) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		raw, err := source.Tools(ctx)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		reg, err := BuildRegistry(raw, WithAuthor(author))
		if err != nil {
			return errorResult(err.Error()), nil
		}
		args := r.GetArguments()
		if args == nil {
			args = map[string]any{}
		}
		text, err := bridge.Call(ctx, reg, name, args)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		return &mcp.CallToolResult{Content: []mcp.Content{mcp.NewTextContent(text)}}, nil
	}
}

// errorResult creates an MCP error result.
func errorResult(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(message)},
		IsError: true,
	}
}
