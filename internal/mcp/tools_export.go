package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerExportTools() {
	s.mcp.AddTool(mcp.NewTool("list_export_targets",
		mcp.WithDescription("List configured submission export targets"),
	), s.handleListExportTargets)

	s.mcp.AddTool(mcp.NewTool("run_export",
		mcp.WithDescription("Push a form's submissions to its export target's database now"),
		mcp.WithString("targetId", mcp.Description("Export target ID"), mcp.Required()),
	), s.handleRunExport)
}

func (s *Server) handleListExportTargets(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	targets, err := s.exports.ListTargets()
	if err != nil {
		return nil, err
	}
	return jsonResult(targets)
}

func (s *Server) handleRunExport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	targetID, err := stringArg(req.GetArguments(), "targetId")
	if err != nil {
		return nil, err
	}
	result, err := s.exports.RunExport(ctx, targetID)
	if err != nil {
		return nil, fmt.Errorf("run export: %w", err)
	}
	return textResult(fmt.Sprintf("Exported %d submission(s) to table %s", result.Exported, result.Table)), nil
}
