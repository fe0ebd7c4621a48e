package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerHistoryTools() {
	s.mcp.AddTool(mcp.NewTool("undo",
		mcp.WithDescription("Undo the last structural change to the form being edited"),
	), s.handleUndo)

	s.mcp.AddTool(mcp.NewTool("redo",
		mcp.WithDescription("Re-apply the last undone change"),
	), s.handleRedo)
}

func (s *Server) handleUndo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, err := s.requireSession()
	if err != nil {
		return nil, err
	}
	if !session.Undo() {
		return textResult("Nothing to undo"), nil
	}
	if err := s.saveSession(ctx); err != nil {
		return nil, err
	}
	return jsonResult(session.Document())
}

func (s *Server) handleRedo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, err := s.requireSession()
	if err != nil {
		return nil, err
	}
	if !session.Redo() {
		return textResult("Nothing to redo"), nil
	}
	if err := s.saveSession(ctx); err != nil {
		return nil, err
	}
	return jsonResult(session.Document())
}
