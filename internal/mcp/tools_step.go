package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerStepTools() {
	s.mcp.AddTool(mcp.NewTool("add_step",
		mcp.WithDescription("Append a new step to the form being edited and make it active"),
	), s.handleAddStep)

	s.mcp.AddTool(mcp.NewTool("rename_step",
		mcp.WithDescription("Rename a step"),
		mcp.WithString("stepId", mcp.Description("Step ID"), mcp.Required()),
		mcp.WithString("name", mcp.Description("New step name"), mcp.Required()),
	), s.handleRenameStep)

	s.mcp.AddTool(mcp.NewTool("remove_step",
		mcp.WithDescription("Remove a step; its fields move to the first remaining step"),
		mcp.WithString("stepId", mcp.Description("Step ID"), mcp.Required()),
	), s.handleRemoveStep)

	s.mcp.AddTool(mcp.NewTool("set_active_step",
		mcp.WithDescription("Switch which step new fields are added to"),
		mcp.WithString("stepId", mcp.Description("Step ID"), mcp.Required()),
	), s.handleSetActiveStep)
}

func (s *Server) handleAddStep(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, err := s.requireSession()
	if err != nil {
		return nil, err
	}
	step := session.AddStep()
	if err := s.saveSession(ctx); err != nil {
		return nil, err
	}
	return jsonResult(step)
}

func (s *Server) handleRenameStep(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	stepID, err := stringArg(args, "stepId")
	if err != nil {
		return nil, err
	}
	name, err := stringArg(args, "name")
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	session, err := s.requireSession()
	if err != nil {
		return nil, err
	}
	if err := session.UpdateStepName(stepID, name); err != nil {
		return nil, err
	}
	if err := s.saveSession(ctx); err != nil {
		return nil, err
	}
	return textResult(fmt.Sprintf("Step %s renamed to %q", stepID, name)), nil
}

func (s *Server) handleRemoveStep(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stepID, err := stringArg(req.GetArguments(), "stepId")
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	session, err := s.requireSession()
	if err != nil {
		return nil, err
	}
	if err := session.RemoveStep(stepID); err != nil {
		return nil, err
	}
	if err := s.saveSession(ctx); err != nil {
		return nil, err
	}
	return textResult(fmt.Sprintf("Step %s removed", stepID)), nil
}

func (s *Server) handleSetActiveStep(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stepID, err := stringArg(req.GetArguments(), "stepId")
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	session, err := s.requireSession()
	if err != nil {
		return nil, err
	}
	if err := session.SetActiveStep(stepID); err != nil {
		return nil, err
	}
	return textResult(fmt.Sprintf("Active step is now %s", stepID)), nil
}
