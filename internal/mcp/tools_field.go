package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"formdesk/internal/domain"
)

func (s *Server) registerFieldTools() {
	s.mcp.AddTool(mcp.NewTool("add_field",
		mcp.WithDescription("Add a field to the form being edited. Kinds: text, textarea, dropdown, checkbox, date, fileUpload"),
		mcp.WithString("kind", mcp.Description("Field kind"), mcp.Required()),
	), s.handleAddField)

	s.mcp.AddTool(mcp.NewTool("update_field",
		mcp.WithDescription("Update a field's properties. The patch is a JSON object; omitted keys stay unchanged. "+
			`Example: {"label":"Email","required":true,"validation":{"pattern":"^\\S+@\\S+\\.\\S+$"}}`),
		mcp.WithString("fieldId", mcp.Description("Field ID"), mcp.Required()),
		mcp.WithString("patch", mcp.Description("JSON patch object"), mcp.Required()),
	), s.handleUpdateField)

	s.mcp.AddTool(mcp.NewTool("remove_field",
		mcp.WithDescription("Remove a field from the form being edited"),
		mcp.WithString("fieldId", mcp.Description("Field ID"), mcp.Required()),
	), s.handleRemoveField)

	s.mcp.AddTool(mcp.NewTool("reorder_fields",
		mcp.WithDescription("Move a field from one position to another in the global field order"),
		mcp.WithNumber("fromIndex", mcp.Description("Current position"), mcp.Required()),
		mcp.WithNumber("toIndex", mcp.Description("Target position"), mcp.Required()),
	), s.handleReorderFields)

	s.mcp.AddTool(mcp.NewTool("move_field_to_step",
		mcp.WithDescription("Move a field to a different step"),
		mcp.WithString("fieldId", mcp.Description("Field ID"), mcp.Required()),
		mcp.WithString("stepId", mcp.Description("Target step ID"), mcp.Required()),
	), s.handleMoveFieldToStep)
}

func (s *Server) handleAddField(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	kindStr, err := stringArg(req.GetArguments(), "kind")
	if err != nil {
		return nil, err
	}
	kind := domain.FieldKind(kindStr)
	if !domain.KnownFieldKind(kind) {
		return nil, fmt.Errorf("unknown field kind %q", kindStr)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	session, err := s.requireSession()
	if err != nil {
		return nil, err
	}
	field := session.AddField(kind)
	if err := s.saveSession(ctx); err != nil {
		return nil, err
	}
	return jsonResult(field)
}

func (s *Server) handleUpdateField(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	fieldID, err := stringArg(args, "fieldId")
	if err != nil {
		return nil, err
	}
	patchJSON, err := stringArg(args, "patch")
	if err != nil {
		return nil, err
	}
	var patch domain.FieldPatch
	if err := parseJSON(patchJSON, &patch); err != nil {
		return nil, fmt.Errorf("invalid patch: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	session, err := s.requireSession()
	if err != nil {
		return nil, err
	}
	if err := session.UpdateField(fieldID, patch); err != nil {
		return nil, err
	}
	if err := s.saveSession(ctx); err != nil {
		return nil, err
	}
	return jsonResult(session.Document().FieldByID(fieldID))
}

func (s *Server) handleRemoveField(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	fieldID, err := stringArg(req.GetArguments(), "fieldId")
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	session, err := s.requireSession()
	if err != nil {
		return nil, err
	}
	if err := session.RemoveField(fieldID); err != nil {
		return nil, err
	}
	if err := s.saveSession(ctx); err != nil {
		return nil, err
	}
	return textResult(fmt.Sprintf("Field %s removed", fieldID)), nil
}

func (s *Server) handleReorderFields(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	from, fromOK := args["fromIndex"].(float64)
	to, toOK := args["toIndex"].(float64)
	if !fromOK || !toOK {
		return nil, fmt.Errorf("fromIndex and toIndex are required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	session, err := s.requireSession()
	if err != nil {
		return nil, err
	}
	if err := session.ReorderFields(int(from), int(to)); err != nil {
		return nil, err
	}
	if err := s.saveSession(ctx); err != nil {
		return nil, err
	}
	return textResult(fmt.Sprintf("Field moved from %d to %d", int(from), int(to))), nil
}

func (s *Server) handleMoveFieldToStep(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	fieldID, err := stringArg(args, "fieldId")
	if err != nil {
		return nil, err
	}
	stepID, err := stringArg(args, "stepId")
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	session, err := s.requireSession()
	if err != nil {
		return nil, err
	}
	if err := session.MoveFieldToStep(fieldID, stepID); err != nil {
		return nil, err
	}
	if err := s.saveSession(ctx); err != nil {
		return nil, err
	}
	return textResult(fmt.Sprintf("Field %s moved to step %s", fieldID, stepID)), nil
}
