package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerFormTools() {
	s.mcp.AddTool(mcp.NewTool("list_forms",
		mcp.WithDescription("List all saved forms with their field counts"),
	), s.handleListForms)

	s.mcp.AddTool(mcp.NewTool("create_form",
		mcp.WithDescription("Create a new empty form and open it for editing"),
		mcp.WithString("name", mcp.Description("Form name (optional, defaults to Untitled Form)")),
	), s.handleCreateForm)

	s.mcp.AddTool(mcp.NewTool("open_form",
		mcp.WithDescription("Open an existing form for editing"),
		mcp.WithString("formId", mcp.Description("Form ID"), mcp.Required()),
	), s.handleOpenForm)

	s.mcp.AddTool(mcp.NewTool("get_form",
		mcp.WithDescription("Get the full document of the form being edited"),
	), s.handleGetForm)

	s.mcp.AddTool(mcp.NewTool("set_form_name",
		mcp.WithDescription("Rename the form being edited"),
		mcp.WithString("name", mcp.Description("New form name"), mcp.Required()),
	), s.handleSetFormName)

	s.mcp.AddTool(mcp.NewTool("clear_form",
		mcp.WithDescription("Remove every field and step from the form being edited"),
	), s.handleClearForm)

	s.mcp.AddTool(mcp.NewTool("delete_form",
		mcp.WithDescription("Delete a saved form and all its submissions"),
		mcp.WithString("formId", mcp.Description("Form ID"), mcp.Required()),
	), s.handleDeleteForm)

	s.mcp.AddTool(mcp.NewTool("share_form",
		mcp.WithDescription("Get a share link encoding the form, importable on another machine"),
		mcp.WithString("formId", mcp.Description("Form ID"), mcp.Required()),
	), s.handleShareForm)

	s.mcp.AddTool(mcp.NewTool("import_share_link",
		mcp.WithDescription("Import a share link as a new form"),
		mcp.WithString("link", mcp.Description("Share link string"), mcp.Required()),
	), s.handleImportShareLink)

	s.mcp.AddTool(mcp.NewTool("list_responses",
		mcp.WithDescription("List stored submissions for a form"),
		mcp.WithString("formId", mcp.Description("Form ID"), mcp.Required()),
	), s.handleListResponses)
}

func (s *Server) handleListForms(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	forms, err := s.forms.ListForms()
	if err != nil {
		return nil, err
	}
	return jsonResult(forms)
}

func (s *Server) handleCreateForm(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, _ := req.GetArguments()["name"].(string)

	s.mu.Lock()
	defer s.mu.Unlock()
	id, session, err := s.forms.CreateForm(ctx, name, "")
	if err != nil {
		return nil, fmt.Errorf("create form: %w", err)
	}
	s.session = session
	s.activeFormID = id
	s.emitFormsChanged(ctx, id)
	return textResult(fmt.Sprintf("Created form %s, now open for editing", id)), nil
}

func (s *Server) handleOpenForm(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	formID, err := stringArg(req.GetArguments(), "formId")
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	session, err := s.forms.OpenForm(formID, "")
	if err != nil {
		return nil, fmt.Errorf("open form: %w", err)
	}
	s.session = session
	s.activeFormID = formID
	return jsonResult(session.Document())
}

func (s *Server) handleGetForm(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, err := s.requireSession()
	if err != nil {
		return nil, err
	}
	return jsonResult(session.Document())
}

func (s *Server) handleSetFormName(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := stringArg(req.GetArguments(), "name")
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	session, err := s.requireSession()
	if err != nil {
		return nil, err
	}
	session.SetFormName(name)
	if err := s.saveSession(ctx); err != nil {
		return nil, err
	}
	return textResult(fmt.Sprintf("Form renamed to %q", name)), nil
}

func (s *Server) handleClearForm(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, err := s.requireSession()
	if err != nil {
		return nil, err
	}
	session.ClearForm()
	if err := s.saveSession(ctx); err != nil {
		return nil, err
	}
	return textResult("Form cleared"), nil
}

func (s *Server) handleDeleteForm(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	formID, err := stringArg(req.GetArguments(), "formId")
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.forms.DeleteForm(ctx, formID); err != nil {
		return nil, fmt.Errorf("delete form: %w", err)
	}
	if s.activeFormID == formID {
		s.session = nil
		s.activeFormID = ""
	}
	s.emitFormsChanged(ctx, formID)
	return textResult(fmt.Sprintf("Form %s deleted", formID)), nil
}

func (s *Server) handleShareForm(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	formID, err := stringArg(req.GetArguments(), "formId")
	if err != nil {
		return nil, err
	}
	link, err := s.forms.ShareLink(formID)
	if err != nil {
		return nil, fmt.Errorf("share form: %w", err)
	}
	return textResult(link), nil
}

func (s *Server) handleImportShareLink(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	link, err := stringArg(req.GetArguments(), "link")
	if err != nil {
		return nil, err
	}
	id, err := s.forms.ImportShareLink(ctx, link)
	if err != nil {
		return nil, fmt.Errorf("import share link: %w", err)
	}
	s.emitFormsChanged(ctx, id)
	return textResult(fmt.Sprintf("Imported as form %s", id)), nil
}

func (s *Server) handleListResponses(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	formID, err := stringArg(req.GetArguments(), "formId")
	if err != nil {
		return nil, err
	}
	subs, err := s.submissions.ListResponses(formID)
	if err != nil {
		return nil, err
	}
	return jsonResult(subs)
}
