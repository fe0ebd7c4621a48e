package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"formdesk/internal/editor"
	"formdesk/internal/service"
)

// EventEmitter mirrors service.EventEmitter so the MCP server can notify
// the frontend about agent-driven changes.
type EventEmitter interface {
	Emit(ctx context.Context, event string, data any)
}

// Server is the MCP server for the form builder.
// It exposes tools and resources so AI agents can build and edit forms.
type Server struct {
	mcp     *server.MCPServer
	emitter EventEmitter

	// Services (injected from app layer)
	forms       *service.FormService
	submissions *service.SubmissionService
	exports     *service.ExportService

	// The agent edits one form at a time, same as the builder UI.
	mu           sync.Mutex
	activeFormID string
	session      *editor.Store
}

// Deps holds all dependencies passed from the App layer to the MCP server.
type Deps struct {
	Emitter     EventEmitter
	Forms       *service.FormService
	Submissions *service.SubmissionService
	Exports     *service.ExportService
}

// New creates and configures a new MCP server with all tools and resources.
func New(ctx context.Context, deps Deps) *Server {
	s := &Server{
		emitter:     deps.Emitter,
		forms:       deps.Forms,
		submissions: deps.Submissions,
		exports:     deps.Exports,
	}

	s.mcp = server.NewMCPServer(
		"formdesk-mcp",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	s.registerFormTools()
	s.registerFieldTools()
	s.registerStepTools()
	s.registerHistoryTools()
	s.registerExportTools()
	s.registerResources()

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	log.Println("[MCP] Starting stdio server...")
	return server.ServeStdio(s.mcp)
}

// ── Helpers ────────────────────────────────────────────────

// emitFormsChanged notifies the frontend that an agent changed a form.
func (s *Server) emitFormsChanged(ctx context.Context, formID string) {
	s.emitter.Emit(ctx, "mcp:forms-changed", map[string]string{"formId": formID})
}

// textResult creates a simple text tool result.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

// jsonResult serializes v to JSON and wraps it in a text tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return textResult(string(data)), nil
}

// requireSession returns the open editing session. Callers must hold s.mu.
func (s *Server) requireSession() (*editor.Store, error) {
	if s.session == nil {
		return nil, fmt.Errorf("no form open (use open_form or create_form first)")
	}
	return s.session, nil
}

// saveSession persists the open form after an agent mutation. Callers
// must hold s.mu.
func (s *Server) saveSession(ctx context.Context) error {
	if s.session == nil || s.activeFormID == "" {
		return nil
	}
	if err := s.forms.SaveForm(ctx, s.activeFormID, s.session.Document()); err != nil {
		return fmt.Errorf("save form %s: %w", s.activeFormID, err)
	}
	s.emitFormsChanged(ctx, s.activeFormID)
	return nil
}

// stringArg extracts a required string argument.
func stringArg(args map[string]any, key string) (string, error) {
	v, ok := args[key].(string)
	if !ok || v == "" {
		return "", fmt.Errorf("%s is required", key)
	}
	return v, nil
}
