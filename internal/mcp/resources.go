package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerResources() {
	// ── formdesk://forms ───────────────────────────────
	s.mcp.AddResource(mcp.NewResource(
		"formdesk://forms",
		"All Forms",
		mcp.WithMIMEType("application/json"),
	), s.handleFormsResource)

	// ── formdesk://form/{formId} ───────────────────────
	s.mcp.AddResourceTemplate(
		mcp.NewResourceTemplate(
			"formdesk://form/{formId}",
			"Form Snapshot",
		),
		s.handleFormResource,
	)
}

func (s *Server) handleFormsResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	forms, err := s.forms.ListForms()
	if err != nil {
		return nil, err
	}
	data, _ := json.MarshalIndent(forms, "", "  ")
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "formdesk://forms",
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (s *Server) handleFormResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uri := req.Params.URI
	formID := strings.TrimPrefix(uri, "formdesk://form/")
	if formID == "" || formID == uri {
		return nil, fmt.Errorf("could not extract formId from URI: %s", uri)
	}

	snap, err := s.forms.Snapshot(formID)
	if err != nil {
		return nil, err
	}
	data, _ := json.MarshalIndent(snap, "", "  ")
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
