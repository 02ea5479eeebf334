package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/manuscript-validator/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for validator resources.
	uriScheme = "manuscript-validator://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "templates",
		Name:        "templates",
		Description: "List of the available manuscript templates",
		MIMEType:    "application/json",
	}, s.handleTemplatesResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "templates/{templateId}",
		Name:        "template-requirements",
		Description: "A template and the requirements derived from it",
		MIMEType:    "application/json",
	}, s.handleTemplateResource)
}

// handleTemplatesResource returns a list of all templates.
func (s *Server) handleTemplatesResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	type templateInfo struct {
		ID    string `json:"id"`
		Title string `json:"title"`
		URI   string `json:"uri"`
	}

	templates := s.ports.Validation.Templates()
	infos := make([]templateInfo, len(templates))
	for i := range templates {
		infos[i] = templateInfo{
			ID:    templates[i].ID,
			Title: templates[i].Title,
			URI:   uriScheme + "templates/" + templates[i].ID,
		}
	}

	return jsonResource(req.Params.URI, infos)
}

// handleTemplateResource returns a template and its requirements.
func (s *Server) handleTemplateResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	templateID := extractTemplateID(req.Params.URI)
	if templateID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	tmpl, reqs, err := s.ports.Validation.Template(templateID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("loading template: %w", err)
	}

	return jsonResource(req.Params.URI, struct {
		Template     *domain.Template     `json:"template"`
		Requirements *domain.Requirements `json:"requirements"`
	}{tmpl, reqs})
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractTemplateID extracts the template ID from a URI like
// manuscript-validator://templates/{templateId}.
func extractTemplateID(uri string) string {
	const prefix = uriScheme + "templates/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	return strings.TrimPrefix(uri, prefix)
}
