package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/manuscript-validator/internal/core/domain"
	"github.com/custodia-labs/manuscript-validator/internal/core/ports/driving"
)

// ValidateInput is the input schema for the validate_manuscript tool.
type ValidateInput struct {
	Path         string `json:"path" jsonschema:"path to a .manuproj archive, project directory or index.manuscript-json file"`
	ManuscriptID string `json:"manuscript_id,omitempty" jsonschema:"manuscript to validate (default: the only manuscript in the project)"`
	TemplateID   string `json:"template_id,omitempty" jsonschema:"template to validate against (default: the configured template)"`
	SkipImages   bool   `json:"skip_images,omitempty" jsonschema:"skip the figure format, presence and resolution checks"`
	FailedOnly   bool   `json:"failed_only,omitempty" jsonschema:"return only failed results"`
}

// ValidateOutput is the output schema for the validate_manuscript tool.
type ValidateOutput struct {
	ManuscriptID string         `json:"manuscript_id"`
	TemplateID   string         `json:"template_id"`
	Passed       int            `json:"passed"`
	Failed       int            `json:"failed"`
	Results      []ResultOutput `json:"results"`
}

// ResultOutput represents a single validation result.
type ResultOutput struct {
	ID                string `json:"id"`
	Type              string `json:"type"`
	Passed            bool   `json:"passed"`
	Severity          int    `json:"severity"`
	Fixable           bool   `json:"fixable,omitempty"`
	AffectedElementID string `json:"affected_element_id,omitempty"`
	Message           string `json:"message"`
}

// FixInput is the input schema for the fix_manuscript tool.
type FixInput struct {
	Path         string `json:"path" jsonschema:"path to a .manuproj archive, project directory or index.manuscript-json file"`
	ManuscriptID string `json:"manuscript_id,omitempty" jsonschema:"manuscript to fix (default: the only manuscript in the project)"`
	TemplateID   string `json:"template_id,omitempty" jsonschema:"template to fix against (default: the configured template)"`
	Out          string `json:"out,omitempty" jsonschema:"where to write the fixed project (default: overwrite the input)"`
	Passes       int    `json:"passes,omitempty" jsonschema:"number of fix and validate cycles (default 2)"`
}

// FixOutput is the output schema for the fix_manuscript tool.
type FixOutput struct {
	Applied   int            `json:"applied"`
	SavedTo   string         `json:"saved_to"`
	Remaining []ResultOutput `json:"remaining"`
}

// ListTemplatesInput is the input schema for the list_templates tool.
type ListTemplatesInput struct{}

// ListTemplatesOutput is the output schema for the list_templates tool.
type ListTemplatesOutput struct {
	Templates []TemplateOutput `json:"templates"`
	Count     int              `json:"count"`
}

// TemplateOutput summarises a template.
type TemplateOutput struct {
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	RequiredSections []string `json:"required_sections,omitempty"`
}

// defaultFixPasses lets a missing section that lands out of order be moved
// in the same call.
const defaultFixPasses = 2

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "validate_manuscript",
		Description: "Validate a manuscript project against a journal template",
	}, s.handleValidate)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "fix_manuscript",
		Description: "Apply the automatic fixes for failed checks and save the project",
	}, s.handleFix)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_templates",
		Description: "List the available manuscript templates",
	}, s.handleListTemplates)
}

// handleValidate handles the validate_manuscript tool invocation.
func (s *Server) handleValidate(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ValidateInput,
) (*mcp.CallToolResult, ValidateOutput, error) {
	p, err := s.ports.Open(input.Path)
	if err != nil {
		return nil, ValidateOutput{}, err
	}
	defer p.Close()

	manuscriptID, err := p.ManuscriptID(input.ManuscriptID)
	if err != nil {
		return nil, ValidateOutput{}, err
	}
	templateID := s.ports.templateID(input.TemplateID)

	results, err := s.ports.Validation.Validate(ctx, driving.ValidateRequest{
		Document:     p.Document,
		ManuscriptID: manuscriptID,
		TemplateID:   templateID,
		Binaries:     p.Binaries(),
		Options:      driving.ValidateOptions{ValidateImageFiles: s.ports.validateImages() && !input.SkipImages},
	})
	if err != nil {
		return nil, ValidateOutput{}, fmt.Errorf("validating %s: %w", manuscriptID, err)
	}

	output := ValidateOutput{
		ManuscriptID: manuscriptID,
		TemplateID:   templateID,
		Results:      make([]ResultOutput, 0, len(results)),
	}
	for i := range results {
		if results[i].Passed {
			output.Passed++
		} else {
			output.Failed++
		}
		if input.FailedOnly && results[i].Passed {
			continue
		}
		output.Results = append(output.Results, toResultOutput(&results[i]))
	}

	return nil, output, nil
}

// handleFix handles the fix_manuscript tool invocation.
func (s *Server) handleFix(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input FixInput,
) (*mcp.CallToolResult, FixOutput, error) {
	p, err := s.ports.Open(input.Path)
	if err != nil {
		return nil, FixOutput{}, err
	}
	defer p.Close()

	manuscriptID, err := p.ManuscriptID(input.ManuscriptID)
	if err != nil {
		return nil, FixOutput{}, err
	}
	passes := input.Passes
	if passes <= 0 {
		passes = defaultFixPasses
	}

	resp, err := s.ports.Validation.Fix(ctx, driving.FixRequest{
		ValidateRequest: driving.ValidateRequest{
			Document:     p.Document,
			ManuscriptID: manuscriptID,
			TemplateID:   s.ports.templateID(input.TemplateID),
			Binaries:     p.Binaries(),
			Options:      driving.ValidateOptions{ValidateImageFiles: s.ports.validateImages()},
		},
		Passes: passes,
	})
	if err != nil {
		return nil, FixOutput{}, fmt.Errorf("fixing %s: %w", manuscriptID, err)
	}

	output := FixOutput{
		Applied:   resp.Applied,
		SavedTo:   input.Path,
		Remaining: []ResultOutput{},
	}
	if input.Out != "" {
		output.SavedTo = input.Out
	}
	if resp.Applied > 0 || input.Out != "" {
		if err := p.Save(input.Out); err != nil {
			return nil, FixOutput{}, err
		}
	}
	for i := range resp.Results {
		if !resp.Results[i].Passed {
			output.Remaining = append(output.Remaining, toResultOutput(&resp.Results[i]))
		}
	}

	return nil, output, nil
}

// handleListTemplates handles the list_templates tool invocation.
func (s *Server) handleListTemplates(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ ListTemplatesInput,
) (*mcp.CallToolResult, ListTemplatesOutput, error) {
	templates := s.ports.Validation.Templates()
	output := ListTemplatesOutput{
		Templates: make([]TemplateOutput, len(templates)),
		Count:     len(templates),
	}

	for i := range templates {
		output.Templates[i] = TemplateOutput{
			ID:    templates[i].ID,
			Title: templates[i].Title,
		}
		if _, reqs, err := s.ports.Validation.Template(templates[i].ID); err == nil {
			output.Templates[i].RequiredSections = requiredSectionNames(reqs)
		}
	}

	return nil, output, nil
}

func toResultOutput(r *domain.ValidationResult) ResultOutput {
	return ResultOutput{
		ID:                r.ID,
		Type:              string(r.Type),
		Passed:            r.Passed,
		Severity:          r.Severity,
		Fixable:           r.Type.Fixable(),
		AffectedElementID: r.AffectedElementID,
		Message:           r.Message,
	}
}

func requiredSectionNames(reqs *domain.Requirements) []string {
	names := make([]string, 0, len(reqs.RequiredSections))
	for _, category := range reqs.RequiredOrder() {
		name := domain.CategoryDisplayName(category)
		if c, ok := reqs.Categories[category]; ok && c.Name != "" {
			name = c.Name
		}
		names = append(names, name)
	}
	return names
}
