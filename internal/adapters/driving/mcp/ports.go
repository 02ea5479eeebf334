package mcp

import (
	"github.com/custodia-labs/manuscript-validator/internal/adapters/driven/project"
	"github.com/custodia-labs/manuscript-validator/internal/core/domain"
	"github.com/custodia-labs/manuscript-validator/internal/core/ports/driving"
)

// Ports aggregates the dependencies of the MCP server.
type Ports struct {
	// Validation validates and fixes manuscripts.
	Validation driving.ValidationService

	// Settings supplies the default template. Optional.
	Settings driving.SettingsService

	// Open loads a project from a path. Defaults to project.Open.
	Open func(path string) (*project.Project, error)
}

// Validate ensures all required ports are set and fills in defaults.
func (p *Ports) Validate() error {
	if p.Validation == nil {
		return ErrMissingValidationService
	}
	if p.Open == nil {
		p.Open = project.Open
	}
	return nil
}

// templateID returns id, or the configured default template.
func (p *Ports) templateID(id string) string {
	if id != "" {
		return id
	}
	if p.Settings != nil {
		if settings, err := p.Settings.Get(); err == nil && settings.Validation.Template != "" {
			return settings.Validation.Template
		}
	}
	return domain.DefaultTemplateID
}

// validateImages reports whether figure files are checked by default.
func (p *Ports) validateImages() bool {
	if p.Settings != nil {
		if settings, err := p.Settings.Get(); err == nil {
			return settings.Validation.Images
		}
	}
	return driving.DefaultValidateOptions().ValidateImageFiles
}
