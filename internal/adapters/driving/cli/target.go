package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/manuscript-validator/internal/adapters/driven/project"
	"github.com/custodia-labs/manuscript-validator/internal/core/domain"
	"github.com/custodia-labs/manuscript-validator/internal/core/ports/driving"
)

var errValidationNotConfigured = errors.New("validation service not configured")

// targetFlags select the manuscript and template of a project.
type targetFlags struct {
	manuscript string
	template   string
	noImages   bool
}

// bind registers the flags on cmd.
func (f *targetFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.manuscript, "manuscript", "m", "", "manuscript ID (default: the only manuscript in the project)")
	cmd.Flags().StringVarP(&f.template, "template", "t", "", "template ID (default: from settings)")
	cmd.Flags().BoolVar(&f.noImages, "no-images", false, "skip the figure file checks")
}

// target is an opened project and the request that validates it.
type target struct {
	project *project.Project
	request driving.ValidateRequest
}

// openTarget opens the project at path and resolves the manuscript and
// template, falling back to the settings for anything the flags leave out.
func openTarget(path string, flags targetFlags) (*target, error) {
	if validationService == nil {
		return nil, errValidationNotConfigured
	}

	settings := domain.DefaultSettings()
	if settingsService != nil {
		s, err := settingsService.Get()
		if err != nil {
			return nil, fmt.Errorf("failed to get settings: %w", err)
		}
		settings = *s
	}

	p, err := project.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open project: %w", err)
	}

	manuscriptID, err := p.ManuscriptID(flags.manuscript)
	if err != nil {
		_ = p.Close()
		return nil, err
	}

	templateID := flags.template
	if templateID == "" {
		templateID = settings.Validation.Template
	}
	if templateID == "" {
		templateID = domain.DefaultTemplateID
	}

	return &target{
		project: p,
		request: driving.ValidateRequest{
			Document:     p.Document,
			ManuscriptID: manuscriptID,
			TemplateID:   templateID,
			Binaries:     p.Binaries(),
			Options: driving.ValidateOptions{
				ValidateImageFiles: settings.Validation.Images && !flags.noImages,
			},
		},
	}, nil
}

// Close releases the project.
func (t *target) Close() error {
	return t.project.Close()
}
