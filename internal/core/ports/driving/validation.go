package driving

import (
	"context"

	"github.com/custodia-labs/manuscript-validator/internal/core/domain"
	"github.com/custodia-labs/manuscript-validator/internal/core/ports/driven"
)

// ValidateOptions tunes a validation run.
type ValidateOptions struct {
	// ValidateImageFiles enables the figure format, image and resolution checks.
	ValidateImageFiles bool
}

// DefaultValidateOptions returns the options used when none are given.
func DefaultValidateOptions() ValidateOptions {
	return ValidateOptions{ValidateImageFiles: true}
}

// ValidateRequest describes a manuscript to validate.
type ValidateRequest struct {
	Document     *domain.Document
	ManuscriptID string
	TemplateID   string

	// Binaries supplies figure payloads. May be nil.
	Binaries driven.BinaryStore

	Options ValidateOptions
}

// FixRequest describes a manuscript to fix.
type FixRequest struct {
	ValidateRequest

	// Passes is the number of fix then validate cycles. Values below 1 mean 1.
	// A missing section that also breaks the section order needs two passes.
	Passes int

	// Results, when set, restricts the fix to these results in a single
	// pass. Results that passed or are not fixable are skipped.
	Results []domain.ValidationResult
}

// FixResponse is the outcome of a fix.
type FixResponse struct {
	// Document is the fixed document. It is the request document, mutated.
	Document *domain.Document

	// Results are the validation results after the last pass.
	Results []domain.ValidationResult

	// Applied is the number of failed fixable results handed to the fixer.
	Applied int
}

// ValidationService validates manuscripts against templates and fixes them.
type ValidationService interface {
	// Validate runs every check and returns the unsuppressed results with messages.
	Validate(ctx context.Context, req ValidateRequest) ([]domain.ValidationResult, error)

	// Fix validates, repairs the fixable failures and validates again.
	Fix(ctx context.Context, req FixRequest) (*FixResponse, error)

	// Ignore records results as ignored for a manuscript.
	Ignore(ctx context.Context, manuscriptID string, results []domain.ValidationResult, reason string) ([]domain.IgnoredResult, error)

	// Unignore removes an ignored record.
	Unignore(ctx context.Context, id string) error

	// ListIgnored returns the ignored records of a manuscript, or all when
	// manuscriptID is empty.
	ListIgnored(ctx context.Context, manuscriptID string) ([]domain.IgnoredResult, error)

	// Templates returns the available templates.
	Templates() []domain.Template

	// Template returns a template and its normalized requirements.
	Template(id string) (*domain.Template, *domain.Requirements, error)
}
