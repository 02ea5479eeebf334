package driven

import "github.com/custodia-labs/manuscript-validator/internal/core/domain"

// TemplateStore is a read-only lookup of templates, requirement models and
// section categories. It is loaded once and shared.
type TemplateStore interface {
	// Template returns the template with the given ID.
	// Returns domain.ErrNotFound if unknown.
	Template(id string) (*domain.Template, error)

	// Templates returns all templates sorted by ID.
	Templates() []domain.Template

	// Requirement returns the requirement model with the given ID.
	Requirement(id string) (*domain.RequirementModel, bool)

	// Categories returns every known section category keyed by ID.
	Categories() map[string]domain.SectionCategory
}
