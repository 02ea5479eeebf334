package driven

import (
	"context"

	"github.com/custodia-labs/manuscript-validator/internal/core/domain"
)

// IgnoredResultStore persists ignored validation results.
// Ignored results suppress equivalent failures on later runs.
type IgnoredResultStore interface {
	// Add stores an ignored result.
	Add(ctx context.Context, ignored *domain.IgnoredResult) error

	// Remove deletes an ignored result by ID.
	// Returns domain.ErrNotFound if no record has the ID.
	Remove(ctx context.Context, id string) error

	// GetByManuscriptID returns all ignored results for a manuscript.
	GetByManuscriptID(ctx context.Context, manuscriptID string) ([]domain.IgnoredResult, error)

	// List returns all ignored results.
	List(ctx context.Context) ([]domain.IgnoredResult, error)
}
