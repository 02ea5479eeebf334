package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/manuscript-validator/internal/core/domain"
	"github.com/custodia-labs/manuscript-validator/internal/core/ports/driven"
	"github.com/custodia-labs/manuscript-validator/internal/core/ports/driving"
	"github.com/custodia-labs/manuscript-validator/internal/logger"
)

// Validator runs the check battery over one manuscript.
type Validator struct {
	stats    driven.Statistics
	markup   driven.Markup
	collator driven.Collator
	images   driven.ImageInspector
}

// NewValidator creates a validator. images may be nil, in which case figure
// formats fall back to the declared content type and resolution is not checked.
func NewValidator(
	stats driven.Statistics,
	markup driven.Markup,
	collator driven.Collator,
	images driven.ImageInspector,
) *Validator {
	return &Validator{
		stats:    stats,
		markup:   markup,
		collator: collator,
		images:   images,
	}
}

// check is one task of the battery. Each check writes to its own slot so the
// output order does not depend on scheduling.
type check struct {
	name string
	run  func(ctx context.Context) ([]domain.ValidationResult, error)
}

// Validate checks the manuscript against the requirements. Models of other
// manuscripts in doc are ignored. Any check error fails the whole call and
// no results are returned.
func (v *Validator) Validate(
	ctx context.Context,
	doc *domain.Document,
	manuscriptID string,
	reqs *domain.Requirements,
	binaries driven.BinaryStore,
	opts driving.ValidateOptions,
) ([]domain.ValidationResult, error) {
	if reqs == nil {
		return nil, fmt.Errorf("nil requirements: %w", domain.ErrInvalidInput)
	}

	scoped := doc.ForManuscript(manuscriptID)
	manuscript, err := scoped.Manuscript(manuscriptID)
	if err != nil {
		return nil, err
	}
	tree, err := buildOutline(scoped, v.markup)
	if err != nil {
		return nil, err
	}

	r := &validation{
		Validator:  v,
		doc:        scoped,
		manuscript: manuscript,
		tree:       tree,
		reqs:       reqs,
		binaries:   binaries,
	}

	requiredDone := make(chan struct{})
	figuresDone := make(chan struct{})

	checks := []check{
		{"required-sections", func(context.Context) ([]domain.ValidationResult, error) {
			defer close(requiredDone)
			r.required = r.requiredSections()
			return r.required, nil
		}},
		{"section-order", func(ctx context.Context) ([]domain.ValidationResult, error) {
			if err := wait(ctx, requiredDone); err != nil {
				return nil, err
			}
			return r.sectionOrder(), nil
		}},
		{"manuscript-counts", noError(r.manuscriptCounts)},
		{"section-counts", noError(r.sectionCounts)},
		{"section-titles", noError(r.sectionTitles)},
		{"section-bodies", func(context.Context) ([]domain.ValidationResult, error) {
			return r.sectionBodies()
		}},
		{"category-uniqueness", noError(r.categoryUniqueness)},
		{"title-counts", func(context.Context) ([]domain.ValidationResult, error) {
			return r.titleCounts()
		}},
		{"references", func(context.Context) ([]domain.ValidationResult, error) {
			return r.references()
		}},
		{"figure-table-counts", noError(r.figureTableCounts)},
	}

	if opts.ValidateImageFiles {
		afterFigures := func(fn func() ([]domain.ValidationResult, error)) func(context.Context) ([]domain.ValidationResult, error) {
			return func(ctx context.Context) ([]domain.ValidationResult, error) {
				if err := wait(ctx, figuresDone); err != nil {
					return nil, err
				}
				return fn()
			}
		}
		checks = append(checks,
			check{"figure-data", func(ctx context.Context) ([]domain.ValidationResult, error) {
				defer close(figuresDone)
				return nil, r.loadFigureData(ctx)
			}},
			check{"figure-formats", afterFigures(func() ([]domain.ValidationResult, error) {
				return r.figureFormats(), nil
			})},
			check{"figure-images", afterFigures(func() ([]domain.ValidationResult, error) {
				return r.figureImages(), nil
			})},
			check{"figure-resolution", afterFigures(r.figureResolution)},
		)
	}

	checks = append(checks,
		check{"keywords-order", func(context.Context) ([]domain.ValidationResult, error) {
			return r.keywordsOrder()
		}},
		check{"corresponding-authors", noError(r.correspondingAuthors)},
		check{"running-title", noError(r.runningTitle)},
	)

	slots := make([][]domain.ValidationResult, len(checks))
	g, gctx := errgroup.WithContext(ctx)
	for i, c := range checks {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results, err := c.run(gctx)
			if err != nil {
				return fmt.Errorf("%s: %w", c.name, err)
			}
			slots[i] = results
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []domain.ValidationResult
	for _, s := range slots {
		out = append(out, s...)
	}
	logger.Debug("manuscript %s: %d checks produced %d results", manuscriptID, len(checks), len(out))
	return out, nil
}

// wait blocks until done is closed or ctx is cancelled.
func wait(ctx context.Context, done <-chan struct{}) error {
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func noError(fn func() []domain.ValidationResult) func(context.Context) ([]domain.ValidationResult, error) {
	return func(context.Context) ([]domain.ValidationResult, error) {
		return fn(), nil
	}
}
