package services

import (
	"slices"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/custodia-labs/manuscript-validator/internal/core/domain"
	"github.com/custodia-labs/manuscript-validator/internal/logger"
)

// ResultFilter suppresses fresh results that are equivalent to results the
// user has ignored. Equivalence depends on the result kind, never on the
// result ID, which changes on every run.
type ResultFilter struct {
	ignored []*domain.ValidationResult
}

// NewResultFilter removes stale result models of the manuscript from doc and
// collects the ignored ones, together with the stored ignored records, as
// suppression records.
func NewResultFilter(doc *domain.Document, manuscriptID string, stored []domain.IgnoredResult) *ResultFilter {
	f := &ResultFilter{}
	stale := 0
	for _, r := range domain.ModelsOf[*domain.ValidationResult](doc) {
		if r.ManuscriptID != "" && r.ManuscriptID != manuscriptID {
			continue
		}
		if !r.Ignored {
			doc.Remove(r.ID)
			stale++
			continue
		}
		f.ignored = append(f.ignored, r)
	}
	for _, s := range stored {
		if s.Result != nil {
			f.ignored = append(f.ignored, s.Result)
		}
	}
	logger.Debug("result filter: removed %d stale results, %d suppression records", stale, len(f.ignored))
	return f
}

// Keep reports whether the result should be reported.
func (f *ResultFilter) Keep(r *domain.ValidationResult) bool {
	for _, ignored := range f.ignored {
		if ignored.ObjectType == r.ObjectType && equivalent(r, ignored) {
			return false
		}
	}
	return true
}

// Filter returns the results that are not suppressed, in order.
func (f *ResultFilter) Filter(results []domain.ValidationResult) []domain.ValidationResult {
	out := make([]domain.ValidationResult, 0, len(results))
	for i := range results {
		if f.Keep(&results[i]) {
			out = append(out, results[i])
		}
	}
	return out
}

var equalData = cmpopts.EquateEmpty()

// equivalent applies the suppression rule of the result's object type.
func equivalent(r, ignored *domain.ValidationResult) bool {
	switch r.ObjectType {
	case domain.ObjectRequiredSectionResult:
		return cmp.Equal(r.Data, ignored.Data, equalData)

	case domain.ObjectCountResult:
		return r.Type == ignored.Type &&
			r.AffectedElementID == ignored.AffectedElementID &&
			cmp.Equal(r.Data, ignored.Data, equalData)

	case domain.ObjectSectionOrderResult, domain.ObjectKeywordsOrderResult:
		if r.Type != ignored.Type {
			return false
		}
		a, aok := r.Data.(*domain.OrderData)
		b, bok := ignored.Data.(*domain.OrderData)
		return aok && bok && slices.Equal(a.Order, b.Order)

	case domain.ObjectFigureResolution,
		domain.ObjectFigureImageResult,
		domain.ObjectSectionBodyResult,
		domain.ObjectSectionTitleResult,
		domain.ObjectSectionCategoryResult,
		domain.ObjectBibliographyResult,
		domain.ObjectFigureFormatResult:
		return r.Type == ignored.Type && r.AffectedElementID == ignored.AffectedElementID

	default:
		return false
	}
}
