package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/manuscript-validator/internal/core/domain"
	"github.com/custodia-labs/manuscript-validator/internal/core/ports/driven"
	"github.com/custodia-labs/manuscript-validator/internal/core/ports/driving"
	"github.com/custodia-labs/manuscript-validator/internal/logger"
)

// Ensure ValidationService implements the interface.
var _ driving.ValidationService = (*ValidationService)(nil)

// ValidationService runs the template, validation, filter and fix pipeline.
type ValidationService struct {
	templates driven.TemplateStore
	validator *Validator
	fixer     *Fixer
	ignored   driven.IgnoredResultStore

	now func() time.Time
}

// NewValidationService creates a new validation service.
// ignored may be nil; ignoring results is then not available.
func NewValidationService(
	templates driven.TemplateStore,
	validator *Validator,
	fixer *Fixer,
	ignored driven.IgnoredResultStore,
) *ValidationService {
	return &ValidationService{
		templates: templates,
		validator: validator,
		fixer:     fixer,
		ignored:   ignored,
		now:       time.Now,
	}
}

// Templates returns the available templates.
func (s *ValidationService) Templates() []domain.Template {
	return s.templates.Templates()
}

// Template returns a template and its normalized requirements.
func (s *ValidationService) Template(id string) (*domain.Template, *domain.Requirements, error) {
	t, err := s.templates.Template(id)
	if err != nil {
		return nil, nil, fmt.Errorf("template %q: %w: %w", id, domain.ErrInvalidInput, err)
	}
	reqs, err := ExtractRequirements(t, s.templates)
	if err != nil {
		return nil, nil, err
	}
	return t, reqs, nil
}

// Validate runs every check and returns the results that are not ignored,
// with messages.
func (s *ValidationService) Validate(ctx context.Context, req driving.ValidateRequest) ([]domain.ValidationResult, error) {
	_, reqs, err := s.Template(req.TemplateID)
	if err != nil {
		return nil, err
	}
	return s.validate(ctx, req, reqs)
}

func (s *ValidationService) validate(
	ctx context.Context,
	req driving.ValidateRequest,
	reqs *domain.Requirements,
) ([]domain.ValidationResult, error) {
	if req.Document == nil {
		return nil, fmt.Errorf("no document: %w", domain.ErrInvalidInput)
	}

	var stored []domain.IgnoredResult
	if s.ignored != nil {
		var err error
		stored, err = s.ignored.GetByManuscriptID(ctx, req.ManuscriptID)
		if err != nil {
			return nil, fmt.Errorf("load ignored results: %w", err)
		}
	}
	filter := NewResultFilter(req.Document, req.ManuscriptID, stored)

	raw, err := s.validator.Validate(ctx, req.Document, req.ManuscriptID, reqs, req.Binaries, req.Options)
	if err != nil {
		return nil, err
	}

	results := filter.Filter(raw)
	for i := range results {
		results[i].Message = domain.Message(&results[i], reqs.Categories)
	}
	logger.Debug("manuscript %s: %d results, %d suppressed", req.ManuscriptID, len(results), len(raw)-len(results))
	return results, nil
}

// Fix validates, repairs the fixable failures and validates again, for up to
// req.Passes cycles. It stops early once no fixable failure remains.
func (s *ValidationService) Fix(ctx context.Context, req driving.FixRequest) (*driving.FixResponse, error) {
	_, reqs, err := s.Template(req.TemplateID)
	if err != nil {
		return nil, err
	}
	if req.Results != nil {
		return s.fixSelected(ctx, req, reqs)
	}
	results, err := s.validate(ctx, req.ValidateRequest, reqs)
	if err != nil {
		return nil, err
	}

	passes := max(req.Passes, 1)
	applied := 0
	for pass := 1; pass <= passes; pass++ {
		fixable := failedFixable(results)
		if len(fixable) == 0 {
			break
		}
		if _, err := s.fixer.Fix(req.Document, req.ManuscriptID, fixable); err != nil {
			return nil, err
		}
		applied += len(fixable)
		logger.Info("pass %d: applied %d fixes", pass, len(fixable))

		results, err = s.validate(ctx, req.ValidateRequest, reqs)
		if err != nil {
			return nil, err
		}
	}

	return &driving.FixResponse{
		Document: req.Document,
		Results:  results,
		Applied:  applied,
	}, nil
}

func (s *ValidationService) fixSelected(
	ctx context.Context,
	req driving.FixRequest,
	reqs *domain.Requirements,
) (*driving.FixResponse, error) {
	if req.Document == nil {
		return nil, fmt.Errorf("no document: %w", domain.ErrInvalidInput)
	}
	fixable := failedFixable(req.Results)
	if len(fixable) > 0 {
		if _, err := s.fixer.Fix(req.Document, req.ManuscriptID, fixable); err != nil {
			return nil, err
		}
		logger.Info("applied %d selected fixes", len(fixable))
	}
	results, err := s.validate(ctx, req.ValidateRequest, reqs)
	if err != nil {
		return nil, err
	}
	return &driving.FixResponse{
		Document: req.Document,
		Results:  results,
		Applied:  len(fixable),
	}, nil
}

func failedFixable(results []domain.ValidationResult) []domain.ValidationResult {
	var out []domain.ValidationResult
	for _, r := range results {
		if !r.Passed && !r.Ignored && r.Type.Fixable() {
			out = append(out, r)
		}
	}
	return out
}

// Ignore records results as ignored for a manuscript.
func (s *ValidationService) Ignore(
	ctx context.Context,
	manuscriptID string,
	results []domain.ValidationResult,
	reason string,
) ([]domain.IgnoredResult, error) {
	if s.ignored == nil {
		return nil, domain.ErrNotImplemented
	}
	if manuscriptID == "" {
		return nil, fmt.Errorf("no manuscript ID: %w", domain.ErrInvalidInput)
	}

	now := s.now()
	out := make([]domain.IgnoredResult, 0, len(results))
	for i := range results {
		r := results[i].Clone()
		r.Ignored = true
		record := domain.IgnoredResult{
			ID:           uuid.NewString(),
			ManuscriptID: manuscriptID,
			Result:       r,
			Reason:       reason,
			IgnoredAt:    now,
		}
		if err := s.ignored.Add(ctx, &record); err != nil {
			return out, fmt.Errorf("ignore %s: %w", r.ID, err)
		}
		out = append(out, record)
	}
	return out, nil
}

// Unignore removes an ignored record.
func (s *ValidationService) Unignore(ctx context.Context, id string) error {
	if s.ignored == nil {
		return domain.ErrNotImplemented
	}
	return s.ignored.Remove(ctx, id)
}

// ListIgnored returns the ignored records of a manuscript, or all records
// when manuscriptID is empty.
func (s *ValidationService) ListIgnored(ctx context.Context, manuscriptID string) ([]domain.IgnoredResult, error) {
	if s.ignored == nil {
		return nil, domain.ErrNotImplemented
	}
	if manuscriptID == "" {
		return s.ignored.List(ctx)
	}
	return s.ignored.GetByManuscriptID(ctx, manuscriptID)
}
