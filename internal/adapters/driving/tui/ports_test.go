package tui

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/manuscript-validator/internal/core/domain"
	"github.com/custodia-labs/manuscript-validator/internal/core/ports/driving"
)

// MockValidationService implements driving.ValidationService for testing.
type MockValidationService struct {
	ValidateFunc    func(ctx context.Context, req driving.ValidateRequest) ([]domain.ValidationResult, error)
	FixFunc         func(ctx context.Context, req driving.FixRequest) (*driving.FixResponse, error)
	IgnoreFunc      func(ctx context.Context, manuscriptID string, results []domain.ValidationResult, reason string) ([]domain.IgnoredResult, error)
	UnignoreFunc    func(ctx context.Context, id string) error
	ListIgnoredFunc func(ctx context.Context, manuscriptID string) ([]domain.IgnoredResult, error)
}

func (m *MockValidationService) Validate(ctx context.Context, req driving.ValidateRequest) ([]domain.ValidationResult, error) {
	if m.ValidateFunc != nil {
		return m.ValidateFunc(ctx, req)
	}
	return nil, nil
}

func (m *MockValidationService) Fix(ctx context.Context, req driving.FixRequest) (*driving.FixResponse, error) {
	if m.FixFunc != nil {
		return m.FixFunc(ctx, req)
	}
	return &driving.FixResponse{Document: req.Document}, nil
}

func (m *MockValidationService) Ignore(
	ctx context.Context, manuscriptID string, results []domain.ValidationResult, reason string,
) ([]domain.IgnoredResult, error) {
	if m.IgnoreFunc != nil {
		return m.IgnoreFunc(ctx, manuscriptID, results, reason)
	}
	return nil, nil
}

func (m *MockValidationService) Unignore(ctx context.Context, id string) error {
	if m.UnignoreFunc != nil {
		return m.UnignoreFunc(ctx, id)
	}
	return nil
}

func (m *MockValidationService) ListIgnored(ctx context.Context, manuscriptID string) ([]domain.IgnoredResult, error) {
	if m.ListIgnoredFunc != nil {
		return m.ListIgnoredFunc(ctx, manuscriptID)
	}
	return nil, nil
}

func (m *MockValidationService) Templates() []domain.Template {
	return nil
}

func (m *MockValidationService) Template(id string) (*domain.Template, *domain.Requirements, error) {
	return nil, nil, domain.ErrNotFound
}

// Ensure the mock implements the interface.
var _ driving.ValidationService = (*MockValidationService)(nil)

func TestNewPorts(t *testing.T) {
	svc := &MockValidationService{}
	saved := false

	ports := NewPorts(svc, func() error { saved = true; return nil })

	require.NotNil(t, ports)
	assert.Equal(t, svc, ports.Validation)
	require.NoError(t, ports.Save())
	assert.True(t, saved)
}

func TestPorts_Validate(t *testing.T) {
	tests := []struct {
		name  string
		ports *Ports
		err   error
	}{
		{"valid", &Ports{Validation: &MockValidationService{}}, nil},
		{"save is optional", NewPorts(&MockValidationService{}, nil), nil},
		{"missing validation", &Ports{}, ErrMissingValidationService},
		{"nil ports", nil, ErrMissingValidationService},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ports.Validate()
			if tt.err == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.err)
			}
		})
	}
}
