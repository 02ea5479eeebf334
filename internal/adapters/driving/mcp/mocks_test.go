package mcp

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/manuscript-validator/internal/adapters/driven/project"
	"github.com/custodia-labs/manuscript-validator/internal/core/domain"
	"github.com/custodia-labs/manuscript-validator/internal/core/ports/driving"
)

// mockValidationService is a mock implementation of driving.ValidationService.
type mockValidationService struct {
	results   []domain.ValidationResult
	applied   int
	templates []domain.Template
	reqs      *domain.Requirements
	err       error

	validateReq *driving.ValidateRequest
	fixReq      *driving.FixRequest
}

func (m *mockValidationService) Validate(
	_ context.Context,
	req driving.ValidateRequest,
) ([]domain.ValidationResult, error) {
	m.validateReq = &req
	return m.results, m.err
}

func (m *mockValidationService) Fix(_ context.Context, req driving.FixRequest) (*driving.FixResponse, error) {
	m.fixReq = &req
	if m.err != nil {
		return nil, m.err
	}
	if m.applied > 0 {
		ms, err := req.Document.Manuscript(req.ManuscriptID)
		if err == nil {
			ms.Title = "Fixed"
		}
	}
	return &driving.FixResponse{Document: req.Document, Results: m.results, Applied: m.applied}, nil
}

func (m *mockValidationService) Ignore(
	_ context.Context,
	_ string,
	_ []domain.ValidationResult,
	_ string,
) ([]domain.IgnoredResult, error) {
	return nil, m.err
}

func (m *mockValidationService) Unignore(_ context.Context, _ string) error {
	return m.err
}

func (m *mockValidationService) ListIgnored(_ context.Context, _ string) ([]domain.IgnoredResult, error) {
	return nil, m.err
}

func (m *mockValidationService) Templates() []domain.Template {
	return m.templates
}

func (m *mockValidationService) Template(id string) (*domain.Template, *domain.Requirements, error) {
	for i := range m.templates {
		if m.templates[i].ID == id {
			return &m.templates[i], m.reqs, nil
		}
	}
	return nil, nil, domain.ErrNotFound
}

// mockSettingsService is a mock implementation of driving.SettingsService.
type mockSettingsService struct {
	settings domain.Settings
}

func (m *mockSettingsService) Get() (*domain.Settings, error) {
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Save(_ *domain.Settings) error { return nil }
func (m *mockSettingsService) SetDefaultTemplate(_ string) error { return nil }
func (m *mockSettingsService) SetColorMode(_ domain.ColorMode) error { return nil }
func (m *mockSettingsService) Validate() error { return nil }
func (m *mockSettingsService) GetDefaults() domain.Settings { return domain.DefaultSettings() }

// writeProject writes a directory project holding the given manuscripts.
func writeProject(t *testing.T, manuscriptIDs ...string) string {
	t.Helper()
	models := make([]domain.Model, 0, len(manuscriptIDs))
	for _, id := range manuscriptIDs {
		models = append(models, &domain.Manuscript{
			Base:  domain.Base{ID: id, ObjectType: domain.ObjectManuscript},
			Title: "Original",
		})
	}
	p := &project.Project{Document: domain.NewDocument(models...)}
	index, err := p.Index()
	require.NoError(t, err)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, project.IndexFile), index, 0o600))
	return dir
}
