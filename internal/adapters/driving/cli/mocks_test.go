package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/manuscript-validator/internal/adapters/driven/project"
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
	TemplatesFunc   func() []domain.Template
	TemplateFunc    func(id string) (*domain.Template, *domain.Requirements, error)
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

func (m *MockValidationService) Ignore(ctx context.Context, manuscriptID string, results []domain.ValidationResult, reason string) ([]domain.IgnoredResult, error) {
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
	if m.TemplatesFunc != nil {
		return m.TemplatesFunc()
	}
	return nil
}

func (m *MockValidationService) Template(id string) (*domain.Template, *domain.Requirements, error) {
	if m.TemplateFunc != nil {
		return m.TemplateFunc(id)
	}
	return nil, nil, domain.ErrNotFound
}

var _ driving.ValidationService = (*MockValidationService)(nil)

// MockSettingsService implements driving.SettingsService for testing.
type MockSettingsService struct {
	settings    domain.Settings
	validateErr error
}

func newMockSettingsService() *MockSettingsService {
	return &MockSettingsService{settings: domain.DefaultSettings()}
}

func (m *MockSettingsService) Get() (*domain.Settings, error) {
	s := m.settings
	return &s, nil
}

func (m *MockSettingsService) Save(settings *domain.Settings) error {
	m.settings = *settings
	return nil
}

func (m *MockSettingsService) SetDefaultTemplate(templateID string) error {
	m.settings.Validation.Template = templateID
	return nil
}

func (m *MockSettingsService) SetColorMode(mode domain.ColorMode) error {
	if !mode.IsValid() {
		return domain.ErrInvalidInput
	}
	m.settings.Output.Color = mode
	return nil
}

func (m *MockSettingsService) Validate() error {
	return m.validateErr
}

func (m *MockSettingsService) GetDefaults() domain.Settings {
	return domain.DefaultSettings()
}

var _ driving.SettingsService = (*MockSettingsService)(nil)

const (
	testManuscriptID = "MPManuscript:1"
	testTemplateID   = "MPManuscriptTemplate:test"
)

const testIndex = `{
  "version": "2.0",
  "data": [
    {"_id": "MPManuscript:1", "objectType": "MPManuscript", "title": "A title"},
    {"_id": "MPSection:1", "objectType": "MPSection", "manuscriptID": "MPManuscript:1",
     "category": "MPSectionCategory:abstract", "title": "Abstract", "priority": 1, "path": ["MPSection:1"]}
  ]
}`

// writeTestProject writes a directory project and returns its path.
func writeTestProject(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "paper")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, project.DataDir), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, project.IndexFile), []byte(testIndex), 0o600))
	return dir
}

// resetFlags restores every command flag to its default.
func resetFlags() {
	validateTarget = targetFlags{}
	validateJSON, validateFailedOnly, validateStrict, validateWatch = false, false, false, false

	fixTarget = targetFlags{}
	fixOut, fixPasses, fixDryRun, fixJSON = "", defaultFixPasses, false, false

	ignoreTarget = targetFlags{}
	ignoreType, ignoreElement, ignoreAll, ignoreReason = "", "", false, ""
	ignoreManuscript, ignoreJSON = "", false

	reviewTarget = targetFlags{}
	templatesJSON = false
}

// setupServices installs the services for one test and restores the
// previous ones afterwards.
func setupServices(t *testing.T, validation driving.ValidationService, settings driving.SettingsService) {
	t.Helper()
	prevValidation, prevSettings := validationService, settingsService
	validationService, settingsService = validation, settings
	resetFlags()
	t.Cleanup(func() {
		validationService, settingsService = prevValidation, prevSettings
		resetFlags()
	})
}

// execute runs the root command with args and returns its output.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetErr(nil)
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}

func sampleResults() []domain.ValidationResult {
	return []domain.ValidationResult{
		{
			Base:    domain.Base{ID: "r1", ManuscriptID: testManuscriptID},
			Type:    domain.ResultRequiredSection,
			Passed:  true,
			Message: "Abstract section is present",
		},
		{
			Base:              domain.Base{ID: "r2", ManuscriptID: testManuscriptID},
			Type:              domain.ResultSectionTitleMatch,
			Severity:          1,
			AffectedElementID: "MPSection:1",
			Message:           `Title for "Abstract" section should be "Abstract"`,
		},
		{
			Base:              domain.Base{ID: "r3", ManuscriptID: testManuscriptID},
			Type:              domain.ResultSectionMaxWords,
			AffectedElementID: "MPSection:2",
			Message:           "Methods should have a maximum of 10 words",
		},
	}
}
