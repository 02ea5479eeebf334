package mcp

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/manuscript-validator/internal/adapters/driven/project"
	"github.com/custodia-labs/manuscript-validator/internal/core/domain"
)

func testResults() []domain.ValidationResult {
	return []domain.ValidationResult{
		{
			Base:    domain.Base{ID: "r1"},
			Type:    domain.ResultRequiredSection,
			Passed:  true,
			Message: "There is a Abstract section",
		},
		{
			Base:              domain.Base{ID: "r2"},
			Type:              domain.ResultSectionTitleMatch,
			Severity:          1,
			AffectedElementID: "MPSection:1",
			Message:           `Title for "Methods" section should be "Methods"`,
		},
	}
}

func newTestServer(t *testing.T, validation *mockValidationService) *Server {
	t.Helper()
	server, err := NewServer(&Ports{Validation: validation})
	require.NoError(t, err)
	return server
}

func TestServer_handleValidate(t *testing.T) {
	ctx := context.Background()

	t.Run("returns validation results", func(t *testing.T) {
		validation := &mockValidationService{results: testResults()}
		server := newTestServer(t, validation)

		_, output, err := server.handleValidate(ctx, nil, ValidateInput{Path: writeProject(t, "MPManuscript:1")})

		require.NoError(t, err)
		assert.Equal(t, "MPManuscript:1", output.ManuscriptID)
		assert.Equal(t, domain.DefaultTemplateID, output.TemplateID)
		assert.Equal(t, 1, output.Passed)
		assert.Equal(t, 1, output.Failed)
		require.Len(t, output.Results, 2)
		assert.Equal(t, "r2", output.Results[1].ID)
		assert.Equal(t, "section-title-match", output.Results[1].Type)
		assert.True(t, output.Results[1].Fixable)
		assert.Equal(t, "MPSection:1", output.Results[1].AffectedElementID)

		require.NotNil(t, validation.validateReq)
		assert.True(t, validation.validateReq.Options.ValidateImageFiles)
		assert.NotNil(t, validation.validateReq.Binaries)
	})

	t.Run("failed only and skip images", func(t *testing.T) {
		validation := &mockValidationService{results: testResults()}
		server := newTestServer(t, validation)

		_, output, err := server.handleValidate(ctx, nil, ValidateInput{
			Path:       writeProject(t, "MPManuscript:1"),
			TemplateID: "MPManuscriptTemplate:letter",
			SkipImages: true,
			FailedOnly: true,
		})

		require.NoError(t, err)
		require.Len(t, output.Results, 1)
		assert.Equal(t, 1, output.Passed)
		assert.Equal(t, "MPManuscriptTemplate:letter", validation.validateReq.TemplateID)
		assert.False(t, validation.validateReq.Options.ValidateImageFiles)
	})

	t.Run("ambiguous manuscript", func(t *testing.T) {
		server := newTestServer(t, &mockValidationService{})

		_, _, err := server.handleValidate(ctx, nil, ValidateInput{
			Path: writeProject(t, "MPManuscript:1", "MPManuscript:2"),
		})

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("missing project", func(t *testing.T) {
		server := newTestServer(t, &mockValidationService{})

		_, _, err := server.handleValidate(ctx, nil, ValidateInput{Path: filepath.Join(t.TempDir(), "missing")})

		assert.Error(t, err)
	})

	t.Run("returns error on validation failure", func(t *testing.T) {
		server := newTestServer(t, &mockValidationService{err: errors.New("validation failed")})

		_, _, err := server.handleValidate(ctx, nil, ValidateInput{Path: writeProject(t, "MPManuscript:1")})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "validation failed")
	})
}

func TestServer_handleFix(t *testing.T) {
	ctx := context.Background()

	t.Run("saves the fixed project", func(t *testing.T) {
		validation := &mockValidationService{results: testResults(), applied: 1}
		server := newTestServer(t, validation)
		dir := writeProject(t, "MPManuscript:1")

		_, output, err := server.handleFix(ctx, nil, FixInput{Path: dir})

		require.NoError(t, err)
		assert.Equal(t, 1, output.Applied)
		assert.Equal(t, dir, output.SavedTo)
		require.Len(t, output.Remaining, 1)
		assert.Equal(t, "r2", output.Remaining[0].ID)
		assert.Equal(t, defaultFixPasses, validation.fixReq.Passes)

		p, err := project.Open(dir)
		require.NoError(t, err)
		ms, err := p.Document.Manuscript("MPManuscript:1")
		require.NoError(t, err)
		assert.Equal(t, "Fixed", ms.Title)
	})

	t.Run("writes to out", func(t *testing.T) {
		server := newTestServer(t, &mockValidationService{})
		out := filepath.Join(t.TempDir(), "fixed.manuproj")

		_, output, err := server.handleFix(ctx, nil, FixInput{Path: writeProject(t, "MPManuscript:1"), Out: out, Passes: 1})

		require.NoError(t, err)
		assert.Equal(t, out, output.SavedTo)
		assert.Empty(t, output.Remaining)
		assert.FileExists(t, out)
	})

	t.Run("returns error on fix failure", func(t *testing.T) {
		server := newTestServer(t, &mockValidationService{err: domain.ErrInvariant})

		_, _, err := server.handleFix(ctx, nil, FixInput{Path: writeProject(t, "MPManuscript:1")})

		assert.ErrorIs(t, err, domain.ErrInvariant)
	})
}

func TestServer_handleListTemplates(t *testing.T) {
	validation := &mockValidationService{
		templates: []domain.Template{
			{ID: "MPManuscriptTemplate:letter", Title: "Letter"},
		},
		reqs: &domain.Requirements{
			RequiredSections: []domain.RequiredSection{
				{Description: domain.SectionDescription{SectionCategory: "MPSectionCategory:abstract"}},
				{Description: domain.SectionDescription{SectionCategory: "MPSectionCategory:methods"}},
			},
			Categories: map[string]domain.SectionCategory{
				"MPSectionCategory:methods": {ID: "MPSectionCategory:methods", Name: "Materials & Methods"},
			},
		},
	}
	server := newTestServer(t, validation)

	_, output, err := server.handleListTemplates(context.Background(), nil, ListTemplatesInput{})

	require.NoError(t, err)
	assert.Equal(t, 1, output.Count)
	assert.Equal(t, "Letter", output.Templates[0].Title)
	assert.Equal(t, []string{"Abstract", "Materials & Methods"}, output.Templates[0].RequiredSections)
}
