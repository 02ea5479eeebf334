package mcp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/manuscript-validator/internal/core/domain"
)

func TestNewServer(t *testing.T) {
	t.Run("nil validation service returns error", func(t *testing.T) {
		ports := &Ports{}
		server, err := NewServer(ports)
		require.Error(t, err)
		assert.Nil(t, server)
		assert.ErrorIs(t, err, ErrMissingValidationService)
	})

	t.Run("valid ports creates server", func(t *testing.T) {
		ports := &Ports{
			Validation: &mockValidationService{},
		}
		server, err := NewServer(ports)
		require.NoError(t, err)
		assert.NotNil(t, server)
		assert.NotNil(t, ports.Open, "project opener defaults to project.Open")
	})
}

func TestPorts_TemplateID(t *testing.T) {
	t.Run("explicit ID wins", func(t *testing.T) {
		ports := &Ports{Settings: &mockSettingsService{}}
		assert.Equal(t, "MPManuscriptTemplate:x", ports.templateID("MPManuscriptTemplate:x"))
	})

	t.Run("configured default", func(t *testing.T) {
		settings := domain.DefaultSettings()
		settings.Validation.Template = "MPManuscriptTemplate:letter"
		ports := &Ports{Settings: &mockSettingsService{settings: settings}}
		assert.Equal(t, "MPManuscriptTemplate:letter", ports.templateID(""))
	})

	t.Run("built-in default", func(t *testing.T) {
		ports := &Ports{}
		assert.Equal(t, domain.DefaultTemplateID, ports.templateID(""))
	})
}

func TestPorts_ValidateImages(t *testing.T) {
	assert.True(t, (&Ports{}).validateImages())

	settings := domain.DefaultSettings()
	settings.Validation.Images = false
	assert.False(t, (&Ports{Settings: &mockSettingsService{settings: settings}}).validateImages())
}
