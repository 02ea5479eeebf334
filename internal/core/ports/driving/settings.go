package driving

import "github.com/custodia-labs/manuscript-validator/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.Settings, error)

	// Save persists application settings.
	Save(settings *domain.Settings) error

	// SetDefaultTemplate updates the default template.
	SetDefaultTemplate(templateID string) error

	// SetColorMode updates the output colour mode.
	SetColorMode(mode domain.ColorMode) error

	// Validate checks that the current settings are usable.
	Validate() error

	// GetDefaults returns default settings.
	GetDefaults() domain.Settings
}
