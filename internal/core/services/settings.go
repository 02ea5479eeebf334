package services

import (
	"fmt"

	"github.com/custodia-labs/manuscript-validator/internal/core/domain"
	"github.com/custodia-labs/manuscript-validator/internal/core/ports/driven"
	"github.com/custodia-labs/manuscript-validator/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyValidationTemplate = "validation.template"
	keyValidationImages   = "validation.images"
	keyStorageDataDir     = "storage.data_dir"
	keyTemplatesDir       = "templates.dir"
	keyOutputColor        = "output.color"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	templates   driven.TemplateStore
}

// NewSettingsService creates a new settings service.
// templates may be nil; template IDs are then not checked.
func NewSettingsService(configStore driven.ConfigStore, templates driven.TemplateStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		templates:   templates,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.Settings, error) {
	defaults := domain.DefaultSettings()

	settings := &domain.Settings{
		Validation: domain.ValidationSettings{
			Template: s.getString(keyValidationTemplate, defaults.Validation.Template),
			Images:   s.getBool(keyValidationImages, defaults.Validation.Images),
		},
		Storage: domain.StorageSettings{
			DataDir: s.configStore.GetString(keyStorageDataDir),
		},
		Templates: domain.TemplateSettings{
			Dir: s.configStore.GetString(keyTemplatesDir),
		},
		Output: domain.OutputSettings{
			Color: s.getColorMode(defaults.Output.Color),
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.Settings) error {
	if err := s.configStore.Set(keyValidationTemplate, settings.Validation.Template); err != nil {
		return fmt.Errorf("save validation template: %w", err)
	}
	if err := s.configStore.Set(keyValidationImages, settings.Validation.Images); err != nil {
		return fmt.Errorf("save validation images: %w", err)
	}
	if err := s.configStore.Set(keyStorageDataDir, settings.Storage.DataDir); err != nil {
		return fmt.Errorf("save storage data_dir: %w", err)
	}
	if err := s.configStore.Set(keyTemplatesDir, settings.Templates.Dir); err != nil {
		return fmt.Errorf("save templates dir: %w", err)
	}
	if err := s.configStore.Set(keyOutputColor, settings.Output.Color.String()); err != nil {
		return fmt.Errorf("save output color: %w", err)
	}
	return nil
}

// SetDefaultTemplate updates the default template.
func (s *SettingsService) SetDefaultTemplate(templateID string) error {
	if err := s.checkTemplate(templateID); err != nil {
		return err
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}
	settings.Validation.Template = templateID
	return s.Save(settings)
}

// SetColorMode updates the output colour mode.
func (s *SettingsService) SetColorMode(mode domain.ColorMode) error {
	if !mode.IsValid() {
		return fmt.Errorf("invalid color mode: %s", mode)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}
	settings.Output.Color = mode
	return s.Save(settings)
}

// Validate checks that the current settings are usable.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if !settings.Output.Color.IsValid() {
		return fmt.Errorf("invalid color mode: %s", settings.Output.Color)
	}
	return s.checkTemplate(settings.Validation.Template)
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.Settings {
	return domain.DefaultSettings()
}

func (s *SettingsService) checkTemplate(templateID string) error {
	if templateID == "" {
		return fmt.Errorf("empty template ID: %w", domain.ErrInvalidInput)
	}
	if s.templates == nil {
		return nil
	}
	if _, err := s.templates.Template(templateID); err != nil {
		return fmt.Errorf("template %q: %w", templateID, err)
	}
	return nil
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getColorMode(defaultVal domain.ColorMode) domain.ColorMode {
	val := s.configStore.GetString(keyOutputColor)
	if val == "" {
		return defaultVal
	}
	mode := domain.ColorMode(val)
	if !mode.IsValid() {
		return defaultVal
	}
	return mode
}
