package domain

const unknownDescription = "Unknown"

// ColorMode controls coloured terminal output.
type ColorMode string

// Available colour modes.
const (
	// ColorModeAuto colours output only when writing to a terminal.
	ColorModeAuto ColorMode = "auto"

	// ColorModeAlways always colours output.
	ColorModeAlways ColorMode = "always"

	// ColorModeNever never colours output.
	ColorModeNever ColorMode = "never"
)

// IsValid returns true if the colour mode is recognised.
func (m ColorMode) IsValid() bool {
	switch m {
	case ColorModeAuto, ColorModeAlways, ColorModeNever:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (m ColorMode) String() string {
	return string(m)
}

// Description returns a human-readable description of the mode.
func (m ColorMode) Description() string {
	switch m {
	case ColorModeAuto:
		return "Auto (colour when writing to a terminal)"
	case ColorModeAlways:
		return "Always"
	case ColorModeNever:
		return "Never"
	default:
		return unknownDescription
	}
}

// AllColorModes returns all available colour modes.
func AllColorModes() []ColorMode {
	return []ColorMode{ColorModeAuto, ColorModeAlways, ColorModeNever}
}

// ValidationSettings holds defaults for validation runs.
type ValidationSettings struct {
	// Template is the default template ID.
	Template string

	// Images enables the figure file checks.
	Images bool
}

// StorageSettings holds persistence configuration.
type StorageSettings struct {
	// DataDir holds the ignored-results database. Empty means the default
	// directory under the user's home.
	DataDir string
}

// TemplateSettings holds template data configuration.
type TemplateSettings struct {
	// Dir is an optional directory of extra template data files that are
	// merged over the built-in templates.
	Dir string
}

// OutputSettings holds presentation configuration.
type OutputSettings struct {
	Color ColorMode
}

// Settings holds all application settings.
type Settings struct {
	Validation ValidationSettings
	Storage    StorageSettings
	Templates  TemplateSettings
	Output     OutputSettings
}

// DefaultTemplateID is the template used when none is configured.
const DefaultTemplateID = "MPManuscriptTemplate:research-article"

// DefaultSettings returns settings with sensible defaults.
func DefaultSettings() Settings {
	return Settings{
		Validation: ValidationSettings{
			Template: DefaultTemplateID,
			Images:   true,
		},
		Output: OutputSettings{
			Color: ColorModeAuto,
		},
	}
}
