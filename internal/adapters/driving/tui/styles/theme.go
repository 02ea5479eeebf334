// Package styles provides colour themes and styling for the TUI and the
// coloured CLI output.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/manuscript-validator/internal/core/domain"
)

// Theme defines the colour palette.
type Theme struct {
	// Primary is the main accent colour.
	Primary lipgloss.Color

	// Secondary is the secondary accent colour.
	Secondary lipgloss.Color

	// Foreground is the default text colour.
	Foreground lipgloss.Color

	// Muted is for less important text.
	Muted lipgloss.Color

	// Passed marks passed results.
	Passed lipgloss.Color

	// Warning marks failures of severity 0.
	Warning lipgloss.Color

	// Failed marks failures of severity 1 and above.
	Failed lipgloss.Color

	// Ignored marks ignored results.
	Ignored lipgloss.Color

	// Border is the border colour.
	Border lipgloss.Color

	// Bar is the status bar background.
	Bar lipgloss.Color
}

// DefaultTheme returns the default colour theme.
func DefaultTheme() *Theme {
	return &Theme{
		Primary:    lipgloss.Color("#7C3AED"), // Purple
		Secondary:  lipgloss.Color("#06B6D4"), // Cyan
		Foreground: lipgloss.Color("#CDD6F4"), // Light gray
		Muted:      lipgloss.Color("#6C7086"), // Medium gray
		Passed:     lipgloss.Color("#A6E3A1"), // Green
		Warning:    lipgloss.Color("#F9E2AF"), // Yellow
		Failed:     lipgloss.Color("#F38BA8"), // Red
		Ignored:    lipgloss.Color("#9399B2"), // Slate
		Border:     lipgloss.Color("#45475A"), // Border gray
		Bar:        lipgloss.Color("#181825"),
	}
}

// Styles contains pre-configured lipgloss styles.
type Styles struct {
	theme *Theme

	// Title style for headers.
	Title lipgloss.Style

	// Subtitle style for secondary headers.
	Subtitle lipgloss.Style

	// Normal style for regular text.
	Normal lipgloss.Style

	// Muted style for less important text.
	Muted lipgloss.Style

	// Selected style for highlighted items.
	Selected lipgloss.Style

	// Passed, Warning, Failed and Ignored style result markers.
	Passed  lipgloss.Style
	Warning lipgloss.Style
	Failed  lipgloss.Style
	Ignored lipgloss.Style

	// Error style for error messages.
	Error lipgloss.Style

	// StatusBar style for the status bar.
	StatusBar lipgloss.Style

	// Help style for help text.
	Help lipgloss.Style

	// Border style for bordered containers.
	Border lipgloss.Style
}

// NewStyles creates styles from a theme for the default renderer.
func NewStyles(theme *Theme) *Styles {
	return NewStylesWithRenderer(theme, lipgloss.DefaultRenderer())
}

// NewStylesWithRenderer creates styles bound to a renderer, so colour
// detection follows the renderer's output rather than stdout.
func NewStylesWithRenderer(theme *Theme, r *lipgloss.Renderer) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}

	return &Styles{
		theme: theme,

		Title: r.NewStyle().
			Bold(true).
			Foreground(theme.Primary),

		Subtitle: r.NewStyle().
			Bold(true).
			Foreground(theme.Secondary),

		Normal: r.NewStyle().
			Foreground(theme.Foreground),

		Muted: r.NewStyle().
			Foreground(theme.Muted),

		Selected: r.NewStyle().
			Bold(true).
			Foreground(theme.Foreground).
			Background(theme.Primary),

		Passed: r.NewStyle().
			Foreground(theme.Passed),

		Warning: r.NewStyle().
			Foreground(theme.Warning),

		Failed: r.NewStyle().
			Bold(true).
			Foreground(theme.Failed),

		Ignored: r.NewStyle().
			Faint(true).
			Foreground(theme.Ignored),

		Error: r.NewStyle().
			Foreground(theme.Failed),

		StatusBar: r.NewStyle().
			Foreground(theme.Muted).
			Background(theme.Bar).
			Padding(0, 1),

		Help: r.NewStyle().
			Foreground(theme.Muted),

		Border: r.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border),
	}
}

// DefaultStyles returns styles with the default theme.
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// Theme returns the theme used by these styles.
func (s *Styles) Theme() *Theme {
	return s.theme
}

// Result returns the style for a result: ignored, passed, or failed by
// severity.
func (s *Styles) Result(r *domain.ValidationResult) lipgloss.Style {
	switch {
	case r.Ignored:
		return s.Ignored
	case r.Passed:
		return s.Passed
	case r.Severity == 0:
		return s.Warning
	default:
		return s.Failed
	}
}

// Marker returns a short status label for a result.
func Marker(r *domain.ValidationResult) string {
	switch {
	case r.Ignored:
		return "IGNORED"
	case r.Passed:
		return "PASS"
	case r.Severity == 0:
		return "WARN"
	default:
		return "FAIL"
	}
}
