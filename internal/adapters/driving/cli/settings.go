package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/manuscript-validator/internal/core/domain"
)

var errSettingsNotConfigured = errors.New("settings service not configured")

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the default template, figure checks, output colour
and data directories.

Use subcommands to change a single setting or run the interactive wizard.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsWizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Interactive setup wizard",
	Long:  `Run an interactive wizard to configure all settings step by step.`,
	RunE:  runSettingsWizard,
}

var settingsTemplateCmd = &cobra.Command{
	Use:   "template [template-id]",
	Short: "Set the default template",
	Long: `Set the template used when --template is not given.

Without an argument, the available templates are listed for selection.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSettingsTemplate,
}

var settingsColorCmd = &cobra.Command{
	Use:   "color [mode]",
	Short: "Set the output colour mode",
	Long: `Set when output is coloured.

Available modes:
  auto   - colour when writing to a terminal
  always - always colour
  never  - never colour`,
	Args: cobra.ExactArgs(1),
	RunE: runSettingsColor,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsWizardCmd)
	settingsCmd.AddCommand(settingsTemplateCmd)
	settingsCmd.AddCommand(settingsColorCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errSettingsNotConfigured
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Validation]")
	cmd.Printf("  Template: %s\n", settings.Validation.Template)
	cmd.Printf("  Figure checks: %s\n", yesNo(settings.Validation.Images))
	cmd.Println()

	cmd.Println("[Output]")
	cmd.Printf("  Colour: %s\n", settings.Output.Color.Description())
	cmd.Println()

	cmd.Println("[Storage]")
	cmd.Printf("  Data directory: %s\n", orDefault(settings.Storage.DataDir))
	cmd.Printf("  Templates directory: %s\n", orDefault(settings.Templates.Dir))
	cmd.Println()

	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'manuscript-validator settings wizard' to fix configuration issues.")
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

func runSettingsWizard(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errSettingsNotConfigured
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Settings Wizard")
	cmd.Println("===============")
	cmd.Println()

	reader := bufio.NewReader(cmd.InOrStdin())

	cmd.Println("Step 1: Default Template")
	cmd.Println("------------------------")
	if id, ok := chooseTemplate(cmd, reader, settings.Validation.Template); ok {
		settings.Validation.Template = id
	}
	cmd.Println()

	cmd.Println("Step 2: Figure Checks")
	cmd.Println("---------------------")
	cmd.Printf("Check figure files (format, image data, resolution)? [%s]: ", yesNo(settings.Validation.Images))
	settings.Validation.Images = parseYesNo(readLine(reader), settings.Validation.Images)
	cmd.Println()

	cmd.Println("Step 3: Output Colour")
	cmd.Println("---------------------")
	modes := domain.AllColorModes()
	current := 1
	for i, mode := range modes {
		if mode == settings.Output.Color {
			current = i + 1
		}
		cmd.Printf("  %d. %s\n", i+1, mode.Description())
	}
	cmd.Printf("\nEnter choice [%d]: ", current)
	settings.Output.Color = modes[parseChoice(readLine(reader), len(modes), current)-1]
	cmd.Println()

	cmd.Println("Step 4: Directories")
	cmd.Println("-------------------")
	cmd.Printf("Data directory [%s]: ", orDefault(settings.Storage.DataDir))
	if dir := readLine(reader); dir != "" {
		settings.Storage.DataDir = dir
	}
	cmd.Printf("Templates directory [%s]: ", orDefault(settings.Templates.Dir))
	if dir := readLine(reader); dir != "" {
		settings.Templates.Dir = dir
	}
	cmd.Println()

	if err := settingsService.Save(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	cmd.Println("Configuration Complete!")
	cmd.Println("=======================")
	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
	} else {
		cmd.Println("All settings are valid and saved.")
	}

	return nil
}

func runSettingsTemplate(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errSettingsNotConfigured
	}

	var templateID string
	if len(args) == 1 {
		templateID = args[0]
	} else {
		settings, err := settingsService.Get()
		if err != nil {
			return fmt.Errorf("failed to get settings: %w", err)
		}
		id, ok := chooseTemplate(cmd, bufio.NewReader(cmd.InOrStdin()), settings.Validation.Template)
		if !ok {
			return errors.New("invalid selection")
		}
		templateID = id
	}

	if err := settingsService.SetDefaultTemplate(templateID); err != nil {
		return fmt.Errorf("failed to set default template: %w", err)
	}

	cmd.Printf("Default template set to: %s\n", templateID)
	return nil
}

func runSettingsColor(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errSettingsNotConfigured
	}

	mode := domain.ColorMode(strings.ToLower(args[0]))
	if err := settingsService.SetColorMode(mode); err != nil {
		return fmt.Errorf("failed to set colour mode: %w", err)
	}

	cmd.Printf("Colour mode set to: %s\n", mode.Description())
	return nil
}

// chooseTemplate lists the templates and reads a selection. It reports false
// when no template service is available or nothing was chosen.
func chooseTemplate(cmd *cobra.Command, reader *bufio.Reader, current string) (string, bool) {
	if validationService == nil {
		cmd.Printf("Template ID [%s]: ", current)
		id := readLine(reader)
		return id, id != ""
	}

	templates := validationService.Templates()
	if len(templates) == 0 {
		cmd.Println("No templates available.")
		return "", false
	}

	def := 1
	for i, t := range templates {
		if t.ID == current {
			def = i + 1
		}
		cmd.Printf("  %d. %s (%s)\n", i+1, t.Title, t.ID)
	}
	cmd.Printf("\nEnter choice [%d]: ", def)
	idx := parseChoice(readLine(reader), len(templates), def)
	return templates[idx-1].ID, true
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

func parseYesNo(input string, defaultVal bool) bool {
	switch strings.ToLower(input) {
	case "y", "yes":
		return true
	case "n", "no":
		return false
	default:
		return defaultVal
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func orDefault(s string) string {
	if s == "" {
		return "(default)"
	}
	return s
}
