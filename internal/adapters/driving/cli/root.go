// Package cli provides the cobra command tree for manuscript-validator.
package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/manuscript-validator/internal/core/ports/driving"
	"github.com/custodia-labs/manuscript-validator/internal/logger"
)

// version is set at build time.
var version = "dev"

// Services used by the commands. Set by SetServices before Execute.
var (
	validationService driving.ValidationService
	settingsService   driving.SettingsService
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "manuscript-validator",
	Short: "Validate manuscripts against editorial templates",
	Long: `manuscript-validator checks a manuscript project against the structural
and content requirements of a template: required sections and their order,
section titles, word and character limits, figure formats and resolution,
keyword order and more.

Fixable failures (missing sections, section order, section titles and keyword
order) can be repaired automatically, and accepted failures can be ignored so
they are not reported again.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// SetServices sets the driving ports the commands use.
func SetServices(validation driving.ValidationService, settings driving.SettingsService) {
	validationService = validation
	settingsService = settings
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command. Command output goes to stdout.
func Execute(ctx context.Context) error {
	rootCmd.SetOut(os.Stdout)
	return rootCmd.ExecuteContext(ctx)
}
