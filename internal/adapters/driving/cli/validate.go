package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/manuscript-validator/internal/core/domain"
)

var (
	validateTarget     targetFlags
	validateJSON       bool
	validateFailedOnly bool
	validateStrict     bool
	validateWatch      bool
)

var validateCmd = &cobra.Command{
	Use:   "validate [project]",
	Short: "Validate a manuscript against its template",
	Long: `Validate a manuscript project against a template and print one line per
check.

The project is a .manuproj archive, a project directory, or an
index.manuscript-json file. Results recorded as ignored are not reported.

Examples:
  manuscript-validator validate paper.manuproj
  manuscript-validator validate paper/ --template MPManuscriptTemplate:letter
  manuscript-validator validate paper.manuproj --failed --strict
  manuscript-validator validate paper/ --watch`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	validateTarget.bind(validateCmd)
	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "output results as JSON")
	validateCmd.Flags().BoolVar(&validateFailedOnly, "failed", false, "only print failed results")
	validateCmd.Flags().BoolVar(&validateStrict, "strict", false, "exit with an error when any check fails")
	validateCmd.Flags().BoolVarP(&validateWatch, "watch", "w", false, "validate again whenever the project changes")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	path := args[0]

	results, err := validateOnce(cmd.Context(), path)
	if err != nil {
		return err
	}
	if err := reportResults(cmd, results); err != nil {
		return err
	}

	if validateWatch {
		cmd.PrintErrln("Watching for changes. Press Ctrl+C to stop.")
		return watchProject(cmd.Context(), path, watchDebounce, func() {
			results, err := validateOnce(cmd.Context(), path)
			cmd.Println()
			cmd.Printf("Validated at %s\n", time.Now().Format(time.TimeOnly))
			if err != nil {
				cmd.PrintErrf("Error: %v\n", err)
				return
			}
			if err := reportResults(cmd, results); err != nil {
				cmd.PrintErrf("Error: %v\n", err)
			}
		})
	}

	if n := countFailed(results); validateStrict && n > 0 {
		return fmt.Errorf("validation failed: %d checks failed", n)
	}
	return nil
}

// validateOnce opens the project, validates it and releases it.
func validateOnce(ctx context.Context, path string) ([]domain.ValidationResult, error) {
	t, err := openTarget(path, validateTarget)
	if err != nil {
		return nil, err
	}
	defer t.Close()

	results, err := validationService.Validate(ctx, t.request)
	if err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	return results, nil
}

func reportResults(cmd *cobra.Command, results []domain.ValidationResult) error {
	if validateJSON {
		if validateFailedOnly {
			results = failedResults(results)
		}
		return writeJSON(cmd, results)
	}
	printResults(cmd, results, validateFailedOnly)
	return nil
}

func failedResults(results []domain.ValidationResult) []domain.ValidationResult {
	out := make([]domain.ValidationResult, 0, len(results))
	for _, r := range results {
		if !r.Passed && !r.Ignored {
			out = append(out, r)
		}
	}
	return out
}
