package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/manuscript-validator/internal/core/domain"
	"github.com/custodia-labs/manuscript-validator/internal/core/ports/driving"
)

// defaultFixPasses covers a missing section that also breaks the section order.
const defaultFixPasses = 2

// fixOutput is the JSON shape of the fix command.
type fixOutput struct {
	Applied int                       `json:"applied"`
	SavedTo string                    `json:"savedTo,omitempty"`
	Results []domain.ValidationResult `json:"results"`
}

var (
	fixTarget targetFlags
	fixOut    string
	fixPasses int
	fixDryRun bool
	fixJSON   bool
)

var fixCmd = &cobra.Command{
	Use:   "fix [project]",
	Short: "Repair fixable failures",
	Long: `Validate a manuscript, repair the fixable failures and validate again.

Missing required sections are added, sections are put in the required order,
section titles are corrected and keywords are sorted. Prose is never edited.

The project is saved in place unless --out names another file or directory;
the output form follows its extension (.manuproj, .json) or is a directory.

Examples:
  manuscript-validator fix paper.manuproj
  manuscript-validator fix paper/ --out fixed.manuproj
  manuscript-validator fix paper.manuproj --dry-run`,
	Args: cobra.ExactArgs(1),
	RunE: runFix,
}

func init() {
	fixTarget.bind(fixCmd)
	fixCmd.Flags().StringVarP(&fixOut, "out", "o", "", "write the fixed project here instead of in place")
	fixCmd.Flags().IntVar(&fixPasses, "passes", defaultFixPasses, "maximum number of fix and validate cycles")
	fixCmd.Flags().BoolVar(&fixDryRun, "dry-run", false, "report what would be fixed without saving")
	fixCmd.Flags().BoolVar(&fixJSON, "json", false, "output the remaining results as JSON")
	rootCmd.AddCommand(fixCmd)
}

func runFix(cmd *cobra.Command, args []string) error {
	if fixPasses < 1 {
		return fmt.Errorf("--passes must be at least 1, got %d", fixPasses)
	}

	t, err := openTarget(args[0], fixTarget)
	if err != nil {
		return err
	}
	defer t.Close()

	resp, err := validationService.Fix(cmd.Context(), driving.FixRequest{
		ValidateRequest: t.request,
		Passes:          fixPasses,
	})
	if err != nil {
		return fmt.Errorf("fix failed: %w", err)
	}

	saved := ""
	if !fixDryRun && (resp.Applied > 0 || fixOut != "") {
		if err := t.project.Save(fixOut); err != nil {
			return fmt.Errorf("failed to save project: %w", err)
		}
		saved = fixOut
		if saved == "" {
			saved = t.project.Path
		}
	}

	if fixJSON {
		return writeJSON(cmd, fixOutput{
			Applied: resp.Applied,
			SavedTo: saved,
			Results: resp.Results,
		})
	}

	cmd.Printf("Applied %d fixes\n", resp.Applied)
	switch {
	case saved != "":
		cmd.Printf("Saved to %s\n", saved)
	case fixDryRun && resp.Applied > 0:
		cmd.Println("Dry run: project not saved")
	}

	remaining := failedResults(resp.Results)
	if len(remaining) == 0 {
		cmd.Println("All checks pass.")
		return nil
	}
	cmd.Println()
	cmd.Println("Remaining failures:")
	printResults(cmd, remaining, true)
	return nil
}
