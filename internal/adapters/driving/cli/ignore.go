package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/manuscript-validator/internal/core/domain"
)

var ignoreCmd = &cobra.Command{
	Use:   "ignore",
	Short: "Manage ignored results",
	Long: `Record failures as accepted so they are no longer reported.

An ignored failure stays suppressed until the condition behind it changes:
a different word count, another section order, or another affected element
is reported again.`,
}

var ignoreAddCmd = &cobra.Command{
	Use:   "add [project]",
	Short: "Ignore failed results",
	Long: `Validate a manuscript and ignore the failures that match the filters.

Examples:
  manuscript-validator ignore add paper.manuproj --type section-max-words
  manuscript-validator ignore add paper.manuproj --element MPSection:abc --reason "agreed with editor"
  manuscript-validator ignore add paper.manuproj --all`,
	Args: cobra.ExactArgs(1),
	RunE: runIgnoreAdd,
}

var ignoreListCmd = &cobra.Command{
	Use:   "list",
	Short: "List ignored results",
	RunE:  runIgnoreList,
}

var ignoreRemoveCmd = &cobra.Command{
	Use:   "remove [record-id]...",
	Short: "Stop ignoring results",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runIgnoreRemove,
}

var (
	ignoreTarget     targetFlags
	ignoreType       string
	ignoreElement    string
	ignoreAll        bool
	ignoreReason     string
	ignoreManuscript string
	ignoreJSON       bool
)

func init() {
	ignoreTarget.bind(ignoreAddCmd)
	ignoreAddCmd.Flags().StringVar(&ignoreType, "type", "", "only ignore failures of this result type")
	ignoreAddCmd.Flags().StringVar(&ignoreElement, "element", "", "only ignore failures affecting this element ID")
	ignoreAddCmd.Flags().BoolVar(&ignoreAll, "all", false, "ignore every failure")
	ignoreAddCmd.Flags().StringVar(&ignoreReason, "reason", "", "why the failures are accepted")

	ignoreListCmd.Flags().StringVarP(&ignoreManuscript, "manuscript", "m", "", "only list records of this manuscript")
	ignoreListCmd.Flags().BoolVar(&ignoreJSON, "json", false, "output records as JSON")

	ignoreCmd.AddCommand(ignoreAddCmd)
	ignoreCmd.AddCommand(ignoreListCmd)
	ignoreCmd.AddCommand(ignoreRemoveCmd)
	rootCmd.AddCommand(ignoreCmd)
}

func runIgnoreAdd(cmd *cobra.Command, args []string) error {
	if !ignoreAll && ignoreType == "" && ignoreElement == "" {
		return errors.New("one of --type, --element or --all is required")
	}

	t, err := openTarget(args[0], ignoreTarget)
	if err != nil {
		return err
	}
	defer t.Close()

	results, err := validationService.Validate(cmd.Context(), t.request)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	var matched []domain.ValidationResult
	for _, r := range failedResults(results) {
		if ignoreType != "" && string(r.Type) != ignoreType {
			continue
		}
		if ignoreElement != "" && r.AffectedElementID != ignoreElement {
			continue
		}
		matched = append(matched, r)
	}

	if len(matched) == 0 {
		cmd.Println("No matching failures.")
		return nil
	}

	records, err := validationService.Ignore(cmd.Context(), t.request.ManuscriptID, matched, ignoreReason)
	if err != nil {
		return fmt.Errorf("failed to ignore results: %w", err)
	}

	cmd.Printf("Ignored %d results:\n", len(records))
	for _, rec := range records {
		cmd.Printf("  %s  %s\n", rec.ID, rec.Result.Message)
	}
	return nil
}

func runIgnoreList(cmd *cobra.Command, _ []string) error {
	if validationService == nil {
		return errValidationNotConfigured
	}

	records, err := validationService.ListIgnored(cmd.Context(), ignoreManuscript)
	if err != nil {
		return fmt.Errorf("failed to list ignored results: %w", err)
	}

	if ignoreJSON {
		return writeJSON(cmd, records)
	}

	if len(records) == 0 {
		cmd.Println("No ignored results.")
		return nil
	}

	cmd.Println("Ignored results:")
	cmd.Println()
	for _, rec := range records {
		cmd.Printf("  %s\n", rec.ID)
		cmd.Printf("      Manuscript: %s\n", rec.ManuscriptID)
		if rec.Result != nil {
			cmd.Printf("      Type: %s\n", rec.Result.Type)
			if rec.Result.Message != "" {
				cmd.Printf("      %s\n", rec.Result.Message)
			}
		}
		if rec.Reason != "" {
			cmd.Printf("      Reason: %s\n", rec.Reason)
		}
		cmd.Printf("      Ignored: %s\n", rec.IgnoredAt.Format("2006-01-02 15:04:05"))
		cmd.Println()
	}
	return nil
}

func runIgnoreRemove(cmd *cobra.Command, args []string) error {
	if validationService == nil {
		return errValidationNotConfigured
	}

	for _, id := range args {
		if err := validationService.Unignore(cmd.Context(), id); err != nil {
			return fmt.Errorf("failed to remove %s: %w", id, err)
		}
		cmd.Printf("Removed %s\n", id)
	}
	return nil
}
