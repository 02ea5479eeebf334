package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/manuscript-validator/internal/adapters/driving/tui"
)

var reviewCmd = &cobra.Command{
	Use:   "review [project]",
	Short: "Review validation results interactively",
	Long: `Launch the interactive terminal UI for a manuscript project.

The review screen validates the manuscript and lists every result. Failures
can be fixed, ignored and inspected, and the project saved in place.

Controls:
  ↑/k, ↓/j - Navigate results
  Enter    - Show details
  f / F    - Fix selected / fix all
  i        - Ignore or restore selected
  tab      - Show failures only
  r        - Revalidate
  s        - Save project
  ?        - Toggle help
  q        - Quit`,
	Args: cobra.ExactArgs(1),
	RunE: runReview,
}

var reviewTarget targetFlags

func init() {
	reviewTarget.bind(reviewCmd)
	rootCmd.AddCommand(reviewCmd)
}

func runReview(cmd *cobra.Command, args []string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("TUI panic: %v", r)
		}
	}()

	t, err := openTarget(args[0], reviewTarget)
	if err != nil {
		return err
	}
	defer t.Close()

	ports := tui.NewPorts(validationService, func() error {
		return t.project.Save("")
	})

	app, err := tui.NewApp(ports, t.request)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	if err := app.WithContext(cmd.Context()).Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
