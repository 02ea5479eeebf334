package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/manuscript-validator/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/manuscript-validator/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/manuscript-validator/internal/core/domain"
)

// colorMode returns the configured colour mode.
func colorMode() domain.ColorMode {
	if settingsService == nil {
		return domain.ColorModeAuto
	}
	settings, err := settingsService.Get()
	if err != nil || !settings.Output.Color.IsValid() {
		return domain.ColorModeAuto
	}
	return settings.Output.Color
}

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(int(f.Fd()))
}

// newRenderer returns a lipgloss renderer for w honouring the colour mode.
func newRenderer(w io.Writer, mode domain.ColorMode) *lipgloss.Renderer {
	r := lipgloss.NewRenderer(w)
	switch mode {
	case domain.ColorModeAlways:
		r.SetColorProfile(termenv.ANSI256)
	case domain.ColorModeNever:
		r.SetColorProfile(termenv.Ascii)
	case domain.ColorModeAuto:
		if !isTerminal(w) {
			r.SetColorProfile(termenv.Ascii)
		}
	}
	return r
}

// outputStyles returns the result styles for the command's output.
func outputStyles(cmd *cobra.Command) *styles.Styles {
	return styles.NewStylesWithRenderer(styles.DefaultTheme(), newRenderer(cmd.OutOrStdout(), colorMode()))
}

// printResults writes one line per result followed by a summary.
func printResults(cmd *cobra.Command, results []domain.ValidationResult, failedOnly bool) {
	s := outputStyles(cmd)

	for i := range results {
		r := &results[i]
		if failedOnly && (r.Passed || r.Ignored) {
			continue
		}
		marker := s.Result(r).Render(fmt.Sprintf("%-7s", styles.Marker(r)))
		line := fmt.Sprintf("  %s %s", marker, r.Message)
		if r.AffectedElementID != "" {
			line += " " + s.Muted.Render("("+r.AffectedElementID+")")
		}
		cmd.Println(line)
	}

	cmd.Println()
	cmd.Println(summary(s, status.CountResults(results)))
}

func summary(s *styles.Styles, c status.Counts) string {
	parts := []string{
		s.Passed.Render(fmt.Sprintf("%d passed", c.Passed)),
		s.Failed.Render(fmt.Sprintf("%d failed", c.Failed)),
	}
	if c.Ignored > 0 {
		parts = append(parts, s.Ignored.Render(fmt.Sprintf("%d ignored", c.Ignored)))
	}
	return strings.Join(parts, ", ")
}

// writeJSON writes v as indented JSON.
func writeJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}

// countFailed returns the number of failed results that are not ignored.
func countFailed(results []domain.ValidationResult) int {
	return status.CountResults(results).Failed
}
