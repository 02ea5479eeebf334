// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rivo/uniseg"

	"github.com/custodia-labs/manuscript-validator/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/manuscript-validator/internal/core/domain"
)

// ResultList displays validation results in a navigable list.
type ResultList struct {
	all        []domain.ValidationResult
	visible    []int
	failedOnly bool
	selected   int
	styles     *styles.Styles
	width      int
	height     int
}

// NewResultList creates a new result list component.
func NewResultList(s *styles.Styles) *ResultList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &ResultList{
		styles: s,
		width:  80,
		height: 10,
	}
}

// Init initialises the result list.
func (r *ResultList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (r *ResultList) Update(msg tea.Msg) (*ResultList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			r.MoveUp()
		case "down", "j":
			r.MoveDown()
		case "home", "g":
			r.selected = 0
		case "end", "G":
			if len(r.visible) > 0 {
				r.selected = len(r.visible) - 1
			}
		}
	}
	return r, nil
}

// View renders the result list.
func (r *ResultList) View() string {
	if len(r.visible) == 0 {
		if r.failedOnly && len(r.all) > 0 {
			return r.styles.Passed.Render("No failures")
		}
		return r.styles.Muted.Render("No results")
	}

	lines := make([]string, 0, len(r.visible)*2+2)

	label := "Results"
	if r.failedOnly {
		label = "Failures"
	}
	lines = append(lines, r.styles.Subtitle.Render(fmt.Sprintf("%s (%d)", label, len(r.visible))), "")

	// Each result takes two lines.
	visibleCount := (r.height - 4) / 2
	if visibleCount < 1 {
		visibleCount = 1
	}

	start := 0
	if r.selected >= visibleCount {
		start = r.selected - visibleCount + 1
	}
	end := min(start+visibleCount, len(r.visible))

	for i := start; i < end; i++ {
		lines = append(lines, r.renderResult(i, &r.all[r.visible[i]]))
	}

	return strings.Join(lines, "\n")
}

// renderResult formats a single result and its type line.
func (r *ResultList) renderResult(index int, result *domain.ValidationResult) string {
	indicator := "  "
	if index == r.selected {
		indicator = "> "
	}

	marker := fmt.Sprintf("[%-7s]", styles.Marker(result))
	message := truncate(result.Message, max(r.width-14, 10))

	var first string
	if index == r.selected {
		first = r.styles.Selected.Render(indicator + marker + " " + message)
	} else {
		first = indicator + r.styles.Result(result).Render(marker) + " " + r.styles.Normal.Render(message)
	}

	detail := string(result.Type)
	if result.AffectedElementID != "" {
		detail += " · " + result.AffectedElementID
	}
	if !result.Passed && result.Type.Fixable() && !result.Ignored {
		detail += " · fixable"
	}

	return first + "\n" + r.styles.Muted.Render("    "+truncate(detail, max(r.width-6, 20)))
}

// truncate shortens s to at most width grapheme clusters.
func truncate(s string, width int) string {
	if uniseg.GraphemeClusterCount(s) <= width {
		return s
	}

	var b strings.Builder
	g := uniseg.NewGraphemes(s)
	for n := 0; n < width-3 && g.Next(); n++ {
		b.WriteString(g.Str())
	}
	return b.String() + "..."
}

// SetResults replaces the results, keeping the selection on the same result
// when it is still listed.
func (r *ResultList) SetResults(results []domain.ValidationResult) {
	var selectedID string
	if current := r.SelectedResult(); current != nil {
		selectedID = current.ID
	}

	r.all = results
	r.refilter()

	r.selected = 0
	for i, idx := range r.visible {
		if r.all[idx].ID == selectedID {
			r.selected = i
			break
		}
	}
}

func (r *ResultList) refilter() {
	r.visible = r.visible[:0]
	for i := range r.all {
		if r.failedOnly && r.all[i].Passed {
			continue
		}
		r.visible = append(r.visible, i)
	}
	if r.selected >= len(r.visible) {
		r.selected = max(len(r.visible)-1, 0)
	}
}

// SetFailedOnly switches between all results and failures only.
func (r *ResultList) SetFailedOnly(failedOnly bool) {
	r.failedOnly = failedOnly
	r.selected = 0
	r.refilter()
}

// FailedOnly reports whether only failures are listed.
func (r *ResultList) FailedOnly() bool {
	return r.failedOnly
}

// Results returns every result, including hidden ones.
func (r *ResultList) Results() []domain.ValidationResult {
	return r.all
}

// Selected returns the index of the selected result among the listed ones.
func (r *ResultList) Selected() int {
	return r.selected
}

// SetSelected sets the selected index.
func (r *ResultList) SetSelected(index int) {
	if index >= 0 && index < len(r.visible) {
		r.selected = index
	}
}

// SelectedResult returns the currently selected result, or nil if none.
func (r *ResultList) SelectedResult() *domain.ValidationResult {
	if r.selected < 0 || r.selected >= len(r.visible) {
		return nil
	}
	return &r.all[r.visible[r.selected]]
}

// MoveUp moves selection up.
func (r *ResultList) MoveUp() {
	if r.selected > 0 {
		r.selected--
	}
}

// MoveDown moves selection down.
func (r *ResultList) MoveDown() {
	if r.selected < len(r.visible)-1 {
		r.selected++
	}
}

// SetDimensions sets the component dimensions.
func (r *ResultList) SetDimensions(width, height int) {
	r.width = width
	r.height = height
}

// Count returns the number of listed results.
func (r *ResultList) Count() int {
	return len(r.visible)
}

// IsEmpty returns whether no result is listed.
func (r *ResultList) IsEmpty() bool {
	return len(r.visible) == 0
}
