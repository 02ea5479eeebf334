// Package detail provides the validation result details view for the TUI.
package detail

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/manuscript-validator/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/manuscript-validator/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/manuscript-validator/internal/core/domain"
)

// View is the result details view.
type View struct {
	styles *styles.Styles

	result       *domain.ValidationResult
	scrollOffset int
	width        int
	height       int
	ready        bool
	err          error
}

// NewView creates a new result details view.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles: s,
	}
}

// SetResult sets the result to display.
func (v *View) SetResult(result *domain.ValidationResult) {
	v.result = result
	v.scrollOffset = 0
	v.err = nil
}

// SetError sets an error to display.
func (v *View) SetError(err error) {
	v.err = err
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the details view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.ErrorOccurred:
		v.err = msg.Err
		return v, nil
	}

	return v, nil
}

// handleKeyMsg handles key presses.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.scrollOffset > 0 {
			v.scrollOffset--
		}
	case "down", "j":
		if v.scrollOffset < v.maxScrollOffset() {
			v.scrollOffset++
		}
	case "esc":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewResults}
		}
	}

	return v, nil
}

// visibleLines returns the number of lines that can be displayed.
func (v *View) visibleLines() int {
	// Title, separator, help and padding.
	return max(v.height-6, 1)
}

func (v *View) maxScrollOffset() int {
	return max(len(v.buildContent())-v.visibleLines(), 0)
}

// buildContent builds the content lines for display.
func (v *View) buildContent() []string {
	r := v.result
	if r == nil {
		return nil
	}

	status := styles.Marker(r)
	lines := []string{
		formatField("Status", status),
		formatField("Type", string(r.Type)),
		formatField("Severity", strconv.Itoa(r.Severity)),
	}
	if r.AffectedElementID != "" {
		lines = append(lines, formatField("Element", r.AffectedElementID))
	}
	if r.ID != "" {
		lines = append(lines, formatField("ID", r.ID))
	}
	if !r.Passed && !r.Ignored {
		fixable := "no"
		if r.Type.Fixable() {
			fixable = "yes"
		}
		lines = append(lines, formatField("Fixable", fixable))
	}

	if r.Message != "" {
		lines = append(lines, "", "Message:")
		for _, l := range wrap(r.Message, max(v.width-6, 40)) {
			lines = append(lines, "  "+l)
		}
	}

	if r.Data != nil {
		payload, err := json.MarshalIndent(r.Data, "", "  ")
		if err == nil && string(payload) != "{}" {
			lines = append(lines, "", "Data:")
			for _, l := range strings.Split(string(payload), "\n") {
				lines = append(lines, "  "+l)
			}
		}
	}

	return lines
}

// formatField formats a field for display.
func formatField(label, value string) string {
	return fmt.Sprintf("%-10s %s", label+":", value)
}

// wrap splits text into lines no wider than width, breaking on spaces.
func wrap(text string, width int) []string {
	var lines []string
	var line strings.Builder
	for _, word := range strings.Fields(text) {
		if line.Len() > 0 && line.Len()+1+len(word) > width {
			lines = append(lines, line.String())
			line.Reset()
		}
		if line.Len() > 0 {
			line.WriteByte(' ')
		}
		line.WriteString(word)
	}
	if line.Len() > 0 {
		lines = append(lines, line.String())
	}
	return lines
}

// View renders the result details view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Result Details"))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", max(min(v.width-4, 60), 0)))
	b.WriteString("\n\n")

	if v.err != nil {
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	}

	if v.result == nil {
		b.WriteString(v.styles.Muted.Render("No result selected"))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	}

	lines := v.buildContent()
	visible := v.visibleLines()
	for i := v.scrollOffset; i < len(lines) && i < v.scrollOffset+visible; i++ {
		b.WriteString(v.renderLine(lines[i]))
		b.WriteString("\n")
	}

	if len(lines) > visible {
		b.WriteString("\n")
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  [Line %d-%d of %d]",
			v.scrollOffset+1,
			min(v.scrollOffset+visible, len(lines)),
			len(lines))))
	}

	b.WriteString("\n\n")
	b.WriteString(v.renderHelp())

	return b.String()
}

func (v *View) renderLine(line string) string {
	switch {
	case line == "Message:" || line == "Data:":
		return v.styles.Subtitle.Render(line)
	case strings.HasPrefix(line, "  "):
		return v.styles.Normal.Render(line)
	case strings.HasPrefix(line, "Status:"):
		label, value, _ := strings.Cut(line, ":")
		return v.styles.Subtitle.Render(label+":") + v.styles.Result(v.result).Render(value)
	case strings.Contains(line, ":"):
		label, value, _ := strings.Cut(line, ":")
		return v.styles.Subtitle.Render(label+":") + v.styles.Normal.Render(value)
	default:
		return v.styles.Normal.Render(line)
	}
}

// renderHelp renders the help footer.
func (v *View) renderHelp() string {
	return v.styles.Help.Render("[↑/↓] scroll  [f] fix  [i] ignore  [esc] back")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Result returns the displayed result.
func (v *View) Result() *domain.ValidationResult {
	return v.result
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
