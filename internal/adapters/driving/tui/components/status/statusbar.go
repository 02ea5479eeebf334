// Package status provides status bar components for the TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/manuscript-validator/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/manuscript-validator/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/manuscript-validator/internal/core/domain"
)

// State represents the current application state for display.
type State string

const (
	StateReady      State = "ready"
	StateValidating State = "validating"
	StateFixing     State = "fixing"
	StateSaving     State = "saving"
	StateError      State = "error"
	StateHelp       State = "help"
	StateResults    State = "results"
)

// Counts summarises a set of validation results.
type Counts struct {
	Passed  int
	Failed  int
	Ignored int
}

// Total returns the number of results counted.
func (c Counts) Total() int {
	return c.Passed + c.Failed + c.Ignored
}

// CountResults tallies results by outcome. Ignored results are counted
// separately whether or not they passed.
func CountResults(results []domain.ValidationResult) Counts {
	var c Counts
	for i := range results {
		switch {
		case results[i].Ignored:
			c.Ignored++
		case results[i].Passed:
			c.Passed++
		default:
			c.Failed++
		}
	}
	return c
}

// Bar displays application status and keybinding hints.
type Bar struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	state   State
	message string
	counts  Counts
	width   int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles: s,
		keymap: km,
		state:  StateReady,
		width:  80,
	}
}

// Init initialises the status bar.
func (s *Bar) Init() tea.Cmd {
	return nil
}

// Update handles status bar messages.
func (s *Bar) Update(msg tea.Msg) (*Bar, tea.Cmd) {
	// Bar is mostly passive, updated via Set methods
	return s, nil
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.renderRight()

	padding := s.width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	return s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

// renderLeft renders the left side of the status bar.
func (s *Bar) renderLeft() string {
	switch s.state {
	case StateValidating:
		return s.styles.Muted.Render("Validating...")
	case StateFixing:
		return s.styles.Muted.Render("Fixing...")
	case StateSaving:
		return s.styles.Muted.Render("Saving...")
	case StateError:
		if s.message != "" {
			return s.styles.Error.Render(fmt.Sprintf("Error: %s", s.message))
		}
		return s.styles.Error.Render("Error")
	case StateHelp:
		return s.styles.Normal.Render("Help")
	case StateReady, StateResults:
		if s.counts.Total() == 0 {
			if s.message != "" {
				return s.styles.Normal.Render(s.message)
			}
			return s.styles.Muted.Render("Ready")
		}
		return s.renderCounts()
	}
	return s.styles.Muted.Render("Ready")
}

func (s *Bar) renderCounts() string {
	parts := []string{
		s.styles.Passed.Render(fmt.Sprintf("%d passed", s.counts.Passed)),
		s.styles.Failed.Render(fmt.Sprintf("%d failed", s.counts.Failed)),
	}
	if s.counts.Ignored > 0 {
		parts = append(parts, s.styles.Ignored.Render(fmt.Sprintf("%d ignored", s.counts.Ignored)))
	}
	out := strings.Join(parts, s.styles.Muted.Render(", "))
	if s.message != "" {
		out += s.styles.Muted.Render(" | ") + s.styles.Normal.Render(s.message)
	}
	return out
}

// renderRight renders keybinding hints.
func (s *Bar) renderRight() string {
	var bindings []key.Binding

	if s.state == StateResults && s.counts.Total() > 0 {
		bindings = s.keymap.ResultsHelp()
	} else {
		bindings = s.keymap.ShortHelp()
	}

	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return s.styles.Muted.Render(strings.Join(hints, " | "))
}

// SetState sets the current state.
func (s *Bar) SetState(state State) {
	s.state = state
}

// State returns the current state.
func (s *Bar) State() State {
	return s.state
}

// SetMessage sets a custom message.
func (s *Bar) SetMessage(message string) {
	s.message = message
}

// Message returns the current message.
func (s *Bar) Message() string {
	return s.message
}

// SetCounts sets the result tallies.
func (s *Bar) SetCounts(counts Counts) {
	s.counts = counts
}

// Counts returns the current result tallies.
func (s *Bar) Counts() Counts {
	return s.counts
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Width returns the current width.
func (s *Bar) Width() int {
	return s.width
}

// Clear resets the status bar to default state.
func (s *Bar) Clear() {
	s.state = StateReady
	s.message = ""
	s.counts = Counts{}
}
