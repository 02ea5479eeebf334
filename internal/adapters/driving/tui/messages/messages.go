// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/manuscript-validator/internal/core/domain"
)

// ValidationCompleted carries validation results back to the model,
// together with the results recorded as ignored for the manuscript.
type ValidationCompleted struct {
	Results []domain.ValidationResult
	Ignored []domain.IgnoredResult
	Err     error
}

// FixCompleted signals that fixes were applied and the manuscript revalidated.
type FixCompleted struct {
	Applied int
	Results []domain.ValidationResult
	Err     error
}

// IgnoreToggled signals that a result was ignored or unignored.
type IgnoreToggled struct {
	ResultID string
	Ignored  bool
	Err      error
}

// Saved signals that the project was written.
type Saved struct {
	Err error
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewResults lists the validation results.
	ViewResults ViewType = iota
	// ViewDetail shows one result.
	ViewDetail
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewResults:
		return "results"
	case ViewDetail:
		return "detail"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}
