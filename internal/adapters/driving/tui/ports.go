// Package tui provides the interactive review screen for validation results.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/manuscript-validator/internal/core/ports/driving"
)

// Ports aggregates the driving ports required by the TUI.
type Ports struct {
	// Validation validates, fixes and ignores results.
	Validation driving.ValidationService

	// Save writes the reviewed document back to its project. Optional;
	// without it the save key reports an error.
	Save func() error
}

// NewPorts creates a new Ports aggregate.
func NewPorts(validation driving.ValidationService, save func() error) *Ports {
	return &Ports{
		Validation: validation,
		Save:       save,
	}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Validation == nil {
		return ErrMissingValidationService
	}
	return nil
}
