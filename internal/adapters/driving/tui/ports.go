// Package tui provides an interactive terminal user interface for taking
// exam sessions. It implements a driving adapter following hexagonal
// architecture principles.
package tui

import (
	"github.com/custodia-labs/gradewise/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the TUI.
type Ports struct {
	// Sessions lists exam sessions and grades submissions.
	Sessions driving.SessionService
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(sessions driving.SessionService) *Ports {
	return &Ports{Sessions: sessions}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Sessions == nil {
		return ErrMissingSessionService
	}
	return nil
}
