// Package tui provides an interactive terminal user interface for the copilot.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/llSourcell/AI-Compliance-Copilot/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Ingestion owns the selected file and the active document.
	Ingestion driving.IngestionController

	// Query owns the privacy toggle and the current answer.
	Query driving.QueryController

	// Endpoint is the API base URL shown in the status bar.
	Endpoint string

	// StartDir is where the file picker opens. Empty means the
	// working directory.
	StartDir string
}

// NewPorts creates a new Ports aggregate with the given controllers.
func NewPorts(ingestion driving.IngestionController, query driving.QueryController) *Ports {
	return &Ports{
		Ingestion: ingestion,
		Query:     query,
	}
}

// Validate ensures all required ports are set.
// Returns an error if any port is nil.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Ingestion == nil {
		return ErrMissingIngestionController
	}
	if p.Query == nil {
		return ErrMissingQueryController
	}
	return nil
}
