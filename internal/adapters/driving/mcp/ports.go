package mcp

import (
	"net/http"

	"github.com/llSourcell/AI-Compliance-Copilot/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Ingestion owns the active document.
	Ingestion driving.IngestionController

	// Query owns privacy and the current answer.
	Query driving.QueryController

	// Metrics is served at /metrics in HTTP mode. Optional.
	Metrics http.Handler
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Ingestion == nil {
		return ErrMissingIngestionController
	}
	if p.Query == nil {
		return ErrMissingQueryController
	}
	return nil
}
