// Package mcp provides an MCP (Model Context Protocol) server adapter for the copilot.
// It lets AI assistants ingest PDFs and ask grounded questions through the
// same controllers the TUI uses.
package mcp

import "errors"

// ErrMissingIngestionController is returned when the ingestion controller is not provided.
var ErrMissingIngestionController = errors.New("mcp: ingestion controller is required")

// ErrMissingQueryController is returned when the query controller is not provided.
var ErrMissingQueryController = errors.New("mcp: query controller is required")
