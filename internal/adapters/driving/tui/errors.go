package tui

import "errors"

// ErrMissingIngestionController is returned when the ingestion controller is not provided.
var ErrMissingIngestionController = errors.New("tui: ingestion controller is required")

// ErrMissingQueryController is returned when the query controller is not provided.
var ErrMissingQueryController = errors.New("tui: query controller is required")

// ErrInvalidPorts is returned when ports validation fails.
var ErrInvalidPorts = errors.New("tui: invalid ports configuration")
