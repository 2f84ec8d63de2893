package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotPDF indicates a selected file is not a PDF.
	ErrNotPDF = errors.New("file is not a PDF")

	// ErrEmptyQuestion indicates a question with no non-whitespace text.
	ErrEmptyQuestion = errors.New("question is empty")

	// ErrNoFileSelected indicates ingestion was requested without a selected file.
	ErrNoFileSelected = errors.New("no file selected")

	// ErrIngestInProgress indicates an ingestion call is already outstanding.
	ErrIngestInProgress = errors.New("ingestion in progress")

	// ErrQuerySuperseded indicates a newer submission replaced a query
	// before its response was applied.
	ErrQuerySuperseded = errors.New("query superseded by a newer question")

	// ErrMalformedResponse indicates a 2xx response whose body is not a JSON object.
	ErrMalformedResponse = errors.New("malformed response")

	// ErrInvalidSetting indicates a configuration value failed validation.
	ErrInvalidSetting = errors.New("invalid setting")
)

// APIError is returned for non-2xx responses from the copilot API.
// Detail holds the response body verbatim.
type APIError struct {
	// Operation is the API operation that failed ("ingest" or "query").
	Operation string

	// StatusCode is the HTTP status code.
	StatusCode int

	// Detail is the plain-text error body returned by the server.
	Detail string
}

// Error returns the server-provided detail, or a generic description when empty.
func (e *APIError) Error() string {
	if strings.TrimSpace(e.Detail) != "" {
		return e.Detail
	}
	return fmt.Sprintf("%s failed with status %d", e.Operation, e.StatusCode)
}

// ErrorDetail extracts the human-readable text for status display.
// Server-provided error bodies are returned verbatim; fallback is used
// when the error carries no readable text.
func ErrorDetail(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.Detail == "" {
			return fallback
		}
		return apiErr.Detail
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallback
}
