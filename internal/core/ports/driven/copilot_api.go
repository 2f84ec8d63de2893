package driven

import (
	"context"

	"github.com/llSourcell/AI-Compliance-Copilot/internal/core/domain"
)

// CopilotAPI is the server boundary for ingestion and question answering.
// Implementations issue exactly one call per method invocation and never retry.
type CopilotAPI interface {
	// Ingest uploads the candidate as the sole payload and returns the
	// ingested document reference with its metrics.
	// Non-2xx responses are returned as *domain.APIError.
	Ingest(ctx context.Context, candidate domain.UploadCandidate) (domain.DocumentRef, error)

	// Query asks a question scoped by the request's source and privacy mode.
	// Non-2xx responses are returned as *domain.APIError. Wrong-typed
	// optional fields in a 2xx response are treated as absent.
	Query(ctx context.Context, req domain.QueryRequest) (domain.QueryOutcome, error)

	// BaseURL returns the configured API base URL.
	BaseURL() string
}
