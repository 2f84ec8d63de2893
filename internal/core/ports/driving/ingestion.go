package driving

import (
	"context"

	"github.com/llSourcell/AI-Compliance-Copilot/internal/core/domain"
)

// ActiveDocumentSource exposes the currently active document.
// The Query Controller reads it; nothing outside the Ingestion Controller writes it.
type ActiveDocumentSource interface {
	// ActiveDocument returns the active document, or nil if none.
	ActiveDocument() *domain.DocumentRef
}

// IngestTicket identifies one ingestion call started by BeginIngest.
type IngestTicket struct {
	// Seq is the controller-issued sequence number of the call.
	Seq uint64

	// Candidate is the file being uploaded.
	Candidate domain.UploadCandidate
}

// IngestCompletion carries the result of one ingestion call back to the controller.
type IngestCompletion struct {
	Ticket   IngestTicket
	Document domain.DocumentRef
	Err      error
}

// IngestResult is the discriminated result of an applied ingestion.
type IngestResult struct {
	// Succeeded is true if the server accepted the document.
	Succeeded bool

	// Activated is true if the document became the active document.
	Activated bool

	// Document is the ingested document (valid when Succeeded).
	Document domain.DocumentRef

	// Err is the failure (valid when !Succeeded).
	Err error

	// Detail is the human-readable failure text (valid when !Succeeded).
	Detail string

	// Status is the status line this call produced.
	Status string
}

// IngestionController owns the selected file and the active document.
type IngestionController interface {
	ActiveDocumentSource

	// SelectFile replaces the selected file. Non-PDFs from drop or watch
	// origins are ignored and return false with no error; from other
	// origins they return domain.ErrNotPDF. Selection never changes the
	// active document.
	SelectFile(candidate domain.UploadCandidate, origin domain.SelectionOrigin) (bool, error)
	// SelectPath inspects a local file and selects it with SelectFile rules.
	// For drop and watch origins, unreadable paths are ignored like non-PDFs.
	SelectPath(path string, origin domain.SelectionOrigin) (bool, error)

	// BeginIngest transitions to Uploading. It returns false when no file
	// is selected or an ingestion is already in flight.
	BeginIngest() (IngestTicket, bool)

	// RunIngest performs the upload call. It does not touch controller state.
	RunIngest(ctx context.Context, ticket IngestTicket) IngestCompletion

	// CompleteIngest applies a finished call and returns its result.
	CompleteIngest(completion IngestCompletion) IngestResult

	// Ingest runs BeginIngest, RunIngest and CompleteIngest in sequence.
	// The boolean is false if nothing was started.
	Ingest(ctx context.Context) (IngestResult, bool)

	// State returns a snapshot of the controller.
	State() domain.IngestionState
}
