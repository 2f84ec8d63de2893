package domain

// IngestionPhase is the Ingestion Controller's state machine position.
type IngestionPhase int

// Ingestion phases. Succeeded and Failed are display states; the
// controller accepts a new file in any phase except Uploading.
const (
	IngestIdle IngestionPhase = iota
	IngestFileSelected
	IngestUploading
	IngestSucceeded
	IngestFailed
)

// String returns the string representation of the phase.
func (p IngestionPhase) String() string {
	switch p {
	case IngestIdle:
		return "idle"
	case IngestFileSelected:
		return "file_selected"
	case IngestUploading:
		return "uploading"
	case IngestSucceeded:
		return "succeeded"
	case IngestFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// InFlight returns true while an ingestion call is outstanding.
func (p IngestionPhase) InFlight() bool {
	return p == IngestUploading
}

// QueryPhase is the Query Controller's state machine position.
type QueryPhase int

// Query phases.
const (
	QueryIdle QueryPhase = iota
	QuerySubmitting
	QueryAnswered
	QueryFailed
)

// String returns the string representation of the phase.
func (p QueryPhase) String() string {
	switch p {
	case QueryIdle:
		return "idle"
	case QuerySubmitting:
		return "submitting"
	case QueryAnswered:
		return "answered"
	case QueryFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// InFlight returns true while a query call is outstanding.
func (p QueryPhase) InFlight() bool {
	return p == QuerySubmitting
}

// IngestionState is a snapshot of the Ingestion Controller.
type IngestionState struct {
	// Phase is the current state machine position.
	Phase IngestionPhase

	// Candidate is the selected, not-yet-ingested file.
	Candidate *UploadCandidate

	// Active is the document queries are scoped to, or nil.
	Active *DocumentRef

	// Last is the most recent successful ingestion, activated or not.
	Last *DocumentRef

	// Status is human-readable and never used for control decisions.
	Status string
}

// QueryState is a snapshot of the Query Controller.
type QueryState struct {
	// Phase is the current state machine position.
	Phase QueryPhase

	// Question is the question of the current (or last) submission.
	Question string

	// Outcome is the current answer, or nil while submitting or after failure.
	Outcome *QueryOutcome

	// Status is human-readable text scoped to the query operation.
	Status string

	// Seq is the sequence number of the latest issued query call.
	Seq uint64
}
