package driving

import (
	"context"

	"github.com/llSourcell/AI-Compliance-Copilot/internal/core/domain"
)

// QueryTicket identifies one query call started by BeginSubmit.
type QueryTicket struct {
	// Seq is the controller-issued sequence number of the call.
	Seq uint64

	// Request is the payload, snapshotted at submission time.
	Request domain.QueryRequest
}

// QueryCompletion carries the result of one query call back to the controller.
type QueryCompletion struct {
	Ticket  QueryTicket
	Outcome domain.QueryOutcome
	Err     error
}

// QueryResult is what one synchronous submission produced. It is built
// from the call's own completion, never from later controller state.
type QueryResult struct {
	// Request is the payload that was sent.
	Request domain.QueryRequest

	// Outcome is the answer, or nil if the call failed.
	Outcome *domain.QueryOutcome

	// Err is the call failure, if any.
	Err error

	// Detail is the human-readable failure text (valid when Err != nil).
	Detail string

	// Status is the status line for this call.
	Status string

	// Superseded is true if a newer submission replaced this one, so the
	// controller state no longer reflects it.
	Superseded bool
}

// QueryController owns a single in-flight question and the privacy mode.
type QueryController interface {
	// BeginSubmit clears the previous outcome and transitions to Submitting.
	// It returns false, and issues nothing, when the trimmed question is empty.
	// A new submission supersedes any outstanding one.
	BeginSubmit(question string) (QueryTicket, bool)

	// RunQuery performs the query call. It does not touch controller state.
	RunQuery(ctx context.Context, ticket QueryTicket) QueryCompletion

	// CompleteQuery applies a finished call. It returns false when the
	// completion belongs to a superseded call and was discarded.
	CompleteQuery(completion QueryCompletion) bool

	// Submit runs BeginSubmit, RunQuery and CompleteQuery in sequence.
	// The boolean is false if nothing was submitted.
	Submit(ctx context.Context, question string) (QueryResult, bool)

	// SubmitWithPrivacy sets the privacy mode and begins the submission
	// in one step, so no other caller can change the mode in between.
	SubmitWithPrivacy(ctx context.Context, question string, mode domain.PrivacyMode) (QueryResult, bool)

	// Privacy returns the current privacy mode.
	Privacy() domain.PrivacyMode

	// SetPrivacy changes the privacy mode for subsequent submissions.
	SetPrivacy(mode domain.PrivacyMode)

	// TogglePrivacy flips the privacy mode and returns the new value.
	TogglePrivacy() domain.PrivacyMode

	// State returns a snapshot of the controller.
	State() domain.QueryState
}
