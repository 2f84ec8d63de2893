package driven

import "time"

// Outcome labels for MetricsRecorder observations.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeEmpty   = "empty"
)

// MetricsRecorder records client-side observations.
// This is an optional service - when nil, nothing is recorded.
type MetricsRecorder interface {
	// ObserveIngest records one finished ingestion call.
	ObserveIngest(outcome string, chunks int, duration time.Duration)

	// ObserveQuery records one finished query call.
	ObserveQuery(outcome string, citations int, duration time.Duration)

	// ObserveStaleQuery records a query response discarded as superseded.
	ObserveStaleQuery()
}
