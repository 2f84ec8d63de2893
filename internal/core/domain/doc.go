// Package domain defines the core business entities for the compliance copilot.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - DocumentRef: A server-ingested document and its ingestion metrics
//   - UploadCandidate: A locally selected PDF waiting to be ingested
//   - Citation: One supporting excerpt for an answer
//   - QueryOutcome: An answer, its citations and optional trust metadata
//   - IngestionState / QueryState: Snapshots of the two controllers
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
