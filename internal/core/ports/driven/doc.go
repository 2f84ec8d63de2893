// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - CopilotAPI: The ingestion and query HTTP API
//   - ConfigStore: Persisted client configuration
//   - Environment: Environment and .env configuration
//   - SettingsValidator: Validation of resolved settings
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - DocumentInspector: Media type and page count detection for local files.
//     Without it, only candidates built by the caller can be selected.
//   - MetricsRecorder: Client-side metrics. Without it, nothing is recorded.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
