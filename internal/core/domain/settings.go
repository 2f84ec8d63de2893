package domain

import "time"

// DefaultBaseURL is the local development endpoint of the copilot API.
const DefaultBaseURL = "http://localhost:8000"

// ClientSettings is the resolved client configuration.
// It is read once at startup and injected into the controllers.
type ClientSettings struct {
	// BaseURL is the copilot API base URL.
	BaseURL string `validate:"required,url"`

	// Privacy is the initial privacy mode of a session.
	Privacy PrivacyMode `validate:"oneof=strict standard"`

	// ZeroChunkPolicy decides the fate of the active document on empty ingestion.
	ZeroChunkPolicy ZeroChunkPolicy `validate:"oneof=keep clear"`

	// Timeout bounds a single API call. Zero means no timeout.
	Timeout time.Duration `validate:"gte=0"`

	// WatchInterval is the minimum spacing between ingestions in watch mode.
	WatchInterval time.Duration `validate:"gte=0"`
}

// DefaultClientSettings returns the built-in defaults.
func DefaultClientSettings() ClientSettings {
	return ClientSettings{
		BaseURL:         DefaultBaseURL,
		Privacy:         DefaultPrivacyMode,
		ZeroChunkPolicy: ZeroChunkKeep,
		WatchInterval:   2 * time.Second,
	}
}
