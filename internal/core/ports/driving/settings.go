package driving

import "github.com/llSourcell/AI-Compliance-Copilot/internal/core/domain"

// SettingOverrides are values supplied by flags or the environment.
// Empty fields do not override.
type SettingOverrides struct {
	BaseURL         string
	Privacy         string
	ZeroChunkPolicy string
}

// SettingsService resolves and persists client settings.
type SettingsService interface {
	// Resolve computes settings with precedence override > environment >
	// config file > default, and validates the result.
	Resolve(overrides SettingOverrides) (domain.ClientSettings, error)

	// Persisted returns only the values stored in the config file.
	Persisted() map[string]any

	// Set validates and persists one setting by its CLI name.
	Set(name, value string) error

	// Unset removes a persisted setting by its CLI name.
	Unset(name string) error

	// Names lists the settable setting names.
	Names() []string

	// ConfigPath returns the config file location.
	ConfigPath() string
}
