package driven

import "github.com/llSourcell/AI-Compliance-Copilot/internal/core/domain"

// SettingsValidator checks resolved client settings before they are used.
type SettingsValidator interface {
	// Validate returns an error wrapping domain.ErrInvalidSetting that
	// names every invalid field.
	Validate(settings domain.ClientSettings) error
}
