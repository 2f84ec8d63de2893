// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/llSourcell/AI-Compliance-Copilot/internal/core/domain"
	"github.com/llSourcell/AI-Compliance-Copilot/internal/core/ports/driving"
)

// FileChosen is sent when a file is picked or dropped onto the terminal.
type FileChosen struct {
	Path   string
	Origin domain.SelectionOrigin
}

// IngestCompleted carries a finished upload back to the event loop.
type IngestCompleted struct {
	Completion driving.IngestCompletion
}

// QueryCompleted carries a finished query back to the event loop.
type QueryCompleted struct {
	Completion driving.QueryCompletion
}

// PrivacyToggled is sent after the privacy mode changes.
type PrivacyToggled struct {
	Mode domain.PrivacyMode
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewWorkspace is the ingestion and question view.
	ViewWorkspace ViewType = iota
	// ViewPicker is the PDF file picker.
	ViewPicker
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewWorkspace:
		return "workspace"
	case ViewPicker:
		return "picker"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened outside either controller.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
