// Package status provides status bar components for the TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/llSourcell/AI-Compliance-Copilot/internal/adapters/driving/tui/keymap"
	"github.com/llSourcell/AI-Compliance-Copilot/internal/adapters/driving/tui/styles"
)

// State represents the current activity for display.
type State string

const (
	StateReady     State = "ready"
	StateUploading State = "uploading"
	StateSearching State = "searching"
	StateBusy      State = "busy"
	StateHelp      State = "help"
)

// Bar displays activity, the API endpoint and keybinding hints.
type Bar struct {
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	state    State
	spinner  string
	endpoint string
	width    int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles: s,
		keymap: km,
		state:  StateReady,
		width:  80,
	}
}

// Init initialises the status bar.
func (s *Bar) Init() tea.Cmd {
	return nil
}

// Update handles status bar messages.
func (s *Bar) Update(_ tea.Msg) (*Bar, tea.Cmd) {
	// Bar is passive, updated via Set methods
	return s, nil
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.renderRight()

	padding := s.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if padding < 1 {
		padding = 1
	}

	return s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

// renderLeft renders the activity indicator.
func (s *Bar) renderLeft() string {
	switch s.state {
	case StateUploading:
		return s.styles.Warning.Render(s.spinner + " Uploading…")
	case StateSearching:
		return s.styles.Warning.Render(s.spinner + " Searching…")
	case StateBusy:
		return s.styles.Warning.Render(s.spinner + " Uploading… Searching…")
	case StateHelp:
		return s.styles.Normal.Render("Help")
	case StateReady:
	}
	if s.endpoint != "" {
		return s.styles.Muted.Render("Ready · " + s.endpoint)
	}
	return s.styles.Muted.Render("Ready")
}

// renderRight renders keybinding hints.
func (s *Bar) renderRight() string {
	bindings := s.keymap.ShortHelp()
	if s.state == StateHelp {
		bindings = []key.Binding{s.keymap.Back, s.keymap.Quit}
	}

	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return s.styles.Muted.Render(strings.Join(hints, " | "))
}

// SetActivity derives the state from the two in-flight flags.
func (s *Bar) SetActivity(uploading, searching bool) {
	switch {
	case uploading && searching:
		s.state = StateBusy
	case uploading:
		s.state = StateUploading
	case searching:
		s.state = StateSearching
	default:
		s.state = StateReady
	}
}

// SetState sets the current state.
func (s *Bar) SetState(state State) {
	s.state = state
}

// State returns the current state.
func (s *Bar) State() State {
	return s.state
}

// SetSpinner sets the current spinner frame.
func (s *Bar) SetSpinner(frame string) {
	s.spinner = frame
}

// SetEndpoint sets the API endpoint shown when idle.
func (s *Bar) SetEndpoint(endpoint string) {
	s.endpoint = endpoint
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Width returns the current width.
func (s *Bar) Width() int {
	return s.width
}
