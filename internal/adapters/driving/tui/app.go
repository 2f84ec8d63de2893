package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llSourcell/AI-Compliance-Copilot/internal/adapters/driving/tui/keymap"
	"github.com/llSourcell/AI-Compliance-Copilot/internal/adapters/driving/tui/messages"
	"github.com/llSourcell/AI-Compliance-Copilot/internal/adapters/driving/tui/styles"
	"github.com/llSourcell/AI-Compliance-Copilot/internal/adapters/driving/tui/views/picker"
	"github.com/llSourcell/AI-Compliance-Copilot/internal/adapters/driving/tui/views/workspace"
	"github.com/llSourcell/AI-Compliance-Copilot/internal/adapters/driving/viewmodel"
	"github.com/llSourcell/AI-Compliance-Copilot/internal/logger"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core controllers via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	styles *styles.Styles
	keymap *keymap.KeyMap
	help   help.Model

	// workspaceView is the ingestion and question view.
	workspaceView *workspace.View

	// pickerView is the PDF file picker.
	pickerView *picker.View

	// currentView tracks which view is active.
	currentView messages.ViewType

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	ws := workspace.NewView(s, km, ports.Ingestion, ports.Query)
	ws.SetEndpoint(ports.Endpoint)

	return &App{
		ports:         ports,
		ctx:           context.Background(),
		styles:        s,
		keymap:        km,
		help:          help.New(),
		workspaceView: ws,
		pickerView:    picker.NewView(s, km, ports.StartDir),
		currentView:   messages.ViewWorkspace,
	}, nil
}

// WithContext sets the context for the app. Network calls started from
// the TUI are cancelled with it.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.workspaceView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
// It runs initial commands when the program starts.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle(viewmodel.Title),
		a.workspaceView.Init(),
	)
}

// Update implements tea.Model.
// It handles messages and updates the model state.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		a.pickerView, cmd = a.pickerView.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		// Global quit with ctrl+c
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

		switch a.currentView {
		case messages.ViewWorkspace:
			a.workspaceView, cmd = a.workspaceView.Update(msg)
		case messages.ViewPicker:
			a.pickerView, cmd = a.pickerView.Update(msg)
		case messages.ViewHelp:
			if msg.Type == tea.KeyEsc || msg.String() == "f1" {
				a.currentView = messages.ViewWorkspace
			}
		}
		return a, cmd

	case messages.ViewChanged:
		a.currentView = msg.View
		if msg.View == messages.ViewPicker {
			return a, a.pickerView.Init()
		}
		return a, nil

	// Controller messages always go to the workspace, whichever view is
	// showing, so completions are never dropped.
	case messages.FileChosen, messages.IngestCompleted, messages.QueryCompleted:
		a.workspaceView, cmd = a.workspaceView.Update(msg)
		return a, cmd

	case messages.PrivacyToggled:
		logger.Debug("Privacy mode set to %s", msg.Mode)
		return a, nil

	case messages.ErrorOccurred:
		a.err = msg.Err
		a.workspaceView, cmd = a.workspaceView.Update(msg)
		return a, cmd

	case messages.Quit:
		return a, tea.Quit
	}

	// Forward other messages (spinner ticks, cursor blink, directory
	// reads) to every view that may own them.
	var wsCmd, pickerCmd tea.Cmd
	a.workspaceView, wsCmd = a.workspaceView.Update(msg)
	if a.currentView == messages.ViewPicker {
		a.pickerView, pickerCmd = a.pickerView.Update(msg)
	}
	return a, tea.Batch(wsCmd, pickerCmd)
}

// View implements tea.Model.
// It renders the current view as a string.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewPicker:
		return a.pickerView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	default:
		return a.workspaceView.View()
	}
}

// viewHelp renders the help view.
func (a *App) viewHelp() string {
	var b strings.Builder

	b.WriteString(a.styles.Title.Render("Help"))
	b.WriteString("\n\n")
	a.help.ShowAll = true
	b.WriteString(a.help.View(a.keymap))
	b.WriteString("\n\n")
	b.WriteString(a.styles.Muted.Render("Drop a PDF onto the terminal window to select it."))
	b.WriteString("\n")
	b.WriteString(a.styles.Muted.Render("Strict privacy asks the server to redact personal data."))
	b.WriteString("\n\n")
	b.WriteString(a.styles.Help.Render("[esc] back"))

	return b.String()
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a,
		tea.WithAltScreen(),
		tea.WithContext(a.ctx),
	)
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Workspace returns the workspace view.
func (a *App) Workspace() *workspace.View {
	return a.workspaceView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.help.Width = width
	a.workspaceView.SetDimensions(width, height)
	a.pickerView.SetDimensions(width, height)
}
