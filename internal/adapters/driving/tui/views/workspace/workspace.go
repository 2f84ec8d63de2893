// Package workspace provides the main copilot view: PDF ingestion,
// the question box, and the answer with its citations.
package workspace

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/llSourcell/AI-Compliance-Copilot/internal/adapters/driving/tui/components/citations"
	"github.com/llSourcell/AI-Compliance-Copilot/internal/adapters/driving/tui/components/input"
	"github.com/llSourcell/AI-Compliance-Copilot/internal/adapters/driving/tui/components/status"
	"github.com/llSourcell/AI-Compliance-Copilot/internal/adapters/driving/tui/keymap"
	"github.com/llSourcell/AI-Compliance-Copilot/internal/adapters/driving/tui/messages"
	"github.com/llSourcell/AI-Compliance-Copilot/internal/adapters/driving/tui/styles"
	"github.com/llSourcell/AI-Compliance-Copilot/internal/adapters/driving/viewmodel"
	"github.com/llSourcell/AI-Compliance-Copilot/internal/core/domain"
	"github.com/llSourcell/AI-Compliance-Copilot/internal/core/ports/driving"
)

// View is the workspace. It drives both controllers: Begin and Complete
// run inside Update, the network call runs in a tea.Cmd.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.QuestionInput
	panel     *citations.Panel
	statusbar *status.Bar
	spinner   spinner.Model

	ingestion driving.IngestionController
	query     driving.QueryController
	ctx       context.Context

	vm        viewmodel.ViewModel
	answerKey answerKey
	notice    string
	ticking   bool
	width     int
	height    int
}

// answerKey identifies the outcome the panel shows. An outcome only
// changes when the query sequence advances or a completion lands.
type answerKey struct {
	seq        uint64
	hasOutcome bool
}

// NewView creates a new workspace view.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	ingestion driving.IngestionController,
	query driving.QueryController,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	v := &View{
		styles:    s,
		keymap:    km,
		input:     input.NewQuestionInput(s),
		panel:     citations.NewPanel(s),
		statusbar: status.NewBar(s, km),
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(s.Warning)),
		ingestion: ingestion,
		query:     query,
		ctx:       context.Background(),
		width:     80,
		height:    24,
	}
	v.refresh()
	return v
}

// WithContext sets the context passed to network calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// SetEndpoint shows the API endpoint in the status bar.
func (v *View) SetEndpoint(endpoint string) {
	v.statusbar.SetEndpoint(endpoint)
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the workspace.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.FileChosen:
		v.selectPath(msg.Path, msg.Origin)
		return v, nil

	case messages.IngestCompleted:
		v.ingestion.CompleteIngest(msg.Completion)
		v.refresh()
		return v, nil

	case messages.QueryCompleted:
		v.query.CompleteQuery(msg.Completion)
		v.refresh()
		return v, nil

	case messages.ErrorOccurred:
		v.notice = msg.Err.Error()
		return v, nil

	case spinner.TickMsg:
		if !v.vm.Uploading && !v.vm.Searching {
			v.ticking = false
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		v.statusbar.SetSpinner(v.spinner.View())
		return v, cmd
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// handleKeyMsg processes keyboard input.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if msg.Paste {
		if path, ok := DroppedPath(string(msg.Runes)); ok {
			return v, func() tea.Msg {
				return messages.FileChosen{Path: path, Origin: domain.OriginDrop}
			}
		}
	}

	switch {
	case key.Matches(msg, v.keymap.OpenFile):
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewPicker}
		}

	case key.Matches(msg, v.keymap.Help):
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewHelp}
		}

	case key.Matches(msg, v.keymap.Ingest):
		return v, v.startIngest()

	case key.Matches(msg, v.keymap.Privacy):
		mode := v.query.TogglePrivacy()
		v.refresh()
		return v, func() tea.Msg {
			return messages.PrivacyToggled{Mode: mode}
		}

	case key.Matches(msg, v.keymap.Submit):
		if !v.vm.CanSearch {
			return v, nil
		}
		return v, v.startQuery(v.input.Value())

	case key.Matches(msg, v.keymap.Up), key.Matches(msg, v.keymap.Down):
		v.panel, _ = v.panel.Update(msg)
		return v, nil

	case key.Matches(msg, v.keymap.Back):
		v.input.SetValue("")
		v.notice = ""
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) selectPath(path string, origin domain.SelectionOrigin) {
	v.notice = ""
	if _, err := v.ingestion.SelectPath(path, origin); err != nil {
		v.notice = err.Error()
	}
	v.refresh()
}

// startIngest begins an upload and returns the command performing it.
func (v *View) startIngest() tea.Cmd {
	ticket, ok := v.ingestion.BeginIngest()
	if !ok {
		return nil
	}
	v.refresh()

	ctx := v.ctx
	ingestion := v.ingestion
	run := func() tea.Msg {
		return messages.IngestCompleted{Completion: ingestion.RunIngest(ctx, ticket)}
	}
	return tea.Batch(run, v.startSpinner())
}

// startQuery begins a query and returns the command performing it.
func (v *View) startQuery(question string) tea.Cmd {
	ticket, ok := v.query.BeginSubmit(question)
	if !ok {
		return nil
	}
	v.refresh()

	ctx := v.ctx
	query := v.query
	run := func() tea.Msg {
		return messages.QueryCompleted{Completion: query.RunQuery(ctx, ticket)}
	}
	return tea.Batch(run, v.startSpinner())
}

func (v *View) startSpinner() tea.Cmd {
	if v.ticking {
		return nil
	}
	v.ticking = true
	return v.spinner.Tick
}

// refresh recomputes the view model from both controllers.
func (v *View) refresh() {
	qs := v.query.State()
	v.vm = viewmodel.Present(v.ingestion.State(), qs, v.query.Privacy())
	v.statusbar.SetActivity(v.vm.Uploading, v.vm.Searching)

	k := answerKey{seq: qs.Seq, hasOutcome: qs.Outcome != nil}
	if k != v.answerKey || (v.panel.Answer() == nil) != (v.vm.Answer == nil) {
		v.answerKey = k
		v.panel.SetAnswer(v.vm.Answer)
	}
}

// View renders the workspace.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render(viewmodel.Title))
	b.WriteString("\n")
	b.WriteString(v.styles.Muted.Render(viewmodel.Tagline))
	b.WriteString("\n\n")
	b.WriteString(v.renderBadges())
	b.WriteString("\n\n")

	b.WriteString(v.renderIngest())
	b.WriteString("\n\n")
	b.WriteString(v.renderQuestion())
	b.WriteString("\n")

	if answer := v.panel.View(); answer != "" {
		b.WriteString("\n")
		b.WriteString(answer)
		b.WriteString("\n")
	}

	if v.notice != "" {
		b.WriteString("\n")
		b.WriteString(v.styles.Error.Render(v.notice))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render(viewmodel.Footer))
	b.WriteString("\n")
	b.WriteString(v.statusbar.View())

	return b.String()
}

func (v *View) renderBadges() string {
	return lipgloss.JoinHorizontal(lipgloss.Top,
		v.styles.Badge.Render("Active document: "+v.vm.ActiveDocument),
		" ",
		v.styles.Badge.Render("Privacy: "+v.vm.Privacy.Label),
	)
}

func (v *View) renderIngest() string {
	lines := []string{v.styles.Subtitle.Render("1. Ingest a PDF")}

	file := v.styles.Muted.Render("No file selected. Press ctrl+o to browse or drop a PDF onto the terminal.")
	if v.vm.SelectedFile != "" {
		file = v.styles.Normal.Render("Selected: " + v.vm.SelectedFile)
	}
	lines = append(lines, file)

	button := v.button(v.vm.IngestButton, v.vm.CanIngest)
	if v.vm.IngestStatus != "" {
		button += "  " + v.styles.Status(v.vm.IngestStatus).Render(v.vm.IngestStatus)
	}
	lines = append(lines, button)

	return v.styles.Panel.Width(v.width).Render(strings.Join(lines, "\n"))
}

func (v *View) renderQuestion() string {
	lines := []string{v.styles.Subtitle.Render("2. Ask a question")}

	toggle := v.styles.ToggleOff.Render("○ off")
	if v.vm.Privacy.Strict {
		toggle = v.styles.ToggleOn.Render("● on")
	}

	row := lipgloss.JoinHorizontal(lipgloss.Center,
		v.input.View(), " ",
		v.button(v.vm.SearchButton, v.vm.CanSearch), "  ",
		v.styles.Normal.Render("Strict privacy "), toggle,
	)
	lines = append(lines, row)

	if v.vm.QueryStatus != "" {
		lines = append(lines, v.styles.Status(v.vm.QueryStatus).Render(v.vm.QueryStatus))
	}

	return v.styles.Panel.Width(v.width).Render(strings.Join(lines, "\n"))
}

func (v *View) button(label string, enabled bool) string {
	if enabled {
		return v.styles.Button.Render(label)
	}
	return v.styles.ButtonDisabled.Render(label)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.input.SetWidth(width / 2)
	v.statusbar.SetWidth(width)
	v.panel.SetDimensions(width, height-18)
}

// ViewModel returns the last computed view model.
func (v *View) ViewModel() viewmodel.ViewModel {
	return v.vm
}

// Question returns the text in the question box.
func (v *View) Question() string {
	return v.input.Value()
}

// Notice returns the last selection error shown to the user.
func (v *View) Notice() string {
	return v.notice
}

// String implements fmt.Stringer for debugging.
func (v *View) String() string {
	return fmt.Sprintf("workspace(active=%s, privacy=%s)", v.vm.ActiveDocument, v.vm.Privacy.Label)
}
