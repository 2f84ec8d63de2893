// Package picker provides the PDF file picker view.
package picker

import (
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llSourcell/AI-Compliance-Copilot/internal/adapters/driving/tui/keymap"
	"github.com/llSourcell/AI-Compliance-Copilot/internal/adapters/driving/tui/messages"
	"github.com/llSourcell/AI-Compliance-Copilot/internal/adapters/driving/tui/styles"
	"github.com/llSourcell/AI-Compliance-Copilot/internal/core/domain"
)

// AllowedTypes restricts the picker to PDF files.
var AllowedTypes = []string{".pdf", ".PDF"}

// View wraps a filepicker restricted to PDFs.
type View struct {
	styles *styles.Styles
	keymap *keymap.KeyMap
	picker filepicker.Model
	notice string
	width  int
	height int
}

// NewView creates a picker rooted at dir. An empty dir means the
// working directory.
func NewView(s *styles.Styles, km *keymap.KeyMap, dir string) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	if dir == "" {
		if wd, err := os.Getwd(); err == nil {
			dir = wd
		} else {
			dir = "."
		}
	}

	fp := filepicker.New()
	fp.AllowedTypes = AllowedTypes
	fp.CurrentDirectory = dir
	fp.AutoHeight = true
	fp.ShowHidden = false
	fp.Styles.Selected = s.Title
	fp.Styles.Cursor = s.Title

	return &View{
		styles: s,
		keymap: km,
		picker: fp,
		width:  80,
		height: 24,
	}
}

// Init reads the current directory.
func (v *View) Init() tea.Cmd {
	return v.picker.Init()
}

// Update handles messages for the picker.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, v.keymap.Back) {
		v.notice = ""
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewWorkspace}
		}
	}
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		v.width = msg.Width
		v.height = msg.Height
	}

	var cmd tea.Cmd
	v.picker, cmd = v.picker.Update(msg)

	if ok, path := v.picker.DidSelectFile(msg); ok {
		v.notice = ""
		chosen := func() tea.Msg {
			return messages.FileChosen{Path: path, Origin: domain.OriginPicker}
		}
		back := func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewWorkspace}
		}
		return v, tea.Batch(chosen, back)
	}

	if ok, path := v.picker.DidSelectDisabledFile(msg); ok {
		v.notice = path + " is not a PDF"
	}

	return v, cmd
}

// View renders the picker.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Choose a PDF"))
	b.WriteString("\n")
	b.WriteString(v.styles.Muted.Render(v.picker.CurrentDirectory))
	b.WriteString("\n\n")
	b.WriteString(v.picker.View())
	b.WriteString("\n")

	if v.notice != "" {
		b.WriteString(v.styles.Warning.Render(v.notice))
		b.WriteString("\n")
	}

	b.WriteString(v.styles.Help.Render("[↑/↓] Navigate  [enter] Open  [esc] Back"))
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}

// Directory returns the directory being browsed.
func (v *View) Directory() string {
	return v.picker.CurrentDirectory
}

// Notice returns the message shown after choosing a non-PDF.
func (v *View) Notice() string {
	return v.notice
}
