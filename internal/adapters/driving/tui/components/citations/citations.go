// Package citations renders the answer block and citation cards.
package citations

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/llSourcell/AI-Compliance-Copilot/internal/adapters/driving/tui/styles"
	"github.com/llSourcell/AI-Compliance-Copilot/internal/adapters/driving/viewmodel"
)

// Panel displays one AnswerView: answer text, trust badges and citations.
// It never mixes content from two answers; SetAnswer replaces everything.
type Panel struct {
	answer *viewmodel.AnswerView
	offset int
	styles *styles.Styles
	width  int
	height int
}

// NewPanel creates a new answer panel.
func NewPanel(s *styles.Styles) *Panel {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &Panel{
		styles: s,
		width:  80,
		height: 20,
	}
}

// Init initialises the panel.
func (p *Panel) Init() tea.Cmd {
	return nil
}

// Update handles scrolling.
func (p *Panel) Update(msg tea.Msg) (*Panel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "pgup":
			p.ScrollUp()
		case "down", "pgdown":
			p.ScrollDown()
		}
	}
	return p, nil
}

// View renders the panel.
func (p *Panel) View() string {
	if p.answer == nil {
		return ""
	}

	lines := make([]string, 0, 4+len(p.answer.Citations))
	lines = append(lines,
		p.styles.Subtitle.Render("Answer"),
		p.styles.Normal.Width(p.contentWidth()).Render(p.answer.Text),
	)

	if badges := p.renderTrust(); badges != "" {
		lines = append(lines, badges)
	}

	lines = append(lines, "", p.styles.Subtitle.Render(fmt.Sprintf("Citations (%d)", len(p.answer.Citations))))
	if len(p.answer.Citations) == 0 {
		lines = append(lines, p.styles.Muted.Render("No citations returned"))
		return strings.Join(lines, "\n")
	}

	visible := p.visibleCount()
	end := p.offset + visible
	if end > len(p.answer.Citations) {
		end = len(p.answer.Citations)
	}
	for i := p.offset; i < end; i++ {
		lines = append(lines, p.renderCitation(p.answer.Citations[i]))
	}
	if hidden := len(p.answer.Citations) - end; hidden > 0 {
		lines = append(lines, p.styles.Muted.Render(fmt.Sprintf("↓ %d more", hidden)))
	}

	return strings.Join(lines, "\n")
}

func (p *Panel) renderTrust() string {
	var badges []string
	if p.answer.HasTraceID {
		badges = append(badges, p.styles.Badge.Render("Trace "+p.answer.TraceID))
	}
	if p.answer.HasGroundedness {
		badges = append(badges, p.styles.Badge.Render("Groundedness "+p.answer.Groundedness))
	}
	return strings.Join(badges, " ")
}

func (p *Panel) renderCitation(c viewmodel.CitationView) string {
	header := lipgloss.JoinHorizontal(lipgloss.Top,
		p.styles.Badge.Render(c.Source), " ",
		p.styles.Muted.Render(c.Page), "  ",
		p.styles.Muted.Render("Score "+c.Score),
	)

	text := c.Text
	maxLen := (p.contentWidth() - 4) * 3
	if maxLen > 0 && len([]rune(text)) > maxLen {
		text = string([]rune(text)[:maxLen-3]) + "..."
	}

	body := p.styles.Normal.Width(p.contentWidth() - 4).Render(text)
	return p.styles.Card.Width(p.contentWidth()).Render(header + "\n" + body)
}

// SetAnswer replaces the displayed answer and resets scrolling.
func (p *Panel) SetAnswer(a *viewmodel.AnswerView) {
	p.answer = a
	p.offset = 0
}

// Answer returns the displayed answer.
func (p *Panel) Answer() *viewmodel.AnswerView {
	return p.answer
}

// ScrollUp moves the citation window up.
func (p *Panel) ScrollUp() {
	if p.offset > 0 {
		p.offset--
	}
}

// ScrollDown moves the citation window down.
func (p *Panel) ScrollDown() {
	if p.answer == nil {
		return
	}
	if p.offset < len(p.answer.Citations)-1 {
		p.offset++
	}
}

// Offset returns the index of the first visible citation.
func (p *Panel) Offset() int {
	return p.offset
}

// SetDimensions sets the component dimensions.
func (p *Panel) SetDimensions(width, height int) {
	p.width = width
	p.height = height
}

func (p *Panel) contentWidth() int {
	if p.width < 30 {
		return 30
	}
	return p.width - 2
}

// visibleCount assumes roughly five lines per card.
func (p *Panel) visibleCount() int {
	n := (p.height - 6) / 5
	if n < 1 {
		return 1
	}
	return n
}
