// Package report provides the grading feedback view for the TUI.
package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/gradewise/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/gradewise/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/gradewise/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/gradewise/internal/core/domain"
)

// headerLines is the space taken by the title and footer.
const headerLines = 5

// View shows the feedback for each graded question in a scrollable pane.
type View struct {
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	viewport viewport.Model
	session  *domain.ExamSession
	report   *domain.GradingReport
	width    int
	height   int
	ready    bool
}

// NewView creates a new report view.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &View{
		styles:   s,
		keymap:   keymap.DefaultKeyMap(),
		viewport: viewport.New(80, 24-headerLines),
		width:    80,
		height:   24,
	}
}

// Init implements the view lifecycle.
func (v *View) Init() tea.Cmd {
	return nil
}

// SetReport shows report for session.
func (v *View) SetReport(session *domain.ExamSession, report *domain.GradingReport) {
	v.session = session
	v.report = report
	v.viewport.SetContent(v.renderResults())
	v.viewport.GotoTop()
}

// Update handles messages for the report view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, v.keymap.Back):
			return v, func() tea.Msg {
				return messages.ViewChanged{View: messages.ViewSessions}
			}
		case key.Matches(msg, v.keymap.Quit):
			return v, tea.Quit
		}
	}

	var cmd tea.Cmd
	v.viewport, cmd = v.viewport.Update(msg)
	return v, cmd
}

// View renders the report.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}
	if v.report == nil {
		return v.styles.Muted.Render("No grading report. Press esc to go back.")
	}

	var b strings.Builder

	title := "Grading Report"
	if v.session != nil {
		title = v.session.Title + " - Grading Report"
	}
	b.WriteString(v.styles.Title.Render(title))
	b.WriteString("\n\n")
	b.WriteString(v.viewport.View())
	b.WriteString("\n\n")

	summary := fmt.Sprintf("Graded %d questions, %d failed.", len(v.report.Results), v.report.Failed)
	if v.report.Failed > 0 {
		b.WriteString(v.styles.Warning.Render(summary))
	} else {
		b.WriteString(v.styles.Success.Render(summary))
	}
	b.WriteString("  ")
	b.WriteString(v.styles.Help.Render("[↑/↓] Scroll  [esc] Back  [q] Quit"))

	return b.String()
}

func (v *View) renderResults() string {
	if v.report == nil {
		return ""
	}

	rule := v.styles.Muted.Render(strings.Repeat("-", max(v.width-2, 10)))
	blocks := make([]string, 0, len(v.report.Results))
	for i, r := range v.report.Results {
		var b strings.Builder
		b.WriteString(v.styles.Question.Render(fmt.Sprintf("Question %d: %s", i+1, r.Question)))
		b.WriteString("\n")
		b.WriteString(v.styles.Muted.Render("Answer: "))
		b.WriteString(r.Answer)
		b.WriteString("\n\n")
		if r.Failed() {
			b.WriteString(v.styles.Error.Render(r.Display()))
		} else {
			b.WriteString(r.Display())
		}
		b.WriteString("\n")
		b.WriteString(rule)
		blocks = append(blocks, b.String())
	}
	return strings.Join(blocks, "\n")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.viewport.Width = width
	v.viewport.Height = max(height-headerLines, 1)
	v.viewport.SetContent(v.renderResults())
}

// Report returns the displayed report.
func (v *View) Report() *domain.GradingReport {
	return v.report
}

// ScrollPercent returns how far the feedback is scrolled.
func (v *View) ScrollPercent() float64 {
	return v.viewport.ScrollPercent()
}
