// Package input provides text input components for the TUI.
package input

import (
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/gradewise/internal/adapters/driving/tui/styles"
)

// AnswerInput wraps a bubbles textarea for a free-text answer.
type AnswerInput struct {
	textarea textarea.Model
	styles   *styles.Styles
	width    int
}

// NewAnswerInput creates a new, unfocused answer input.
func NewAnswerInput(s *styles.Styles) *AnswerInput {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ta := textarea.New()
	ta.Placeholder = "Type your answer..."
	ta.ShowLineNumbers = false
	ta.CharLimit = 4000
	ta.SetWidth(60)
	ta.SetHeight(4)

	return &AnswerInput{
		textarea: ta,
		styles:   s,
		width:    60,
	}
}

// Init initialises the answer input.
func (a *AnswerInput) Init() tea.Cmd {
	return textarea.Blink
}

// Update handles input messages.
func (a *AnswerInput) Update(msg tea.Msg) (*AnswerInput, tea.Cmd) {
	var cmd tea.Cmd
	a.textarea, cmd = a.textarea.Update(msg)
	return a, cmd
}

// View renders the answer box, highlighted when focused.
func (a *AnswerInput) View() string {
	if a.textarea.Focused() {
		return a.styles.AnswerFocused.Render(a.textarea.View())
	}
	return a.styles.Answer.Render(a.textarea.View())
}

// Value returns the current answer.
func (a *AnswerInput) Value() string {
	return a.textarea.Value()
}

// SetValue sets the answer.
func (a *AnswerInput) SetValue(value string) {
	a.textarea.SetValue(value)
}

// Focus sets focus on the input.
func (a *AnswerInput) Focus() tea.Cmd {
	return a.textarea.Focus()
}

// Blur removes focus from the input.
func (a *AnswerInput) Blur() {
	a.textarea.Blur()
}

// Focused returns whether the input is focused.
func (a *AnswerInput) Focused() bool {
	return a.textarea.Focused()
}

// SetWidth sets the outer width of the answer box.
func (a *AnswerInput) SetWidth(width int) {
	a.width = width
	// Account for border and padding
	inner := width - 4
	if inner < 20 {
		inner = 20
	}
	a.textarea.SetWidth(inner)
}

// Width returns the current width.
func (a *AnswerInput) Width() int {
	return a.width
}

// SetHeight sets the number of visible answer lines.
func (a *AnswerInput) SetHeight(lines int) {
	if lines < 1 {
		lines = 1
	}
	a.textarea.SetHeight(lines)
}

// Reset clears the input.
func (a *AnswerInput) Reset() {
	a.textarea.Reset()
}
