// Package status provides status bar components for the TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/gradewise/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/gradewise/internal/adapters/driving/tui/styles"
)

// State represents the current application state for display.
type State string

const (
	StateReady     State = "ready"
	StateAnswering State = "answering"
	StateGrading   State = "grading"
	StateGraded    State = "graded"
	StateError     State = "error"
)

// Bar displays application status and keybinding hints.
type Bar struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	state   State
	message string
	done    int
	total   int
	failed  int
	width   int
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

	padding := s.width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	return s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

// renderLeft renders the left side of the status bar.
func (s *Bar) renderLeft() string {
	switch s.state {
	case StateAnswering:
		return s.styles.Normal.Render(fmt.Sprintf("%d/%d answered", s.done, s.total))
	case StateGrading:
		return s.styles.Warning.Render(fmt.Sprintf("Grading %d/%d", s.done, s.total))
	case StateGraded:
		if s.failed > 0 {
			return s.styles.Warning.Render(fmt.Sprintf("%d graded, %d failed", s.total, s.failed))
		}
		return s.styles.Success.Render(fmt.Sprintf("%d graded", s.total))
	case StateError:
		if s.message != "" {
			return s.styles.Error.Render(fmt.Sprintf("Error: %s", s.message))
		}
		return s.styles.Error.Render("Error")
	case StateReady:
		if s.message != "" {
			return s.styles.Normal.Render(s.message)
		}
	}
	return s.styles.Muted.Render("Ready")
}

// renderRight renders keybinding hints for the current state.
func (s *Bar) renderRight() string {
	var bindings []key.Binding
	switch s.state {
	case StateAnswering:
		bindings = s.keymap.ExamHelp()
	case StateGraded:
		bindings = s.keymap.ReportHelp()
	case StateGrading:
		return s.styles.Muted.Render("ctrl+c: quit")
	default:
		bindings = s.keymap.ShortHelp()
	}

	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return s.styles.Muted.Render(strings.Join(hints, " | "))
}

// SetState sets the current state.
func (s *Bar) SetState(state State) {
	s.state = state
}

// State returns the current state.
func (s *Bar) State() State {
	return s.state
}

// SetMessage sets a custom message.
func (s *Bar) SetMessage(message string) {
	s.message = message
}

// Message returns the current message.
func (s *Bar) Message() string {
	return s.message
}

// SetProgress sets the done and total counters.
func (s *Bar) SetProgress(done, total int) {
	s.done = done
	s.total = total
}

// Progress returns the done and total counters.
func (s *Bar) Progress() (done, total int) {
	return s.done, s.total
}

// SetFailed sets the number of failed questions.
func (s *Bar) SetFailed(failed int) {
	s.failed = failed
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Width returns the current width.
func (s *Bar) Width() int {
	return s.width
}

// Clear resets the status bar to default state.
func (s *Bar) Clear() {
	s.state = StateReady
	s.message = ""
	s.done, s.total, s.failed = 0, 0, 0
}
