// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/gradewise/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/gradewise/internal/core/domain"
)

// SessionList displays exam sessions in a navigable list.
type SessionList struct {
	sessions []domain.ExamSession
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewSessionList creates a new session list component.
func NewSessionList(s *styles.Styles) *SessionList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &SessionList{
		styles: s,
		width:  80,
		height: 10,
	}
}

// Init initialises the session list.
func (l *SessionList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (l *SessionList) Update(msg tea.Msg) (*SessionList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			l.MoveUp()
		case "down", "j":
			l.MoveDown()
		}
	}
	return l, nil
}

// View renders the session list.
func (l *SessionList) View() string {
	if len(l.sessions) == 0 {
		return l.styles.Muted.Render("No exam sessions published. Run 'gradewise exam publish' first.")
	}

	// Each session takes two lines.
	visible := l.height / 2
	if visible < 1 {
		visible = 1
	}
	start := 0
	if l.selected >= visible {
		start = l.selected - visible + 1
	}
	end := start + visible
	if end > len(l.sessions) {
		end = len(l.sessions)
	}

	lines := make([]string, 0, (end-start)*2)
	for i := start; i < end; i++ {
		lines = append(lines, l.renderSession(i, &l.sessions[i]))
	}
	return strings.Join(lines, "\n")
}

func (l *SessionList) renderSession(index int, s *domain.ExamSession) string {
	title := s.Title
	maxTitle := l.width - 6
	if maxTitle < 10 {
		maxTitle = 10
	}
	if r := []rune(title); len(r) > maxTitle {
		title = string(r[:maxTitle-3]) + "..."
	}

	var titleLine string
	if index == l.selected {
		titleLine = l.styles.Selected.Render("> " + title)
	} else {
		titleLine = l.styles.Normal.Render("  " + title)
	}

	status := l.styles.Warning.Render(string(s.Status))
	if s.Status == domain.SessionGraded {
		status = l.styles.Success.Render(string(s.Status))
	}
	detail := fmt.Sprintf("    %d questions · %s · ", len(s.Questions), s.PublishedAt.Local().Format("2006-01-02 15:04"))

	return titleLine + "\n" + l.styles.Muted.Render(detail) + status
}

// SetSessions replaces the listed sessions and resets the selection.
func (l *SessionList) SetSessions(sessions []domain.ExamSession) {
	l.sessions = sessions
	l.selected = 0
}

// Sessions returns the listed sessions.
func (l *SessionList) Sessions() []domain.ExamSession {
	return l.sessions
}

// Selected returns the index of the selected session.
func (l *SessionList) Selected() int {
	return l.selected
}

// SelectedSession returns the selected session, or nil if the list is empty.
func (l *SessionList) SelectedSession() *domain.ExamSession {
	if l.selected < 0 || l.selected >= len(l.sessions) {
		return nil
	}
	return &l.sessions[l.selected]
}

// MoveUp moves selection up.
func (l *SessionList) MoveUp() {
	if l.selected > 0 {
		l.selected--
	}
}

// MoveDown moves selection down.
func (l *SessionList) MoveDown() {
	if l.selected < len(l.sessions)-1 {
		l.selected++
	}
}

// SetDimensions sets the component dimensions.
func (l *SessionList) SetDimensions(width, height int) {
	l.width = width
	l.height = height
}

// Count returns the number of sessions.
func (l *SessionList) Count() int {
	return len(l.sessions)
}
