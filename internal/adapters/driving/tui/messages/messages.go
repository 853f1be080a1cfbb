// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/gradewise/internal/core/domain"
)

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewSessions lists published exam sessions.
	ViewSessions ViewType = iota
	// ViewExam is the answer entry view for one session.
	ViewExam
	// ViewReport shows grading feedback.
	ViewReport
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewSessions:
		return "sessions"
	case ViewExam:
		return "exam"
	case ViewReport:
		return "report"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

// SessionsLoaded carries the list of sessions from the service.
type SessionsLoaded struct {
	Sessions []domain.ExamSession
	Err      error
}

// SessionSelected signals a session was chosen from the list.
type SessionSelected struct {
	Session *domain.ExamSession
}

// GradingProgress reports that done of total questions are graded.
type GradingProgress struct {
	Done  int
	Total int
}

// GradingCompleted carries the report once a submission is graded.
type GradingCompleted struct {
	SessionID string
	Report    *domain.GradingReport
	Err       error
}
