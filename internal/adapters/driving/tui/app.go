package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/gradewise/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/gradewise/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/gradewise/internal/adapters/driving/tui/views/exam"
	"github.com/custodia-labs/gradewise/internal/adapters/driving/tui/views/report"
	"github.com/custodia-labs/gradewise/internal/adapters/driving/tui/views/sessions"
	"github.com/custodia-labs/gradewise/internal/core/domain"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	// styles holds the TUI styles.
	styles *styles.Styles

	// sessionsView lists published sessions.
	sessionsView *sessions.View

	// examView collects answers for the open session.
	examView *exam.View

	// reportView shows grading feedback.
	reportView *report.View

	// currentView tracks which view is active.
	currentView messages.ViewType

	// startCmd runs on Init when a session was opened before start.
	startCmd tea.Cmd

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

	a := &App{
		ports:       ports,
		styles:      styles.DefaultStyles(),
		currentView: messages.ViewSessions,
	}
	a.buildViews(context.Background())
	return a, nil
}

func (a *App) buildViews(ctx context.Context) {
	a.ctx = ctx
	a.sessionsView = sessions.NewView(ctx, a.styles, a.ports.Sessions)
	a.examView = exam.NewView(ctx, a.styles, a.ports.Sessions)
	a.reportView = report.NewView(a.styles)
}

// WithContext sets the context used for service calls. Call it before
// OpenSession.
func (a *App) WithContext(ctx context.Context) *App {
	a.buildViews(ctx)
	return a
}

// OpenSession starts the app on session instead of the session list.
// Graded sessions open on their report.
func (a *App) OpenSession(session *domain.ExamSession) {
	a.startCmd = a.open(session)
}

func (a *App) open(session *domain.ExamSession) tea.Cmd {
	if session.Status == domain.SessionGraded && session.Report != nil {
		a.reportView.SetReport(session, session.Report)
		a.currentView = messages.ViewReport
		return nil
	}
	a.currentView = messages.ViewExam
	return a.examView.SetSession(session)
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	start := a.startCmd
	if a.currentView == messages.ViewSessions {
		start = a.sessionsView.Init()
	}
	return tea.Batch(tea.SetWindowTitle("gradewise"), start)
}

// Update implements tea.Model.
//
//nolint:gocyclo // central message handler
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.currentView == messages.ViewHelp {
			if msg.Type == tea.KeyEsc {
				a.currentView = messages.ViewSessions
			}
			return a, nil
		}

	case messages.ViewChanged:
		a.currentView = msg.View
		if msg.View == messages.ViewSessions {
			return a, a.sessionsView.Init()
		}
		return a, nil

	case messages.SessionSelected:
		a.err = nil
		return a, a.open(msg.Session)

	case messages.SessionsLoaded:
		a.sessionsView, cmd = a.sessionsView.Update(msg)
		a.err = msg.Err
		return a, cmd

	case messages.GradingProgress:
		a.examView, cmd = a.examView.Update(msg)
		return a, cmd

	case messages.GradingCompleted:
		a.examView, cmd = a.examView.Update(msg)
		if msg.Err != nil {
			a.err = msg.Err
			return a, cmd
		}
		if msg.Report != nil {
			a.reportView.SetReport(a.examView.Session(), msg.Report)
			a.currentView = messages.ViewReport
		}
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err
		return a, nil

	case messages.Quit:
		return a, tea.Quit
	}

	switch a.currentView {
	case messages.ViewSessions:
		a.sessionsView, cmd = a.sessionsView.Update(msg)
	case messages.ViewExam:
		a.examView, cmd = a.examView.Update(msg)
	case messages.ViewReport:
		a.reportView, cmd = a.reportView.Update(msg)
	case messages.ViewHelp:
		// Help is static.
	}

	return a, cmd
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewExam:
		return a.examView.View()
	case messages.ViewReport:
		return a.reportView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	default:
		return a.sessionsView.View()
	}
}

// viewHelp renders the help view.
func (a *App) viewHelp() string {
	return `Help

Sessions:
  j/k, ↑/↓    Navigate sessions
  enter       Open session
  r           Refresh
  q           Quit

Exam:
  (type)      Answer the current question
  tab         Next question
  shift+tab   Previous question
  ctrl+s      Submit all answers for grading
  esc         Back to sessions

Report:
  j/k, ↑/↓    Scroll feedback
  esc         Back to sessions

ctrl+c quits from anywhere.

[esc] back to sessions`
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
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
	a.sessionsView.SetDimensions(width, height)
	a.examView.SetDimensions(width, height)
	a.reportView.SetDimensions(width, height)
}
