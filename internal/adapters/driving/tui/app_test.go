package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/gradewise/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/gradewise/internal/core/domain"
	"github.com/custodia-labs/gradewise/internal/core/ports/driving"
)

func publishedSession() *domain.ExamSession {
	return &domain.ExamSession{
		ID:     "s1",
		Title:  "Week 3",
		Status: domain.SessionPublished,
		Questions: []domain.Question{
			{ID: "q1", Text: "What is the attendance rule?"},
		},
	}
}

func gradedSession() *domain.ExamSession {
	s := publishedSession()
	s.Status = domain.SessionGraded
	s.Report = &domain.GradingReport{
		SessionID: "s1",
		Results: []domain.GradeResult{
			{QuestionID: "q1", Question: "What is the attendance rule?", Answer: "Three", Feedback: "Correct."},
		},
	}
	return s
}

func newTestApp(t *testing.T, svc *MockSessionService) *App {
	t.Helper()
	if svc == nil {
		svc = &MockSessionService{}
	}
	app, err := NewApp(&Ports{Sessions: svc})
	require.NoError(t, err)
	app.SetDimensions(80, 24)
	return app
}

// run feeds msg to the app and keeps resolving returned commands that
// produce app messages, so background work settles before assertions.
func run(app *App, msg tea.Msg) {
	_, cmd := app.Update(msg)
	for i := 0; cmd != nil && i < 20; i++ {
		next := cmd()
		switch next.(type) {
		case messages.GradingProgress, messages.GradingCompleted,
			messages.SessionsLoaded, messages.ViewChanged, messages.SessionSelected:
			_, cmd = app.Update(next)
		default:
			return
		}
	}
}

func TestNewApp_Success(t *testing.T) {
	app, err := NewApp(&Ports{Sessions: &MockSessionService{}})

	require.NoError(t, err)
	require.NotNil(t, app)
	assert.Equal(t, messages.ViewSessions, app.CurrentView())
	assert.False(t, app.Ready())
	assert.Equal(t, "Initialising...", app.View())
}

func TestNewApp_InvalidPorts(t *testing.T) {
	app, err := NewApp(&Ports{})

	assert.ErrorIs(t, err, ErrMissingSessionService)
	assert.Nil(t, app)
}

func TestApp_WithContext(t *testing.T) {
	app := newTestApp(t, nil)

	type contextKey string
	ctx := context.WithValue(context.Background(), contextKey("key"), "value")

	assert.Same(t, app, app.WithContext(ctx))
	assert.Equal(t, ctx, app.ctx)
}

func TestApp_Init_LoadsSessions(t *testing.T) {
	svc := &MockSessionService{
		ListFunc: func(_ context.Context) ([]domain.ExamSession, error) {
			return []domain.ExamSession{*publishedSession()}, nil
		},
	}
	app := newTestApp(t, svc)

	cmd := app.Init()

	require.NotNil(t, cmd)
	assert.Equal(t, 0, svc.ListCalls(), "loading happens when the command runs")
}

func TestApp_Update_WindowSize(t *testing.T) {
	app, _ := NewApp(&Ports{Sessions: &MockSessionService{}})

	model, cmd := app.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	assert.Nil(t, cmd)
	assert.Same(t, app, model)
	assert.True(t, app.Ready())
	assert.Equal(t, 100, app.width)
}

func TestApp_CtrlCQuits(t *testing.T) {
	app := newTestApp(t, nil)

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})

	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestApp_QuitMessage(t *testing.T) {
	app := newTestApp(t, nil)

	_, cmd := app.Update(messages.Quit{})

	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestApp_SessionsLoaded(t *testing.T) {
	app := newTestApp(t, nil)

	run(app, messages.SessionsLoaded{Sessions: []domain.ExamSession{*publishedSession()}})

	assert.Contains(t, app.View(), "Week 3")
	assert.NoError(t, app.Err())
}

func TestApp_SessionsLoaded_Error(t *testing.T) {
	app := newTestApp(t, nil)

	run(app, messages.SessionsLoaded{Err: errors.New("disk gone")})

	assert.EqualError(t, app.Err(), "disk gone")
	assert.Contains(t, app.View(), "Error: disk gone")
}

func TestApp_SelectPublishedSessionOpensExam(t *testing.T) {
	app := newTestApp(t, nil)

	run(app, messages.SessionSelected{Session: publishedSession()})

	assert.Equal(t, messages.ViewExam, app.CurrentView())
	assert.Contains(t, app.View(), "What is the attendance rule?")
}

func TestApp_SelectGradedSessionOpensReport(t *testing.T) {
	app := newTestApp(t, nil)

	run(app, messages.SessionSelected{Session: gradedSession()})

	assert.Equal(t, messages.ViewReport, app.CurrentView())
	assert.Contains(t, app.View(), "Correct.")
}

func TestApp_OpenSession(t *testing.T) {
	app := newTestApp(t, nil)

	app.OpenSession(publishedSession())

	assert.Equal(t, messages.ViewExam, app.CurrentView())
	assert.NotNil(t, app.Init())
}

func TestApp_SubmitShowsReport(t *testing.T) {
	svc := &MockSessionService{
		SubmitFunc: func(
			_ context.Context, id string, answers map[string]string, progress driving.ProgressFunc,
		) (*domain.GradingReport, error) {
			progress(1, 1)
			return &domain.GradingReport{
				SessionID: id,
				Results: []domain.GradeResult{
					{QuestionID: "q1", Question: "What is the attendance rule?", Answer: answers["q1"], Feedback: "Well argued."},
				},
			}, nil
		},
	}
	app := newTestApp(t, svc)
	run(app, messages.SessionSelected{Session: publishedSession()})
	run(app, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("Three")})

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	require.NotNil(t, cmd)
	run(app, messages.GradingProgress{Done: 0, Total: 1})

	assert.Equal(t, messages.ViewReport, app.CurrentView())
	view := app.View()
	assert.Contains(t, view, "Well argued.")
	assert.Contains(t, view, "Three")
}

func TestApp_SubmitError(t *testing.T) {
	svc := &MockSessionService{
		SubmitFunc: func(
			_ context.Context, _ string, _ map[string]string, _ driving.ProgressFunc,
		) (*domain.GradingReport, error) {
			return nil, domain.ErrNotFound
		},
	}
	app := newTestApp(t, svc)
	run(app, messages.SessionSelected{Session: publishedSession()})

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	require.NotNil(t, cmd)
	run(app, messages.GradingProgress{Done: 0, Total: 1})

	assert.Equal(t, messages.ViewExam, app.CurrentView())
	assert.ErrorIs(t, app.Err(), domain.ErrNotFound)
}

func TestApp_ViewChangedToSessionsReloads(t *testing.T) {
	svc := &MockSessionService{}
	app := newTestApp(t, svc)
	run(app, messages.SessionSelected{Session: publishedSession()})

	run(app, tea.KeyMsg{Type: tea.KeyEsc})

	assert.Equal(t, messages.ViewSessions, app.CurrentView())
	assert.Equal(t, 1, svc.ListCalls())
}

func TestApp_HelpView(t *testing.T) {
	app := newTestApp(t, nil)

	run(app, messages.ViewChanged{View: messages.ViewHelp})
	assert.Equal(t, messages.ViewHelp, app.CurrentView())
	assert.Contains(t, app.View(), "Submit all answers for grading")

	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	assert.Equal(t, messages.ViewHelp, app.CurrentView())

	app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, messages.ViewSessions, app.CurrentView())
}

func TestApp_ErrorOccurred(t *testing.T) {
	app := newTestApp(t, nil)

	_, cmd := app.Update(messages.ErrorOccurred{Err: errors.New("boom")})

	assert.Nil(t, cmd)
	assert.EqualError(t, app.Err(), "boom")
}
