// Package exam provides the answer entry view for a published exam session.
package exam

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/gradewise/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/gradewise/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/gradewise/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/gradewise/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/gradewise/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/gradewise/internal/core/domain"
	"github.com/custodia-labs/gradewise/internal/core/ports/driving"
)

// View collects one answer per question and submits them for grading.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	service   driving.SessionService
	ctx       context.Context
	session   *domain.ExamSession
	inputs    []*input.AnswerInput
	focus     int
	spinner   spinner.Model
	statusBar *status.Bar
	events    chan tea.Msg
	grading   bool
	err       error
	width     int
	height    int
	ready     bool
}

// NewView creates a new exam view.
func NewView(ctx context.Context, s *styles.Styles, service driving.SessionService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if ctx == nil {
		ctx = context.Background()
	}
	km := keymap.DefaultKeyMap()

	return &View{
		styles:    s,
		keymap:    km,
		service:   service,
		ctx:       ctx,
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(s.Warning)),
		statusBar: status.NewBar(s, km),
		width:     80,
		height:    24,
	}
}

// Init implements the view lifecycle.
func (v *View) Init() tea.Cmd {
	return nil
}

// SetSession loads a session into the view. Answers from a previous
// submission are restored.
func (v *View) SetSession(session *domain.ExamSession) tea.Cmd {
	v.session = session
	v.focus = 0
	v.grading = false
	v.err = nil
	v.events = nil
	v.inputs = make([]*input.AnswerInput, len(session.Questions))

	previous := map[string]string{}
	if session.Report != nil {
		for _, r := range session.Report.Results {
			previous[r.QuestionID] = r.Answer
		}
	}
	for i, q := range session.Questions {
		in := input.NewAnswerInput(v.styles)
		in.SetWidth(v.width)
		in.SetValue(previous[q.ID])
		v.inputs[i] = in
	}

	v.statusBar.Clear()
	v.statusBar.SetState(status.StateAnswering)
	v.updateProgress()

	if len(v.inputs) == 0 {
		return nil
	}
	return tea.Batch(v.inputs[0].Focus(), v.inputs[0].Init())
}

// Update handles messages for the exam view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case spinner.TickMsg:
		if !v.grading {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd

	case messages.GradingProgress:
		v.statusBar.SetProgress(msg.Done, msg.Total)
		return v, waitFor(v.events)

	case messages.GradingCompleted:
		v.grading = false
		v.events = nil
		if msg.Err != nil {
			v.err = msg.Err
			v.statusBar.SetState(status.StateError)
			v.statusBar.SetMessage(msg.Err.Error())
			return v, nil
		}
		v.statusBar.SetState(status.StateGraded)
		v.statusBar.SetProgress(len(msg.Report.Results), len(msg.Report.Results))
		v.statusBar.SetFailed(msg.Report.Failed)
		return v, nil

	case tea.KeyMsg:
		return v.handleKey(msg)
	}

	return v, v.forward(msg)
}

func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	if v.grading || v.session == nil {
		if v.session == nil && key.Matches(msg, v.keymap.Back) {
			return v, backToSessions
		}
		return v, nil
	}

	switch {
	case key.Matches(msg, v.keymap.Back):
		return v, backToSessions

	case key.Matches(msg, v.keymap.NextQuestion):
		return v, v.moveFocus(1)

	case key.Matches(msg, v.keymap.PrevQuestion):
		return v, v.moveFocus(-1)

	case key.Matches(msg, v.keymap.Submit):
		return v, v.submit()
	}

	cmd := v.forward(msg)
	v.updateProgress()
	return v, cmd
}

func (v *View) forward(msg tea.Msg) tea.Cmd {
	if v.focus >= len(v.inputs) {
		return nil
	}
	var cmd tea.Cmd
	v.inputs[v.focus], cmd = v.inputs[v.focus].Update(msg)
	return cmd
}

func (v *View) moveFocus(delta int) tea.Cmd {
	n := len(v.inputs)
	if n == 0 {
		return nil
	}
	v.inputs[v.focus].Blur()
	v.focus = (v.focus + delta + n) % n
	return v.inputs[v.focus].Focus()
}

// submit starts grading in the background. Progress and the final report
// arrive as messages through the events channel.
func (v *View) submit() tea.Cmd {
	if v.service == nil {
		v.err = errors.New("session service not configured")
		v.statusBar.SetState(status.StateError)
		v.statusBar.SetMessage(v.err.Error())
		return nil
	}

	answers := v.Answers()
	count := len(v.session.Questions)
	events := make(chan tea.Msg, count+1)
	ctx := v.ctx
	service := v.service
	id := v.session.ID

	go func() {
		defer close(events)
		report, err := service.Submit(ctx, id, answers, func(done, total int) {
			events <- messages.GradingProgress{Done: done, Total: total}
		})
		events <- messages.GradingCompleted{SessionID: id, Report: report, Err: err}
	}()

	v.events = events
	v.grading = true
	v.err = nil
	v.inputs[v.focus].Blur()
	v.statusBar.SetState(status.StateGrading)
	v.statusBar.SetProgress(0, count)

	return tea.Batch(v.spinner.Tick, waitFor(events))
}

func waitFor(events <-chan tea.Msg) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		msg, ok := <-events
		if !ok {
			return nil
		}
		return msg
	}
}

func backToSessions() tea.Msg {
	return messages.ViewChanged{View: messages.ViewSessions}
}

func (v *View) updateProgress() {
	if v.grading {
		return
	}
	v.statusBar.SetProgress(v.Answered(), len(v.inputs))
}

// View renders the exam view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}
	if v.session == nil {
		return v.styles.Muted.Render("No session selected. Press esc to go back.")
	}

	var b strings.Builder

	b.WriteString(v.styles.Title.Render(v.session.Title))
	b.WriteString("\n\n")

	if len(v.inputs) == 0 {
		b.WriteString(v.styles.Muted.Render("This session has no questions."))
	} else {
		b.WriteString(v.renderMarkers())
		b.WriteString("\n\n")
		q := v.session.Questions[v.focus]
		b.WriteString(v.styles.Subtitle.Render(fmt.Sprintf("Question %d of %d", v.focus+1, len(v.inputs))))
		b.WriteString("\n")
		b.WriteString(v.styles.Question.Render(q.Text))
		b.WriteString("\n\n")
		b.WriteString(v.inputs[v.focus].View())
	}

	b.WriteString("\n\n")
	switch {
	case v.grading:
		b.WriteString(v.spinner.View() + " " + v.styles.Warning.Render("Grading answers..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
	}
	b.WriteString("\n")
	b.WriteString(v.statusBar.View())

	return b.String()
}

// renderMarkers shows one marker per question: filled when answered.
func (v *View) renderMarkers() string {
	markers := make([]string, len(v.inputs))
	for i, in := range v.inputs {
		mark := "○"
		if strings.TrimSpace(in.Value()) != "" {
			mark = "●"
		}
		if i == v.focus {
			markers[i] = v.styles.Selected.Render(mark)
		} else {
			markers[i] = v.styles.Muted.Render(mark)
		}
	}
	return strings.Join(markers, " ")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.statusBar.SetWidth(width)
	for _, in := range v.inputs {
		in.SetWidth(width)
	}
}

// Answers returns the current answers keyed by question id.
func (v *View) Answers() map[string]string {
	answers := make(map[string]string, len(v.inputs))
	if v.session == nil {
		return answers
	}
	for i, q := range v.session.Questions {
		answers[q.ID] = v.inputs[i].Value()
	}
	return answers
}

// Answered counts questions with a non-blank answer.
func (v *View) Answered() int {
	n := 0
	for _, in := range v.inputs {
		if strings.TrimSpace(in.Value()) != "" {
			n++
		}
	}
	return n
}

// Focus returns the index of the question being answered.
func (v *View) Focus() int {
	return v.focus
}

// Grading reports whether a submission is in flight.
func (v *View) Grading() bool {
	return v.grading
}

// Err returns the last submission error.
func (v *View) Err() error {
	return v.err
}

// Session returns the loaded session.
func (v *View) Session() *domain.ExamSession {
	return v.session
}

// StatusBar returns the status bar component.
func (v *View) StatusBar() *status.Bar {
	return v.statusBar
}
