// Package sessions provides the exam session list view for the TUI.
package sessions

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/gradewise/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/gradewise/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/gradewise/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/gradewise/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/gradewise/internal/core/ports/driving"
)

// View represents the session list view.
type View struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	service driving.SessionService
	ctx     context.Context
	list    *list.SessionList
	loading bool
	err     error
	width   int
	height  int
	ready   bool
}

// NewView creates a new session list view.
func NewView(ctx context.Context, s *styles.Styles, service driving.SessionService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	return &View{
		styles:  s,
		keymap:  keymap.DefaultKeyMap(),
		service: service,
		ctx:     ctx,
		list:    list.NewSessionList(s),
		width:   80,
		height:  24,
	}
}

// Init loads the session list.
func (v *View) Init() tea.Cmd {
	v.loading = true
	return v.loadSessions()
}

func (v *View) loadSessions() tea.Cmd {
	ctx := v.ctx
	service := v.service
	return func() tea.Msg {
		if service == nil {
			return messages.SessionsLoaded{}
		}
		sessions, err := service.List(ctx)
		return messages.SessionsLoaded{Sessions: sessions, Err: err}
	}
}

// Update handles messages for the session list view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.SessionsLoaded:
		v.loading = false
		v.err = msg.Err
		if msg.Err == nil {
			v.list.SetSessions(msg.Sessions)
		}
		return v, nil

	case tea.KeyMsg:
		return v.handleKey(msg)
	}

	return v, nil
}

func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keymap.Select):
		session := v.list.SelectedSession()
		if session == nil {
			return v, nil
		}
		selected := *session
		return v, func() tea.Msg {
			return messages.SessionSelected{Session: &selected}
		}

	case key.Matches(msg, v.keymap.Refresh):
		v.loading = true
		return v, v.loadSessions()

	case key.Matches(msg, v.keymap.Help):
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewHelp}
		}

	case key.Matches(msg, v.keymap.Quit):
		return v, tea.Quit
	}

	v.list, _ = v.list.Update(msg)
	return v, nil
}

// View renders the session list.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Gradewise"))
	b.WriteString("\n\n")
	b.WriteString(v.styles.Subtitle.Render("Exam Sessions"))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading sessions..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
	default:
		b.WriteString(v.list.View())
	}

	b.WriteString("\n\n")
	b.WriteString(v.styles.Help.Render("[j/k] Navigate  [enter] Open  [r] Refresh  [?] Help  [q] Quit"))

	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	// Title, subtitle and footer take eight lines.
	v.list.SetDimensions(width, height-8)
}

// Loading reports whether a load is in flight.
func (v *View) Loading() bool {
	return v.loading
}

// Err returns the last load error.
func (v *View) Err() error {
	return v.err
}

// Count returns the number of listed sessions.
func (v *View) Count() int {
	return v.list.Count()
}
