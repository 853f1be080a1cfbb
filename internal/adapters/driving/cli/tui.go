package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/gradewise/internal/adapters/driving/tui"
)

var examTakeCmd = &cobra.Command{
	Use:   "take [session-id]",
	Short: "Answer and grade an exam interactively",
	Long: `Opens the terminal UI for an exam session. Without a session id the
UI starts on the list of published sessions.

Controls:
  tab / shift+tab - Next / previous question
  ctrl+s          - Submit answers for grading
  ↑/k, ↓/j        - Scroll feedback
  esc             - Back
  ctrl+c          - Quit`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExamTake,
}

func init() {
	examCmd.AddCommand(examTakeCmd)
}

func runExamTake(cmd *cobra.Command, args []string) error {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	if sessionService == nil {
		return errors.New("session service not configured")
	}

	app, err := tui.NewApp(&tui.Ports{Sessions: sessionService})
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(cmd.Context())

	if len(args) > 0 {
		session, err := sessionService.Get(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to load session: %w", err)
		}
		app.OpenSession(session)
	}

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
