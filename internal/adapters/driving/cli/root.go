// Package cli provides the gradewise command line interface.
package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/gradewise/internal/core/ports/driving"
	"github.com/custodia-labs/gradewise/internal/logger"
)

var (
	version = "dev"
	verbose bool

	settingsService   driving.SettingsService
	preprocessService driving.PreprocessService
	indexService      driving.IndexService
	queryEngine       driving.QueryEngine
	sessionService    driving.SessionService
)

// stdoutIsTerminal reports whether progress output should be drawn.
var stdoutIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

var rootCmd = &cobra.Command{
	Use:   "gradewise",
	Short: "Grade exam answers against reference regulations",
	Long: `gradewise grades free-text exam answers with a language model, using
passages retrieved from a reference PDF as grading context.

Typical workflow:
  gradewise build            # extract and chunk the PDF in the raw directory
  gradewise index            # embed the chunks into the vector collection
  gradewise exam publish     # publish questions, one per line
  gradewise exam take        # answer and grade interactively`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Services holds the core services driven by the commands.
type Services struct {
	Settings   driving.SettingsService
	Preprocess driving.PreprocessService
	Index      driving.IndexService
	Query      driving.QueryEngine
	Sessions   driving.SessionService
}

// SetServices wires the core services into the commands.
func SetServices(s Services) {
	settingsService = s.Settings
	preprocessService = s.Preprocess
	indexService = s.Index
	queryEngine = s.Query
	sessionService = s.Sessions
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// Execute runs the root command with ctx. Command output goes to stdout and
// errors to stderr.
func Execute(ctx context.Context) error {
	rootCmd.SetOut(os.Stdout)
	rootCmd.SetErr(os.Stderr)
	return rootCmd.ExecuteContext(ctx)
}
