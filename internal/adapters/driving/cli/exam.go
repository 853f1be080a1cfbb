package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/gradewise/internal/core/domain"
	"github.com/custodia-labs/gradewise/internal/core/ports/driving"
)

var (
	examTitle       string
	examFile        string
	examAnswersFile string
	examJSON        bool
)

var examCmd = &cobra.Command{
	Use:   "exam",
	Short: "Publish exams and grade submissions",
	Long: `An exam session carries published questions from the examiner to the
student and stores the grading report once answers are submitted.`,
}

var examPublishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publish a new exam session",
	Long: `Publishes one question per non-empty line, read from --file or stdin.

Examples:
  gradewise exam publish --title "Week 3" --file questions.txt
  printf 'What is QLoRA?\n' | gradewise exam publish`,
	Args: cobra.NoArgs,
	RunE: runExamPublish,
}

var examListCmd = &cobra.Command{
	Use:   "list",
	Short: "List exam sessions",
	Args:  cobra.NoArgs,
	RunE:  runExamList,
}

var examShowCmd = &cobra.Command{
	Use:   "show [session-id]",
	Short: "Show a session and its report",
	Long:  `Shows a session's questions and, once graded, its feedback. Defaults to the latest session.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runExamShow,
}

var examSubmitCmd = &cobra.Command{
	Use:   "submit [session-id]",
	Short: "Submit answers for grading",
	Long: `Grades answers read from a JSON file. The file holds either an object
keyed by question id or an array of answers in question order.
Defaults to the latest session.

A question that fails to grade is reported inline and does not stop the
others.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExamSubmit,
}

var examDeleteCmd = &cobra.Command{
	Use:   "delete [session-id]",
	Short: "Delete an exam session",
	Args:  cobra.ExactArgs(1),
	RunE:  runExamDelete,
}

func init() {
	examPublishCmd.Flags().StringVar(&examTitle, "title", "", "session title")
	examPublishCmd.Flags().StringVarP(&examFile, "file", "f", "", "question file (default stdin)")
	examShowCmd.Flags().BoolVar(&examJSON, "json", false, "output the session as JSON")
	examSubmitCmd.Flags().StringVarP(&examAnswersFile, "answers", "a", "", "answers JSON file")
	_ = examSubmitCmd.MarkFlagRequired("answers")

	examCmd.AddCommand(examPublishCmd)
	examCmd.AddCommand(examListCmd)
	examCmd.AddCommand(examShowCmd)
	examCmd.AddCommand(examSubmitCmd)
	examCmd.AddCommand(examDeleteCmd)
	rootCmd.AddCommand(examCmd)
}

func runExamPublish(cmd *cobra.Command, _ []string) error {
	if sessionService == nil {
		return errors.New("session service not configured")
	}

	var (
		data []byte
		err  error
	)
	if examFile != "" {
		data, err = os.ReadFile(examFile)
	} else {
		data, err = io.ReadAll(cmd.InOrStdin())
	}
	if err != nil {
		return fmt.Errorf("failed to read questions: %w", err)
	}

	session, err := sessionService.Publish(cmd.Context(), examTitle, string(data))
	if err != nil {
		return fmt.Errorf("publish failed: %w", err)
	}

	cmd.Printf("Published %q with %d questions.\n", session.Title, len(session.Questions))
	cmd.Printf("Session ID: %s\n", session.ID)
	return nil
}

func runExamList(cmd *cobra.Command, _ []string) error {
	if sessionService == nil {
		return errors.New("session service not configured")
	}

	sessions, err := sessionService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}

	if len(sessions) == 0 {
		cmd.Println("No exam sessions published.")
		return nil
	}

	for i := range sessions {
		s := &sessions[i]
		cmd.Printf("  %s  %-9s  %2d questions  %s  %s\n",
			s.ID, s.Status, len(s.Questions), s.PublishedAt.Local().Format("2006-01-02 15:04"), s.Title)
	}
	return nil
}

func runExamShow(cmd *cobra.Command, args []string) error {
	if sessionService == nil {
		return errors.New("session service not configured")
	}

	session, err := resolveSession(cmd, args)
	if err != nil {
		return err
	}

	if examJSON {
		data, err := json.MarshalIndent(session, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal session: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	cmd.Printf("%s (%s)\n", session.Title, session.Status)
	cmd.Printf("Session ID: %s\n\n", session.ID)

	if session.Report != nil {
		printReport(cmd, session.Report)
		return nil
	}

	for _, q := range session.Questions {
		cmd.Printf("  %d. %s\n", q.Position+1, q.Text)
		cmd.Printf("     id: %s\n", q.ID)
	}
	return nil
}

func runExamSubmit(cmd *cobra.Command, args []string) error {
	if sessionService == nil {
		return errors.New("session service not configured")
	}

	session, err := resolveSession(cmd, args)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(examAnswersFile)
	if err != nil {
		return fmt.Errorf("failed to read answers: %w", err)
	}
	answers, err := parseAnswers(data, session)
	if err != nil {
		return err
	}

	report, err := sessionService.Submit(cmd.Context(), session.ID, answers, progressPrinter(cmd))
	if err != nil {
		return fmt.Errorf("grading failed: %w", err)
	}

	printReport(cmd, report)
	return nil
}

func runExamDelete(cmd *cobra.Command, args []string) error {
	if sessionService == nil {
		return errors.New("session service not configured")
	}

	if err := sessionService.Delete(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	cmd.Printf("Session %s deleted.\n", args[0])
	return nil
}

// resolveSession returns the session named by args, or the latest one.
func resolveSession(cmd *cobra.Command, args []string) (*domain.ExamSession, error) {
	var (
		session *domain.ExamSession
		err     error
	)
	if len(args) > 0 {
		session, err = sessionService.Get(cmd.Context(), args[0])
	} else {
		session, err = sessionService.Latest(cmd.Context())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return session, nil
}

// parseAnswers accepts an object keyed by question id or an array of
// answers in question order.
func parseAnswers(data []byte, session *domain.ExamSession) (map[string]string, error) {
	var byID map[string]string
	if err := json.Unmarshal(data, &byID); err == nil {
		return byID, nil
	}

	var ordered []string
	if err := json.Unmarshal(data, &ordered); err != nil {
		return nil, fmt.Errorf("%w: answers must be a JSON object or array of strings", domain.ErrInvalidInput)
	}
	if len(ordered) > len(session.Questions) {
		return nil, fmt.Errorf("%w: %d answers for %d questions",
			domain.ErrInvalidInput, len(ordered), len(session.Questions))
	}

	answers := make(map[string]string, len(ordered))
	for i, a := range ordered {
		answers[session.Questions[i].ID] = a
	}
	return answers, nil
}

// progressPrinter returns a progress callback that redraws a counter on
// terminals and prints nothing otherwise.
func progressPrinter(cmd *cobra.Command) driving.ProgressFunc {
	if !stdoutIsTerminal() {
		return nil
	}
	return func(done, total int) {
		cmd.Printf("\rGrading... %d/%d", done, total)
		if done == total {
			cmd.Println()
		}
	}
}

func printReport(cmd *cobra.Command, report *domain.GradingReport) {
	for i, r := range report.Results {
		cmd.Printf("Question %d: %s\n", i+1, r.Question)
		cmd.Printf("Answer: %s\n\n", r.Answer)
		cmd.Println(r.Display())
		cmd.Println(strings.Repeat("-", 40))
	}
	cmd.Printf("Graded %d questions, %d failed.\n", len(report.Results), report.Failed)
}
