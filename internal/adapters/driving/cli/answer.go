package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/gradewise/internal/core/domain"
)

var answerCmd = &cobra.Command{
	Use:   "answer [question] [answer]",
	Short: "Grade a single answer",
	Long: `Grades one answer without publishing a session. The model's feedback is
printed exactly as returned.`,
	Args: cobra.ExactArgs(2),
	RunE: runAnswer,
}

func init() {
	rootCmd.AddCommand(answerCmd)
}

func runAnswer(cmd *cobra.Command, args []string) error {
	if queryEngine == nil {
		return errors.New("query engine not configured")
	}

	feedback, err := queryEngine.Answer(cmd.Context(), domain.FormatSubmission(args[0], args[1]))
	if err != nil {
		return fmt.Errorf("grading failed: %w", err)
	}

	cmd.Println(feedback)
	return nil
}
