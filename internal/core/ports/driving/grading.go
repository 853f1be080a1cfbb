package driving

import (
	"context"

	"github.com/custodia-labs/gradewise/internal/core/domain"
)

// QueryEngine grades a packaged "Question: ... Answer: ..." string against
// retrieved reference material. Implementations are stateless.
type QueryEngine interface {
	// Answer retrieves context, fills the grading template and returns the
	// model output verbatim.
	Answer(ctx context.Context, query string) (string, error)
}

// ProgressFunc is called after each graded question.
type ProgressFunc func(done, total int)

// GradingService grades a batch of answers with per-question isolation.
type GradingService interface {
	// Grade grades every question of session. A failing question is recorded
	// in its result and never aborts the batch.
	Grade(
		ctx context.Context,
		session *domain.ExamSession,
		answers map[string]string,
		progress ProgressFunc,
	) (*domain.GradingReport, error)
}

// SessionService publishes exam sessions and accepts submissions.
type SessionService interface {
	// Publish creates a session with one question per non-empty line of text.
	Publish(ctx context.Context, title, text string) (*domain.ExamSession, error)

	// Get returns a session by id.
	Get(ctx context.Context, id string) (*domain.ExamSession, error)

	// Latest returns the most recently published session.
	Latest(ctx context.Context) (*domain.ExamSession, error)

	// List returns all sessions, newest first.
	List(ctx context.Context) ([]domain.ExamSession, error)

	// Submit grades answers (keyed by question id) and attaches the report.
	Submit(
		ctx context.Context,
		id string,
		answers map[string]string,
		progress ProgressFunc,
	) (*domain.GradingReport, error)

	// Delete removes a session.
	Delete(ctx context.Context, id string) error
}
