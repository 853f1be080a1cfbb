package driven

import (
	"context"

	"github.com/custodia-labs/gradewise/internal/core/domain"
)

// SessionStore persists exam sessions.
type SessionStore interface {
	// Save creates or replaces a session.
	Save(ctx context.Context, session *domain.ExamSession) error

	// Get returns a session by id. Returns domain.ErrNotFound if absent.
	Get(ctx context.Context, id string) (*domain.ExamSession, error)

	// List returns all sessions, most recently published first.
	List(ctx context.Context) ([]domain.ExamSession, error)

	// Delete removes a session. Returns domain.ErrNotFound if absent.
	Delete(ctx context.Context, id string) error

	// Close releases resources.
	Close() error
}
