package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/gradewise/internal/core/domain"
	"github.com/custodia-labs/gradewise/internal/core/ports/driven"
	"github.com/custodia-labs/gradewise/internal/core/ports/driving"
)

// Ensure SessionService implements the interface.
var _ driving.SessionService = (*SessionService)(nil)

// SessionService hands exam sessions from publisher to student.
type SessionService struct {
	store  driven.SessionStore
	grader driving.GradingService
	now    func() time.Time
	newID  func() string
}

// NewSessionService creates a session service.
func NewSessionService(store driven.SessionStore, grader driving.GradingService) *SessionService {
	return &SessionService{
		store:  store,
		grader: grader,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// Publish creates a session from text with one question per non-empty line.
func (s *SessionService) Publish(ctx context.Context, title, text string) (*domain.ExamSession, error) {
	questions := domain.ParseQuestions(text)
	if len(questions) == 0 {
		return nil, fmt.Errorf("%w: no questions given", domain.ErrInvalidInput)
	}
	for i := range questions {
		questions[i].ID = s.newID()
	}

	now := s.now().UTC()
	if title == "" {
		title = "Exam " + now.Format("2006-01-02 15:04")
	}

	session := &domain.ExamSession{
		ID:          s.newID(),
		Title:       title,
		Questions:   questions,
		Status:      domain.SessionPublished,
		PublishedAt: now,
	}
	if err := s.store.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return session, nil
}

// Get returns a session by id.
func (s *SessionService) Get(ctx context.Context, id string) (*domain.ExamSession, error) {
	return s.store.Get(ctx, id)
}

// Latest returns the most recently published session.
func (s *SessionService) Latest(ctx context.Context) (*domain.ExamSession, error) {
	sessions, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return nil, fmt.Errorf("%w: no exam has been published", domain.ErrNotFound)
	}
	return &sessions[0], nil
}

// List returns all sessions, newest first.
func (s *SessionService) List(ctx context.Context) ([]domain.ExamSession, error) {
	return s.store.List(ctx)
}

// Submit grades answers keyed by question id and stores the report on the
// session. Answers for unknown questions are rejected before any grading.
// A graded session may be submitted again; the new report replaces the old.
func (s *SessionService) Submit(
	ctx context.Context,
	id string,
	answers map[string]string,
	progress driving.ProgressFunc,
) (*domain.GradingReport, error) {
	session, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	for qid := range answers {
		if _, ok := session.Question(qid); !ok {
			return nil, fmt.Errorf("%w: session %s has no question %s", domain.ErrInvalidInput, id, qid)
		}
	}

	report, err := s.grader.Grade(ctx, session, answers, progress)
	if err != nil {
		return report, err
	}

	gradedAt := s.now().UTC()
	session.Report = report
	session.Status = domain.SessionGraded
	session.GradedAt = &gradedAt
	if err := s.store.Save(ctx, session); err != nil {
		return report, fmt.Errorf("save graded session: %w", err)
	}
	return report, nil
}

// Delete removes a session.
func (s *SessionService) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}
