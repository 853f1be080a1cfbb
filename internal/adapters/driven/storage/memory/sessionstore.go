package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/gradewise/internal/core/domain"
	"github.com/custodia-labs/gradewise/internal/core/ports/driven"
)

// Ensure SessionStore implements the interface.
var _ driven.SessionStore = (*SessionStore)(nil)

// SessionStore is an in-memory implementation of driven.SessionStore.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]domain.ExamSession
}

// NewSessionStore creates a new in-memory session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]domain.ExamSession),
	}
}

// Save creates or replaces a session.
func (s *SessionStore) Save(_ context.Context, session *domain.ExamSession) error {
	if session == nil || session.ID == "" {
		return fmt.Errorf("%w: session id is required", domain.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = *session
	return nil
}

// Get returns a copy of the session.
func (s *SessionStore) Get(_ context.Context, id string) (*domain.ExamSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: session %s", domain.ErrNotFound, id)
	}
	return &session, nil
}

// List returns sessions, most recently published first.
func (s *SessionStore) List(_ context.Context) ([]domain.ExamSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := make([]domain.ExamSession, 0, len(s.sessions))
	for _, session := range s.sessions {
		list = append(list, session)
	}
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].PublishedAt.Equal(list[j].PublishedAt) {
			return list[i].ID > list[j].ID
		}
		return list[i].PublishedAt.After(list[j].PublishedAt)
	})
	return list, nil
}

// Delete removes a session.
func (s *SessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return fmt.Errorf("%w: session %s", domain.ErrNotFound, id)
	}
	delete(s.sessions, id)
	return nil
}

// Close is a no-op.
func (s *SessionStore) Close() error {
	return nil
}
