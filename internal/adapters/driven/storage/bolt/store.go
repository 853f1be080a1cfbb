// Package bolt persists exam sessions in a bbolt database.
package bolt

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"go.etcd.io/bbolt"

	"github.com/custodia-labs/gradewise/internal/core/domain"
	"github.com/custodia-labs/gradewise/internal/core/ports/driven"
)

// Ensure SessionStore implements the interface.
var _ driven.SessionStore = (*SessionStore)(nil)

var sessionsBucket = []byte("sessions")

// SessionStore stores sessions as JSON values keyed by session id.
type SessionStore struct {
	db   *bbolt.DB
	path string
}

// NewSessionStore opens or creates the database at path.
func NewSessionStore(path string) (*SessionStore, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		path = filepath.Join(home, ".gradewise", "sessions.db")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("create sessions directory: %w", err)
	}

	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open sessions database: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(sessionsBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create sessions bucket: %w", err)
	}

	return &SessionStore{db: db, path: path}, nil
}

// Path returns the database file path.
func (s *SessionStore) Path() string {
	return s.path
}

// Save creates or replaces a session.
func (s *SessionStore) Save(_ context.Context, session *domain.ExamSession) error {
	if session == nil || session.ID == "" {
		return fmt.Errorf("%w: session id is required", domain.ErrInvalidInput)
	}
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(sessionsBucket).Put([]byte(session.ID), data)
	})
}

// Get returns a session by id.
func (s *SessionStore) Get(_ context.Context, id string) (*domain.ExamSession, error) {
	var session domain.ExamSession
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(sessionsBucket).Get([]byte(id))
		if data == nil {
			return fmt.Errorf("%w: session %s", domain.ErrNotFound, id)
		}
		return json.Unmarshal(data, &session)
	})
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// List returns all sessions, most recently published first.
func (s *SessionStore) List(_ context.Context) ([]domain.ExamSession, error) {
	var list []domain.ExamSession
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(sessionsBucket).ForEach(func(k, v []byte) error {
			var session domain.ExamSession
			if err := json.Unmarshal(v, &session); err != nil {
				return fmt.Errorf("decode session %s: %w", k, err)
			}
			list = append(list, session)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(list, func(i, j int) bool {
		return list[i].PublishedAt.After(list[j].PublishedAt)
	})
	return list, nil
}

// Delete removes a session.
func (s *SessionStore) Delete(_ context.Context, id string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(sessionsBucket)
		if b.Get([]byte(id)) == nil {
			return fmt.Errorf("%w: session %s", domain.ErrNotFound, id)
		}
		return b.Delete([]byte(id))
	})
}

// Close closes the database.
func (s *SessionStore) Close() error {
	return s.db.Close()
}
