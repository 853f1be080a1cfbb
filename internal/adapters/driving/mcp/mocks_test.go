package mcp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/gradewise/internal/core/domain"
	"github.com/custodia-labs/gradewise/internal/core/ports/driving"
)

// mockIndexService is a mock implementation of driving.IndexService.
type mockIndexService struct {
	hits  []domain.QueryHit
	err   error
	lastK int
}

func (m *mockIndexService) Rebuild(_ context.Context, _ []domain.Chunk) (*domain.IndexReport, error) {
	return &domain.IndexReport{}, m.err
}

func (m *mockIndexService) RebuildFromStore(_ context.Context) (*domain.IndexReport, error) {
	return &domain.IndexReport{}, m.err
}

func (m *mockIndexService) Query(_ context.Context, _ string, k int) ([]domain.QueryHit, error) {
	m.lastK = k
	return m.hits, m.err
}

func (m *mockIndexService) Smoke(_ context.Context, _ string) (*domain.QueryHit, error) {
	return nil, m.err
}

// mockQueryEngine is a mock implementation of driving.QueryEngine.
type mockQueryEngine struct {
	output    string
	err       error
	lastQuery string
}

func (m *mockQueryEngine) Answer(_ context.Context, query string) (string, error) {
	m.lastQuery = query
	return m.output, m.err
}

// mockSessionService is a mock implementation of driving.SessionService.
type mockSessionService struct {
	sessions map[string]*domain.ExamSession
	latest   *domain.ExamSession
	err      error
}

func (m *mockSessionService) Publish(_ context.Context, _, _ string) (*domain.ExamSession, error) {
	return nil, m.err
}

func (m *mockSessionService) Get(_ context.Context, id string) (*domain.ExamSession, error) {
	if m.err != nil {
		return nil, m.err
	}
	s, ok := m.sessions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return s, nil
}

func (m *mockSessionService) Latest(_ context.Context) (*domain.ExamSession, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.latest == nil {
		return nil, domain.ErrNotFound
	}
	return m.latest, nil
}

func (m *mockSessionService) List(_ context.Context) ([]domain.ExamSession, error) {
	return nil, m.err
}

func (m *mockSessionService) Submit(
	_ context.Context,
	_ string,
	_ map[string]string,
	_ driving.ProgressFunc,
) (*domain.GradingReport, error) {
	return nil, m.err
}

func (m *mockSessionService) Delete(_ context.Context, _ string) error {
	return m.err
}

func newTestServer(t *testing.T, ports *Ports) *Server {
	t.Helper()
	if ports.Index == nil {
		ports.Index = &mockIndexService{}
	}
	if ports.Query == nil {
		ports.Query = &mockQueryEngine{}
	}
	server, err := NewServer(ports)
	require.NoError(t, err)
	return server
}
