package services

import (
	"context"
	"sync"

	"github.com/custodia-labs/gradewise/internal/core/domain"
	"github.com/custodia-labs/gradewise/internal/core/ports/driven"
	"github.com/custodia-labs/gradewise/internal/core/ports/driving"
)

// --- Mock implementations ---

// mockLoader implements driven.DocumentLoader for testing.
type mockLoader struct {
	path     string
	findErr  error
	pages    []string
	pagesErr error
	dir      string
}

func (m *mockLoader) Find(dir string) (string, error) {
	m.dir = dir
	if m.findErr != nil {
		return "", m.findErr
	}
	return m.path, nil
}

func (m *mockLoader) Pages(_ context.Context, _ string) ([]string, error) {
	if m.pagesErr != nil {
		return nil, m.pagesErr
	}
	return m.pages, nil
}

// mockEmbeddingService implements driven.EmbeddingService for testing.
// Each text maps to a fixed vector, or to the fallback when absent.
type mockEmbeddingService struct {
	vectors  map[string][]float32
	fallback []float32
	embedErr error
	model    string
	dims     int
	calls    int
}

func (m *mockEmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	m.calls++
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	if v, ok := m.vectors[text]; ok {
		return v, nil
	}
	return m.fallback, nil
}

func (m *mockEmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		v, err := m.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (m *mockEmbeddingService) Dimensions() int   { return m.dims }
func (m *mockEmbeddingService) ModelName() string { return m.model }

func (m *mockEmbeddingService) Ping(_ context.Context) error { return nil }
func (m *mockEmbeddingService) Close() error                 { return nil }

// mockLLMService implements driven.LLMService for testing.
type mockLLMService struct {
	mu       sync.Mutex
	output   string
	err      error
	generate func(ctx context.Context, prompt string) (string, error)
	prompts  []string
}

func (m *mockLLMService) Generate(ctx context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()
	if m.generate != nil {
		return m.generate(ctx, prompt)
	}
	return m.output, m.err
}

func (m *mockLLMService) ModelName() string            { return "mock-llm" }
func (m *mockLLMService) Ping(_ context.Context) error { return nil }
func (m *mockLLMService) Close() error                 { return nil }

// mockIndexService implements driving.IndexService for testing.
type mockIndexService struct {
	hits     []domain.QueryHit
	queryErr error
	lastK    int
	query    func(ctx context.Context, text string) ([]domain.QueryHit, error)
}

func (m *mockIndexService) Rebuild(_ context.Context, _ []domain.Chunk) (*domain.IndexReport, error) {
	return &domain.IndexReport{}, nil
}

func (m *mockIndexService) RebuildFromStore(_ context.Context) (*domain.IndexReport, error) {
	return &domain.IndexReport{}, nil
}

func (m *mockIndexService) Query(ctx context.Context, text string, k int) ([]domain.QueryHit, error) {
	m.lastK = k
	if m.query != nil {
		return m.query(ctx, text)
	}
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	return domain.TopK(m.hits, k), nil
}

func (m *mockIndexService) Smoke(ctx context.Context, query string) (*domain.QueryHit, error) {
	hits, err := m.Query(ctx, query, 1)
	if err != nil || len(hits) == 0 {
		return nil, err
	}
	return &hits[0], nil
}

// mockQueryEngine implements driving.QueryEngine for testing.
type mockQueryEngine struct {
	answer func(ctx context.Context, query string) (string, error)
}

func (m *mockQueryEngine) Answer(ctx context.Context, query string) (string, error) {
	return m.answer(ctx, query)
}

// mockGradingService implements driving.GradingService for testing.
type mockGradingService struct {
	report *domain.GradingReport
	err    error
	calls  int
}

func (m *mockGradingService) Grade(
	_ context.Context,
	session *domain.ExamSession,
	_ map[string]string,
	_ driving.ProgressFunc,
) (*domain.GradingReport, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	report := *m.report
	report.SessionID = session.ID
	return &report, nil
}
