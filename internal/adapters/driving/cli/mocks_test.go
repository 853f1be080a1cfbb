package cli

import (
	"context"
	"sort"
	"time"

	"github.com/custodia-labs/gradewise/internal/core/domain"
	"github.com/custodia-labs/gradewise/internal/core/ports/driving"
)

// --- Mock implementations ---

type mockSettingsService struct {
	settings    domain.AppSettings
	validateErr error
	setErr      error
	sets        map[string]string
	embedding   domain.AIProvider
	llm         domain.AIProvider
	apiKey      string
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Save(s *domain.AppSettings) error {
	m.settings = *s
	return nil
}

func (m *mockSettingsService) Set(key, value string) error {
	if m.setErr != nil {
		return m.setErr
	}
	if m.sets == nil {
		m.sets = make(map[string]string)
	}
	m.sets[key] = value
	return nil
}

func (m *mockSettingsService) Keys() []string {
	keys := []string{"retrieval.top_k", "grading.workers", "llm.provider"}
	sort.Strings(keys)
	return keys
}

func (m *mockSettingsService) SetEmbeddingProvider(p domain.AIProvider, model, apiKey string) error {
	m.embedding = p
	m.settings.Embedding.Provider = p
	m.settings.Embedding.Model = model
	m.apiKey = apiKey
	return nil
}

func (m *mockSettingsService) SetLLMProvider(p domain.AIProvider, model, apiKey string) error {
	m.llm = p
	m.settings.LLM.Provider = p
	m.settings.LLM.Model = model
	m.apiKey = apiKey
	return nil
}

func (m *mockSettingsService) Validate() error { return m.validateErr }
func (m *mockSettingsService) GetDefaults() domain.AppSettings { return domain.DefaultAppSettings() }
func (m *mockSettingsService) ValidateEmbeddingConfig() error { return m.validateErr }
func (m *mockSettingsService) ValidateLLMConfig() error { return m.validateErr }

type mockPreprocessService struct {
	report   *domain.BuildReport
	err      error
	lastOpts domain.BuildOptions
}

func (m *mockPreprocessService) Build(_ context.Context, opts domain.BuildOptions) (*domain.BuildReport, error) {
	m.lastOpts = opts
	return m.report, m.err
}

type mockIndexService struct {
	report    *domain.IndexReport
	hits      []domain.QueryHit
	smoke     *domain.QueryHit
	err       error
	smokeErr  error
	lastK     int
	lastQuery string
}

func (m *mockIndexService) Rebuild(_ context.Context, _ []domain.Chunk) (*domain.IndexReport, error) {
	return m.report, m.err
}

func (m *mockIndexService) RebuildFromStore(_ context.Context) (*domain.IndexReport, error) {
	return m.report, m.err
}

func (m *mockIndexService) Query(_ context.Context, _ string, k int) ([]domain.QueryHit, error) {
	m.lastK = k
	return m.hits, m.err
}

func (m *mockIndexService) Smoke(_ context.Context, query string) (*domain.QueryHit, error) {
	m.lastQuery = query
	return m.smoke, m.smokeErr
}

type mockQueryEngine struct {
	output    string
	err       error
	lastQuery string
}

func (m *mockQueryEngine) Answer(_ context.Context, query string) (string, error) {
	m.lastQuery = query
	return m.output, m.err
}

type mockSessionService struct {
	sessions     map[string]*domain.ExamSession
	order        []string
	publishedRaw string
	submitErr    error
	lastAnswers  map[string]string
}

func newMockSessionService() *mockSessionService {
	return &mockSessionService{sessions: make(map[string]*domain.ExamSession)}
}

func (m *mockSessionService) add(s *domain.ExamSession) {
	m.sessions[s.ID] = s
	m.order = append([]string{s.ID}, m.order...)
}

func (m *mockSessionService) Publish(_ context.Context, title, text string) (*domain.ExamSession, error) {
	m.publishedRaw = text
	questions := domain.ParseQuestions(text)
	if len(questions) == 0 {
		return nil, domain.ErrInvalidInput
	}
	for i := range questions {
		questions[i].ID = "q" + string(rune('1'+i))
	}
	s := &domain.ExamSession{
		ID:          "s-new",
		Title:       title,
		Questions:   questions,
		Status:      domain.SessionPublished,
		PublishedAt: time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC),
	}
	m.add(s)
	return s, nil
}

func (m *mockSessionService) Get(_ context.Context, id string) (*domain.ExamSession, error) {
	s, ok := m.sessions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return s, nil
}

func (m *mockSessionService) Latest(ctx context.Context) (*domain.ExamSession, error) {
	if len(m.order) == 0 {
		return nil, domain.ErrNotFound
	}
	return m.Get(ctx, m.order[0])
}

func (m *mockSessionService) List(_ context.Context) ([]domain.ExamSession, error) {
	out := make([]domain.ExamSession, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, *m.sessions[id])
	}
	return out, nil
}

func (m *mockSessionService) Submit(
	_ context.Context,
	id string,
	answers map[string]string,
	progress driving.ProgressFunc,
) (*domain.GradingReport, error) {
	if m.submitErr != nil {
		return nil, m.submitErr
	}
	s, ok := m.sessions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	m.lastAnswers = answers

	report := &domain.GradingReport{SessionID: id}
	for i, q := range s.Questions {
		r := domain.GradeResult{QuestionID: q.ID, Question: q.Text, Answer: answers[q.ID]}
		if r.Answer == "boom" {
			r.Error = "generation: model crashed"
			report.Failed++
		} else {
			r.Feedback = "**Grade:** 8/10"
		}
		report.Results = append(report.Results, r)
		if progress != nil {
			progress(i+1, len(s.Questions))
		}
	}
	s.Report = report
	s.Status = domain.SessionGraded
	return report, nil
}

func (m *mockSessionService) Delete(_ context.Context, id string) error {
	if _, ok := m.sessions[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.sessions, id)
	return nil
}
