package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/gradewise/internal/core/domain"
	"github.com/custodia-labs/gradewise/internal/core/ports/driving"
	"github.com/custodia-labs/gradewise/internal/logger"
)

// Ensure GradingService implements the interface.
var _ driving.GradingService = (*GradingService)(nil)

// GradingService grades every question of a session through a QueryEngine.
type GradingService struct {
	engine  driving.QueryEngine
	workers int
	limiter *rate.Limiter
}

// NewGradingService creates a grading service. Workers below one are
// treated as one. A positive requestsPerSecond limits calls to the engine.
func NewGradingService(engine driving.QueryEngine, cfg domain.GradingSettings) *GradingService {
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}
	return &GradingService{
		engine:  engine,
		workers: workers,
		limiter: limiter,
	}
}

// Grade grades each question independently. A failure is recorded on that
// question's result; results keep question order. The returned error is
// non-nil only for invalid input or when ctx ends, in which case the report
// is still returned with the unfinished questions marked failed.
func (s *GradingService) Grade(
	ctx context.Context,
	session *domain.ExamSession,
	answers map[string]string,
	progress driving.ProgressFunc,
) (*domain.GradingReport, error) {
	if session == nil {
		return nil, fmt.Errorf("%w: no session", domain.ErrInvalidInput)
	}
	start := time.Now()

	total := len(session.Questions)
	results := make([]domain.GradeResult, total)
	jobs := make(chan int)

	var (
		mu   sync.Mutex
		done int
		wg   sync.WaitGroup
	)

	workers := min(s.workers, max(total, 1))
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				q := session.Questions[i]
				results[i] = s.gradeOne(ctx, q, answers[q.ID])

				mu.Lock()
				done++
				if progress != nil {
					progress(done, total)
				}
				mu.Unlock()
			}
		}()
	}

	for i := range session.Questions {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	report := &domain.GradingReport{
		SessionID: session.ID,
		Results:   results,
		Duration:  time.Since(start),
	}
	for _, r := range results {
		if r.Failed() {
			report.Failed++
		}
	}
	logger.Info("graded %d questions, %d failed, in %s", total, report.Failed, report.Duration.Round(time.Millisecond))

	return report, ctx.Err()
}

func (s *GradingService) gradeOne(ctx context.Context, q domain.Question, answer string) domain.GradeResult {
	result := domain.GradeResult{
		QuestionID: q.ID,
		Question:   q.Text,
		Answer:     answer,
	}
	start := time.Now()

	err := ctx.Err()
	if err == nil && s.limiter != nil {
		err = s.limiter.Wait(ctx)
	}
	if err == nil {
		result.Feedback, err = s.engine.Answer(ctx, domain.FormatSubmission(q.Text, answer))
	}
	if err != nil {
		logger.Warn("question %d failed: %v", q.Position+1, err)
		result.Error = err.Error()
		result.Retriable = domain.IsRetriable(err)
	}

	result.Duration = time.Since(start)
	return result
}
