package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/gradewise/internal/core/domain"
	"github.com/custodia-labs/gradewise/internal/core/ports/driven"
	"github.com/custodia-labs/gradewise/internal/core/ports/driving"
	"github.com/custodia-labs/gradewise/internal/logger"
	"github.com/custodia-labs/gradewise/internal/prompts"
)

// Ensure QueryEngine implements the interface.
var _ driving.QueryEngine = (*QueryEngine)(nil)

// contextSeparator joins retrieved chunks in the prompt.
const contextSeparator = "\n\n"

// QueryEngineConfig controls retrieval and the per-call deadline.
type QueryEngineConfig struct {
	// TopK is the number of chunks retrieved per query (default 3).
	TopK int

	// Timeout bounds one Answer call including retrieval. Zero disables it.
	Timeout time.Duration
}

// QueryEngine retrieves reference chunks, fills the grading template and
// asks the language model for feedback. It holds no per-call state.
type QueryEngine struct {
	index    driving.IndexService
	llm      driven.LLMService
	template *prompts.Template
	cfg      QueryEngineConfig
}

// NewQueryEngine creates a query engine. A nil template uses the built-in
// grading rubric. llm may be nil, in which case Answer returns
// domain.ErrLLMUnavailable.
func NewQueryEngine(
	index driving.IndexService,
	llm driven.LLMService,
	template *prompts.Template,
	cfg QueryEngineConfig,
) *QueryEngine {
	if template == nil {
		template = prompts.Grading()
	}
	if cfg.TopK <= 0 {
		cfg.TopK = domain.DefaultTopK
	}
	return &QueryEngine{
		index:    index,
		llm:      llm,
		template: template,
		cfg:      cfg,
	}
}

// Answer returns the model output verbatim. Failures are wrapped in a
// domain.StageError naming the stage that failed.
func (e *QueryEngine) Answer(ctx context.Context, query string) (string, error) {
	if e.llm == nil {
		return "", &domain.StageError{Stage: domain.StageGeneration, Err: domain.ErrLLMUnavailable}
	}
	if e.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.Timeout)
		defer cancel()
	}
	defer logger.Since("answer", time.Now())

	hits, err := e.index.Query(ctx, query, e.cfg.TopK)
	if err != nil {
		return "", &domain.StageError{Stage: domain.StageRetrieval, Err: err}
	}

	docs := make([]string, len(hits))
	for i, h := range hits {
		docs[i] = h.Document
	}

	prompt, err := e.template.Render(strings.Join(docs, contextSeparator), query)
	if err != nil {
		return "", &domain.StageError{Stage: domain.StageGeneration, Err: err}
	}
	logger.Debug("prompt: %d characters from %d chunks", len(prompt), len(hits))

	out, err := e.llm.Generate(ctx, prompt, driven.GenerateOptions{})
	if err != nil {
		if !errors.Is(err, domain.ErrGeneration) {
			err = fmt.Errorf("%w: %w", domain.ErrGeneration, err)
		}
		return "", &domain.StageError{Stage: domain.StageGeneration, Err: fmt.Errorf("%s: %w", e.llm.ModelName(), err)}
	}
	return out, nil
}
