package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/gradewise/internal/core/domain"
	"github.com/custodia-labs/gradewise/internal/prompts"
)

func threeHits() []domain.QueryHit {
	return []domain.QueryHit{
		{ID: "0", Document: "first chunk", Distance: 0.1},
		{ID: "1", Document: "second chunk", Distance: 0.2},
		{ID: "2", Document: "third chunk", Distance: 0.3},
		{ID: "3", Document: "fourth chunk", Distance: 0.4},
	}
}

func TestQueryEngine_Answer_ReturnsRawOutput(t *testing.T) {
	raw := "  **Grade:** 8/10\n**Feedback:** Correct.\n\n"
	index := &mockIndexService{hits: threeHits()}
	llm := &mockLLMService{output: raw}

	tmpl, err := prompts.New("CTX[{{.context}}] Q[{{.question}}]")
	require.NoError(t, err)
	engine := NewQueryEngine(index, llm, tmpl, QueryEngineConfig{})

	got, err := engine.Answer(context.Background(), "Question: What is QLoRA? Answer: x")
	require.NoError(t, err)
	assert.Equal(t, raw, got)
	assert.Equal(t, domain.DefaultTopK, index.lastK)

	require.Len(t, llm.prompts, 1)
	assert.Equal(t,
		"CTX[first chunk\n\nsecond chunk\n\nthird chunk] Q[Question: What is QLoRA? Answer: x]",
		llm.prompts[0])
}

func TestQueryEngine_Answer_DefaultTemplate(t *testing.T) {
	llm := &mockLLMService{output: "ok"}
	engine := NewQueryEngine(&mockIndexService{hits: threeHits()}, llm, nil, QueryEngineConfig{TopK: 1})

	_, err := engine.Answer(context.Background(), "Question: Q Answer: A")
	require.NoError(t, err)
	require.Len(t, llm.prompts, 1)
	assert.Contains(t, llm.prompts[0], "first chunk")
	assert.NotContains(t, llm.prompts[0], "second chunk")
	assert.Contains(t, llm.prompts[0], "Question: Q Answer: A")
}

func TestQueryEngine_Answer_EmptyCollection(t *testing.T) {
	llm := &mockLLMService{output: "no context"}
	engine := NewQueryEngine(&mockIndexService{}, llm, nil, QueryEngineConfig{})

	got, err := engine.Answer(context.Background(), "q")
	require.NoError(t, err)
	assert.Equal(t, "no context", got)
}

func TestQueryEngine_Answer_RetrievalError(t *testing.T) {
	llm := &mockLLMService{output: "unused"}
	engine := NewQueryEngine(&mockIndexService{queryErr: domain.ErrCollectionNotFound}, llm, nil, QueryEngineConfig{})

	_, err := engine.Answer(context.Background(), "q")
	assert.ErrorIs(t, err, domain.ErrCollectionNotFound)
	assert.Equal(t, domain.StageRetrieval, domain.StageOf(err))
	assert.Empty(t, llm.prompts)
}

func TestQueryEngine_Answer_GenerationError(t *testing.T) {
	llm := &mockLLMService{err: domain.ErrBackendUnavailable}
	engine := NewQueryEngine(&mockIndexService{hits: threeHits()}, llm, nil, QueryEngineConfig{})

	_, err := engine.Answer(context.Background(), "q")
	assert.ErrorIs(t, err, domain.ErrGeneration)
	assert.ErrorIs(t, err, domain.ErrBackendUnavailable)
	assert.Equal(t, domain.StageGeneration, domain.StageOf(err))
	assert.True(t, domain.IsRetriable(err))
}

func TestQueryEngine_Answer_GenerationErrorWrappedOnce(t *testing.T) {
	cause := fmt.Errorf("%w: openai returned no choices", domain.ErrGeneration)
	engine := NewQueryEngine(&mockIndexService{hits: threeHits()}, &mockLLMService{err: cause}, nil, QueryEngineConfig{})

	_, err := engine.Answer(context.Background(), "q")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrGeneration)
	assert.Equal(t, 1, strings.Count(err.Error(), domain.ErrGeneration.Error()))
}

func TestQueryEngine_Answer_NoLLM(t *testing.T) {
	engine := NewQueryEngine(&mockIndexService{}, nil, nil, QueryEngineConfig{})

	_, err := engine.Answer(context.Background(), "q")
	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
}

func TestQueryEngine_Answer_Deadline(t *testing.T) {
	llm := &mockLLMService{generate: func(ctx context.Context, _ string) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}}
	engine := NewQueryEngine(&mockIndexService{hits: threeHits()}, llm, nil,
		QueryEngineConfig{Timeout: 20 * time.Millisecond})

	start := time.Now()
	_, err := engine.Answer(context.Background(), "q")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 2*time.Second)
	assert.True(t, domain.IsRetriable(err))
}

func TestQueryEngine_IsStateless(t *testing.T) {
	calls := 0
	llm := &mockLLMService{generate: func(_ context.Context, prompt string) (string, error) {
		calls++
		if calls == 1 {
			return "", errors.New("first call fails")
		}
		return "second", nil
	}}
	engine := NewQueryEngine(&mockIndexService{hits: threeHits()}, llm, nil, QueryEngineConfig{})

	_, err := engine.Answer(context.Background(), "q")
	require.Error(t, err)
	got, err := engine.Answer(context.Background(), "q")
	require.NoError(t, err)
	assert.Equal(t, "second", got)
	assert.Equal(t, llm.prompts[0], llm.prompts[1])
}
