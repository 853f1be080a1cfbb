// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"context"
	"fmt"
	"time"

	hashingembed "github.com/custodia-labs/gradewise/internal/adapters/driven/embedding/hashing"
	ollamaembed "github.com/custodia-labs/gradewise/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/gradewise/internal/adapters/driven/embedding/openai"
	anthropicllm "github.com/custodia-labs/gradewise/internal/adapters/driven/llm/anthropic"
	ollamallm "github.com/custodia-labs/gradewise/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/gradewise/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/gradewise/internal/core/domain"
	"github.com/custodia-labs/gradewise/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// InitResult contains the AI services built from settings.
type InitResult struct {
	EmbeddingService driven.EmbeddingService
	LLMService       driven.LLMService
	Warnings         []string // Non-fatal issues; the affected service is nil.
}

// Close releases all resources held by InitResult.
func (r *InitResult) Close() {
	if r.EmbeddingService != nil {
		r.EmbeddingService.Close()
	}
	if r.LLMService != nil {
		r.LLMService.Close()
	}
}

// Init builds both services without contacting the providers. A provider
// that cannot be built is reported in Warnings so that commands which do
// not need it still run.
func Init(settings *domain.AppSettings) *InitResult {
	result := &InitResult{}

	embedding, err := CreateEmbeddingService(&settings.Embedding)
	switch {
	case err != nil:
		result.Warnings = append(result.Warnings, fmt.Sprintf("embedding: %v", err))
	case embedding == nil:
		result.Warnings = append(result.Warnings, "embedding: provider not configured")
	default:
		result.EmbeddingService = embedding
	}

	llm, err := CreateLLMService(&settings.LLM)
	switch {
	case err != nil:
		result.Warnings = append(result.Warnings, fmt.Sprintf("llm: %v", err))
	case llm == nil:
		result.Warnings = append(result.Warnings, "llm: provider not configured")
	default:
		result.LLMService = llm
	}

	return result
}

// CreateAndValidateEmbeddingService creates an embedding service and validates connectivity.
func CreateAndValidateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	svc, err := CreateEmbeddingService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Run 'gradewise settings set' to fix",
			domain.ErrEmbeddingUnavailable, err)
	}
	if svc == nil {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w)", domain.ErrEmbeddingUnavailable, err)
	}
	return svc, nil
}

// CreateAndValidateLLMService creates an LLM service and validates connectivity.
func CreateAndValidateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	svc, err := CreateLLMService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Run 'gradewise settings set' to fix",
			domain.ErrLLMUnavailable, err)
	}
	if svc == nil {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w)", domain.ErrLLMUnavailable, err)
	}
	return svc, nil
}

// ValidateEmbeddingConfig creates an embedding service and pings it.
func ValidateEmbeddingConfig(settings *domain.EmbeddingSettings) error {
	svc, err := CreateAndValidateEmbeddingService(settings)
	if svc != nil {
		svc.Close()
	}
	return err
}

// ValidateLLMConfig creates an LLM service and pings it.
func ValidateLLMConfig(settings *domain.LLMSettings) error {
	svc, err := CreateAndValidateLLMService(settings)
	if svc != nil {
		svc.Close()
	}
	return err
}

// CreateEmbeddingService creates the appropriate embedding service based on settings.
// Returns nil if the provider is not configured.
func CreateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderLocal:
		return hashingembed.NewEmbeddingService(settings.Dimensions), nil

	case domain.AIProviderOllama:
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Dimensions: settings.ResolvedDimensions(),
		}), nil

	case domain.AIProviderOpenAI:
		if !settings.IsConfigured() {
			return nil, nil
		}
		return openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:     settings.APIKey,
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Dimensions: settings.Dimensions,
		})

	case domain.AIProviderAnthropic:
		return nil, fmt.Errorf("%w: anthropic does not support embeddings, use local, ollama or openai",
			domain.ErrUnsupportedType)

	case "":
		return nil, nil

	default:
		return nil, fmt.Errorf("%w: embedding provider %s", domain.ErrUnsupportedType, settings.Provider)
	}
}

// CreateLLMService creates the appropriate LLM service based on settings.
// Returns nil if the provider is not configured.
func CreateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamallm.NewLLMService(ollamallm.LLMConfig{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		}), nil

	case domain.AIProviderOpenAI:
		if !settings.IsConfigured() {
			return nil, nil
		}
		return openaillm.NewLLMService(openaillm.LLMConfig{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	case domain.AIProviderAnthropic:
		if !settings.IsConfigured() {
			return nil, nil
		}
		return anthropicllm.NewLLMService(anthropicllm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	case domain.AIProviderLocal:
		return nil, fmt.Errorf("%w: the local provider only supports embeddings", domain.ErrUnsupportedType)

	case "":
		return nil, nil

	default:
		return nil, fmt.Errorf("%w: LLM provider %s", domain.ErrUnsupportedType, settings.Provider)
	}
}
