package services

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/custodia-labs/gradewise/internal/core/domain"
	"github.com/custodia-labs/gradewise/internal/core/ports/driven"
	"github.com/custodia-labs/gradewise/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyRawDir          = "paths.raw_dir"
	keyChunksFile      = "paths.chunks_file"
	keyVectorDB        = "paths.vector_db"
	keySessionsDB      = "paths.sessions_db"
	keyChunkSize       = "chunking.size"
	keyChunkOverlap    = "chunking.overlap"
	keyCollectionName  = "collection.name"
	keySourceLabel     = "collection.source_label"
	keySmokeQuery      = "collection.smoke_query"
	keyEmbedProvider   = "embedding.provider"
	keyEmbedModel      = "embedding.model"
	keyEmbedBaseURL    = "embedding.base_url"
	keyEmbedAPIKey     = "embedding.api_key"
	keyEmbedDimensions = "embedding.dimensions"
	keyLLMProvider     = "llm.provider"
	keyLLMModel        = "llm.model"
	keyLLMBaseURL      = "llm.base_url"
	keyLLMAPIKey       = "llm.api_key"
	keyTopK            = "retrieval.top_k"
	keyWorkers         = "grading.workers"
	keyTimeout         = "grading.timeout"
	keyRequestsPerSec  = "grading.requests_per_second"
)

// Environment variables that supply API keys when none is configured.
//
//nolint:gosec // G101: variable names, not credentials.
const (
	EnvOpenAIKey    = "OPENAI_API_KEY"
	EnvAnthropicKey = "ANTHROPIC_API_KEY"
)

type valueKind int

const (
	kindString valueKind = iota
	kindInt
	kindFloat
	kindDuration
	kindProvider
)

// settingKinds lists every key accepted by Set.
var settingKinds = map[string]valueKind{
	keyRawDir:          kindString,
	keyChunksFile:      kindString,
	keyVectorDB:        kindString,
	keySessionsDB:      kindString,
	keyChunkSize:       kindInt,
	keyChunkOverlap:    kindInt,
	keyCollectionName:  kindString,
	keySourceLabel:     kindString,
	keySmokeQuery:      kindString,
	keyEmbedProvider:   kindProvider,
	keyEmbedModel:      kindString,
	keyEmbedBaseURL:    kindString,
	keyEmbedAPIKey:     kindString,
	keyEmbedDimensions: kindInt,
	keyLLMProvider:     kindProvider,
	keyLLMModel:        kindString,
	keyLLMBaseURL:      kindString,
	keyLLMAPIKey:       kindString,
	keyTopK:            kindInt,
	keyWorkers:         kindInt,
	keyTimeout:         kindDuration,
	keyRequestsPerSec:  kindFloat,
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
	getenv      func(string) string
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
		getenv:      os.Getenv,
	}
}

// Get retrieves current application settings. Unset keys take defaults and
// empty API keys are filled from the environment.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	d := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Paths: domain.PathSettings{
			RawDir:     s.getString(keyRawDir, d.Paths.RawDir),
			ChunksFile: s.getString(keyChunksFile, d.Paths.ChunksFile),
			VectorDB:   s.getString(keyVectorDB, d.Paths.VectorDB),
			SessionsDB: s.getString(keySessionsDB, d.Paths.SessionsDB),
		},
		Chunking: domain.ChunkingSettings{
			Size:    s.getInt(keyChunkSize, d.Chunking.Size),
			Overlap: s.getInt(keyChunkOverlap, d.Chunking.Overlap),
		},
		Collection: domain.CollectionSettings{
			Name:        s.getString(keyCollectionName, d.Collection.Name),
			SourceLabel: s.getString(keySourceLabel, d.Collection.SourceLabel),
			SmokeQuery:  s.getString(keySmokeQuery, d.Collection.SmokeQuery),
		},
		Embedding: domain.EmbeddingSettings{
			Provider:   s.getProvider(keyEmbedProvider, d.Embedding.Provider),
			Model:      s.getString(keyEmbedModel, d.Embedding.Model),
			BaseURL:    s.configStore.GetString(keyEmbedBaseURL), // No default - empty is valid for cloud providers
			APIKey:     s.configStore.GetString(keyEmbedAPIKey),
			Dimensions: s.getInt(keyEmbedDimensions, d.Embedding.Dimensions),
		},
		LLM: domain.LLMSettings{
			Provider: s.getProvider(keyLLMProvider, d.LLM.Provider),
			Model:    s.getString(keyLLMModel, d.LLM.Model),
			BaseURL:  s.configStore.GetString(keyLLMBaseURL),
			APIKey:   s.configStore.GetString(keyLLMAPIKey),
		},
		Retrieval: domain.RetrievalSettings{
			TopK: s.getInt(keyTopK, d.Retrieval.TopK),
		},
		Grading: domain.GradingSettings{
			Workers:           s.getInt(keyWorkers, d.Grading.Workers),
			Timeout:           s.getDuration(keyTimeout, d.Grading.Timeout),
			RequestsPerSecond: s.getFloat(keyRequestsPerSec, d.Grading.RequestsPerSecond),
		},
	}

	if settings.Embedding.APIKey == "" {
		settings.Embedding.APIKey = s.envKey(settings.Embedding.Provider)
	}
	if settings.LLM.APIKey == "" {
		settings.LLM.APIKey = s.envKey(settings.LLM.Provider)
	}

	return settings, nil
}

// Save persists application settings. API keys that came from the
// environment are not written.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := map[string]any{
		keyRawDir:          settings.Paths.RawDir,
		keyChunksFile:      settings.Paths.ChunksFile,
		keyVectorDB:        settings.Paths.VectorDB,
		keySessionsDB:      settings.Paths.SessionsDB,
		keyChunkSize:       settings.Chunking.Size,
		keyChunkOverlap:    settings.Chunking.Overlap,
		keyCollectionName:  settings.Collection.Name,
		keySourceLabel:     settings.Collection.SourceLabel,
		keySmokeQuery:      settings.Collection.SmokeQuery,
		keyEmbedProvider:   settings.Embedding.Provider.String(),
		keyEmbedModel:      settings.Embedding.Model,
		keyEmbedBaseURL:    settings.Embedding.BaseURL,
		keyEmbedDimensions: settings.Embedding.Dimensions,
		keyLLMProvider:     settings.LLM.Provider.String(),
		keyLLMModel:        settings.LLM.Model,
		keyLLMBaseURL:      settings.LLM.BaseURL,
		keyTopK:            settings.Retrieval.TopK,
		keyWorkers:         settings.Grading.Workers,
		keyTimeout:         settings.Grading.Timeout.String(),
		keyRequestsPerSec:  settings.Grading.RequestsPerSecond,
	}
	if key := settings.Embedding.APIKey; key != s.envKey(settings.Embedding.Provider) {
		values[keyEmbedAPIKey] = key
	}
	if key := settings.LLM.APIKey; key != s.envKey(settings.LLM.Provider) {
		values[keyLLMAPIKey] = key
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if err := s.configStore.Set(k, values[k]); err != nil {
			return fmt.Errorf("save %s: %w", k, err)
		}
	}
	return nil
}

// Set parses value according to the key's type and stores it.
func (s *SettingsService) Set(key, value string) error {
	kind, ok := settingKinds[key]
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	var parsed any
	switch kind {
	case kindString:
		parsed = value
	case kindInt:
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("%w: %s must be a non-negative integer", domain.ErrInvalidInput, key)
		}
		parsed = n
	case kindFloat:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f < 0 {
			return fmt.Errorf("%w: %s must be a non-negative number", domain.ErrInvalidInput, key)
		}
		parsed = f
	case kindDuration:
		d, err := time.ParseDuration(value)
		if err != nil || d < 0 {
			return fmt.Errorf("%w: %s must be a duration such as 90s", domain.ErrInvalidInput, key)
		}
		parsed = d.String()
	case kindProvider:
		p := domain.AIProvider(value)
		if !p.IsValid() {
			return fmt.Errorf("%w: unknown provider %q", domain.ErrInvalidInput, value)
		}
		parsed = p.String()
	}

	return s.configStore.Set(key, parsed)
}

// Keys returns the recognised config keys in sorted order.
func (s *SettingsService) Keys() []string {
	keys := make([]string, 0, len(settingKinds))
	for k := range settingKinds {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// SetEmbeddingProvider configures the embedding provider.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("%w: invalid embedding provider: %s", domain.ErrInvalidInput, provider)
	}
	if !contains(domain.AllEmbeddingProviders(), provider) {
		return fmt.Errorf("%w: provider %s does not support embeddings", domain.ErrInvalidInput, provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}
	if apiKey == "" {
		apiKey = s.envKey(provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("%w: API key required for %s", domain.ErrInvalidInput, provider)
	}

	settings.Embedding.Provider = provider
	settings.Embedding.Model = modelOrDefault(model, domain.DefaultEmbeddingModels()[provider])
	settings.Embedding.BaseURL = baseURLFor(provider, settings.Embedding.BaseURL)
	settings.Embedding.APIKey = apiKey
	settings.Embedding.Dimensions = 0

	return s.Save(settings)
}

// SetLLMProvider configures the LLM provider.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() || !contains(domain.AllLLMProviders(), provider) {
		return fmt.Errorf("%w: invalid LLM provider: %s", domain.ErrInvalidInput, provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}
	if apiKey == "" {
		apiKey = s.envKey(provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("%w: API key required for %s", domain.ErrInvalidInput, provider)
	}

	settings.LLM.Provider = provider
	settings.LLM.Model = modelOrDefault(model, domain.DefaultLLMModels()[provider])
	settings.LLM.BaseURL = baseURLFor(provider, settings.LLM.BaseURL)
	settings.LLM.APIKey = apiKey

	return s.Save(settings)
}

// Validate checks that current settings are usable.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if settings.Chunking.Size <= 0 || settings.Chunking.Overlap < 0 ||
		settings.Chunking.Overlap >= settings.Chunking.Size {
		return fmt.Errorf("%w: chunk overlap %d must be below chunk size %d",
			domain.ErrInvalidInput, settings.Chunking.Overlap, settings.Chunking.Size)
	}
	if settings.Retrieval.TopK <= 0 {
		return fmt.Errorf("%w: %s must be positive", domain.ErrInvalidInput, keyTopK)
	}
	if settings.Grading.Workers <= 0 {
		return fmt.Errorf("%w: %s must be positive", domain.ErrInvalidInput, keyWorkers)
	}
	if settings.Collection.Name == "" {
		return fmt.Errorf("%w: %s is empty", domain.ErrInvalidInput, keyCollectionName)
	}
	if !settings.Embedding.IsConfigured() {
		return fmt.Errorf("%w: embedding provider %s is not configured",
			domain.ErrEmbeddingUnavailable, settings.Embedding.Provider)
	}
	if !settings.LLM.IsConfigured() {
		return fmt.Errorf("%w: LLM provider %s is not configured",
			domain.ErrLLMUnavailable, settings.LLM.Provider)
	}
	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
func (s *SettingsService) ValidateEmbeddingConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(&settings.Embedding)
}

// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
func (s *SettingsService) ValidateLLMConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(&settings.LLM)
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

// getInt distinguishes an explicit zero from an unset key.
func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getDuration(key string, defaultVal time.Duration) time.Duration {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}
	return d
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	provider := domain.AIProvider(s.configStore.GetString(key))
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func (s *SettingsService) envKey(provider domain.AIProvider) string {
	switch provider {
	case domain.AIProviderOpenAI:
		return s.getenv(EnvOpenAIKey)
	case domain.AIProviderAnthropic:
		return s.getenv(EnvAnthropicKey)
	default:
		return ""
	}
}

func contains(providers []domain.AIProvider, p domain.AIProvider) bool {
	for _, candidate := range providers {
		if candidate == p {
			return true
		}
	}
	return false
}

func modelOrDefault(model, fallback string) string {
	if model != "" {
		return model
	}
	return fallback
}

// baseURLFor keeps a custom Ollama endpoint and clears it for other providers.
func baseURLFor(provider domain.AIProvider, current string) string {
	if provider != domain.AIProviderOllama {
		return ""
	}
	if current == "" {
		return "http://localhost:11434"
	}
	return current
}
