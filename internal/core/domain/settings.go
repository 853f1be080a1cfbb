package domain

import (
	"path/filepath"
	"time"
)

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or LLM.
type AIProvider string

// Available AI providers.
const (
	// AIProviderLocal is the built-in hashing embedder. Embeddings only.
	AIProviderLocal AIProvider = "local"

	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderLocal, AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama || p == AIProviderLocal
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderLocal:
		return "Local (hashing, offline)"
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	default:
		return unknownDescription
	}
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string

	// Dimensions overrides the vector size. Zero uses the model's known size.
	Dimensions int
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() || e.Provider == AIProviderAnthropic {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// ResolvedDimensions returns the configured vector size, falling back to
// the known size for the model.
func (e EmbeddingSettings) ResolvedDimensions() int {
	if e.Dimensions > 0 {
		return e.Dimensions
	}
	if dims, ok := EmbeddingDimensions()[e.Model]; ok {
		return dims
	}
	return DefaultLocalDimensions
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the API key (for OpenAI/Anthropic).
	APIKey string
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() || l.Provider == AIProviderLocal {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// PathSettings locates on-disk artefacts. Relative paths resolve against
// the data directory.
type PathSettings struct {
	// RawDir holds the source PDF.
	RawDir string

	// ChunksFile is the chunk store.
	ChunksFile string

	// VectorDB is the vector collection database.
	VectorDB string

	// SessionsDB is the exam session database.
	SessionsDB string
}

// Resolve returns a copy with relative paths joined onto dataDir.
func (p PathSettings) Resolve(dataDir string) PathSettings {
	join := func(path string) string {
		if path == "" || filepath.IsAbs(path) {
			return path
		}
		return filepath.Join(dataDir, path)
	}
	return PathSettings{
		RawDir:     join(p.RawDir),
		ChunksFile: join(p.ChunksFile),
		VectorDB:   join(p.VectorDB),
		SessionsDB: join(p.SessionsDB),
	}
}

// ChunkingSettings controls the chunker.
type ChunkingSettings struct {
	// Size is the maximum chunk length in characters.
	Size int

	// Overlap is the context shared between consecutive chunks.
	Overlap int
}

// CollectionSettings names the vector collection.
type CollectionSettings struct {
	// Name is the collection name.
	Name string

	// SourceLabel is stored as the "source" metadata of every record.
	SourceLabel string

	// SmokeQuery is run after a rebuild.
	SmokeQuery string
}

// RetrievalSettings controls the query engine.
type RetrievalSettings struct {
	// TopK is the number of chunks retrieved per query.
	TopK int
}

// GradingSettings controls batch grading.
type GradingSettings struct {
	// Workers is the number of questions graded concurrently.
	Workers int

	// Timeout bounds each answer call. Zero disables the deadline.
	Timeout time.Duration

	// RequestsPerSecond limits LLM calls. Zero means unlimited.
	RequestsPerSecond float64
}

// AppSettings holds all application settings.
type AppSettings struct {
	Paths      PathSettings
	Chunking   ChunkingSettings
	Collection CollectionSettings
	Embedding  EmbeddingSettings
	LLM        LLMSettings
	Retrieval  RetrievalSettings
	Grading    GradingSettings
}

// Defaults for the grading pipeline.
const (
	DefaultChunkSize       = 500
	DefaultChunkOverlap    = 50
	DefaultTopK            = 3
	DefaultCollectionName  = "university_rules"
	DefaultSourceLabel     = "Regulations 2023"
	DefaultSmokeQuery      = "What is the penalty for missing too many classes?"
	DefaultGradingTimeout  = 120 * time.Second
	DefaultLocalDimensions = 512
)

// DefaultAppSettings returns settings with sensible defaults.
// Embeddings and generation default to a local Ollama instance.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Paths: PathSettings{
			RawDir:     "raw_pdfs",
			ChunksFile: filepath.Join("chunks", "rules_chunked.json"),
			VectorDB:   "vectors.db",
			SessionsDB: "sessions.db",
		},
		Chunking: ChunkingSettings{
			Size:    DefaultChunkSize,
			Overlap: DefaultChunkOverlap,
		},
		Collection: CollectionSettings{
			Name:        DefaultCollectionName,
			SourceLabel: DefaultSourceLabel,
			SmokeQuery:  DefaultSmokeQuery,
		},
		Embedding: EmbeddingSettings{
			Provider: AIProviderOllama,
			Model:    DefaultEmbeddingModels()[AIProviderOllama],
		},
		LLM: LLMSettings{
			Provider: AIProviderOllama,
			Model:    DefaultLLMModels()[AIProviderOllama],
		},
		Retrieval: RetrievalSettings{
			TopK: DefaultTopK,
		},
		Grading: GradingSettings{
			Workers: 1,
			Timeout: DefaultGradingTimeout,
		},
	}
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{
		AIProviderLocal,
		AIProviderOllama,
		AIProviderOpenAI,
	}
}

// AllLLMProviders returns providers that support LLM operations.
func AllLLMProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderAnthropic,
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderLocal:  "hashing-bow",
		AIProviderOllama: "all-minilm",
		AIProviderOpenAI: "text-embedding-3-small",
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:    "llama3",
		AIProviderOpenAI:    "gpt-4o-mini",
		AIProviderAnthropic: "claude-3-5-sonnet-latest",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// Ollama models
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		"all-minilm":        384,
		// OpenAI models
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
	}
}
