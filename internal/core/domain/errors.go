package domain

import (
	"context"
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown provider or loader type.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	// Grading is disabled without it.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	// Indexing and retrieval are disabled without embeddings.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// Pipeline Errors.

	// ErrSourceNotFound indicates no source document exists at the expected location.
	ErrSourceNotFound = errors.New("source document not found")

	// ErrChunkStoreNotFound indicates the chunk file is missing.
	// Run the build step before indexing.
	ErrChunkStoreNotFound = errors.New("chunk store not found, run 'gradewise build' first")

	// ErrCollectionNotFound indicates the vector collection was never built.
	ErrCollectionNotFound = errors.New("collection not found, run 'gradewise index' first")

	// ErrEmbeddingMismatch indicates a collection was built with a different
	// embedding model or dimensionality than the one used to query it.
	ErrEmbeddingMismatch = errors.New("embedding mismatch")

	// Backend Errors.

	// ErrGeneration indicates the language model failed to produce a completion.
	ErrGeneration = errors.New("generation failed")

	// ErrBackendUnavailable indicates a model backend could not be reached or
	// returned a server fault. Callers may retry.
	ErrBackendUnavailable = errors.New("backend unavailable")

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")
)

// Stage identifies the step of the grading pipeline an error came from.
type Stage string

// Pipeline stages.
const (
	StageRetrieval  Stage = "retrieval"
	StageGeneration Stage = "generation"
)

// StageError tags an error with the pipeline stage that produced it.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// StageOf returns the stage recorded on err, or "" when err carries none.
func StageOf(err error) Stage {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage
	}
	return ""
}

// IsRetriable reports whether err is a transient backend failure.
// Configuration errors (missing collection, embedding mismatch, bad input)
// are permanent.
func IsRetriable(err error) bool {
	if err == nil {
		return false
	}
	switch {
	case errors.Is(err, ErrBackendUnavailable),
		errors.Is(err, ErrRateLimited),
		errors.Is(err, context.DeadlineExceeded):
		return true
	default:
		return false
	}
}

// StatusError classifies an unsuccessful HTTP response from a model backend.
// 429 maps to ErrRateLimited and 5xx to ErrBackendUnavailable.
func StatusError(backend string, status int, body string) error {
	switch {
	case status == 429:
		return fmt.Errorf("%w: %s returned status %d: %s", ErrRateLimited, backend, status, body)
	case status >= 500:
		return fmt.Errorf("%w: %s returned status %d: %s", ErrBackendUnavailable, backend, status, body)
	default:
		return fmt.Errorf("%s returned status %d: %s", backend, status, body)
	}
}
