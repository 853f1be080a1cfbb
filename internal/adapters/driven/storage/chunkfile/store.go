// Package chunkfile persists the chunk list as a JSON file.
package chunkfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/gradewise/internal/core/domain"
	"github.com/custodia-labs/gradewise/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.ChunkStore = (*Store)(nil)

// Store reads and writes a JSON array of {"id", "text"} records.
type Store struct {
	path string
}

// New creates a chunk store backed by the file at path.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the chunk file location.
func (s *Store) Path() string {
	return s.path
}

// Save replaces the chunk file. It writes to a temporary file in the same
// directory and renames it into place so readers never see a partial write.
func (s *Store) Save(_ context.Context, chunks []string) error {
	records := make([]domain.Chunk, len(chunks))
	for i, text := range chunks {
		records[i] = domain.Chunk{ID: i, Text: text}
	}

	data, err := json.MarshalIndent(records, "", "    ")
	if err != nil {
		return fmt.Errorf("encoding chunks: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating chunk directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing chunks: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("syncing chunks: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replacing chunk file: %w", err)
	}
	return nil
}

// Load reads all chunks in stored order.
func (s *Store) Load(_ context.Context) ([]domain.Chunk, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", domain.ErrChunkStoreNotFound, s.path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading chunk file: %w", err)
	}

	var chunks []domain.Chunk
	if err := json.Unmarshal(data, &chunks); err != nil {
		return nil, fmt.Errorf("decoding chunk file %s: %w", s.path, err)
	}
	if chunks == nil {
		chunks = []domain.Chunk{}
	}
	return chunks, nil
}
