package services

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/gradewise/internal/core/domain"
	"github.com/custodia-labs/gradewise/internal/core/ports/driven"
	"github.com/custodia-labs/gradewise/internal/core/ports/driving"
	"github.com/custodia-labs/gradewise/internal/logger"
)

// Ensure PreprocessService implements the interface.
var _ driving.PreprocessService = (*PreprocessService)(nil)

// previewRunes bounds BuildReport.Preview.
const previewRunes = 200

// PreprocessService extracts, normalises and chunks the source PDF.
type PreprocessService struct {
	loader     driven.DocumentLoader
	normaliser driven.Normaliser
	chunker    driven.Chunker
	store      driven.ChunkStore
	defaults   domain.BuildOptions
}

// NewPreprocessService creates a preprocessing service. defaults supplies
// the raw directory and chunking parameters when a run does not override them.
func NewPreprocessService(
	loader driven.DocumentLoader,
	normaliser driven.Normaliser,
	chunker driven.Chunker,
	store driven.ChunkStore,
	defaults domain.BuildOptions,
) *PreprocessService {
	return &PreprocessService{
		loader:     loader,
		normaliser: normaliser,
		chunker:    chunker,
		store:      store,
		defaults:   defaults,
	}
}

// Build runs the whole preprocessing pipeline. Any failure aborts the run
// and leaves an existing chunk store untouched.
func (s *PreprocessService) Build(ctx context.Context, opts domain.BuildOptions) (*domain.BuildReport, error) {
	defer logger.Since("build", time.Now())
	opts = s.resolve(opts)

	path, err := s.loader.Find(opts.RawDir)
	if err != nil {
		return nil, err
	}
	logger.Info("processing %s", path)

	pages, err := s.loader.Pages(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", path, err)
	}
	if len(pages) == 0 {
		logger.Warn("no extractable text in %s", path)
	}

	text := s.normaliser.JoinPages(pages)
	logger.Debug("normalised text: %d characters", len([]rune(text)))

	chunks, err := s.chunker.Chunk(text, opts.ChunkSize, *opts.Overlap)
	if err != nil {
		return nil, err
	}

	if err := s.store.Save(ctx, chunks); err != nil {
		return nil, fmt.Errorf("save chunks: %w", err)
	}

	report := &domain.BuildReport{
		SourcePath: path,
		Pages:      len(pages),
		Characters: len([]rune(text)),
		Chunks:     len(chunks),
		ChunkPath:  s.store.Path(),
	}
	if len(chunks) > 0 {
		report.Preview = truncate(chunks[0], previewRunes)
	}
	return report, nil
}

func (s *PreprocessService) resolve(opts domain.BuildOptions) domain.BuildOptions {
	if opts.RawDir == "" {
		opts.RawDir = s.defaults.RawDir
	}
	if opts.ChunkSize == 0 {
		opts.ChunkSize = s.defaults.ChunkSize
	}
	if opts.Overlap == nil {
		opts.Overlap = s.defaults.Overlap
	}
	if opts.Overlap == nil {
		overlap := domain.DefaultChunkOverlap
		opts.Overlap = &overlap
	}
	return opts
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
