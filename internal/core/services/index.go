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

// Ensure IndexService implements the interface.
var _ driving.IndexService = (*IndexService)(nil)

// sourceMetadataKey names the metadata attribute holding the source label.
const sourceMetadataKey = "source"

// IndexService builds and queries the vector collection of chunks.
type IndexService struct {
	embedder driven.EmbeddingService
	vectors  driven.VectorStore
	chunks   driven.ChunkStore
	cfg      domain.CollectionSettings
}

// NewIndexService creates an index service. embedder may be nil, in which
// case every operation returns domain.ErrEmbeddingUnavailable.
func NewIndexService(
	embedder driven.EmbeddingService,
	vectors driven.VectorStore,
	chunks driven.ChunkStore,
	cfg domain.CollectionSettings,
) *IndexService {
	return &IndexService{
		embedder: embedder,
		vectors:  vectors,
		chunks:   chunks,
		cfg:      cfg,
	}
}

// Rebuild replaces the collection with one record per chunk. Chunks are
// embedded first and the swap is atomic, so readers never see a missing or
// half-filled collection and any failure leaves the previous index in place.
func (s *IndexService) Rebuild(ctx context.Context, chunks []domain.Chunk) (*domain.IndexReport, error) {
	if s.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	defer logger.Since("index rebuild", time.Now())

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	var vectors [][]float32
	if len(texts) > 0 {
		var err error
		vectors, err = s.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return nil, fmt.Errorf("embed chunks: %w", err)
		}
		if len(vectors) != len(texts) {
			return nil, fmt.Errorf("embedder returned %d vectors for %d chunks", len(vectors), len(texts))
		}
	}

	records := make([]domain.IndexedRecord, len(chunks))
	for i, c := range chunks {
		records[i] = domain.IndexedRecord{
			ID:        c.RecordID(),
			Embedding: vectors[i],
			Document:  c.Text,
			Metadata:  map[string]string{sourceMetadataKey: s.cfg.SourceLabel},
		}
	}

	coll, err := s.vectors.ReplaceCollection(ctx, s.collectionInfo(), records)
	if err != nil {
		return nil, fmt.Errorf("replace collection: %w", err)
	}

	logger.Info("indexed %d chunks into %q", len(records), s.cfg.Name)
	return &domain.IndexReport{Collection: coll.Info(), Records: len(records)}, nil
}

// RebuildFromStore loads the chunk store and rebuilds the collection.
func (s *IndexService) RebuildFromStore(ctx context.Context) (*domain.IndexReport, error) {
	chunks, err := s.chunks.Load(ctx)
	if err != nil {
		return nil, err
	}
	return s.Rebuild(ctx, chunks)
}

// Query embeds text and returns the k nearest chunks, closest first.
func (s *IndexService) Query(ctx context.Context, text string, k int) ([]domain.QueryHit, error) {
	if s.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	info := s.collectionInfo()
	coll, err := s.vectors.GetCollection(ctx, info.Name, info.Fingerprint)
	if err != nil {
		return nil, err
	}

	vector, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	hits, err := coll.Query(ctx, vector, k)
	if err != nil {
		return nil, err
	}
	logger.Debug("query %q matched %d of k=%d", truncate(text, 60), len(hits), k)
	return hits, nil
}

// Smoke runs a single-result smoke query. It returns nil when the collection is empty.
func (s *IndexService) Smoke(ctx context.Context, query string) (*domain.QueryHit, error) {
	if query == "" {
		query = s.cfg.SmokeQuery
	}
	hits, err := s.Query(ctx, query, 1)
	if err != nil {
		return nil, err
	}
	if len(hits) == 0 {
		return nil, nil
	}
	return &hits[0], nil
}

func (s *IndexService) collectionInfo() domain.CollectionInfo {
	model := s.embedder.ModelName()
	dims := s.embedder.Dimensions()
	return domain.CollectionInfo{
		Name:        s.cfg.Name,
		Model:       model,
		Dimensions:  dims,
		Fingerprint: domain.EmbeddingFingerprint(model, dims),
	}
}
