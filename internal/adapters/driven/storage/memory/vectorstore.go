package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/gradewise/internal/core/domain"
	"github.com/custodia-labs/gradewise/internal/core/ports/driven"
)

// Ensure VectorStore implements the interface.
var _ driven.VectorStore = (*VectorStore)(nil)

// VectorStore is an in-memory implementation of driven.VectorStore.
type VectorStore struct {
	mu          sync.RWMutex
	collections map[string]*collection
}

// NewVectorStore creates a new in-memory vector store.
func NewVectorStore() *VectorStore {
	return &VectorStore{
		collections: make(map[string]*collection),
	}
}

// CreateCollection creates an empty collection.
func (s *VectorStore) CreateCollection(_ context.Context, info domain.CollectionInfo) (driven.Collection, error) {
	if info.Name == "" || info.Dimensions <= 0 {
		return nil, fmt.Errorf("%w: collection needs a name and positive dimensions", domain.ErrInvalidInput)
	}
	if info.Fingerprint == "" {
		info.Fingerprint = domain.EmbeddingFingerprint(info.Model, info.Dimensions)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.collections[info.Name]; ok {
		return nil, fmt.Errorf("collection %q already exists", info.Name)
	}
	c := &collection{info: info}
	s.collections[info.Name] = c
	return c, nil
}

// GetCollection returns an existing collection after checking its fingerprint.
func (s *VectorStore) GetCollection(_ context.Context, name, fingerprint string) (driven.Collection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.collections[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrCollectionNotFound, name)
	}
	if fingerprint != "" && fingerprint != c.info.Fingerprint {
		return nil, fmt.Errorf("%w: collection %q was built with %s (%d dims)",
			domain.ErrEmbeddingMismatch, name, c.info.Model, c.info.Dimensions)
	}
	return c, nil
}

// ReplaceCollection swaps in a new collection holding records under one lock.
func (s *VectorStore) ReplaceCollection(
	ctx context.Context, info domain.CollectionInfo, records []domain.IndexedRecord,
) (driven.Collection, error) {
	if info.Name == "" || info.Dimensions <= 0 {
		return nil, fmt.Errorf("%w: collection needs a name and positive dimensions", domain.ErrInvalidInput)
	}
	if info.Fingerprint == "" {
		info.Fingerprint = domain.EmbeddingFingerprint(info.Model, info.Dimensions)
	}
	c := &collection{info: info}
	if err := c.Add(ctx, records); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.collections[info.Name] = c
	return c, nil
}

// DeleteCollection drops a collection.
func (s *VectorStore) DeleteCollection(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.collections[name]; !ok {
		return fmt.Errorf("%w: %s", domain.ErrCollectionNotFound, name)
	}
	delete(s.collections, name)
	return nil
}

// Close is a no-op.
func (s *VectorStore) Close() error {
	return nil
}

// collection implements driven.Collection.
type collection struct {
	mu      sync.RWMutex
	info    domain.CollectionInfo
	records []domain.IndexedRecord
}

var _ driven.Collection = (*collection)(nil)

func (c *collection) Info() domain.CollectionInfo {
	return c.info
}

func (c *collection) Add(_ context.Context, records []domain.IndexedRecord) error {
	for _, rec := range records {
		if len(rec.Embedding) != c.info.Dimensions {
			return fmt.Errorf("%w: record %s has %d dims, collection expects %d",
				domain.ErrEmbeddingMismatch, rec.ID, len(rec.Embedding), c.info.Dimensions)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = append(c.records, records...)
	return nil
}

func (c *collection) Query(_ context.Context, embedding []float32, k int) ([]domain.QueryHit, error) {
	if len(embedding) != c.info.Dimensions {
		return nil, fmt.Errorf("%w: query has %d dims, collection expects %d",
			domain.ErrEmbeddingMismatch, len(embedding), c.info.Dimensions)
	}

	c.mu.RLock()
	hits := make([]domain.QueryHit, len(c.records))
	for i, rec := range c.records {
		hits[i] = domain.QueryHit{
			ID:       rec.ID,
			Document: rec.Document,
			Distance: domain.CosineDistance(embedding, rec.Embedding),
			Metadata: rec.Metadata,
		}
	}
	c.mu.RUnlock()

	if k <= 0 {
		return []domain.QueryHit{}, nil
	}
	return domain.TopK(hits, k), nil
}

func (c *collection) Count(_ context.Context) (int, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.records), nil
}
