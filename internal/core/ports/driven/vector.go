package driven

import (
	"context"

	"github.com/custodia-labs/gradewise/internal/core/domain"
)

// VectorStore persists named vector collections.
// Storage is durable and keyed by store location plus collection name.
type VectorStore interface {
	// CreateCollection creates an empty collection bound to the embedding
	// described by info. Fails if the collection already exists.
	CreateCollection(ctx context.Context, info domain.CollectionInfo) (Collection, error)

	// GetCollection opens an existing collection. Returns
	// domain.ErrCollectionNotFound if it was never created and
	// domain.ErrEmbeddingMismatch if fingerprint differs from the stored one.
	GetCollection(ctx context.Context, name, fingerprint string) (Collection, error)

	// ReplaceCollection atomically swaps the named collection for a new one
	// holding records. Readers see either the previous collection or the
	// complete new one. On failure the previous collection is unchanged.
	ReplaceCollection(ctx context.Context, info domain.CollectionInfo, records []domain.IndexedRecord) (Collection, error)

	// DeleteCollection drops a collection and its records.
	// Returns domain.ErrCollectionNotFound if it does not exist.
	DeleteCollection(ctx context.Context, name string) error

	// Close releases resources.
	Close() error
}

// Collection is a set of indexed records supporting nearest-neighbour lookup.
// Query is safe for concurrent use.
type Collection interface {
	// Info describes the collection.
	Info() domain.CollectionInfo

	// Add inserts records. Records keep their insertion order for tie-breaks.
	Add(ctx context.Context, records []domain.IndexedRecord) error

	// Query returns up to k records ordered by ascending cosine distance.
	Query(ctx context.Context, embedding []float32, k int) ([]domain.QueryHit, error)

	// Count returns the number of records.
	Count(ctx context.Context) (int, error)
}
