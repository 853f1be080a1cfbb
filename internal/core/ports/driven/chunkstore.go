package driven

import (
	"context"

	"github.com/custodia-labs/gradewise/internal/core/domain"
)

// ChunkStore persists the chunk list between the build and index steps.
type ChunkStore interface {
	// Save replaces the stored chunks, assigning ids 0..n-1 in order.
	// Readers never observe a partially written store.
	Save(ctx context.Context, chunks []string) error

	// Load returns all chunks in stored order.
	// Returns domain.ErrChunkStoreNotFound if Save never ran.
	Load(ctx context.Context) ([]domain.Chunk, error)

	// Path returns the storage location.
	Path() string
}
