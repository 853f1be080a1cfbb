package driving

import (
	"context"

	"github.com/custodia-labs/gradewise/internal/core/domain"
)

// PreprocessService turns the source PDF into a chunk store.
type PreprocessService interface {
	// Build runs normalise, chunk and persist. Any failure is fatal to the run.
	Build(ctx context.Context, opts domain.BuildOptions) (*domain.BuildReport, error)
}

// IndexService maintains and queries the vector collection.
type IndexService interface {
	// Rebuild drops and recreates the collection from chunks.
	// Requires exclusive access to the collection.
	Rebuild(ctx context.Context, chunks []domain.Chunk) (*domain.IndexReport, error)

	// RebuildFromStore loads the chunk store and rebuilds from it.
	RebuildFromStore(ctx context.Context) (*domain.IndexReport, error)

	// Query returns the k nearest chunks to text.
	Query(ctx context.Context, text string, k int) ([]domain.QueryHit, error)

	// Smoke runs a single-result smoke query. An empty query uses the configured one.
	Smoke(ctx context.Context, query string) (*domain.QueryHit, error)
}
