package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/gradewise/internal/adapters/driven/embedding/hashing"
	"github.com/custodia-labs/gradewise/internal/adapters/driven/storage/chunkfile"
	"github.com/custodia-labs/gradewise/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/gradewise/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/gradewise/internal/core/domain"
	"github.com/custodia-labs/gradewise/internal/core/ports/driven"
)

func collectionSettings() domain.CollectionSettings {
	return domain.CollectionSettings{
		Name:        domain.DefaultCollectionName,
		SourceLabel: domain.DefaultSourceLabel,
		SmokeQuery:  domain.DefaultSmokeQuery,
	}
}

func axisEmbedder() *mockEmbeddingService {
	return &mockEmbeddingService{
		model: "axis",
		dims:  2,
		vectors: map[string][]float32{
			"alpha": {1, 0},
			"beta":  {0, 1},
			"mixed": {1, 1},
		},
		fallback: []float32{1, 0},
	}
}

func TestIndexService_RebuildAndQuery(t *testing.T) {
	ctx := context.Background()
	store := memory.NewVectorStore()
	svc := NewIndexService(axisEmbedder(), store, nil, collectionSettings())

	report, err := svc.Rebuild(ctx, []domain.Chunk{{ID: 0, Text: "alpha"}, {ID: 1, Text: "beta"}})
	require.NoError(t, err)
	assert.Equal(t, 2, report.Records)
	assert.Equal(t, domain.EmbeddingFingerprint("axis", 2), report.Collection.Fingerprint)

	hits, err := svc.Query(ctx, "beta", 3)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "1", hits[0].ID)
	assert.Equal(t, "beta", hits[0].Document)
	assert.Equal(t, domain.DefaultSourceLabel, hits[0].Metadata["source"])
	assert.LessOrEqual(t, hits[0].Distance, hits[1].Distance)
}

func TestIndexService_RebuildTwiceHasNoDuplicates(t *testing.T) {
	ctx := context.Background()
	store := memory.NewVectorStore()
	svc := NewIndexService(axisEmbedder(), store, nil, collectionSettings())
	chunks := []domain.Chunk{{ID: 0, Text: "alpha"}, {ID: 1, Text: "beta"}}

	_, err := svc.Rebuild(ctx, chunks)
	require.NoError(t, err)
	_, err = svc.Rebuild(ctx, chunks)
	require.NoError(t, err)

	coll, err := store.GetCollection(ctx, domain.DefaultCollectionName, "")
	require.NoError(t, err)
	count, err := coll.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestIndexService_RebuildEmpty(t *testing.T) {
	ctx := context.Background()
	svc := NewIndexService(axisEmbedder(), memory.NewVectorStore(), nil, collectionSettings())

	report, err := svc.Rebuild(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Records)

	hits, err := svc.Query(ctx, "alpha", 3)
	require.NoError(t, err)
	assert.Empty(t, hits)

	hit, err := svc.Smoke(ctx, "")
	require.NoError(t, err)
	assert.Nil(t, hit)
}

func TestIndexService_QueryBeforeBuild(t *testing.T) {
	svc := NewIndexService(axisEmbedder(), memory.NewVectorStore(), nil, collectionSettings())

	_, err := svc.Query(context.Background(), "alpha", 3)
	assert.ErrorIs(t, err, domain.ErrCollectionNotFound)
}

func TestIndexService_QueryWithDifferentEmbedder(t *testing.T) {
	ctx := context.Background()
	store := memory.NewVectorStore()

	_, err := NewIndexService(axisEmbedder(), store, nil, collectionSettings()).
		Rebuild(ctx, []domain.Chunk{{ID: 0, Text: "alpha"}})
	require.NoError(t, err)

	other := &mockEmbeddingService{model: "other", dims: 2, fallback: []float32{1, 0}}
	_, err = NewIndexService(other, store, nil, collectionSettings()).Query(ctx, "alpha", 1)
	assert.ErrorIs(t, err, domain.ErrEmbeddingMismatch)
}

func TestIndexService_EmbeddingFailureKeepsOldCollection(t *testing.T) {
	ctx := context.Background()
	store := memory.NewVectorStore()
	embedder := axisEmbedder()
	svc := NewIndexService(embedder, store, nil, collectionSettings())

	_, err := svc.Rebuild(ctx, []domain.Chunk{{ID: 0, Text: "alpha"}})
	require.NoError(t, err)

	embedder.embedErr = domain.ErrBackendUnavailable
	_, err = svc.Rebuild(ctx, []domain.Chunk{{ID: 0, Text: "beta"}})
	assert.ErrorIs(t, err, domain.ErrBackendUnavailable)

	embedder.embedErr = nil
	hits, err := svc.Query(ctx, "alpha", 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "alpha", hits[0].Document)
}

func TestIndexService_NoEmbedder(t *testing.T) {
	svc := NewIndexService(nil, memory.NewVectorStore(), nil, collectionSettings())

	_, err := svc.Rebuild(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
	_, err = svc.Query(context.Background(), "q", 1)
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
}

func TestIndexService_RebuildFromStore(t *testing.T) {
	ctx := context.Background()
	chunks := chunkfile.New(filepath.Join(t.TempDir(), "chunks.json"))
	svc := NewIndexService(axisEmbedder(), memory.NewVectorStore(), chunks, collectionSettings())

	_, err := svc.RebuildFromStore(ctx)
	assert.ErrorIs(t, err, domain.ErrChunkStoreNotFound)

	require.NoError(t, chunks.Save(ctx, []string{"alpha", "beta", "mixed"}))
	report, err := svc.RebuildFromStore(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Records)

	hit, err := svc.Smoke(ctx, "beta")
	require.NoError(t, err)
	require.NotNil(t, hit)
	assert.Equal(t, "beta", hit.Document)
}

// The default exam's QLoRA question must retrieve the chunk that defines
// QLoRA when the index is built with the offline embedder.
func TestIndexService_RetrievesQLoRAChunk(t *testing.T) {
	ctx := context.Background()
	svc := NewIndexService(hashing.NewEmbeddingService(0), memory.NewVectorStore(), nil, collectionSettings())

	chunks := []domain.Chunk{
		{ID: 0, Text: "Zero-shot prompting asks the model to perform a task with no examples in the prompt."},
		{ID: 1, Text: "Chain-of-thought prompting elicits intermediate reasoning steps before the final answer."},
		{ID: 2, Text: "QLoRA fine-tunes a 4-bit quantized base model by training low-rank LoRA adapters."},
		{ID: 3, Text: "Students who miss more than 25% of classes are excluded from the final examination."},
	}
	_, err := svc.Rebuild(ctx, chunks)
	require.NoError(t, err)

	hits, err := svc.Query(ctx, domain.FormatSubmission("What is QLoRA?", "QLoRA trains LoRA adapters on a quantized model."), 3)
	require.NoError(t, err)
	require.Len(t, hits, 3)
	assert.Equal(t, "2", hits[0].ID)
}

func TestIndexService_ReplaceFailureKeepsOldCollection(t *testing.T) {
	ctx := context.Background()
	store := memory.NewVectorStore()
	svc := NewIndexService(axisEmbedder(), store, nil, collectionSettings())
	_, err := svc.Rebuild(ctx, []domain.Chunk{{ID: 0, Text: "alpha"}, {ID: 1, Text: "beta"}})
	require.NoError(t, err)

	failing := &failingVectorStore{VectorStore: store, replaceErr: errors.New("disk full")}
	_, err = NewIndexService(axisEmbedder(), failing, nil, collectionSettings()).
		Rebuild(ctx, []domain.Chunk{{ID: 0, Text: "mixed"}})
	assert.ErrorContains(t, err, "disk full")

	hits, err := svc.Query(ctx, "beta", 3)
	require.NoError(t, err)
	assert.Len(t, hits, 2)
}

type failingVectorStore struct {
	*memory.VectorStore
	replaceErr error
}

func (f *failingVectorStore) ReplaceCollection(
	_ context.Context, _ domain.CollectionInfo, _ []domain.IndexedRecord,
) (driven.Collection, error) {
	return nil, f.replaceErr
}

func TestIndexService_QueryDuringSQLiteRebuild(t *testing.T) {
	ctx := context.Background()
	store, err := sqlite.NewStore(filepath.Join(t.TempDir(), "vectors.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	observing := &observingVectorStore{Store: store}
	svc := NewIndexService(axisEmbedder(), observing, nil, collectionSettings())
	_, err = svc.Rebuild(ctx, []domain.Chunk{{ID: 0, Text: "alpha"}, {ID: 1, Text: "beta"}})
	require.NoError(t, err)

	var during []domain.QueryHit
	var duringErr error
	observing.onReplace = func() {
		during, duringErr = svc.Query(ctx, "beta", 3)
	}
	_, err = svc.Rebuild(ctx, []domain.Chunk{{ID: 0, Text: "mixed"}})
	require.NoError(t, err)

	require.NoError(t, duringErr)
	assert.Len(t, during, 2)

	after, err := svc.Query(ctx, "beta", 3)
	require.NoError(t, err)
	require.Len(t, after, 1)
	assert.Equal(t, "mixed", after[0].Document)
}

// observingVectorStore runs onReplace before delegating a replace.
type observingVectorStore struct {
	*sqlite.Store
	onReplace func()
}

func (o *observingVectorStore) ReplaceCollection(
	ctx context.Context, info domain.CollectionInfo, records []domain.IndexedRecord,
) (driven.Collection, error) {
	if o.onReplace != nil {
		o.onReplace()
	}
	return o.Store.ReplaceCollection(ctx, info, records)
}
