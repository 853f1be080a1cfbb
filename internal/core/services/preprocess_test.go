package services

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/gradewise/internal/adapters/driven/storage/chunkfile"
	"github.com/custodia-labs/gradewise/internal/core/domain"
	"github.com/custodia-labs/gradewise/internal/normalisers/pagetext"
	"github.com/custodia-labs/gradewise/internal/postprocessors/chunker"
)

func newPreprocess(t *testing.T, loader *mockLoader) (*PreprocessService, *chunkfile.Store) {
	t.Helper()
	store := chunkfile.New(filepath.Join(t.TempDir(), "chunks", "rules_chunked.json"))
	svc := NewPreprocessService(loader, pagetext.New(), chunker.Splitter{}, store, domain.BuildOptions{
		RawDir:    "raw_pdfs",
		ChunkSize: domain.DefaultChunkSize,
		Overlap:   intPtr(domain.DefaultChunkOverlap),
	})
	return svc, store
}

func intPtr(n int) *int {
	return &n
}

func TestPreprocessService_Build(t *testing.T) {
	ctx := context.Background()
	loader := &mockLoader{
		path: "raw_pdfs/rules.pdf",
		pages: []string{
			"Page 1 of 2\nArticle 1.\n\n\nStudents must attend......... 75% of classes.",
			"Page 2 of 2\nArticle 2. Missing more than 25% leads to exclusion.",
		},
	}
	svc, store := newPreprocess(t, loader)

	report, err := svc.Build(ctx, domain.BuildOptions{})
	require.NoError(t, err)

	assert.Equal(t, "raw_pdfs", loader.dir)
	assert.Equal(t, "raw_pdfs/rules.pdf", report.SourcePath)
	assert.Equal(t, 2, report.Pages)
	assert.Equal(t, 1, report.Chunks)
	assert.Equal(t, store.Path(), report.ChunkPath)
	assert.NotContains(t, report.Preview, "Page 1 of 2")
	assert.NotContains(t, report.Preview, "....")

	chunks, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, 0, chunks[0].ID)
	assert.Contains(t, chunks[0].Text, "Article 2.")
}

func TestPreprocessService_Build_Overrides(t *testing.T) {
	ctx := context.Background()
	loader := &mockLoader{path: "x.pdf", pages: []string{strings.Repeat("word ", 100)}}
	svc, _ := newPreprocess(t, loader)

	report, err := svc.Build(ctx, domain.BuildOptions{RawDir: "elsewhere", ChunkSize: 100, Overlap: intPtr(10)})
	require.NoError(t, err)
	assert.Equal(t, "elsewhere", loader.dir)
	assert.Greater(t, report.Chunks, 4)
	assert.LessOrEqual(t, len([]rune(report.Preview)), 100)
}

func TestPreprocessService_Build_ZeroOverlapOverride(t *testing.T) {
	loader := &mockLoader{path: "x.pdf", pages: []string{"text"}}
	rec := &recordingChunker{}
	svc := NewPreprocessService(loader, pagetext.New(), rec,
		chunkfile.New(filepath.Join(t.TempDir(), "chunks.json")),
		domain.BuildOptions{RawDir: "raw_pdfs", ChunkSize: 100, Overlap: intPtr(20)})

	_, err := svc.Build(context.Background(), domain.BuildOptions{Overlap: intPtr(0)})
	require.NoError(t, err)
	assert.Equal(t, 0, rec.overlap)

	_, err = svc.Build(context.Background(), domain.BuildOptions{})
	require.NoError(t, err)
	assert.Equal(t, 20, rec.overlap)
}

func TestPreprocessService_Build_NormalisesOncePerPage(t *testing.T) {
	pages := []string{"Page 1 of 2\nArticle 1.", "Page 2 of 2\nArticle 2."}
	norm := &countingNormaliser{Normaliser: pagetext.New()}
	rec := &recordingChunker{}
	svc := NewPreprocessService(&mockLoader{path: "x.pdf", pages: pages}, norm, rec,
		chunkfile.New(filepath.Join(t.TempDir(), "chunks.json")),
		domain.BuildOptions{RawDir: "raw_pdfs", ChunkSize: 100})

	_, err := svc.Build(context.Background(), domain.BuildOptions{})
	require.NoError(t, err)

	assert.Zero(t, norm.calls)
	assert.Equal(t, "Article 1.\nArticle 2.\n", rec.text)
	assert.Equal(t, domain.DefaultChunkOverlap, rec.overlap)
}

// recordingChunker captures its arguments and returns the text as one chunk.
type recordingChunker struct {
	text    string
	overlap int
}

func (r *recordingChunker) Chunk(text string, _, overlap int) ([]string, error) {
	r.text, r.overlap = text, overlap
	return []string{text}, nil
}

// countingNormaliser counts direct Normalise calls.
type countingNormaliser struct {
	*pagetext.Normaliser
	calls int
}

func (c *countingNormaliser) Normalise(raw string) string {
	c.calls++
	return c.Normaliser.Normalise(raw)
}

func TestPreprocessService_Build_InvalidChunking(t *testing.T) {
	loader := &mockLoader{path: "x.pdf", pages: []string{"text"}}
	svc, store := newPreprocess(t, loader)

	_, err := svc.Build(context.Background(), domain.BuildOptions{ChunkSize: 50, Overlap: intPtr(50)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = store.Load(context.Background())
	assert.ErrorIs(t, err, domain.ErrChunkStoreNotFound, "nothing written on failure")
}

func TestPreprocessService_Build_LoaderErrors(t *testing.T) {
	t.Run("no source", func(t *testing.T) {
		svc, _ := newPreprocess(t, &mockLoader{findErr: domain.ErrSourceNotFound})
		_, err := svc.Build(context.Background(), domain.BuildOptions{})
		assert.ErrorIs(t, err, domain.ErrSourceNotFound)
	})

	t.Run("extraction fails", func(t *testing.T) {
		svc, _ := newPreprocess(t, &mockLoader{path: "x.pdf", pagesErr: errors.New("corrupt xref")})
		_, err := svc.Build(context.Background(), domain.BuildOptions{})
		assert.ErrorContains(t, err, "corrupt xref")
	})
}

func TestPreprocessService_Build_EmptyDocument(t *testing.T) {
	svc, store := newPreprocess(t, &mockLoader{path: "scan.pdf"})

	report, err := svc.Build(context.Background(), domain.BuildOptions{})
	require.NoError(t, err)
	assert.Equal(t, 0, report.Chunks)
	assert.Empty(t, report.Preview)

	chunks, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "héll", truncate("héllo", 4))
	assert.Equal(t, "hi", truncate("hi", 4))
}
