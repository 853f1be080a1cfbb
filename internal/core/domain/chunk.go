package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
)

// Chunk is a bounded-size excerpt of the source document and the unit of
// retrieval. IDs are dense and zero-based in document order.
type Chunk struct {
	// ID is the position of the chunk in the chunk store.
	ID int `json:"id"`

	// Text is the chunk content.
	Text string `json:"text"`
}

// RecordID returns the vector record key for the chunk.
func (c Chunk) RecordID() string {
	return strconv.Itoa(c.ID)
}

// IndexedRecord is a chunk stored in a vector collection.
type IndexedRecord struct {
	// ID is the stringified chunk id.
	ID string

	// Embedding is the vector representation of Document.
	Embedding []float32

	// Document is the chunk text.
	Document string

	// Metadata holds the source label and any extra attributes.
	Metadata map[string]string
}

// QueryHit is a single retrieved document.
type QueryHit struct {
	// ID is the record id.
	ID string `json:"id"`

	// Document is the stored chunk text.
	Document string `json:"document"`

	// Distance is the cosine distance to the query. Smaller is more similar.
	Distance float64 `json:"distance"`

	// Metadata is the record metadata.
	Metadata map[string]string `json:"metadata,omitempty"`
}

// CollectionInfo describes a vector collection.
type CollectionInfo struct {
	// Name is the collection name.
	Name string

	// Model identifies the embedding model the collection was built with.
	Model string

	// Dimensions is the embedding vector size.
	Dimensions int

	// Fingerprint is the embedding compatibility token.
	Fingerprint string
}

// EmbeddingFingerprint derives the compatibility token stored with a
// collection from the embedding model identifier and vector size.
func EmbeddingFingerprint(model string, dimensions int) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s:%d", model, dimensions)))
	return hex.EncodeToString(sum[:])[:16]
}

// BuildReport summarises a preprocessing run.
type BuildReport struct {
	// SourcePath is the document that was processed.
	SourcePath string

	// Pages is the number of pages with extractable text.
	Pages int

	// Characters is the length of the normalised full text.
	Characters int

	// Chunks is the number of chunks written.
	Chunks int

	// ChunkPath is where the chunk store was written.
	ChunkPath string

	// Preview is the beginning of the first chunk.
	Preview string
}

// IndexReport summarises an index rebuild.
type IndexReport struct {
	// Collection is the rebuilt collection.
	Collection CollectionInfo

	// Records is the number of records stored.
	Records int
}

// BuildOptions overrides preprocessing settings for one run.
// Zero values and a nil Overlap fall back to the configured settings.
type BuildOptions struct {
	// RawDir is the directory searched for the source PDF.
	RawDir string

	// ChunkSize is the maximum chunk length in characters.
	ChunkSize int

	// Overlap is the context shared between consecutive chunks. Zero is a
	// valid override, so nil marks it unset.
	Overlap *int
}
