package driven

// Chunker splits normalised text into ordered, overlapping segments of
// bounded size.
type Chunker interface {
	// Chunk splits text into segments of at most size characters with up to
	// overlap characters repeated between neighbours. Returns
	// domain.ErrInvalidInput unless 0 <= overlap < size.
	Chunk(text string, size, overlap int) ([]string, error)
}
