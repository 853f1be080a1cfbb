package driven

import "context"

// DocumentLoader locates a source document and extracts its page text.
type DocumentLoader interface {
	// Find returns the first document in dir with a supported extension.
	// Returns domain.ErrSourceNotFound when there is none.
	Find(dir string) (string, error)

	// Pages extracts raw text per page. Pages without extractable text
	// are skipped rather than failing the run.
	Pages(ctx context.Context, path string) ([]string, error)
}
