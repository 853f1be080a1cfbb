package driven

// Normaliser cleans raw extracted page text.
// Implementations are pure and idempotent.
type Normaliser interface {
	// Normalise returns the cleaned text.
	Normalise(raw string) string

	// JoinPages normalises each page and concatenates them in order.
	JoinPages(pages []string) string
}
