// Package chunker splits text into overlapping, bounded-size chunks using a
// prioritised separator cascade.
package chunker

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/gradewise/internal/core/domain"
	"github.com/custodia-labs/gradewise/internal/core/ports/driven"
)

// Ensure Splitter implements the interface.
var _ driven.Chunker = Splitter{}

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = domain.DefaultChunkSize

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = domain.DefaultChunkOverlap

// DefaultSeparators is the cascade tried in order: paragraph break, line
// break, sentence end, space. The empty separator is a hard character cut.
var DefaultSeparators = []string{"\n\n", "\n", ".", " ", ""}

// Processor splits text into chunks of at most chunkSize characters.
// Lengths are counted in runes.
type Processor struct {
	chunkSize  int
	overlap    int
	separators []string
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// WithSeparators replaces the separator cascade.
func WithSeparators(seps ...string) Option {
	return func(p *Processor) {
		if len(seps) > 0 {
			p.separators = seps
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize:  DefaultChunkSize,
		overlap:    DefaultChunkOverlap,
		separators: DefaultSeparators,
	}

	for _, opt := range opts {
		opt(p)
	}

	// Ensure overlap doesn't exceed chunk size
	if p.overlap >= p.chunkSize {
		p.overlap = p.chunkSize / 4
	}

	return p
}

// Span is the byte range [Start, End) of the input backing one chunk,
// before whitespace trimming. Consecutive spans touch or overlap.
type Span struct {
	Start int
	End   int
}

// piece is an indivisible unit produced by the separator cascade.
type piece struct {
	start int
	end   int
	runes int
}

// Split returns the trimmed, non-empty chunks of text in order.
func (p *Processor) Split(text string) []string {
	spans := p.Spans(text)
	chunks := make([]string, 0, len(spans))
	for _, s := range spans {
		if chunk := strings.TrimSpace(text[s.Start:s.End]); chunk != "" {
			chunks = append(chunks, chunk)
		}
	}
	return chunks
}

// Spans returns the byte ranges of each chunk. Together they cover text
// with no gaps.
func (p *Processor) Spans(text string) []Span {
	if text == "" {
		return nil
	}
	return p.merge(p.split(text, 0, len(text), p.separators))
}

// split breaks text[start:end] on the first separator it contains, keeping
// each separator on the end of the piece before it, and recurses with the
// remaining separators into pieces that are still too long.
func (p *Processor) split(text string, start, end int, seps []string) []piece {
	n := utf8.RuneCountInString(text[start:end])
	if n <= p.chunkSize {
		return []piece{{start: start, end: end, runes: n}}
	}

	for i, sep := range seps {
		if sep == "" {
			break
		}
		if !strings.Contains(text[start:end], sep) {
			continue
		}

		var out []piece
		for from := start; from < end; {
			to := end
			if idx := strings.Index(text[from:end], sep); idx >= 0 {
				to = from + idx + len(sep)
			}
			out = append(out, p.split(text, from, to, seps[i+1:])...)
			from = to
		}
		return out
	}

	return p.hardSplit(text, start, end)
}

// hardSplit cuts text[start:end] every chunkSize runes.
func (p *Processor) hardSplit(text string, start, end int) []piece {
	var out []piece
	from, count := start, 0
	for i := range text[start:end] {
		if count == p.chunkSize {
			out = append(out, piece{start: from, end: start + i, runes: count})
			from, count = start+i, 0
		}
		count++
	}
	if from < end {
		out = append(out, piece{start: from, end: end, runes: count})
	}
	return out
}

// merge packs consecutive pieces into windows of at most chunkSize runes.
// When a window is emitted, whole pieces from its tail totalling at most
// overlap runes are carried into the next one.
func (p *Processor) merge(pieces []piece) []Span {
	var (
		spans  []Span
		window []piece
		total  int
	)

	for _, pc := range pieces {
		if total+pc.runes > p.chunkSize && len(window) > 0 {
			spans = append(spans, Span{Start: window[0].start, End: window[len(window)-1].end})
			for len(window) > 0 && (total > p.overlap || total+pc.runes > p.chunkSize) {
				total -= window[0].runes
				window = window[1:]
			}
		}
		window = append(window, pc)
		total += pc.runes
	}

	if len(window) > 0 {
		spans = append(spans, Span{Start: window[0].start, End: window[len(window)-1].end})
	}
	return spans
}

// Chunk splits text with the default separator cascade.
// Returns domain.ErrInvalidInput unless 0 <= overlap < size.
func Chunk(text string, size, overlap int) ([]string, error) {
	if size <= 0 || overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("%w: chunk size %d with overlap %d", domain.ErrInvalidInput, size, overlap)
	}
	return New(WithChunkSize(size), WithOverlap(overlap)).Split(text), nil
}

// Splitter adapts Chunk to driven.Chunker.
type Splitter struct{}

// Chunk implements driven.Chunker.
func (Splitter) Chunk(text string, size, overlap int) ([]string, error) {
	return Chunk(text, size, overlap)
}
