// Package pagetext cleans text extracted from PDF pages.
package pagetext

import (
	"regexp"
	"strings"

	"github.com/custodia-labs/gradewise/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

var (
	pageOfPattern = regexp.MustCompile(`Page \d+ of \d+`)
	pagePattern   = regexp.MustCompile(`Page \d+`)
	newlineRuns   = regexp.MustCompile(`\n+`)
	dotLeaders    = regexp.MustCompile(`\.{4,}`)
)

// Normaliser strips page footers and layout artefacts from extracted text.
type Normaliser struct{}

// New creates a new page text normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Normalise removes "Page N of M" and "Page N" footers, collapses newline
// runs, removes dot leaders and trims surrounding whitespace. Passes repeat
// until nothing changes, so the result is a fixed point.
func (n *Normaliser) Normalise(raw string) string {
	text := raw
	for {
		next := clean(text)
		if next == text {
			return text
		}
		text = next
	}
}

// JoinPages normalises each page and appends it followed by a newline.
func (n *Normaliser) JoinPages(pages []string) string {
	var b strings.Builder
	for _, page := range pages {
		b.WriteString(n.Normalise(page))
		b.WriteString("\n")
	}
	return b.String()
}

// clean applies one pass. Each pass either leaves text unchanged or makes
// it strictly shorter.
func clean(text string) string {
	text = pageOfPattern.ReplaceAllString(text, "")
	text = pagePattern.ReplaceAllString(text, "")
	text = newlineRuns.ReplaceAllString(text, "\n")
	text = dotLeaders.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}
