// Package pdf locates the source PDF and extracts text page by page.
package pdf

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/custodia-labs/gradewise/internal/core/domain"
	"github.com/custodia-labs/gradewise/internal/core/ports/driven"
	"github.com/custodia-labs/gradewise/internal/logger"
)

// Ensure Loader implements the interface.
var _ driven.DocumentLoader = (*Loader)(nil)

const extension = ".pdf"

// Loader reads PDF files with ledongthuc/pdf.
type Loader struct{}

// New creates a PDF loader.
func New() *Loader {
	return &Loader{}
}

// Find returns the first PDF in dir by name. Matching is case-insensitive.
func (l *Loader) Find(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: directory %s does not exist", domain.ErrSourceNotFound, dir)
		}
		return "", fmt.Errorf("read %s: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), extension) {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return "", fmt.Errorf("%w: no PDF found in %s", domain.ErrSourceNotFound, dir)
	}

	sort.Strings(names)
	return filepath.Join(dir, names[0]), nil
}

// Pages extracts plain text for every page that has any.
func (l *Loader) Pages(ctx context.Context, path string) ([]string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrSourceNotFound, path)
		}
		return nil, fmt.Errorf("open pdf %s: %w", path, err)
	}
	defer f.Close()

	fonts := make(map[string]*pdf.Font)
	total := r.NumPage()
	pages := make([]string, 0, total)

	for i := 1; i <= total; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		text, err := pageText(r, i, fonts)
		if err != nil {
			logger.Warn("skipping page %d of %s: %v", i, filepath.Base(path), err)
			continue
		}
		if text == "" {
			continue
		}
		pages = append(pages, text)
	}

	logger.Debug("extracted %d of %d pages from %s", len(pages), total, filepath.Base(path))
	return pages, nil
}

// pageText extracts one page. Malformed content streams can panic inside
// the reader, so a panic is reported as an error for that page only.
func pageText(r *pdf.Reader, num int, fonts map[string]*pdf.Font) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("malformed page: %v", rec)
		}
	}()

	p := r.Page(num)
	if p.V.IsNull() {
		return "", nil
	}
	for _, name := range p.Fonts() {
		if _, ok := fonts[name]; !ok {
			font := p.Font(name)
			fonts[name] = &font
		}
	}
	return p.GetPlainText(fonts)
}
