// Package extractor turns PDF files into per-page normalised text. PDF
// byte-level parsing is delegated to github.com/ledongthuc/pdf; everything
// downstream consumes pages through the PageExtractor interface.
package extractor

import (
	"context"
	"fmt"

	"github.com/ledongthuc/pdf"

	"github.com/dshills/docdex/internal/textutil"
)

// PageExtractor yields normalised text per page, in page order. pages[i]
// holds the text of page i+1; pages that carry no extractable text come
// back as empty strings so page numbering stays intact.
type PageExtractor interface {
	ExtractPages(ctx context.Context, path string) ([]string, error)
}

// PDF extracts text from born-digital PDFs. Scanned or image-only pages
// yield empty strings (OCR is out of scope).
type PDF struct{}

// NewPDF creates a PDF page extractor.
func NewPDF() *PDF {
	return &PDF{}
}

var _ PageExtractor = (*PDF)(nil)

// ExtractPages reads the PDF at path and returns one normalised text entry
// per page. A malformed or unsupported file returns an error; individual
// pages that fail to decode are reported as empty rather than failing the
// document.
func (e *PDF) ExtractPages(ctx context.Context, path string) (pages []string, err error) {
	// The pdf library panics on some malformed inputs; a bad file must
	// surface as a per-file error, not take down the batch.
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = fmt.Errorf("extracting %s: %v", path, r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening pdf %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	numPages := r.NumPage()
	pages = make([]string, 0, numPages)

	for i := 1; i <= numPages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page := r.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// Keep page numbering intact for the rest of the document.
			pages = append(pages, "")
			continue
		}
		pages = append(pages, textutil.Normalize(text))
	}

	return pages, nil
}
