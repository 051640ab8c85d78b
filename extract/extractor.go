// Package extract provides page-wise text extraction from SWRN release-notes
// PDFs and the structural scan that finds PR citations in that text.
//
// It uses ledongthuc/pdf (BSD-3, pure Go, no CGO) for text extraction.
package extract

import (
	"fmt"
	"os"

	"github.com/ledongthuc/pdf"

	swrn "github.com/nevindra/swrn"
)

// Compile-time interface check.
var _ swrn.Extractor = PDF{}

// PDF implements swrn.Extractor for release-notes PDF files on disk.
type PDF struct{}

// Extract reads the file and returns its page-wise plain text. Pages the
// reader cannot decode are skipped; page numbering stays 1-based and
// matches the document, so skipped pages leave gaps rather than renumber.
func (PDF) Extract(path string) (swrn.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return swrn.Document{}, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return swrn.Document{}, fmt.Errorf("stat pdf: %w", err)
	}

	r, err := pdf.NewReader(f, info.Size())
	if err != nil {
		return swrn.Document{}, fmt.Errorf("read pdf %s: %w", path, err)
	}

	doc := swrn.Document{Path: path, PageCount: r.NumPage()}
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue // skip unreadable pages
		}
		if text == "" {
			continue
		}
		doc.Pages = append(doc.Pages, swrn.Page{Num: i, Text: text})
	}
	return doc, nil
}
