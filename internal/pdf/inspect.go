// Package pdf reads submitted PDFs and writes their stamped copies.
package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrNoPages is returned by Inspect for a document without pages.
var ErrNoPages = errors.New("document has no pages")

// Document is the part of a PDF the submission pipeline looks at.
type Document struct {
	PageCount     int
	Title         string // Info dictionary /Title
	Author        string // Info dictionary /Author
	FirstPageText string
}

// Inspect opens a PDF held in memory and reads its page count, Info
// metadata and first-page text.
//
// An error means the document cannot be opened or has no pages. Failure to
// extract text is not an error: FirstPageText is then empty.
func Inspect(data []byte) (doc *Document, err error) {
	// The parser panics on some malformed input.
	defer func() {
		if r := recover(); r != nil {
			doc = nil
			err = fmt.Errorf("parsing PDF: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("parsing PDF: %w", err)
	}

	n := r.NumPage()
	if n < 1 {
		return nil, ErrNoPages
	}

	doc = &Document{PageCount: n}

	info := r.Trailer().Key("Info")
	if !info.IsNull() {
		doc.Title = strings.TrimSpace(info.Key("Title").Text())
		doc.Author = strings.TrimSpace(info.Key("Author").Text())
	}

	doc.FirstPageText = pageText(r, 1)
	return doc, nil
}

// ExtractText returns the plain text of the first maxPages pages, or all
// pages when maxPages <= 0.
func ExtractText(data []byte, maxPages int) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parsing PDF: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("parsing PDF: %w", err)
	}

	if maxPages <= 0 || maxPages > r.NumPage() {
		maxPages = r.NumPage()
	}

	var builder strings.Builder
	for i := 1; i <= maxPages; i++ {
		builder.WriteString(pageText(r, i))
		builder.WriteString("\n")
	}

	return builder.String(), nil
}

// pageText returns the text of page i, or "" if it cannot be read.
func pageText(r *pdf.Reader, i int) (text string) {
	defer func() {
		if recover() != nil {
			text = ""
		}
	}()

	page := r.Page(i)
	if page.V.IsNull() {
		return ""
	}

	text, err := page.GetPlainText(nil)
	if err != nil {
		return ""
	}
	return text
}
