// Package pdftest builds small PDFs for tests.
package pdftest

import (
	"bytes"
	"fmt"
	"strings"
)

// Options describes the document to build.
type Options struct {
	Title  string   // Info /Title, omitted when empty
	Author string   // Info /Author, omitted when empty
	Lines  []string // text lines drawn on page 1
	Pages  int      // number of pages; defaults to 1, negative means none
}

// Build returns a valid PDF 1.4 file with a Helvetica text layer.
func Build(opts Options) []byte {
	pages := opts.Pages
	if pages == 0 {
		pages = 1
	}
	if pages < 0 {
		pages = 0
	}

	// Object layout: 1 catalog, 2 pages, 3 font, 4 info, then per page a
	// page object and its content stream.
	var objects []string
	objects = append(objects, "<< /Type /Catalog /Pages 2 0 R >>")

	var kids []string
	for i := 0; i < pages; i++ {
		kids = append(kids, fmt.Sprintf("%d 0 R", 5+2*i))
	}
	objects = append(objects, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), pages))
	objects = append(objects, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>")

	var info []string
	if opts.Title != "" {
		info = append(info, "/Title "+literal(opts.Title))
	}
	if opts.Author != "" {
		info = append(info, "/Author "+literal(opts.Author))
	}
	objects = append(objects, "<< "+strings.Join(info, " ")+" >>")

	for i := 0; i < pages; i++ {
		var lines []string
		if i == 0 {
			lines = opts.Lines
		} else {
			lines = []string{fmt.Sprintf("Page %d", i+1)}
		}
		stream := contentStream(lines)
		objects = append(objects,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents %d 0 R /Resources << /Font << /F1 3 0 R >> >> >>", 6+2*i),
			fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream),
		)
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R /Info 4 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)

	return buf.Bytes()
}

func contentStream(lines []string) string {
	var sb strings.Builder
	sb.WriteString("BT\n/F1 12 Tf\n14 TL\n72 720 Td\n")
	for i, line := range lines {
		if i > 0 {
			sb.WriteString("T*\n")
		}
		sb.WriteString(literal(line))
		sb.WriteString(" Tj\n")
	}
	sb.WriteString("ET")
	return sb.String()
}

// literal encodes s as a PDF literal string.
func literal(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)
	return "(" + r.Replace(s) + ")"
}
