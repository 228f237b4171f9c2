// Package site renders the citable landing page of a published paper.
package site

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/corpxiv/corpxiv/internal/fsutil"
	"github.com/corpxiv/corpxiv/internal/index"
)

// IndexFile is the file name of a landing page inside its paper directory.
const IndexFile = "index.html"

// landingTemplate is parsed at init time to fail fast on template errors.
var landingTemplate = template.Must(template.New("landing").Parse(landingHTML))

// Options carries the site-wide values a landing page needs.
type Options struct {
	BaseURL    string
	Publisher  string
	LicenseURL string
}

type landingData struct {
	Paper       index.Paper
	Title       string
	Authors     []string
	AuthorsText string
	DisplayDate string
	ScholarDate string
	PDFURL      string
	HomeURL     string
	Publisher   string
	LicenseURL  string
}

// RenderLanding renders the HTML landing page for p. The page carries Google
// Scholar citation_* and Dublin Core meta tags.
func RenderLanding(p index.Paper, opts Options) ([]byte, error) {
	date, err := time.Parse("2006-01-02", p.Date)
	if err != nil {
		return nil, fmt.Errorf("parsing date %q: %w", p.Date, err)
	}

	authorsText := strings.Join(p.Authors, ", ")
	if authorsText == "" {
		authorsText = "Unknown"
	}

	data := landingData{
		Paper:       p,
		Title:       p.Title,
		Authors:     p.Authors,
		AuthorsText: authorsText,
		DisplayDate: date.Format("January 02, 2006"),
		ScholarDate: date.Format("2006/01/02"),
		PDFURL:      index.PDFURL(opts.BaseURL, p),
		HomeURL:     strings.TrimRight(opts.BaseURL, "/") + "/",
		Publisher:   opts.Publisher,
		LicenseURL:  opts.LicenseURL,
	}

	var buf bytes.Buffer
	if err := landingTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("rendering landing page: %w", err)
	}
	return buf.Bytes(), nil
}

// PaperDir returns the directory holding a paper's PDF and landing page.
func PaperDir(papersDir string, p index.Paper) string {
	category := p.Category
	if category == "" {
		category = "other"
	}
	return filepath.Join(papersDir, category, p.Slug)
}

// WriteLanding renders the landing page of p into its paper directory and
// returns the written path.
func WriteLanding(papersDir string, p index.Paper, opts Options) (string, error) {
	html, err := RenderLanding(p, opts)
	if err != nil {
		return "", err
	}

	dir := PaperDir(papersDir, p)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating %s: %w", dir, err)
	}

	path := filepath.Join(dir, IndexFile)
	if err := fsutil.WriteFileAtomic(path, html, 0644); err != nil {
		return "", err
	}
	return path, nil
}
