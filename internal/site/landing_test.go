package site

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/corpxiv/corpxiv/internal/index"
)

var testOptions = Options{
	BaseURL:    "https://corpxiv.github.io/corpXiv",
	Publisher:  "corpXiv",
	LicenseURL: "https://creativecommons.org/licenses/by/4.0/",
}

func testPaper() index.Paper {
	return index.Paper{
		ID:       "2501.00001v1",
		Title:    "Deep Learning for Cats",
		Authors:  []string{"Jane Doe", "John Roe"},
		Date:     "2025-01-07",
		Category: "ai-systems",
		Slug:     "deep-learning-for-cats",
		Abstract: "We study cats.",
		PDF:      "deep-learning-for-cats.pdf",
		Hash:     "0123456789abcdef",
	}
}

func TestRenderLanding(t *testing.T) {
	html, err := RenderLanding(testPaper(), testOptions)
	if err != nil {
		t.Fatalf("RenderLanding() error = %v", err)
	}
	out := string(html)

	wants := []string{
		`<title>Deep Learning for Cats | corpXiv</title>`,
		`<meta name="citation_title" content="Deep Learning for Cats">`,
		`<meta name="citation_author" content="Jane Doe">`,
		`<meta name="citation_author" content="John Roe">`,
		`<meta name="citation_publication_date" content="2025/01/07">`,
		`<meta name="citation_pdf_url" content="https://corpxiv.github.io/corpXiv/papers/ai-systems/deep-learning-for-cats/deep-learning-for-cats.pdf">`,
		`<meta name="DC.date" content="2025-01-07">`,
		`<meta name="DC.creator" content="Jane Doe, John Roe">`,
		`January 07, 2025`,
		`corpXiv:2501.00001v1 [ai-systems]`,
		`href="deep-learning-for-cats.pdf"`,
	}
	for _, w := range wants {
		if !strings.Contains(out, w) {
			t.Errorf("landing page missing %q", w)
		}
	}
}

func TestRenderLanding_Escapes(t *testing.T) {
	p := testPaper()
	p.Title = `Cats & "Dogs" <script>alert(1)</script>`
	p.Abstract = "a < b"

	html, err := RenderLanding(p, testOptions)
	if err != nil {
		t.Fatalf("RenderLanding() error = %v", err)
	}
	out := string(html)

	if strings.Contains(out, "<script>") {
		t.Error("title was not escaped")
	}
	if !strings.Contains(out, "a &lt; b") {
		t.Error("abstract was not escaped")
	}
}

func TestRenderLanding_NoAuthors(t *testing.T) {
	p := testPaper()
	p.Authors = nil

	html, err := RenderLanding(p, testOptions)
	if err != nil {
		t.Fatalf("RenderLanding() error = %v", err)
	}
	if strings.Contains(string(html), "citation_author") {
		t.Error("no citation_author tags expected without authors")
	}
	if !strings.Contains(string(html), `content="Unknown"`) {
		t.Error("DC.creator should fall back to Unknown")
	}
}

func TestRenderLanding_BadDate(t *testing.T) {
	p := testPaper()
	p.Date = "07/01/2025"
	if _, err := RenderLanding(p, testOptions); err == nil {
		t.Error("RenderLanding() expected error for malformed date")
	}
}

func TestWriteLanding(t *testing.T) {
	papersDir := filepath.Join(t.TempDir(), "papers")

	path, err := WriteLanding(papersDir, testPaper(), testOptions)
	if err != nil {
		t.Fatalf("WriteLanding() error = %v", err)
	}
	want := filepath.Join(papersDir, "ai-systems", "deep-learning-for-cats", IndexFile)
	if path != want {
		t.Errorf("WriteLanding() path = %q, want %q", path, want)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("landing page not written: %v", err)
	}
}
