package index

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSitemap(t *testing.T) {
	papers := samplePapers()
	papers = append(papers, Paper{ID: "2501.00003v1", Slug: "undated"})

	data, err := Sitemap("https://example.org/site/", papers, "2025-02-01")
	if err != nil {
		t.Fatalf("Sitemap() error = %v", err)
	}
	out := string(data)

	wants := []string{
		`<?xml version="1.0" encoding="UTF-8"?>`,
		`<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">`,
		"<loc>https://example.org/site/</loc>",
		"<priority>1.0</priority>",
		"<loc>https://example.org/site/papers/ai-systems/second-paper/</loc>",
		"<lastmod>2025-01-09</lastmod>",
		"<loc>https://example.org/site/papers/other/undated/</loc>",
		"<changefreq>monthly</changefreq>",
	}
	for _, w := range wants {
		if !strings.Contains(out, w) {
			t.Errorf("sitemap missing %q\n%s", w, out)
		}
	}

	if got := strings.Count(out, "<url>"); got != 4 {
		t.Errorf("sitemap has %d urls, want 4", got)
	}
	// Index order is preserved: newest paper right after the root
	if strings.Index(out, "second-paper") > strings.Index(out, "first-paper") {
		t.Error("sitemap does not preserve index order")
	}
	// Undated paper falls back to today
	if strings.Count(out, "<lastmod>2025-02-01</lastmod>") != 2 {
		t.Error("undated paper should use today's date")
	}
}

func TestWriteSitemap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sitemap.xml")
	if err := WriteSitemap(path, "https://example.org", nil, "2025-02-01"); err != nil {
		t.Fatalf("WriteSitemap() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Count(string(data), "<url>") != 1 {
		t.Errorf("empty index sitemap should only hold the root url:\n%s", data)
	}
}

func TestPDFURL(t *testing.T) {
	p := Paper{Category: "ai", Slug: "x", PDF: "x.pdf"}
	if got := PDFURL("https://e.org/", p); got != "https://e.org/papers/ai/x/x.pdf" {
		t.Errorf("PDFURL() = %q", got)
	}
}
