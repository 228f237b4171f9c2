package index

import (
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/corpxiv/corpxiv/internal/fsutil"
)

const sitemapNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

// PaperURL returns the landing page URL of a paper.
func PaperURL(baseURL string, p Paper) string {
	return fmt.Sprintf("%s/papers/%s/%s/", strings.TrimRight(baseURL, "/"), category(p), p.Slug)
}

// PDFURL returns the public URL of a paper's stamped PDF.
func PDFURL(baseURL string, p Paper) string {
	return PaperURL(baseURL, p) + p.PDF
}

// Sitemap renders the sitemap for papers. The site root comes first with
// lastmod today, followed by one entry per paper in index order.
func Sitemap(baseURL string, papers []Paper, today string) ([]byte, error) {
	set := urlSet{Xmlns: sitemapNamespace}
	set.URLs = append(set.URLs, sitemapURL{
		Loc:        strings.TrimRight(baseURL, "/") + "/",
		LastMod:    today,
		ChangeFreq: "weekly",
		Priority:   "1.0",
	})

	for _, p := range papers {
		lastMod := p.Date
		if lastMod == "" {
			lastMod = today
		}
		set.URLs = append(set.URLs, sitemapURL{
			Loc:        PaperURL(baseURL, p),
			LastMod:    lastMod,
			ChangeFreq: "monthly",
			Priority:   "0.8",
		})
	}

	body, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding sitemap: %w", err)
	}

	out := make([]byte, 0, len(xml.Header)+len(body)+1)
	out = append(out, xml.Header...)
	out = append(out, body...)
	out = append(out, '\n')
	return out, nil
}

// WriteSitemap rebuilds the sitemap file at path from papers.
func WriteSitemap(path, baseURL string, papers []Paper, today string) error {
	data, err := Sitemap(baseURL, papers, today)
	if err != nil {
		return err
	}
	return fsutil.WriteFileAtomic(path, data, 0644)
}

func category(p Paper) string {
	if p.Category == "" {
		return "other"
	}
	return p.Category
}
