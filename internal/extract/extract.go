// Package extract turns first-page PDF text into a title, author list and
// abstract.
//
// The heuristics target arXiv-style front matter and are best-effort: a field
// that cannot be found comes back empty with a confidence marker, and no input
// makes Extract fail.
package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Confidence records where a field value came from.
type Confidence string

const (
	Metadata Confidence = "metadata"  // embedded document Info dictionary
	Parsed   Confidence = "parsed"    // heuristics over first-page text
	NotFound Confidence = "not_found" // no value could be located
	Manual   Confidence = "manual"    // supplied by the submitter
)

// Field names used as keys in Record.Confidence.
const (
	FieldTitle    = "title"
	FieldAuthors  = "authors"
	FieldAbstract = "abstract"
)

// Limits applied by the heuristics.
const (
	TitleScanLines   = 10  // non-blank lines inspected for the title
	TitleMaxLines    = 3   // lines joined into one title
	TitleMinLineLen  = 5   // shorter lines are skipped as headers
	TitleMaxLen      = 200 // longer titles are cut and get an ellipsis
	AuthorScanLines  = 20  // non-blank lines inspected for authors
	MaxAuthors       = 10
	authorMinNameLen = 4
)

// Record is the structured result of an extraction.
type Record struct {
	Title      string                `json:"title"`
	Authors    []string              `json:"authors"`
	Abstract   string                `json:"abstract"`
	RawText    string                `json:"-"`
	Confidence map[string]Confidence `json:"confidence"`
}

var (
	abstractLinePattern    = regexp.MustCompile(`(?i)^abstract`)
	emailPattern           = regexp.MustCompile(`[^\s@]+@[^\s@]+`)
	affiliationLinePattern = regexp.MustCompile(`(?i)^(university|department|school|institute)`)
	whitespacePattern      = regexp.MustCompile(`\s+`)

	// A run of capitalized words, optionally with middle initials: "Jane Doe", "Jane Q. Doe".
	nameLinePattern     = regexp.MustCompile(`^[A-Z][a-z]+(?:\s+[A-Z]\.?)*\s+[A-Z][a-z]+`)
	authorSplitPattern  = regexp.MustCompile(`,\s*|\s+and\s+`)
	footnoteMarkPattern = regexp.MustCompile(`[\d*†‡§¶]+`)
	namePrefixPattern   = regexp.MustCompile(`^[A-Z][a-z]+`)
	metadataAuthorSplit = regexp.MustCompile(`[;,]`)

	abstractHeaderPattern = regexp.MustCompile(`(?i)(?:^|\n)[ \t]*abstract\b[ \t]*[:.]?\s*`)
	abstractEndPattern    = regexp.MustCompile(`\n\s*(?:(?i:1\.?\s*introduction|introduction|keywords)|I\.\s|1\s+[A-Z])`)
	keywordsPattern       = regexp.MustCompile(`(?i)\bkeywords?\b`)
)

// Extract builds a Record from the document's Info title and author strings
// (either may be empty) and the plain text of its first page.
//
// Metadata wins over parsed text for title and authors. Each field's
// confidence is tracked independently.
func Extract(metaTitle, metaAuthor, firstPageText string) Record {
	rec := Record{
		Authors:    []string{},
		RawText:    firstPageText,
		Confidence: make(map[string]Confidence, 3),
	}

	if t := strings.TrimSpace(metaTitle); t != "" {
		rec.Title = t
		rec.Confidence[FieldTitle] = Metadata
	} else {
		rec.Title = ExtractTitle(firstPageText)
		rec.Confidence[FieldTitle] = Parsed
	}

	if authors := SplitMetadataAuthors(metaAuthor); len(authors) > 0 {
		rec.Authors = authors
		rec.Confidence[FieldAuthors] = Metadata
	} else {
		rec.Authors = ExtractAuthors(firstPageText)
		rec.Confidence[FieldAuthors] = Parsed
	}

	rec.Abstract = ExtractAbstract(firstPageText)
	if rec.Abstract != "" {
		rec.Confidence[FieldAbstract] = Parsed
	} else {
		rec.Confidence[FieldAbstract] = NotFound
	}

	return rec
}

// ExtractTitle returns the title guessed from the leading lines of text.
func ExtractTitle(text string) string {
	lines := nonBlankLines(text, TitleScanLines)

	var titleLines []string
	for _, line := range lines {
		if abstractLinePattern.MatchString(line) ||
			emailPattern.MatchString(line) ||
			affiliationLinePattern.MatchString(line) {
			break
		}
		if utf8.RuneCountInString(line) < TitleMinLineLen {
			continue
		}
		titleLines = append(titleLines, line)
		if len(titleLines) >= TitleMaxLines {
			break
		}
	}

	title := collapseWhitespace(strings.Join(titleLines, " "))
	if utf8.RuneCountInString(title) > TitleMaxLen {
		title = string([]rune(title)[:TitleMaxLen]) + "..."
	}
	return title
}

// ExtractAuthors returns author names found between the first line and the
// abstract header, in document order.
func ExtractAuthors(text string) []string {
	lines := nonBlankLines(text, AuthorScanLines)
	authors := []string{}

	for i, line := range lines {
		if i < 1 {
			continue // first line is the title
		}
		if abstractLinePattern.MatchString(line) {
			break
		}
		if !nameLinePattern.MatchString(line) {
			continue
		}

		for _, part := range authorSplitPattern.Split(line, -1) {
			name := strings.TrimSpace(footnoteMarkPattern.ReplaceAllString(part, ""))
			if utf8.RuneCountInString(name) < authorMinNameLen || strings.Contains(name, "@") {
				continue
			}
			if namePrefixPattern.MatchString(name) {
				authors = append(authors, name)
			}
		}
	}

	if len(authors) > MaxAuthors {
		authors = authors[:MaxAuthors]
	}
	return authors
}

// ExtractAbstract returns the text following an "Abstract" header, up to the
// introduction or keywords section.
func ExtractAbstract(text string) string {
	loc := abstractHeaderPattern.FindStringIndex(text)
	if loc == nil {
		return ""
	}

	body := text[loc[1]:]
	if end := abstractEndPattern.FindStringIndex(body); end != nil {
		body = body[:end[0]]
	}

	abstract := collapseWhitespace(body)
	if kw := keywordsPattern.FindStringIndex(abstract); kw != nil {
		abstract = strings.TrimSpace(abstract[:kw[0]])
	}
	return abstract
}

// SplitMetadataAuthors splits an Info dictionary author string on ';' or ','.
func SplitMetadataAuthors(s string) []string {
	var authors []string
	for _, part := range metadataAuthorSplit.Split(s, -1) {
		if part = strings.TrimSpace(part); part != "" {
			authors = append(authors, part)
		}
	}
	return authors
}

// DedupeAuthors removes repeated names, keeping the first occurrence.
func DedupeAuthors(authors []string) []string {
	seen := make(map[string]bool, len(authors))
	out := make([]string, 0, len(authors))
	for _, a := range authors {
		if seen[a] {
			continue
		}
		seen[a] = true
		out = append(out, a)
	}
	return out
}

// nonBlankLines returns up to max trimmed, non-empty lines of text.
func nonBlankLines(text string, max int) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
		if len(lines) == max {
			break
		}
	}
	return lines
}

func collapseWhitespace(s string) string {
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(s, " "))
}
