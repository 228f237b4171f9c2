// Package export renders published papers in citation formats.
package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/corpxiv/corpxiv/internal/index"
)

// ArchivePrefix is the eprint archive name written into BibTeX entries.
const ArchivePrefix = "corpXiv"

var monthAbbrev = [...]string{"jan", "feb", "mar", "apr", "may", "jun", "jul", "aug", "sep", "oct", "nov", "dec"}

// CitationKey returns the BibTeX key for a paper, e.g. "corpxiv2501.00001v1".
func CitationKey(p index.Paper) string {
	return "corpxiv" + p.ID
}

// ToBibTeX converts a paper to a BibTeX @misc entry. baseURL is the public
// site URL used for the url field; it is omitted when empty.
func ToBibTeX(p index.Paper, baseURL string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "@misc{%s,\n", CitationKey(p))

	if len(p.Authors) > 0 {
		fmt.Fprintf(&b, "  author = {%s},\n", formatAuthors(p.Authors))
	}
	fmt.Fprintf(&b, "  title = {%s},\n", escapeLatex(p.Title))

	if d, err := time.Parse(time.DateOnly, p.Date); err == nil {
		fmt.Fprintf(&b, "  year = {%d},\n", d.Year())
		fmt.Fprintf(&b, "  month = %s,\n", monthAbbrev[d.Month()-1])
	}

	fmt.Fprintf(&b, "  eprint = {%s},\n", p.ID)
	fmt.Fprintf(&b, "  archivePrefix = {%s},\n", ArchivePrefix)
	if p.Category != "" {
		fmt.Fprintf(&b, "  primaryClass = {%s},\n", p.Category)
	}
	if baseURL != "" {
		fmt.Fprintf(&b, "  url = {%s},\n", index.PaperURL(baseURL, p))
	}
	if p.Abstract != "" {
		fmt.Fprintf(&b, "  abstract = {%s},\n", escapeLatex(p.Abstract))
	}

	b.WriteString("}\n")
	return b.String()
}

// ToBibTeXList converts multiple papers, separated by blank lines.
func ToBibTeXList(papers []index.Paper, baseURL string) string {
	entries := make([]string, 0, len(papers))
	for _, p := range papers {
		entries = append(entries, ToBibTeX(p, baseURL))
	}
	return strings.Join(entries, "\n")
}

// formatAuthors renders names as "Last, First and Last, First". The last
// whitespace-separated word is taken as the family name.
func formatAuthors(authors []string) string {
	formatted := make([]string, 0, len(authors))
	for _, a := range authors {
		fields := strings.Fields(a)
		switch len(fields) {
		case 0:
			continue
		case 1:
			formatted = append(formatted, escapeLatex(fields[0]))
		default:
			last := fields[len(fields)-1]
			first := strings.Join(fields[:len(fields)-1], " ")
			formatted = append(formatted, escapeLatex(last+", "+first))
		}
	}
	return strings.Join(formatted, " and ")
}

// escapeLatex escapes special LaTeX characters.
func escapeLatex(s string) string {
	// & first, before other escapes that might produce &
	replacer := strings.NewReplacer(
		"&", `\&`,
		"%", `\%`,
		"$", `\$`,
		"#", `\#`,
		"_", `\_`,
		"{", `\{`,
		"}", `\}`,
		"~", `\textasciitilde{}`,
		"^", `\textasciicircum{}`,
	)
	return replacer.Replace(s)
}
