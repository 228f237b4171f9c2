package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/corpxiv/corpxiv/internal/index"
)

// Constants for output formatting.
const (
	DefaultListLimit = 50 // Default limit for list/search commands

	ListTitleMaxLen     = 60 // Used in list and search output
	DetailTextWrapWidth = 72 // Abstract wrap width in get output
)

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputHuman writes a human-readable string to stdout.
func outputHuman(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// exitWithError outputs an error in the appropriate format (human or JSON) and exits.
func exitWithError(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	os.Exit(code)
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse is a generic response for commands that return status.
type StatusResponse struct {
	Status string `json:"status"`
	Path   string `json:"path,omitempty"`
	Count  int    `json:"count,omitempty"`
}

// truncateString shortens s to maxLen runes, marking the cut with "...".
func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}

// formatAuthorsShort renders an author list as "First Author et al.".
func formatAuthorsShort(authors []string) string {
	switch len(authors) {
	case 0:
		return "Unknown"
	case 1:
		return authors[0]
	case 2:
		return authors[0] + " and " + authors[1]
	default:
		return authors[0] + " et al."
	}
}

// formatPaperLine formats one paper for list and search output.
func formatPaperLine(p index.Paper) string {
	return fmt.Sprintf("%s  %-12s  %s (%s)", p.ID, p.Category, truncateString(p.Title, ListTitleMaxLen), formatAuthorsShort(p.Authors))
}

// formatPaperDetail formats a paper for the get command.
func formatPaperDetail(p index.Paper) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s [%s]\n", p.ID, p.Category)
	fmt.Fprintf(&sb, "Title:   %s\n", p.Title)
	fmt.Fprintf(&sb, "Authors: %s\n", strings.Join(p.Authors, ", "))
	fmt.Fprintf(&sb, "Date:    %s\n", p.Date)
	fmt.Fprintf(&sb, "Slug:    %s\n", p.Slug)
	if p.Hash != "" {
		fmt.Fprintf(&sb, "Hash:    %s\n", p.Hash)
	}
	if p.Abstract != "" {
		sb.WriteString("\n")
		sb.WriteString(wrapText(p.Abstract, DetailTextWrapWidth, ""))
		sb.WriteString("\n")
	}
	return sb.String()
}

// wrapText wraps text at word boundaries, prefixing each line with indent.
func wrapText(text string, width int, indent string) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}

	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len(line)+1+len(w) > width {
			lines = append(lines, indent+line)
			line = w
			continue
		}
		line += " " + w
	}
	lines = append(lines, indent+line)
	return strings.Join(lines, "\n")
}
