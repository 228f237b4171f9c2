package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/corpxiv/corpxiv/internal/extract"
	"github.com/corpxiv/corpxiv/internal/pdf"
	"github.com/corpxiv/corpxiv/internal/pipeline"
)

var extractPages int

func init() {
	extractCmd.Flags().IntVar(&extractPages, "text", -1, "Also print the plain text of the first N pages (0 for all)")
	rootCmd.AddCommand(extractCmd)
}

var extractCmd = &cobra.Command{
	Use:   "extract <pdf>",
	Short: "Show the metadata extracted from a PDF",
	Long: `Extract title, authors and abstract from a PDF without publishing it.

Use this to confirm what 'corpxiv process' will see, then pass corrections
with --title, --authors or --abstract. --text N adds the plain text of the
first N pages (0 for every page). Does not need a site.`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

// ExtractResult is the response for the extract command.
type ExtractResult struct {
	Title      string                        `json:"title"`
	Authors    []string                      `json:"authors"`
	Abstract   string                        `json:"abstract"`
	Confidence map[string]extract.Confidence `json:"confidence"`
	Text       string                        `json:"text,omitempty"`
}

func runExtract(cmd *cobra.Command, args []string) error {
	p := pipeline.New("", nil, nil)

	rec, err := p.Extract(args[0])
	if err != nil {
		exitWithError(exitCodeFor(err), "%v", err)
	}

	var text string
	if extractPages >= 0 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			exitWithError(ExitDataError, "reading %s: %v", args[0], err)
		}
		text, err = pdf.ExtractText(data, extractPages)
		if err != nil {
			exitWithError(ExitDataError, "extracting text: %v", err)
		}
	}

	if humanOutput {
		fmt.Printf("Title:    %s (%s)\n", orNone(rec.Title), rec.Confidence[extract.FieldTitle])
		fmt.Printf("Authors:  %s (%s)\n", orNone(strings.Join(rec.Authors, ", ")), rec.Confidence[extract.FieldAuthors])
		fmt.Printf("Abstract: (%s)\n", rec.Confidence[extract.FieldAbstract])
		if rec.Abstract != "" {
			fmt.Println(wrapText(rec.Abstract, DetailTextWrapWidth, "  "))
		}
		if text != "" {
			fmt.Printf("\nText:\n%s", text)
		}
		return nil
	}

	return outputJSON(ExtractResult{
		Title:      rec.Title,
		Authors:    rec.Authors,
		Abstract:   rec.Abstract,
		Confidence: rec.Confidence,
		Text:       text,
	})
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
