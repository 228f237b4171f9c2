package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/corpxiv/corpxiv/internal/export"
	"github.com/corpxiv/corpxiv/internal/index"
)

var (
	exportBibtex bool
	exportIDs    string
)

func init() {
	exportCmd.Flags().BoolVar(&exportBibtex, "bibtex", false, "Export to BibTeX format")
	exportCmd.Flags().StringVar(&exportIDs, "ids", "", "Export only these corpXiv IDs (comma-separated)")
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export published papers as BibTeX",
	Long: `Export published papers as BibTeX @misc entries.

Examples:
  corpxiv export --bibtex
  corpxiv export --bibtex --ids 2501.00001v1,2501.00002v1
  corpxiv export --bibtex > corpxiv.bib`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	if !exportBibtex {
		exitWithError(ExitError, "--bibtex flag is required")
	}

	root := mustFindSite()
	cfg := mustLoadConfig(root)
	db := mustOpenDatabase(root)
	defer db.Close()

	var papers []index.Paper
	if exportIDs != "" {
		for _, id := range strings.Split(exportIDs, ",") {
			id = strings.TrimSpace(id)
			if id == "" {
				continue
			}
			p, err := db.GetByID(id)
			if err != nil {
				exitWithError(ExitError, "getting paper %s: %v", id, err)
			}
			if p == nil {
				exitPaperNotFound(root, id)
			}
			papers = append(papers, *p)
		}
	} else {
		var err error
		papers, err = db.ListAll(0)
		if err != nil {
			exitWithError(ExitError, "listing papers: %v", err)
		}
	}

	// BibTeX is always text output, never JSON
	fmt.Print(export.ToBibTeXList(papers, cfg.BaseURL))
	return nil
}
