package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/corpxiv/corpxiv/internal/config"
	"github.com/corpxiv/corpxiv/internal/pdf"
	"github.com/corpxiv/corpxiv/internal/site"
)

var openViewer string

func init() {
	openCmd.Flags().StringVar(&openViewer, "viewer", "", "PDF viewer to use (default from corpxiv.yml pdf_viewer)")
	rootCmd.AddCommand(openCmd)
}

var openCmd = &cobra.Command{
	Use:   "open <id>",
	Short: "Open a paper's stamped PDF in a viewer",
	Args:  cobra.ExactArgs(1),
	RunE:  runOpen,
}

func runOpen(cmd *cobra.Command, args []string) error {
	root := mustFindSite()
	cfg := mustLoadConfig(root)
	db := mustOpenDatabase(root)
	defer db.Close()

	paper, err := db.GetByID(args[0])
	if err != nil {
		exitWithError(ExitError, "getting paper: %v", err)
	}
	if paper == nil {
		exitPaperNotFound(root, args[0])
	}

	viewer := openViewer
	if viewer == "" {
		viewer = cfg.PDFViewer
	}

	path := filepath.Join(site.PaperDir(config.PapersPath(root), *paper), paper.PDF)
	if err := pdf.NewOpener(viewer).Open(path); err != nil {
		exitWithError(ExitError, "opening PDF: %v", err)
	}

	if humanOutput {
		fmt.Printf("Opened %s\n", path)
		return nil
	}
	return outputJSON(StatusResponse{Status: "opened", Path: path})
}
