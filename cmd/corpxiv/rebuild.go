package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/corpxiv/corpxiv/internal/config"
	"github.com/corpxiv/corpxiv/internal/storage"
)

func init() {
	rootCmd.AddCommand(rebuildCmd)
}

var rebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Rebuild the query cache from data/papers.yml",
	Long: `Rebuild the SQLite query cache used by list, search, get and serve.

The cache is rebuilt automatically when data/papers.yml changes; run this
if the cache itself becomes corrupted.`,
	Args: cobra.NoArgs,
	RunE: runRebuild,
}

// RebuildResult is the response for the rebuild command.
type RebuildResult struct {
	Status string `json:"status"`
	Papers int    `json:"papers"`
}

func runRebuild(cmd *cobra.Command, args []string) error {
	root := mustFindSite()

	if err := os.MkdirAll(config.CachePath(root), 0755); err != nil {
		exitWithError(ExitError, "creating cache directory: %v", err)
	}

	db, err := storage.OpenDB(config.DBPath(root))
	if err != nil {
		exitWithError(ExitError, "opening database: %v", err)
	}
	defer db.Close()

	count, err := db.RebuildFromIndex(config.IndexPath(root))
	if err != nil {
		exitWithError(exitCodeFor(err), "rebuilding query cache: %v", err)
	}

	if humanOutput {
		fmt.Printf("Rebuilt query cache with %d papers\n", count)
	} else {
		outputJSON(RebuildResult{Status: "rebuilt", Papers: count})
	}
	return nil
}
