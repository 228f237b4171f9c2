// Package main provides the corpxiv CLI entry point.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/corpxiv/corpxiv/internal/config"
	"github.com/corpxiv/corpxiv/internal/logging"
	"github.com/corpxiv/corpxiv/internal/pipeline"
	"github.com/corpxiv/corpxiv/internal/storage"
)

// Version is set at build time via ldflags
var Version = "dev"

var (
	// humanOutput controls whether to use human-readable output
	humanOutput bool
	verbose     bool
	siteFlag    string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Print the error since we have SilenceErrors: true
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "corpxiv",
	Short: "Preprint ingestion pipeline for a static corpXiv site",
	Long: `corpxiv turns submitted PDFs into published preprints.

A submission is extracted (title, authors, abstract), checked against the
guardrails, assigned a permanent identifier such as 2501.00042v1, stamped on
its first page, and published with a landing page, an entry in
data/papers.yml and an updated sitemap.xml.

The identifier registry (manifest.json) and paper index are plain files meant
to be committed. Only one corpxiv run may write to a site at a time.
All commands output JSON by default; use --human for readable text.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// A missing .env is fine
		if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "warning: loading .env: %v\n", err)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging on stderr")
	rootCmd.PersistentFlags().StringVar(&siteFlag, "site", "", "Site root (default: search upward from the current directory, or $"+config.SiteEnvVar+")")
	rootCmd.Version = Version
}

// getStartingDirectory returns the directory to start searching for a site.
// The --site flag wins over $CORPXIV_SITE, which wins over the working directory.
func getStartingDirectory() string {
	if siteFlag != "" {
		return siteFlag
	}
	if root := os.Getenv(config.SiteEnvVar); root != "" {
		return root
	}

	cwd, err := os.Getwd()
	if err != nil {
		exitWithError(ExitError, "getting current directory: %v", err)
	}
	return cwd
}

// mustFindSite finds the site root, exits on error.
func mustFindSite() string {
	root, err := config.FindSite(getStartingDirectory())
	if err != nil {
		exitWithError(ExitConfigError, "%v\n  Hint: run 'corpxiv init' in the site directory", err)
	}
	return root
}

// mustLoadConfig loads configuration, exits on error.
func mustLoadConfig(root string) *config.Config {
	cfg, err := config.Load(root)
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	return cfg
}

// newLogger builds the process logger for a site. The caller syncs it.
func newLogger(root string, cfg *config.Config) *zap.Logger {
	return logging.New(logging.Options{
		Verbose: verbose,
		File:    cfg.LogPath(root),
	})
}

// mustNewPipeline finds the site and builds a pipeline for it.
func mustNewPipeline() (*pipeline.Pipeline, *zap.Logger) {
	root := mustFindSite()
	cfg := mustLoadConfig(root)
	log := newLogger(root, cfg)
	return pipeline.New(root, cfg, log), log
}

// mustOpenDatabase opens the query cache, rebuilding it when data/papers.yml
// is newer than the cache. The caller is responsible for calling Close().
func mustOpenDatabase(root string) *storage.DB {
	if err := os.MkdirAll(config.CachePath(root), 0755); err != nil {
		exitWithError(ExitError, "creating cache directory: %v", err)
	}

	stale := cacheIsStale(root)

	db, err := storage.OpenDB(config.DBPath(root))
	if err != nil {
		exitWithError(ExitError, "opening database: %v", err)
	}

	if stale {
		if _, err := db.RebuildFromIndex(config.IndexPath(root)); err != nil {
			db.Close()
			exitWithError(exitCodeFor(err), "rebuilding query cache: %v", err)
		}
	}
	return db
}

// cacheIsStale reports whether the cache is missing or older than the index.
func cacheIsStale(root string) bool {
	dbInfo, err := os.Stat(config.DBPath(root))
	if err != nil {
		return true
	}
	indexInfo, err := os.Stat(config.IndexPath(root))
	if err != nil {
		return false
	}
	return indexInfo.ModTime().After(dbInfo.ModTime())
}
