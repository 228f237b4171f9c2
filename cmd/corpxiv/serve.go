package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/corpxiv/corpxiv/internal/preview"
)

var serveAddr string

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "127.0.0.1:8080", "Address to listen on")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the site locally for preview",
	Long: `Serve the site directory over HTTP, as the static host would, plus a
read-only JSON API:

  GET /api/papers[?category=&limit=]
  GET /api/papers/{id}
  GET /api/search?q=&author=&title=&category=
  GET /api/categories
  GET /healthz

Stop with Ctrl-C.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	root := mustFindSite()
	cfg := mustLoadConfig(root)
	log := newLogger(root, cfg)
	defer log.Sync()

	db := mustOpenDatabase(root)
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := preview.New(root, cfg.BaseURL, db, log).ListenAndServe(ctx, serveAddr); err != nil {
		exitWithError(ExitError, "serving: %v", err)
	}
	return nil
}
