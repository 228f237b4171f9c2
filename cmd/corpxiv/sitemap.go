package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/corpxiv/corpxiv/internal/config"
)

func init() {
	rootCmd.AddCommand(sitemapCmd)
}

var sitemapCmd = &cobra.Command{
	Use:   "sitemap",
	Short: "Rebuild sitemap.xml from the paper index",
	Args:  cobra.NoArgs,
	RunE:  runSitemap,
}

func runSitemap(cmd *cobra.Command, args []string) error {
	p, log := mustNewPipeline()
	defer log.Sync()

	count, err := p.RegenerateSitemap()
	if err != nil {
		exitWithError(exitCodeFor(err), "regenerating sitemap: %v", err)
	}

	path := config.SitemapPath(p.Root)
	if humanOutput {
		fmt.Printf("Wrote %s with %d papers\n", path, count)
		return nil
	}
	return outputJSON(StatusResponse{Status: "regenerated", Path: path, Count: count})
}
