package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(regenerateCmd)
}

var regenerateCmd = &cobra.Command{
	Use:   "regenerate [id...]",
	Short: "Re-render landing pages from the paper index",
	Long: `Re-render the landing pages of the given papers, or of every paper when
no identifier is given, then rebuild sitemap.xml.

Use this after changing corpxiv.yml (base_url, publisher) or to finish a
publication that failed after its identifier was assigned. Stamped PDFs are
not touched.`,
	RunE: runRegenerate,
}

// RegenerateResult is the response for the regenerate command.
type RegenerateResult struct {
	Status  string   `json:"status"`
	Written []string `json:"written"`
}

func runRegenerate(cmd *cobra.Command, args []string) error {
	p, log := mustNewPipeline()
	defer log.Sync()

	written, err := p.Regenerate(args)
	if err != nil {
		log.Sync()
		exitWithError(exitCodeFor(err), "%v", err)
	}
	if written == nil {
		written = []string{}
	}

	if humanOutput {
		for _, w := range written {
			fmt.Printf("wrote %s\n", w)
		}
		fmt.Printf("Regenerated %d landing pages and the sitemap\n", len(written))
		return nil
	}
	return outputJSON(RegenerateResult{Status: "regenerated", Written: written})
}
