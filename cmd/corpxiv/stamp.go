package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(stampCmd)
}

var stampCmd = &cobra.Command{
	Use:   "stamp <pdf>...",
	Short: "Stamp PDFs already stored under papers/",
	Long: `Stamp PDFs that were committed directly under papers/<category>/.

Each file's identifier comes from the registry entry for its path relative
to papers/, and is assigned on first sight. Files are overwritten in place.
Paths that are not PDFs or do not exist are skipped; a file that fails does
not stop the rest. manifest.json is written once, at the end.

Examples:
  corpxiv stamp papers/ai-systems/my-paper/my-paper.pdf
  git diff --name-only HEAD~1 | xargs corpxiv stamp`,
	Args: cobra.MinimumNArgs(1),
	RunE: runStamp,
}

func runStamp(cmd *cobra.Command, args []string) error {
	p, log := mustNewPipeline()
	defer log.Sync()

	results, err := p.StampFiles(args)
	if err != nil && results == nil {
		log.Sync()
		exitWithError(exitCodeFor(err), "%v", err)
	}

	failed := false
	if humanOutput {
		for _, r := range results {
			switch {
			case r.Skipped:
				fmt.Printf("skipped  %s\n", r.Path)
			case r.Error != "":
				failed = true
				fmt.Printf("failed   %s: %s\n", r.Path, r.Error)
			default:
				fmt.Printf("stamped  %s  corpXiv:%s [%s]\n", r.Path, r.ID, r.Category)
			}
		}
	} else {
		outputJSON(results)
		for _, r := range results {
			if r.Error != "" {
				failed = true
			}
		}
	}

	if err != nil {
		log.Sync()
		exitWithError(ExitPartialWrite, "%v", err)
	}
	if failed {
		log.Sync()
		os.Exit(ExitError)
	}
	return nil
}
