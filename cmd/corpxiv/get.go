package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/corpxiv/corpxiv/internal/config"
	"github.com/corpxiv/corpxiv/internal/registry"
)

func init() {
	rootCmd.AddCommand(getCmd)
}

var getCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one published paper",
	Args:  cobra.ExactArgs(1),
	RunE:  runGet,
}

func runGet(cmd *cobra.Command, args []string) error {
	root := mustFindSite()
	db := mustOpenDatabase(root)
	defer db.Close()

	paper, err := db.GetByID(args[0])
	if err != nil {
		exitWithError(ExitError, "getting paper: %v", err)
	}
	if paper == nil {
		exitPaperNotFound(root, args[0])
	}

	if humanOutput {
		fmt.Print(formatPaperDetail(*paper))
		return nil
	}
	return outputJSON(paper)
}

// registeredKey returns the submission key holding id in the registry.
func registeredKey(root, id string) (string, bool) {
	state, err := registry.Load(config.ManifestPath(root))
	if err != nil {
		return "", false
	}
	key, _, ok := state.FindByID(id)
	return key, ok
}

// exitPaperNotFound reports an identifier missing from the paper index. An
// identifier still in the registry belongs to a publication that did not
// finish.
func exitPaperNotFound(root, id string) {
	if key, ok := registeredKey(root, id); ok {
		exitWithError(ExitPartialWrite, "paper %s is registered for %s but not published; re-run 'corpxiv process' on its PDF", id, key)
	}
	exitWithError(ExitError, "paper not found: %s", id)
}
