package main

import (
	"github.com/spf13/cobra"

	"github.com/corpxiv/corpxiv/internal/storage"
)

var (
	searchLimit    int
	searchAuthor   string
	searchTitle    string
	searchCategory string
)

func init() {
	searchCmd.Flags().IntVar(&searchLimit, "limit", DefaultListLimit, "Maximum results to return")
	searchCmd.Flags().StringVarP(&searchAuthor, "author", "a", "", "Search by author name (prefix match)")
	searchCmd.Flags().StringVarP(&searchTitle, "title", "t", "", "Search in title only")
	searchCmd.Flags().StringVarP(&searchCategory, "category", "c", "", "Restrict to one category")
	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search published papers",
	Long: `Full-text search over titles, abstracts and authors.

Author matching is by prefix, so "Tim" matches "Timothy". All given
criteria must match.

Examples:
  corpxiv search "graph neural"
  corpxiv search -a Doe -c ai-systems
  corpxiv search --title "protein folding"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	filters := storage.SearchFilters{
		Author:   searchAuthor,
		Title:    searchTitle,
		Category: searchCategory,
	}
	if len(args) > 0 {
		filters.Keyword = args[0]
	}
	if filters.Keyword == "" && filters.Author == "" && filters.Title == "" {
		exitWithError(ExitError, "a query, --author or --title is required")
	}

	root := mustFindSite()
	db := mustOpenDatabase(root)
	defer db.Close()

	papers, err := db.SearchWithFilters(filters, searchLimit)
	if err != nil {
		exitWithError(ExitError, "searching: %v", err)
	}

	return outputPapers(papers)
}
