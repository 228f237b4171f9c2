package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/corpxiv/corpxiv/internal/index"
	"github.com/corpxiv/corpxiv/internal/storage"
)

var (
	listLimit      int
	listCategory   string
	listCategories bool
)

func init() {
	listCmd.Flags().IntVar(&listLimit, "limit", DefaultListLimit, "Maximum papers to return (0 for all)")
	listCmd.Flags().StringVarP(&listCategory, "category", "c", "", "Only list papers in this category")
	listCmd.Flags().BoolVar(&listCategories, "categories", false, "List categories with paper counts instead")
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List published papers, newest first",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	root := mustFindSite()
	db := mustOpenDatabase(root)
	defer db.Close()

	if listCategories {
		counts, err := db.Categories()
		if err != nil {
			exitWithError(ExitError, "listing categories: %v", err)
		}
		if humanOutput {
			for _, c := range counts {
				fmt.Printf("%-20s %d\n", c.Category, c.Count)
			}
			return nil
		}
		if counts == nil {
			counts = []storage.CategoryCount{}
		}
		return outputJSON(counts)
	}

	papers, err := db.SearchWithFilters(storage.SearchFilters{Category: listCategory}, listLimit)
	if err != nil {
		exitWithError(ExitError, "listing papers: %v", err)
	}

	return outputPapers(papers)
}

// outputPapers prints a paper list in the selected format.
func outputPapers(papers []index.Paper) error {
	if humanOutput {
		if len(papers) == 0 {
			fmt.Println("No papers found")
			return nil
		}
		for _, p := range papers {
			fmt.Println(formatPaperLine(p))
		}
		return nil
	}

	if papers == nil {
		papers = []index.Paper{}
	}
	return outputJSON(papers)
}
