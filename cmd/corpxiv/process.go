package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/corpxiv/corpxiv/internal/extract"
	"github.com/corpxiv/corpxiv/internal/pipeline"
)

// Environment variables read by --from-env.
const (
	envTitle    = "INPUT_TITLE"
	envAuthors  = "INPUT_AUTHORS"
	envAbstract = "INPUT_ABSTRACT"
	envCategory = "INPUT_CATEGORY"
)

var (
	processCategory string
	processTitle    string
	processAuthors  string
	processAbstract string
	processFromEnv  bool
)

func init() {
	processCmd.Flags().StringVarP(&processCategory, "category", "c", "", "Category of the submission (default from corpxiv.yml)")
	processCmd.Flags().StringVar(&processTitle, "title", "", "Override the extracted title")
	processCmd.Flags().StringVar(&processAuthors, "authors", "", "Override the extracted authors (comma-separated)")
	processCmd.Flags().StringVar(&processAbstract, "abstract", "", "Override the extracted abstract")
	processCmd.Flags().BoolVar(&processFromEnv, "from-env", false, "Read overrides from INPUT_TITLE, INPUT_AUTHORS, INPUT_ABSTRACT, INPUT_CATEGORY")
	rootCmd.AddCommand(processCmd)
}

var processCmd = &cobra.Command{
	Use:   "process <pdf>...",
	Short: "Validate, stamp and publish submitted PDFs",
	Long: `Publish one or more submitted PDFs.

Each PDF is extracted, checked against the guardrails (title length,
abstract length, duplicate content, readable document) and, if accepted,
assigned the next identifier, stamped, and published under
papers/<category>/<slug>/ with a landing page. data/papers.yml, sitemap.xml
and manifest.json are updated.

A rejected PDF consumes no identifier. With several PDFs each one is
processed independently, in the order given; a corrupt registry or index
stops the batch.

Flags given on the command line win over --from-env values.

Exit codes:
  3  rejected by the guardrails, unreadable input or invalid category
  4  manifest.json or data/papers.yml is corrupt
  5  identifier assigned but an artifact could not be written;
     re-run the same command or 'corpxiv regenerate <id>'

Examples:
  corpxiv process paper.pdf --category ai-systems
  corpxiv process paper.pdf -c math --title "A Better Title" --authors "Jane Doe, John Roe"
  INPUT_CATEGORY=physics corpxiv process temp/paper.pdf --from-env`,
	Args: cobra.MinimumNArgs(1),
	RunE: runProcess,
}

func runProcess(cmd *cobra.Command, args []string) error {
	p, log := mustNewPipeline()
	defer log.Sync()

	category, overrides := processOptions()

	subs := make([]pipeline.Submission, len(args))
	for i, path := range args {
		subs[i] = pipeline.Submission{Path: path, Category: category, Overrides: overrides}
	}

	if len(subs) == 1 {
		result, err := p.Process(subs[0])
		if result != nil {
			outputProcessResult(result)
		}
		if err != nil {
			log.Sync()
			if result == nil || humanOutput {
				exitWithError(exitCodeFor(err), "%v", err)
			}
			os.Exit(exitCodeFor(err))
		}
		return nil
	}

	items, err := p.ProcessBatch(subs)
	if humanOutput {
		for _, item := range items {
			if item.Result != nil {
				outputProcessResult(item.Result)
			} else {
				fmt.Printf("%s: %s\n", item.Path, item.Error)
			}
		}
	} else {
		outputJSON(items)
	}
	if err != nil {
		log.Sync()
		exitWithError(exitCodeFor(err), "batch aborted: %v", err)
	}
	for _, item := range items {
		if item.Error != "" {
			log.Sync()
			os.Exit(ExitDataError)
		}
	}
	return nil
}

// processOptions merges flag values over --from-env values.
func processOptions() (string, extract.Overrides) {
	category, title, authors, abstract := processCategory, processTitle, processAuthors, processAbstract

	if processFromEnv {
		category = firstNonEmpty(category, os.Getenv(envCategory))
		title = firstNonEmpty(title, os.Getenv(envTitle))
		authors = firstNonEmpty(authors, os.Getenv(envAuthors))
		abstract = firstNonEmpty(abstract, os.Getenv(envAbstract))
	}

	return category, extract.Overrides{
		Title:    title,
		Authors:  extract.ParseAuthorList(authors),
		Abstract: abstract,
	}
}

func outputProcessResult(r *pipeline.Result) {
	if !humanOutput {
		outputJSON(r)
		return
	}

	switch r.Status {
	case pipeline.StatusSuccess:
		verb := "Published"
		if r.Reused {
			verb = "Republished"
		}
		outputHuman("%s corpXiv:%s [%s]\n", verb, r.ID, r.Category)
		outputHuman("  Title:   %s\n", r.Title)
		outputHuman("  Authors: %s\n", orNone(strings.Join(r.Authors, ", ")))
		outputHuman("  Page:    %s\n", r.LandingPath)
	case pipeline.StatusRejected:
		outputHuman("Rejected: %s\n", orNone(r.Title))
		for _, e := range r.Errors {
			outputHuman("  error:   %s\n", e)
		}
	default:
		outputHuman("Failed after assigning corpXiv:%s\n", r.ID)
		for _, e := range r.Errors {
			outputHuman("  error:   %s\n", e)
		}
	}
	for _, w := range r.Warnings {
		outputHuman("  warning: %s\n", w)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
