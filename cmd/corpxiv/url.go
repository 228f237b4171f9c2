package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/corpxiv/corpxiv/internal/clipboard"
	"github.com/corpxiv/corpxiv/internal/index"
)

const clipboardUnavailableMsg = "clipboard unavailable (install wl-copy, xclip or xsel on Linux)"

var (
	urlCopyFlag bool
	urlPDFFlag  bool
)

// URLResult is the JSON output for the url command.
type URLResult struct {
	URL    string `json:"url"`
	Kind   string `json:"kind"`   // "landing" or "pdf"
	Copied bool   `json:"copied"` // false when --copy was not given or failed
}

func init() {
	urlCmd.Flags().BoolVar(&urlCopyFlag, "copy", false, "Copy URL to system clipboard")
	urlCmd.Flags().BoolVar(&urlPDFFlag, "pdf", false, "Output the PDF URL instead of the landing page")
	rootCmd.AddCommand(urlCmd)
}

var urlCmd = &cobra.Command{
	Use:   "url <id>",
	Short: "Get the public URL of a published paper",
	Long: `Get the public URL of a published paper, built from base_url.

Examples:
  corpxiv url 2501.00001v1          # landing page URL
  corpxiv url 2501.00001v1 --pdf    # stamped PDF URL
  corpxiv url 2501.00001v1 --copy   # copy to clipboard`,
	Args: cobra.ExactArgs(1),
	RunE: runURL,
}

// paperURL returns the landing or PDF URL for p.
func paperURL(baseURL string, p index.Paper, pdf bool) (string, string) {
	if pdf {
		return index.PDFURL(baseURL, p), "pdf"
	}
	return index.PaperURL(baseURL, p), "landing"
}

func runURL(cmd *cobra.Command, args []string) error {
	root := mustFindSite()
	cfg := mustLoadConfig(root)
	db := mustOpenDatabase(root)
	defer db.Close()

	id := args[0]
	paper, err := db.GetByID(id)
	if err != nil {
		exitWithError(ExitError, "getting paper %s: %v", id, err)
	}
	if paper == nil {
		exitPaperNotFound(root, id)
	}

	url, kind := paperURL(cfg.BaseURL, *paper, urlPDFFlag)

	copied := false
	var clipboardWarning string
	if urlCopyFlag {
		if err := clipboard.Copy(url); err != nil {
			if errors.Is(err, clipboard.ErrClipboardUnavailable) {
				clipboardWarning = clipboardUnavailableMsg
			} else {
				clipboardWarning = fmt.Sprintf("clipboard error: %v", err)
			}
		} else {
			copied = true
		}
	}

	if humanOutput {
		fmt.Println(url)
		if copied {
			fmt.Fprintln(os.Stderr, "Copied to clipboard")
		} else if clipboardWarning != "" {
			fmt.Fprintf(os.Stderr, "Warning: %s\n", clipboardWarning)
		}
		return nil
	}
	return outputJSON(URLResult{URL: url, Kind: kind, Copied: copied})
}
