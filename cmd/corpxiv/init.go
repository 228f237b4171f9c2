package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/corpxiv/corpxiv/internal/config"
	"github.com/corpxiv/corpxiv/internal/index"
	"github.com/corpxiv/corpxiv/internal/registry"
)

var initBaseURL string

func init() {
	initCmd.Flags().StringVar(&initBaseURL, "base-url", "", "Public base URL of the site (default "+config.DefaultBaseURL+")")
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Initialize a new corpXiv site",
	Long: `Create corpxiv.yml, an empty identifier registry (manifest.json), an
empty paper index (data/papers.yml) and the papers/ directory.

Existing files are left untouched, so init is safe to run on a legacy site
that only has a manifest.json.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

// InitResult is the response for the init command.
type InitResult struct {
	Status  string   `json:"status"`
	Path    string   `json:"path"`
	Created []string `json:"created"`
}

func runInit(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	root, err := filepath.Abs(dir)
	if err != nil {
		exitWithError(ExitError, "resolving path: %v", err)
	}

	created, err := initSite(root, initBaseURL)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	if humanOutput {
		if len(created) == 0 {
			fmt.Printf("Site already initialized at %s\n", root)
		} else {
			fmt.Printf("Initialized corpXiv site at %s\n", root)
			for _, c := range created {
				fmt.Printf("  created %s\n", c)
			}
		}
	} else {
		outputJSON(InitResult{Status: "initialized", Path: root, Created: created})
	}
	return nil
}

// initSite creates whatever site files are missing under root and returns
// their paths relative to root.
func initSite(root, baseURL string) ([]string, error) {
	created := []string{}

	if err := os.MkdirAll(config.PapersPath(root), 0755); err != nil {
		return nil, fmt.Errorf("creating papers directory: %w", err)
	}

	if !exists(config.ConfigPath(root)) {
		cfg := &config.Config{BaseURL: baseURL}
		if err := cfg.Save(root); err != nil {
			return nil, err
		}
		created = append(created, config.ConfigFile)
	}

	if !exists(config.ManifestPath(root)) {
		if err := registry.Save(config.ManifestPath(root), registry.New()); err != nil {
			return nil, fmt.Errorf("writing registry: %w", err)
		}
		created = append(created, config.ManifestFile)
	}

	if !exists(config.IndexPath(root)) {
		if err := index.Save(config.IndexPath(root), nil); err != nil {
			return nil, fmt.Errorf("writing paper index: %w", err)
		}
		created = append(created, filepath.Join(config.DataDir, config.IndexFile))
	}

	added, err := ensureGitignore(root)
	if err != nil {
		return nil, err
	}
	if added {
		created = append(created, ".gitignore")
	}

	return created, nil
}

// ensureGitignore keeps the query cache out of version control.
func ensureGitignore(root string) (bool, error) {
	path := filepath.Join(root, ".gitignore")
	entry := config.StateDir + "/"

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return false, fmt.Errorf("reading .gitignore: %w", err)
	}
	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) == entry {
			return false, nil
		}
	}

	content := string(data)
	if content != "" && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	content += entry + "\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return false, fmt.Errorf("writing .gitignore: %w", err)
	}
	return true, nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
