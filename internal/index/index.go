// Package index maintains data/papers.yml, the list of published papers
// (newest first), and the sitemap derived from it.
package index

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/corpxiv/corpxiv/internal/fsutil"
)

// ErrCorrupt is returned when the index file exists but cannot be parsed.
var ErrCorrupt = errors.New("paper index is corrupt")

// Paper is one published paper in the index.
type Paper struct {
	ID       string   `yaml:"id" json:"id"`
	Title    string   `yaml:"title" json:"title"`
	Authors  []string `yaml:"authors" json:"authors"`
	Date     string   `yaml:"date" json:"date"`
	Category string   `yaml:"category" json:"category"`
	Slug     string   `yaml:"slug" json:"slug"`
	Abstract string   `yaml:"abstract" json:"abstract"`
	PDF      string   `yaml:"pdf" json:"pdf"`
	Hash     string   `yaml:"hash" json:"hash"`
}

// Load reads all papers from the index at path. A missing or empty file
// yields an empty list.
func Load(path string) ([]Paper, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading paper index: %w", err)
	}

	var papers []Paper
	if err := yaml.Unmarshal(data, &papers); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, path, err)
	}
	return papers, nil
}

// Save writes all papers to path, replacing the existing file atomically.
func Save(path string, papers []Paper) error {
	if papers == nil {
		papers = []Paper{}
	}
	data, err := yaml.Marshal(papers)
	if err != nil {
		return fmt.Errorf("encoding paper index: %w", err)
	}
	return fsutil.WriteFileAtomic(path, data, 0644)
}

// Upsert puts p at the front of papers. An existing entry with the same ID is
// removed first, so re-running a submission never duplicates it.
func Upsert(papers []Paper, p Paper) []Paper {
	out := make([]Paper, 0, len(papers)+1)
	out = append(out, p)
	for _, existing := range papers {
		if existing.ID != p.ID {
			out = append(out, existing)
		}
	}
	return out
}

// FindByID searches for a paper by identifier.
func FindByID(papers []Paper, id string) (int, bool) {
	for i, p := range papers {
		if p.ID == id {
			return i, true
		}
	}
	return -1, false
}

// FindByHash returns the first paper whose content hash equals hash.
func FindByHash(papers []Paper, hash string) (int, bool) {
	if hash == "" {
		return -1, false
	}
	for i, p := range papers {
		if p.Hash == hash {
			return i, true
		}
	}
	return -1, false
}
