package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/corpxiv/corpxiv/internal/config"
	"github.com/corpxiv/corpxiv/internal/fsutil"
	"github.com/corpxiv/corpxiv/internal/index"
	"github.com/corpxiv/corpxiv/internal/registry"
)

// StampResult is the outcome of stamping one file.
type StampResult struct {
	Path     string `json:"path"`
	ID       string `json:"corpxiv_id,omitempty"`
	Category string `json:"category,omitempty"`
	Skipped  bool   `json:"skipped,omitempty"`
	Error    string `json:"error,omitempty"`
}

// StampFiles stamps PDFs that already sit under the papers directory, in
// place. Each file's submission key is its path relative to papers/ and its
// category is the first directory of that path. Files that are not PDFs or
// do not exist are skipped. A failure on one file does not stop the others,
// and the registry is saved once at the end.
func (p *Pipeline) StampFiles(paths []string) ([]StampResult, error) {
	manifestPath := config.ManifestPath(p.Root)
	state, err := registry.Load(manifestPath)
	if err != nil {
		return nil, err
	}

	papersDir, err := filepath.Abs(config.PapersPath(p.Root))
	if err != nil {
		return nil, fmt.Errorf("resolving papers directory: %w", err)
	}

	results := make([]StampResult, 0, len(paths))
	for _, raw := range paths {
		filePath := strings.TrimSpace(raw)
		res := StampResult{Path: filePath}

		if filePath == "" || !strings.EqualFold(filepath.Ext(filePath), ".pdf") {
			res.Skipped = true
			results = append(results, res)
			continue
		}
		if _, err := os.Stat(filePath); err != nil {
			p.Log.Debug("skipping missing file", zap.String("path", filePath))
			res.Skipped = true
			results = append(results, res)
			continue
		}

		if err := p.stampFile(state, papersDir, filePath, &res); err != nil {
			p.Log.Error("stamping failed", zap.String("path", filePath), zap.Error(err))
			res.Error = err.Error()
		} else {
			p.Log.Info("stamped", zap.String("path", filePath), zap.String("id", res.ID), zap.String("category", res.Category))
		}
		results = append(results, res)
	}

	if err := registry.Save(manifestPath, state); err != nil {
		return results, fmt.Errorf("saving registry: %w", err)
	}
	return results, nil
}

func (p *Pipeline) stampFile(state *registry.State, papersDir, filePath string, res *StampResult) error {
	abs, err := filepath.Abs(filePath)
	if err != nil {
		return fmt.Errorf("resolving path: %w", err)
	}
	rel, err := filepath.Rel(papersDir, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return fmt.Errorf("%s is not under %s", filePath, papersDir)
	}
	key := filepath.ToSlash(rel)

	category := p.Config.DefaultCategory
	if i := strings.Index(key, "/"); i > 0 {
		category = key[:i]
	}
	if !index.ValidCategory(category) {
		return fmt.Errorf("%w %q: use lowercase letters, digits and hyphens", ErrInvalidCategory, category)
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return fmt.Errorf("reading PDF: %w", err)
	}
	// An unreadable PDF must not consume a sequence number.
	if _, err := p.Inspect(data); err != nil {
		return fmt.Errorf("opening PDF: %w", err)
	}

	assigned := state.ResolveOrAssign(key, category, p.Now())
	res.ID = assigned.ID
	res.Category = category

	date, err := time.Parse(registry.DateLayout, assigned.Submitted)
	if err != nil {
		return fmt.Errorf("parsing submitted date: %w", err)
	}

	stamped, err := p.Stamp(data, assigned.ID, category, date)
	if err != nil {
		return fmt.Errorf("stamping: %w", err)
	}
	return fsutil.WriteFileAtomic(abs, stamped, 0644)
}
