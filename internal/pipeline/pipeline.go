// Package pipeline takes a submitted PDF through extraction, guardrail
// validation, identifier assignment, stamping and publication.
//
// One Pipeline must not run concurrently with another against the same site:
// the registry and paper index are read at the start of each submission and
// rewritten at the end, without locking.
package pipeline

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/corpxiv/corpxiv/internal/config"
	"github.com/corpxiv/corpxiv/internal/extract"
	"github.com/corpxiv/corpxiv/internal/fsutil"
	"github.com/corpxiv/corpxiv/internal/guardrail"
	"github.com/corpxiv/corpxiv/internal/index"
	"github.com/corpxiv/corpxiv/internal/pdf"
	"github.com/corpxiv/corpxiv/internal/registry"
	"github.com/corpxiv/corpxiv/internal/site"
)

// Result statuses.
const (
	StatusSuccess  = "success"
	StatusRejected = "rejected"
	StatusFailed   = "failed"
)

// Inspector opens a PDF and returns its metadata and first-page text.
type Inspector func(data []byte) (*pdf.Document, error)

// Stamper returns a copy of a PDF with the identifier stamp on page one.
type Stamper func(data []byte, id, category string, date time.Time) ([]byte, error)

// Pipeline publishes submissions into the site at Root.
type Pipeline struct {
	Root   string
	Config *config.Config
	Log    *zap.Logger

	Now     func() time.Time
	Inspect Inspector
	Stamp   Stamper
}

// New returns a pipeline using the real PDF reader and stamper.
func New(root string, cfg *config.Config, log *zap.Logger) *Pipeline {
	if cfg == nil {
		cfg = config.Default()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{
		Root:    root,
		Config:  cfg,
		Log:     log,
		Now:     time.Now,
		Inspect: pdf.Inspect,
		Stamp:   pdf.Stamp,
	}
}

// Submission is one PDF to publish.
type Submission struct {
	Path      string
	Category  string // defaults to the configured default category
	Overrides extract.Overrides
}

// Result describes the outcome of one submission.
type Result struct {
	Status      string          `json:"status"`
	ID          string          `json:"corpxiv_id,omitempty"`
	Slug        string          `json:"slug,omitempty"`
	Title       string          `json:"title"`
	Authors     []string        `json:"authors"`
	Abstract    string          `json:"abstract"`
	Category    string          `json:"category"`
	Date        string          `json:"date,omitempty"`
	PDFPath     string          `json:"pdf_path,omitempty"`
	LandingPath string          `json:"landing_path,omitempty"`
	Reused      bool            `json:"reused,omitempty"`
	Errors      []string        `json:"errors,omitempty"`
	Warnings    []string        `json:"warnings"`
	Extraction  *extract.Record `json:"extraction,omitempty"`
}

// Extract reads path and returns the extracted metadata without validating
// or publishing anything.
func (p *Pipeline) Extract(filePath string) (*extract.Record, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, &InputError{Path: filePath, Err: err}
	}

	rec, err := p.extract(data)
	if err != nil {
		return nil, &InputError{Path: filePath, Err: err}
	}
	return &rec, nil
}

// Process publishes one submission.
//
// A rejected submission returns its Result together with a *RejectionError.
// A submission whose key is already registered with the same content resumes
// the earlier publication under its identifier. Different content under a
// registered key is rejected.
// Errors matching IsCorruption mean the registry or index could not be read
// and nothing was changed. Once an identifier is assigned the registry is
// always saved; a later failure is reported as *PartialWriteError.
func (p *Pipeline) Process(sub Submission) (*Result, error) {
	category := sub.Category
	if category == "" {
		category = p.Config.DefaultCategory
	}
	if !index.ValidCategory(category) {
		return nil, &InputError{Path: sub.Path, Err: fmt.Errorf("%w %q: use lowercase letters, digits and hyphens", ErrInvalidCategory, category)}
	}
	log := p.Log.With(zap.String("path", sub.Path), zap.String("category", category))

	data, err := os.ReadFile(sub.Path)
	if err != nil {
		return nil, &InputError{Path: sub.Path, Err: err}
	}

	rec, docErr := p.extract(data)
	if !sub.Overrides.IsEmpty() {
		log.Debug("applying manual overrides")
		rec.Apply(sub.Overrides)
	}
	rec.Authors = extract.DedupeAuthors(rec.Authors)
	log.Debug("extracted metadata",
		zap.String("title", rec.Title),
		zap.Int("authors", len(rec.Authors)),
		zap.Any("confidence", rec.Confidence),
	)

	papers, err := index.Load(config.IndexPath(p.Root))
	if err != nil {
		return nil, err
	}
	manifestPath := config.ManifestPath(p.Root)
	state, err := registry.Load(manifestPath)
	if err != nil {
		return nil, err
	}

	hash, err := pdf.Hash(data, p.Config.HashAlgorithm)
	if err != nil {
		return nil, err
	}

	slug := index.Slugify(rec.Title)
	if slug == "" {
		slug = "paper-" + hash[:8]
	}
	pdfName := slug + ".pdf"
	key := registry.Key(category, path.Join(slug, pdfName))

	var slotID string
	if e, ok := state.Lookup(key); ok {
		slotID = e.ID
	}

	outcome := p.rules().Validate(guardrail.Input{
		Record:      rec,
		DocErr:      docErr,
		ContentHash: hash,
		Existing:    papers,
		SlotID:      slotID,
	})

	result := &Result{
		Title:    rec.Title,
		Authors:  rec.Authors,
		Abstract: rec.Abstract,
		Category: category,
		Warnings: outcome.Warnings,
	}

	if !outcome.Accepted {
		log.Warn("submission rejected", zap.Strings("errors", outcome.Errors))
		result.Status = StatusRejected
		result.Errors = outcome.Errors
		result.Extraction = &rec
		return result, &RejectionError{Path: sub.Path, Outcome: outcome}
	}

	assigned := state.ResolveOrAssign(key, category, p.Now())
	state.SetTitle(key, rec.Title)
	if assigned.IsNew {
		log.Info("assigned identifier", zap.String("id", assigned.ID), zap.String("key", key))
	} else {
		log.Info("reusing identifier", zap.String("id", assigned.ID), zap.String("key", key))
	}

	paper := index.Paper{
		ID:       assigned.ID,
		Title:    rec.Title,
		Authors:  rec.Authors,
		Date:     assigned.Submitted,
		Category: category,
		Slug:     slug,
		Abstract: rec.Abstract,
		PDF:      pdfName,
		Hash:     hash,
	}

	result.ID = paper.ID
	result.Slug = slug
	result.Date = paper.Date
	result.Reused = !assigned.IsNew

	pubErr := p.publish(data, paper, papers, result)
	if err := registry.Save(manifestPath, state); err != nil {
		pubErr = multierr.Append(pubErr, &PartialWriteError{ID: paper.ID, Step: "save registry", Err: err})
	}
	if pubErr != nil {
		log.Error("publication incomplete", zap.String("id", paper.ID), zap.Error(pubErr))
		result.Status = StatusFailed
		result.Errors = []string{pubErr.Error()}
		return result, pubErr
	}

	result.Status = StatusSuccess
	log.Info("published", zap.String("id", paper.ID), zap.String("slug", slug))
	return result, nil
}

// publish writes every artifact for an accepted paper. Each step is a full
// rewrite, so re-running after a failure converges.
func (p *Pipeline) publish(data []byte, paper index.Paper, papers []index.Paper, result *Result) error {
	date, err := time.Parse(registry.DateLayout, paper.Date)
	if err != nil {
		return &PartialWriteError{ID: paper.ID, Step: "stamp", Err: err}
	}

	stamped, err := p.Stamp(data, paper.ID, paper.Category, date)
	if err != nil {
		return &PartialWriteError{ID: paper.ID, Step: "stamp", Err: err}
	}

	papersDir := config.PapersPath(p.Root)
	pdfPath := filepath.Join(site.PaperDir(papersDir, paper), paper.PDF)
	if err := fsutil.WriteFileAtomic(pdfPath, stamped, 0644); err != nil {
		return &PartialWriteError{ID: paper.ID, Step: "write pdf", Err: err}
	}
	result.PDFPath = pdfPath

	landing, err := site.WriteLanding(papersDir, paper, p.siteOptions())
	if err != nil {
		return &PartialWriteError{ID: paper.ID, Step: "landing page", Err: err}
	}
	result.LandingPath = landing

	if err := index.Save(config.IndexPath(p.Root), index.Upsert(papers, paper)); err != nil {
		return &PartialWriteError{ID: paper.ID, Step: "paper index", Err: err}
	}

	if _, err := p.RegenerateSitemap(); err != nil {
		return &PartialWriteError{ID: paper.ID, Step: "sitemap", Err: err}
	}
	return nil
}

// BatchItem is the per-submission outcome of ProcessBatch.
type BatchItem struct {
	Path   string  `json:"path"`
	Result *Result `json:"result,omitempty"`
	Error  string  `json:"error,omitempty"`
}

// ProcessBatch processes submissions in the order given. A failing
// submission does not stop the batch, except for registry or index
// corruption, which aborts it with the items processed so far.
func (p *Pipeline) ProcessBatch(subs []Submission) ([]BatchItem, error) {
	items := make([]BatchItem, 0, len(subs))
	for _, sub := range subs {
		result, err := p.Process(sub)
		if err != nil && IsCorruption(err) {
			return items, err
		}

		item := BatchItem{Path: sub.Path, Result: result}
		if err != nil {
			item.Error = err.Error()
		}
		items = append(items, item)
	}
	return items, nil
}

// RegenerateSitemap rebuilds sitemap.xml from the saved paper index and
// returns the number of papers listed.
func (p *Pipeline) RegenerateSitemap() (int, error) {
	papers, err := index.Load(config.IndexPath(p.Root))
	if err != nil {
		return 0, err
	}

	today := p.Now().Format(registry.DateLayout)
	if err := index.WriteSitemap(config.SitemapPath(p.Root), p.Config.BaseURL, papers, today); err != nil {
		return 0, err
	}
	p.Log.Debug("sitemap regenerated", zap.Int("papers", len(papers)))
	return len(papers), nil
}

// Regenerate rewrites the landing pages of the papers with the given
// identifiers, or of every paper when ids is empty, then the sitemap.
// Stamped PDFs are left alone.
func (p *Pipeline) Regenerate(ids []string) ([]string, error) {
	papers, err := index.Load(config.IndexPath(p.Root))
	if err != nil {
		return nil, err
	}

	targets := papers
	if len(ids) > 0 {
		targets = make([]index.Paper, 0, len(ids))
		for _, id := range ids {
			i, ok := index.FindByID(papers, id)
			if !ok {
				return nil, fmt.Errorf("paper not found: %s", id)
			}
			targets = append(targets, papers[i])
		}
	}

	var written []string
	papersDir := config.PapersPath(p.Root)
	for _, paper := range targets {
		landing, err := site.WriteLanding(papersDir, paper, p.siteOptions())
		if err != nil {
			return written, fmt.Errorf("regenerating %s: %w", paper.ID, err)
		}
		written = append(written, landing)
	}

	if _, err := p.RegenerateSitemap(); err != nil {
		return written, err
	}
	return written, nil
}

func (p *Pipeline) extract(data []byte) (extract.Record, error) {
	doc, err := p.Inspect(data)
	if err != nil {
		return extract.Extract("", "", ""), err
	}
	return extract.Extract(doc.Title, doc.Author, doc.FirstPageText), nil
}

func (p *Pipeline) rules() guardrail.Rules {
	return guardrail.Rules{
		MinTitleLength:   p.Config.MinTitleLength,
		MinAbstractWords: p.Config.MinAbstractWords,
	}
}

func (p *Pipeline) siteOptions() site.Options {
	return site.Options{
		BaseURL:    p.Config.BaseURL,
		Publisher:  p.Config.Publisher,
		LicenseURL: p.Config.LicenseURL,
	}
}
