// Package storage provides the SQLite query cache over the published paper index.
// The cache is disposable: it is rebuilt from data/papers.yml on demand and
// never written back.
package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/corpxiv/corpxiv/internal/index"
	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection.
type DB struct {
	db *sql.DB
}

// selectPaperFields contains the standard field list for SELECT queries.
const selectPaperFields = `id, title, authors_json, date, category, slug, abstract, pdf, hash`

// OpenDB opens or creates a SQLite database at the given path.
func OpenDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS papers (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			authors_json TEXT NOT NULL,
			date TEXT NOT NULL,
			category TEXT NOT NULL,
			slug TEXT NOT NULL,
			abstract TEXT,
			pdf TEXT,
			hash TEXT,
			position INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_papers_category ON papers(category);
		CREATE INDEX IF NOT EXISTS idx_papers_hash ON papers(hash) WHERE hash IS NOT NULL AND hash != '';

		-- Standalone full-text table, filled alongside papers
		CREATE VIRTUAL TABLE IF NOT EXISTS papers_fts USING fts5(
			id,
			title,
			abstract,
			authors_text,
			category
		);
	`

	_, err := db.Exec(schema)
	return err
}

// RebuildFromIndex clears the database and rebuilds it from the paper index file.
func (d *DB) RebuildFromIndex(indexPath string) (int, error) {
	papers, err := index.Load(indexPath)
	if err != nil {
		return 0, err
	}
	return d.Rebuild(papers)
}

// Rebuild replaces the cache contents with papers, keeping their order.
func (d *DB) Rebuild(papers []index.Paper) (int, error) {
	tx, err := d.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM papers"); err != nil {
		return 0, fmt.Errorf("clearing papers table: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM papers_fts"); err != nil {
		return 0, fmt.Errorf("clearing papers_fts table: %w", err)
	}

	papersStmt, err := tx.Prepare(`
		INSERT INTO papers (id, title, authors_json, date, category, slug, abstract, pdf, hash, position)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing papers insert: %w", err)
	}
	defer papersStmt.Close()

	ftsStmt, err := tx.Prepare(`
		INSERT INTO papers_fts (id, title, abstract, authors_text, category)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing fts insert: %w", err)
	}
	defer ftsStmt.Close()

	for i, p := range papers {
		authors := p.Authors
		if authors == nil {
			authors = []string{}
		}
		authorsJSON, err := json.Marshal(authors)
		if err != nil {
			return 0, fmt.Errorf("marshaling authors for %s: %w", p.ID, err)
		}

		// INSERT OR REPLACE would hide duplicate IDs in the index
		_, err = papersStmt.Exec(
			p.ID, p.Title, string(authorsJSON), p.Date, p.Category, p.Slug,
			nullableString(p.Abstract), nullableString(p.PDF), nullableString(p.Hash), i,
		)
		if err != nil {
			return 0, fmt.Errorf("inserting paper %s: %w", p.ID, err)
		}

		_, err = ftsStmt.Exec(p.ID, p.Title, p.Abstract, strings.Join(p.Authors, ", "), p.Category)
		if err != nil {
			return 0, fmt.Errorf("inserting fts for %s: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing rebuild: %w", err)
	}
	return len(papers), nil
}

// GetByID retrieves a paper by its identifier. Returns nil when absent.
func (d *DB) GetByID(id string) (*index.Paper, error) {
	row := d.db.QueryRow(`SELECT `+selectPaperFields+` FROM papers WHERE id = ?`, id)
	return scanPaper(row)
}

// GetBySlug retrieves a paper by category and slug. Returns nil when absent.
func (d *DB) GetBySlug(category, slug string) (*index.Paper, error) {
	row := d.db.QueryRow(`SELECT `+selectPaperFields+` FROM papers WHERE category = ? AND slug = ?`, category, slug)
	return scanPaper(row)
}

// Search performs a full-text search and returns matching papers, newest first.
func (d *DB) Search(query string, limit int) ([]index.Paper, error) {
	return d.SearchWithFilters(SearchFilters{Keyword: query}, limit)
}

// SearchFilters contains optional filters for SearchWithFilters.
type SearchFilters struct {
	Keyword  string // across title, abstract, authors
	Title    string // title only (FTS)
	Author   string // prefix match on author names (FTS)
	Category string // exact match (SQL)
}

// SearchWithFilters returns papers matching ALL specified criteria.
func (d *DB) SearchWithFilters(filters SearchFilters, limit int) ([]index.Paper, error) {
	var ftsTerms []string
	var args []interface{}

	if filters.Keyword != "" {
		ftsTerms = append(ftsTerms, prepareFTSQuery(filters.Keyword))
	}
	if filters.Title != "" {
		ftsTerms = append(ftsTerms, "title:"+prepareFTSQuery(filters.Title))
	}
	if filters.Author != "" {
		ftsTerms = append(ftsTerms, "authors_text:"+prepareAuthorQuery(filters.Author))
	}

	var query string
	if len(ftsTerms) > 0 {
		query = `SELECT ` + selectPaperFields + `
			FROM papers
			WHERE id IN (SELECT id FROM papers_fts WHERE papers_fts MATCH ?)`
		args = append(args, strings.Join(ftsTerms, " AND "))
	} else {
		query = `SELECT ` + selectPaperFields + ` FROM papers WHERE 1=1`
	}

	if filters.Category != "" {
		query += " AND category = ?"
		args = append(args, filters.Category)
	}

	query += " ORDER BY position"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("searching: %w", err)
	}
	defer rows.Close()

	return scanPapers(rows)
}

// prepareAuthorQuery prepares an author name for FTS5 prefix matching,
// so "Tim" matches "Timothy".
func prepareAuthorQuery(author string) string {
	parts := strings.Fields(author)
	if len(parts) == 0 {
		return ""
	}

	var terms []string
	for _, part := range parts {
		escaped := strings.ReplaceAll(part, "\"", "\"\"")
		terms = append(terms, "\""+escaped+"\"*")
	}

	return "(" + strings.Join(terms, " OR ") + ")"
}

// ListAll returns papers in index order (newest first), optionally limited.
func (d *DB) ListAll(limit int) ([]index.Paper, error) {
	query := `SELECT ` + selectPaperFields + ` FROM papers ORDER BY position`
	var args []interface{}

	if limit > 0 {
		query += " LIMIT ?"
		args = []interface{}{limit}
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing papers: %w", err)
	}
	defer rows.Close()

	return scanPapers(rows)
}

// CategoryCount is the number of papers in one category.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// Categories returns paper counts per category, alphabetically.
func (d *DB) Categories() ([]CategoryCount, error) {
	rows, err := d.db.Query(`SELECT category, COUNT(*) FROM papers GROUP BY category ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("counting categories: %w", err)
	}
	defer rows.Close()

	var counts []CategoryCount
	for rows.Next() {
		var c CategoryCount
		if err := rows.Scan(&c.Category, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// Count returns the total number of papers.
func (d *DB) Count() (int, error) {
	var count int
	err := d.db.QueryRow("SELECT COUNT(*) FROM papers").Scan(&count)
	return count, err
}

// scanner interface for sql.Row and sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanPaper(s scanner) (*index.Paper, error) {
	var p index.Paper
	var authorsJSON string
	var abstract, pdfName, hash sql.NullString

	err := s.Scan(&p.ID, &p.Title, &authorsJSON, &p.Date, &p.Category, &p.Slug, &abstract, &pdfName, &hash)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	p.Abstract = abstract.String
	p.PDF = pdfName.String
	p.Hash = hash.String

	if err := json.Unmarshal([]byte(authorsJSON), &p.Authors); err != nil {
		return nil, fmt.Errorf("parsing authors JSON for %s: %w", p.ID, err)
	}

	return &p, nil
}

func scanPapers(rows *sql.Rows) ([]index.Paper, error) {
	var papers []index.Paper
	for rows.Next() {
		p, err := scanPaper(rows)
		if err != nil {
			return nil, err
		}
		if p != nil {
			papers = append(papers, *p)
		}
	}
	return papers, rows.Err()
}

// nullableString converts a string to sql.NullString, treating empty as NULL.
func nullableString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// prepareFTSQuery escapes special characters for FTS5 queries.
func prepareFTSQuery(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return query
	}

	// FTS5 uses double quotes for phrase matching
	if strings.ContainsAny(query, "\"*+-:(){}[]^~.") {
		query = strings.ReplaceAll(query, "\"", "\"\"")
		return "\"" + query + "\""
	}

	return query
}
