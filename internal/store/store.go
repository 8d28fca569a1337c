// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists Paper records and citation-graph edges in SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/johnmark127/r-kive-sub000/pkg/types"
)

// ErrNotFound is returned when a paper id does not exist.
var ErrNotFound = errors.New("paper not found")

// Store manages the citation-graph SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database at cfg.DBPath and creates the
// schema if it does not exist.
func Open(cfg types.StoreConfig) (*Store, error) {
	if dir := filepath.Dir(cfg.DBPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", cfg.DBPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS papers (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			authors TEXT NOT NULL,
			year_published INTEGER NOT NULL,
			abstract TEXT NOT NULL,
			category TEXT,
			file_url TEXT NOT NULL,
			uploaded_by TEXT,
			extraction_status TEXT NOT NULL,
			citations_extracted INTEGER NOT NULL DEFAULT 0,
			citations_extracted_at TEXT,
			created_at TEXT NOT NULL
		)`,
		// No uniqueness on (citing, cited): repeated processing of the
		// same paper may insert duplicate edges.
		`CREATE TABLE IF NOT EXISTS citations (
			citing_paper_id TEXT NOT NULL REFERENCES papers(id),
			cited_paper_id TEXT NOT NULL REFERENCES papers(id),
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_citations_citing ON citations(citing_paper_id)`,
		`CREATE INDEX IF NOT EXISTS idx_citations_cited ON citations(cited_paper_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// CreatePaper inserts a new paper record. The bibliographic columns are
// written here and nowhere else.
func (s *Store) CreatePaper(ctx context.Context, p *types.Paper) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO papers (id, title, authors, year_published, abstract,
			category, file_url, uploaded_by, extraction_status,
			citations_extracted, citations_extracted_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Title, p.Authors, p.YearPublished, p.Abstract,
		p.Category, p.FileURL, p.UploadedBy, string(p.ExtractionStatus),
		boolToInt(p.CitationsExtracted), timePtrString(p.CitationsExtractedAt),
		p.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("inserting paper %s: %w", p.ID, err)
	}
	return nil
}

// GetPaper returns the paper with the given id, or ErrNotFound.
func (s *Store) GetPaper(ctx context.Context, id string) (*types.Paper, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, authors, year_published, abstract, category,
			file_url, uploaded_by, extraction_status, citations_extracted,
			citations_extracted_at, created_at
		 FROM papers WHERE id = ?`, id)
	p, err := scanPaper(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying paper %s: %w", id, err)
	}
	return p, nil
}

// ResetForRetry puts an existing paper back into the processing state.
// Only the processing columns change; bibliographic columns are untouched.
func (s *Store) ResetForRetry(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE papers SET extraction_status = ?, citations_extracted = 0,
			citations_extracted_at = NULL
		 WHERE id = ?`,
		string(types.StatusProcessing), id)
	if err != nil {
		return fmt.Errorf("resetting paper %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("resetting paper %s: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListCandidates returns every stored paper except excludeID, ordered by
// creation time. The excluded id is the paper currently being processed,
// so an edge can never point at its own source.
func (s *Store) ListCandidates(ctx context.Context, excludeID string) ([]types.Paper, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, authors, year_published, abstract, category,
			file_url, uploaded_by, extraction_status, citations_extracted,
			citations_extracted_at, created_at
		 FROM papers WHERE id != ? ORDER BY created_at`, excludeID)
	if err != nil {
		return nil, fmt.Errorf("querying candidates: %w", err)
	}
	defer rows.Close()

	var papers []types.Paper
	for rows.Next() {
		p, err := scanPaper(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning candidate: %w", err)
		}
		papers = append(papers, *p)
	}
	return papers, rows.Err()
}

// InsertCitation writes one directed edge of the citation graph.
func (s *Store) InsertCitation(ctx context.Context, citingID, citedID string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO citations (citing_paper_id, cited_paper_id, created_at)
		 VALUES (?, ?, ?)`,
		citingID, citedID, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("inserting citation %s -> %s: %w", citingID, citedID, err)
	}
	return nil
}

// ListCitations returns all edges originating at citingID.
func (s *Store) ListCitations(ctx context.Context, citingID string) ([]types.Citation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT citing_paper_id, cited_paper_id, created_at
		 FROM citations WHERE citing_paper_id = ? ORDER BY created_at`, citingID)
	if err != nil {
		return nil, fmt.Errorf("querying citations for %s: %w", citingID, err)
	}
	defer rows.Close()

	var edges []types.Citation
	for rows.Next() {
		var c types.Citation
		var created string
		if err := rows.Scan(&c.CitingPaperID, &c.CitedPaperID, &created); err != nil {
			return nil, fmt.Errorf("scanning citation: %w", err)
		}
		c.CreatedAt = parseTime(created)
		edges = append(edges, c)
	}
	return edges, rows.Err()
}

// CountCitations returns the number of edges originating at citingID.
func (s *Store) CountCitations(ctx context.Context, citingID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM citations WHERE citing_paper_id = ?`, citingID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting citations for %s: %w", citingID, err)
	}
	return n, nil
}

// FinalizeStatus drives the paper into a terminal state. The extraction
// flag and timestamp are stamped only on the completed_* transitions.
func (s *Store) FinalizeStatus(ctx context.Context, id string, status types.ExtractionStatus) error {
	extracted := status == types.StatusCompletedWithCitations ||
		status == types.StatusCompletedNoCitations

	var stampedAt any
	if extracted {
		stampedAt = time.Now().UTC().Format(time.RFC3339Nano)
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE papers SET extraction_status = ?, citations_extracted = ?,
			citations_extracted_at = ?
		 WHERE id = ?`,
		string(status), boolToInt(extracted), stampedAt, id)
	if err != nil {
		return fmt.Errorf("finalizing paper %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finalizing paper %s: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanPaper(sc scanner) (*types.Paper, error) {
	var p types.Paper
	var status, created string
	var extracted int
	var category, uploadedBy, extractedAt sql.NullString

	err := sc.Scan(&p.ID, &p.Title, &p.Authors, &p.YearPublished, &p.Abstract,
		&category, &p.FileURL, &uploadedBy, &status, &extracted,
		&extractedAt, &created)
	if err != nil {
		return nil, err
	}

	p.Category = category.String
	p.UploadedBy = uploadedBy.String
	p.ExtractionStatus = types.ExtractionStatus(status)
	p.CitationsExtracted = extracted != 0
	if extractedAt.Valid && extractedAt.String != "" {
		t := parseTime(extractedAt.String)
		p.CitationsExtractedAt = &t
	}
	p.CreatedAt = parseTime(created)
	return &p, nil
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func timePtrString(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339Nano)
}
