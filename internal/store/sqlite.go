// Package store provides the local SQLite page store.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"pagesync/internal/models"
)

// Store errors.
var (
	// ErrSourceUnavailable indicates the local database cannot be opened or read.
	ErrSourceUnavailable = errors.New("source database unavailable")
	// ErrSchemaMismatch indicates the pages table is missing expected columns.
	ErrSchemaMismatch = errors.New("pages table schema mismatch")
)

const schema = `
CREATE TABLE IF NOT EXISTS pages(
  url        TEXT PRIMARY KEY,
  title      TEXT,
  markdown   TEXT,
  crawled_at INTEGER
);`

// Store wraps a SQLite pages database.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (creating if necessary) the pages database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}

	return &Store{db: db, path: path}, nil
}

// OpenReadOnly opens an existing pages database without creating it.
// A missing file is reported as ErrSourceUnavailable.
func OpenReadOnly(path string) (*Store, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}

	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?mode=ro", path))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}

	return &Store{db: db, path: path}, nil
}

// Init creates the pages table if it does not exist.
func (s *Store) Init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create pages table: %w", err)
	}

	return nil
}

// FetchAll materializes every page row in iteration order.
// Iteration order is whatever SQLite returns for an unordered scan and is
// not guaranteed stable across runs.
func (s *Store) FetchAll(ctx context.Context) ([]models.Page, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT url, title, markdown, crawled_at FROM pages")
	if err != nil {
		if isSchemaError(err) {
			return nil, fmt.Errorf("%w: %v", ErrSchemaMismatch, err)
		}

		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	defer rows.Close()

	var pages []models.Page

	for rows.Next() {
		var (
			p         models.Page
			title     sql.NullString
			markdown  sql.NullString
			crawledAt sql.NullInt64
		)

		if err := rows.Scan(&p.URL, &title, &markdown, &crawledAt); err != nil {
			return nil, fmt.Errorf("failed to scan page row: %w", err)
		}

		p.Title = title.String
		p.Markdown = markdown.String
		p.CrawledAt = crawledAt.Int64
		pages = append(pages, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}

	return pages, nil
}

// UpsertPage inserts a page, replacing any existing row with the same URL.
func (s *Store) UpsertPage(ctx context.Context, p models.Page) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO pages (url, title, markdown, crawled_at) VALUES (?, ?, ?, ?)",
		p.URL, p.Title, p.Markdown, p.CrawledAt)
	if err != nil {
		return fmt.Errorf("failed to upsert page %s: %w", p.URL, err)
	}

	return nil
}

// Count returns the number of stored pages.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM pages").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count pages: %w", err)
	}

	return n, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// isSchemaError reports whether err looks like a missing table or column.
func isSchemaError(err error) bool {
	msg := err.Error()

	return strings.Contains(msg, "no such table") || strings.Contains(msg, "no such column")
}
