package cache

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// SQLiteFile is the database file created inside the configured directory.
const SQLiteFile = "webcrawler.db"

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS crawled_domains (
	domain     TEXT PRIMARY KEY,
	crawled_at TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS crawled_urls (
	domain TEXT NOT NULL REFERENCES crawled_domains(domain) ON DELETE CASCADE,
	url    TEXT NOT NULL,
	PRIMARY KEY (domain, url)
);`

// SQLite stores url sets in a local SQLite database. A domain is present
// once a row exists in crawled_domains, even before its urls are read.
type SQLite struct {
	db     *sql.DB
	dbPath string
}

// NewSQLite opens (and creates if needed) the database in dir.
func NewSQLite(dir string) (*SQLite, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	dbPath := filepath.Join(dir, SQLiteFile)

	db, err := sql.Open("sqlite", dbPath+"?mode=rwc")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// a single connection serializes writers and keeps the pragmas below in effect
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA foreign_keys=ON", "PRAGMA busy_timeout=5000"} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to set %q: %w", pragma, err)
		}
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &SQLite{db: db, dbPath: dbPath}, nil
}

// Path returns the database file path.
func (s *SQLite) Path() string {
	return s.dbPath
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) Get(ctx context.Context, key string) ([]string, bool, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM crawled_domains WHERE domain = ?`, key).Scan(&exists)
	if err != nil {
		return nil, false, err
	}
	if exists == 0 {
		return nil, false, nil
	}

	rows, err := s.db.QueryContext(ctx, `SELECT url FROM crawled_urls WHERE domain = ? ORDER BY url`, key)
	if err != nil {
		return nil, false, err
	}
	defer rows.Close()

	urls := make([]string, 0)
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, false, err
		}
		urls = append(urls, u)
	}
	if err := rows.Err(); err != nil {
		return nil, false, err
	}
	return urls, true, nil
}

// Put adds urls to the set of key and refreshes its crawl time.
func (s *SQLite) Put(ctx context.Context, key string, urls []string) error {
	if len(urls) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO crawled_domains (domain, crawled_at) VALUES (?, ?)
		 ON CONFLICT(domain) DO UPDATE SET crawled_at = excluded.crawled_at`,
		key, time.Now().UTC())
	if err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO crawled_urls (domain, url) VALUES (?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, u := range urls {
		if _, err := stmt.ExecContext(ctx, key, u); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLite) Len(ctx context.Context, key string) (int, bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM crawled_urls WHERE domain = ?`, key).Scan(&n)
	if err != nil {
		return 0, false, err
	}
	return n, n > 0, nil
}
