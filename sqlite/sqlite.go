// Package sqlite provides SQLite-based storage implementations for the
// servir services.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// DB represents a SQLite database connection.
type DB struct {
	db   *sql.DB
	path string
}

// NewDB creates a new DB instance with the given path.
// Use ":memory:" for an in-memory database.
func NewDB(path string) *DB {
	return &DB{path: path}
}

// Open opens the database connection and creates the schema if needed.
func (db *DB) Open() error {
	conn, err := sql.Open("sqlite3", db.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit to one connection.
	conn.SetMaxOpenConns(1)

	// Verify connection
	if err := conn.Ping(); err != nil {
		conn.Close()
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Set busy timeout to wait 5 seconds before failing on lock contention.
	// This prevents immediate "database is locked" errors.
	if _, err := conn.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		conn.Close()
		return fmt.Errorf("failed to set busy timeout: %w", err)
	}

	// Enable WAL mode for file-based databases for better write performance.
	// Note: WAL mode is not supported for in-memory databases.
	if db.path != ":memory:" {
		if _, err := conn.Exec("PRAGMA journal_mode = WAL"); err != nil {
			conn.Close()
			return fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	// Enable foreign key constraints
	if _, err := conn.Exec("PRAGMA foreign_keys = ON"); err != nil {
		conn.Close()
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	db.db = conn

	// Create schema
	if err := db.createSchema(); err != nil {
		conn.Close()
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	if db.db != nil {
		return db.db.Close()
	}
	return nil
}

// QueryRowContext executes a query that returns a single row.
func (db *DB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return db.db.QueryRowContext(ctx, query, args...)
}

// QueryContext executes a query that returns rows.
func (db *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return db.db.QueryContext(ctx, query, args...)
}

// ExecContext executes a statement that doesn't return rows.
func (db *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return db.db.ExecContext(ctx, query, args...)
}

// Stats returns database statistics.
func (db *DB) Stats() sql.DBStats {
	return db.db.Stats()
}

// createSchema creates the database tables if they don't exist. The raw and
// normalized stages each have a complete and an incomplete table; the
// incomplete tables carry review bookkeeping. The UNIQUE constraint on
// posting_unique_id is the correctness backstop for duplicate detection.
func (db *DB) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS job_postings (
			id TEXT PRIMARY KEY,
			posting_unique_id TEXT UNIQUE NOT NULL,
			institution TEXT NOT NULL DEFAULT '',
			job_title TEXT NOT NULL DEFAULT '',
			posting_start_date TEXT NOT NULL DEFAULT '',
			posting_end_date TEXT NOT NULL DEFAULT '',
			monthly_salary TEXT NOT NULL DEFAULT '',
			number_of_vacancies TEXT NOT NULL DEFAULT '',
			contract_type_raw TEXT NOT NULL DEFAULT '',
			experience_requirements TEXT NOT NULL DEFAULT '',
			academic_profile TEXT NOT NULL DEFAULT '',
			specialization TEXT NOT NULL DEFAULT '',
			knowledge TEXT NOT NULL DEFAULT '',
			competencies TEXT NOT NULL DEFAULT '',
			content_hash TEXT NOT NULL DEFAULT '',
			scraped_at TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS job_postings_incomplete (
			id TEXT PRIMARY KEY,
			posting_unique_id TEXT UNIQUE NOT NULL,
			institution TEXT NOT NULL DEFAULT '',
			job_title TEXT NOT NULL DEFAULT '',
			posting_start_date TEXT NOT NULL DEFAULT '',
			posting_end_date TEXT NOT NULL DEFAULT '',
			monthly_salary TEXT NOT NULL DEFAULT '',
			number_of_vacancies TEXT NOT NULL DEFAULT '',
			contract_type_raw TEXT NOT NULL DEFAULT '',
			experience_requirements TEXT NOT NULL DEFAULT '',
			academic_profile TEXT NOT NULL DEFAULT '',
			specialization TEXT NOT NULL DEFAULT '',
			knowledge TEXT NOT NULL DEFAULT '',
			competencies TEXT NOT NULL DEFAULT '',
			content_hash TEXT NOT NULL DEFAULT '',
			missing_fields TEXT NOT NULL,
			reviewed INTEGER NOT NULL DEFAULT 0,
			scraped_at TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS normalized_jobs (
			id TEXT PRIMARY KEY,
			posting_unique_id TEXT UNIQUE NOT NULL,
			institution TEXT,
			job_title TEXT,
			posting_start_date TEXT,
			posting_end_date TEXT,
			salary_amount REAL,
			number_of_vacancies INTEGER,
			contract_type TEXT,
			contract_regime TEXT,
			contract_temporal_nature TEXT,
			experience_requirements TEXT,
			academic_profile TEXT,
			specialization TEXT,
			knowledge TEXT,
			competencies TEXT,
			scraped_at TEXT NOT NULL,
			normalized_at TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS normalized_jobs_incomplete (
			id TEXT PRIMARY KEY,
			posting_unique_id TEXT UNIQUE NOT NULL,
			institution TEXT,
			job_title TEXT,
			posting_start_date TEXT,
			posting_end_date TEXT,
			salary_amount REAL,
			number_of_vacancies INTEGER,
			contract_type TEXT,
			contract_regime TEXT,
			contract_temporal_nature TEXT,
			experience_requirements TEXT,
			academic_profile TEXT,
			specialization TEXT,
			knowledge TEXT,
			competencies TEXT,
			failed_fields TEXT NOT NULL,
			reviewed INTEGER NOT NULL DEFAULT 0,
			scraped_at TEXT NOT NULL,
			normalized_at TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS taxonomy_categories (
			code TEXT PRIMARY KEY,
			label TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS taxonomy_embeddings (
			code TEXT PRIMARY KEY REFERENCES taxonomy_categories(code) ON DELETE CASCADE,
			vector BLOB NOT NULL,
			created_at TEXT NOT NULL
		);
	`

	_, err := db.db.Exec(schema)
	return err
}
