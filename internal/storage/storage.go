package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dshills/docdex/pkg/types"
)

// ErrNotFound is returned when a requested entity doesn't exist
var ErrNotFound = errors.New("not found")

// Storage is the SQLite-backed index store.
type Storage struct {
	db   *sql.DB
	path string
}

// openDatabase opens a SQLite database with appropriate settings
func openDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	// Single writer: serialise all commits on one connection
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// New opens (creating if necessary) the index store at dbPath and applies
// pending migrations.
func New(dbPath string) (*Storage, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := ApplyMigrations(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return &Storage{db: db, path: dbPath}, nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Storage) Path() string {
	return s.path
}

// GetDocumentByPath retrieves the document keyed by canonical path.
// Returns ErrNotFound when the path has never been indexed.
func (s *Storage) GetDocumentByPath(ctx context.Context, path string) (*types.Document, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT path, id, filename, content_hash, mtime_ns, size_bytes, indexed_at
		FROM documents WHERE path = ?
	`, path)

	return scanDocument(row)
}

// ReplaceDocument atomically supersedes any prior chunk set for the
// document's path with the given one: delete old chunks and index entries,
// upsert the document row (conflict key is the path, so re-ingesting an
// unchanged path never duplicates rows), insert the new chunks and their
// index entries, commit. On error nothing is applied.
func (s *Storage) ReplaceDocument(ctx context.Context, doc *types.Document, chunks []types.Chunk) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM chunks WHERE document_path = ?", doc.Path); err != nil {
		return fmt.Errorf("failed to delete prior chunks: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM chunks_fts WHERE path = ?", doc.Path); err != nil {
		return fmt.Errorf("failed to delete prior index entries: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO documents (path, id, filename, content_hash, mtime_ns, size_bytes, indexed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			id = excluded.id,
			filename = excluded.filename,
			content_hash = excluded.content_hash,
			mtime_ns = excluded.mtime_ns,
			size_bytes = excluded.size_bytes,
			indexed_at = excluded.indexed_at
	`, doc.Path, doc.ID, doc.Filename, doc.ContentHash, doc.MtimeNS, doc.SizeBytes, doc.IndexedAt); err != nil {
		return fmt.Errorf("failed to upsert document: %w", err)
	}

	chunkStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (id, document_id, document_path, page_start, page_end, text)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare chunk insert: %w", err)
	}
	defer func() { _ = chunkStmt.Close() }()

	ftsStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks_fts (chunk_id, document_id, filename, path, page_start, page_end, text)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare index entry insert: %w", err)
	}
	defer func() { _ = ftsStmt.Close() }()

	for i := range chunks {
		c := &chunks[i]
		if _, err := chunkStmt.ExecContext(ctx, c.ID, c.DocumentID, c.DocumentPath, c.PageStart, c.PageEnd, c.Text); err != nil {
			return fmt.Errorf("failed to insert chunk: %w", err)
		}
		if _, err := ftsStmt.ExecContext(ctx, c.ID, c.DocumentID, doc.Filename, doc.Path, c.PageStart, c.PageEnd, c.Text); err != nil {
			return fmt.Errorf("failed to insert index entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

// DeleteDocument removes a document, its chunks and its index entries.
func (s *Storage) DeleteDocument(ctx context.Context, path string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// Chunks cascade from the documents FK; FTS rows are explicit.
	if _, err := tx.ExecContext(ctx, "DELETE FROM chunks_fts WHERE path = ?", path); err != nil {
		return fmt.Errorf("failed to delete index entries: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM documents WHERE path = ?", path); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

// ListDocuments returns documents ordered most-recently-indexed first,
// bounded by limit.
func (s *Storage) ListDocuments(ctx context.Context, limit int) ([]types.Document, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT path, id, filename, content_hash, mtime_ns, size_bytes, indexed_at
		FROM documents
		ORDER BY indexed_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var docs []types.Document
	for rows.Next() {
		var doc types.Document
		var indexedAt time.Time
		if err := rows.Scan(&doc.Path, &doc.ID, &doc.Filename, &doc.ContentHash,
			&doc.MtimeNS, &doc.SizeBytes, &indexedAt); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		doc.IndexedAt = indexedAt
		docs = append(docs, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate documents: %w", err)
	}
	return docs, nil
}

// CountChunks returns the number of chunks owned by the document path.
func (s *Storage) CountChunks(ctx context.Context, path string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM chunks WHERE document_path = ?", path).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count chunks: %w", err)
	}
	return n, nil
}

// scanDocument scans a single document row.
func scanDocument(row *sql.Row) (*types.Document, error) {
	var doc types.Document
	var indexedAt time.Time
	if err := row.Scan(&doc.Path, &doc.ID, &doc.Filename, &doc.ContentHash,
		&doc.MtimeNS, &doc.SizeBytes, &indexedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan document: %w", err)
	}
	doc.IndexedAt = indexedAt
	return &doc, nil
}
