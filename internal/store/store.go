// Package store persists finished batches and their per-file extraction
// results to SQLite.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/amara-obi/docpipe/internal/document"
)

// Schema for the batch log. Applied on Open.
const Schema = `
CREATE TABLE IF NOT EXISTS batches (
	id TEXT PRIMARY KEY,
	created_at INTEGER NOT NULL,
	file_count INTEGER NOT NULL,
	corpus_bytes INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS file_results (
	batch_id TEXT NOT NULL REFERENCES batches(id),
	position INTEGER NOT NULL,
	file_name TEXT NOT NULL,
	file_type TEXT,
	content_bytes INTEGER NOT NULL,
	ocr_confidence REAL,
	error_kind TEXT,
	error_message TEXT,
	PRIMARY KEY (batch_id, position)
);
CREATE INDEX IF NOT EXISTS idx_file_results_batch ON file_results(batch_id);
`

// BatchSummary is one row of the batch log.
type BatchSummary struct {
	ID          uuid.UUID
	CreatedAt   time.Time
	FileCount   int
	CorpusBytes int
}

// FileRecord is one persisted per-file outcome.
type FileRecord struct {
	BatchID      uuid.UUID
	Position     int
	FileName     string
	FileType     string
	ContentBytes int
	Confidence   float64
	ErrorKind    string
	ErrorMessage string
}

// Store is an append-only batch/result log over SQLite.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens (or creates) the SQLite database at path and applies Schema.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", path, err)
	}
	if _, err := db.Exec(Schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db, logger: logger}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SaveBatch writes the batch header and every entry in one transaction.
func (s *Store) SaveBatch(ctx context.Context, corpus *document.Corpus) error {
	start := time.Now()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO batches (id, created_at, file_count, corpus_bytes) VALUES (?, ?, ?, ?)`,
		corpus.ID.String(), time.Now().UTC().Unix(), len(corpus.Entries), len(corpus.Text))
	if err != nil {
		return fmt.Errorf("insert batch: %w", err)
	}

	for i, e := range corpus.Entries {
		var kind, msg string
		if e.Result.Err != nil {
			kind = string(e.Result.Err.Kind)
			msg = e.Result.Err.Message
		}
		var conf float64
		if v, ok := e.Result.Meta("ocr_confidence").(float64); ok {
			conf = v
		}
		fileType, _ := e.Result.Meta("file_type").(string)

		_, err = tx.ExecContext(ctx,
			`INSERT INTO file_results
			 (batch_id, position, file_name, file_type, content_bytes, ocr_confidence, error_kind, error_message)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			corpus.ID.String(), i, e.Name, fileType, len(e.Result.Content), conf, kind, msg)
		if err != nil {
			return fmt.Errorf("insert file result %q: %w", e.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}
	s.logger.Debug("store.batch.saved",
		"batch_id", corpus.ID, "files", len(corpus.Entries),
		"duration_ms", time.Since(start).Milliseconds())
	return nil
}

// ListBatches returns batch summaries, newest first.
func (s *Store) ListBatches(ctx context.Context) ([]BatchSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, file_count, corpus_bytes FROM batches ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query batches: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []BatchSummary
	for rows.Next() {
		var b BatchSummary
		var id string
		var created int64
		if err := rows.Scan(&id, &created, &b.FileCount, &b.CorpusBytes); err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		b.ID, err = uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("parse batch id %q: %w", id, err)
		}
		b.CreatedAt = time.Unix(created, 0).UTC()
		out = append(out, b)
	}
	return out, rows.Err()
}

// BatchResults returns the per-file records of one batch in position order.
func (s *Store) BatchResults(ctx context.Context, batchID uuid.UUID) ([]FileRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT position, file_name, file_type, content_bytes, ocr_confidence, error_kind, error_message
		 FROM file_results WHERE batch_id = ? ORDER BY position`,
		batchID.String())
	if err != nil {
		return nil, fmt.Errorf("query file results: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []FileRecord
	for rows.Next() {
		r := FileRecord{BatchID: batchID}
		if err := rows.Scan(&r.Position, &r.FileName, &r.FileType, &r.ContentBytes,
			&r.Confidence, &r.ErrorKind, &r.ErrorMessage); err != nil {
			return nil, fmt.Errorf("scan file result: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
