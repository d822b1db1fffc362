package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/harrison/genscrape/internal/models"
)

// ErrBatchNotFound is returned when a batch ID is not in the archive
var ErrBatchNotFound = errors.New("batch not found")

// Batch describes one archived scan of a run directory
type Batch struct {
	ID            string
	SourceDir     string
	SchemaVersion string
	Files         int
	Skipped       int
	Records       int
	CreatedAt     time.Time
}

// Archive persists scan batches in SQLite so earlier tables can be re-exported
type Archive struct {
	db     *sql.DB
	dbPath string
}

// OpenArchive opens (creating if needed) the archive database and applies migrations.
// Use ":memory:" for a throwaway database.
func OpenArchive(dbPath string) (*Archive, error) {
	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if dbPath == ":memory:" {
		// every pooled connection would otherwise get its own empty database
		db.SetMaxOpenConns(1)
	}

	pragmas := []string{
		"PRAGMA busy_timeout=5000",
		"PRAGMA journal_mode=WAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	archive := &Archive{db: db, dbPath: dbPath}
	if err := archive.ApplyMigrations(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return archive, nil
}

// Close closes the database connection
func (a *Archive) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

// SaveBatch stores a batch and its records in arrival order.
// An empty batch ID is replaced with a new UUID; the stored ID is returned.
func (a *Archive) SaveBatch(ctx context.Context, batch Batch, records []models.LogRecord) (string, error) {
	if batch.ID == "" {
		batch.ID = uuid.New().String()
	}
	if batch.CreatedAt.IsZero() {
		batch.CreatedAt = time.Now().UTC()
	}

	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO scan_batches (id, source_dir, schema_version, files, skipped, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		batch.ID, batch.SourceDir, batch.SchemaVersion, batch.Files, batch.Skipped, batch.CreatedAt)
	if err != nil {
		return "", fmt.Errorf("insert batch: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO generation_records
		 (batch_id, seq, run_number, generation, code_size_mean, code_size_median,
		  genome_size_mean, genome_size_median, unique_behaviors)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("prepare record insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range records {
		_, err := stmt.ExecContext(ctx, batch.ID, i, r.RunNumber, r.Generation,
			r.CodeSizeMean, r.CodeSizeMedian, r.GenomeSizeMean, r.GenomeSizeMedian, r.UniqueBehaviors)
		if err != nil {
			return "", fmt.Errorf("insert record %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit batch: %w", err)
	}
	return batch.ID, nil
}

const batchSelect = `
SELECT b.id, b.source_dir, b.schema_version, b.files, b.skipped, b.created_at,
       (SELECT COUNT(*) FROM generation_records r WHERE r.batch_id = b.id)
FROM scan_batches b`

// ListBatches returns every batch, newest first
func (a *Archive) ListBatches(ctx context.Context) ([]Batch, error) {
	rows, err := a.db.QueryContext(ctx, batchSelect+" ORDER BY b.created_at DESC, b.id")
	if err != nil {
		return nil, fmt.Errorf("query batches: %w", err)
	}
	defer rows.Close()

	var batches []Batch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, err
		}
		batches = append(batches, *b)
	}
	return batches, rows.Err()
}

// GetBatch returns one batch. A unique ID prefix is accepted.
func (a *Archive) GetBatch(ctx context.Context, id string) (*Batch, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("batch id cannot be empty")
	}

	rows, err := a.db.QueryContext(ctx, batchSelect+" WHERE b.id = ? OR b.id LIKE ? ORDER BY b.id LIMIT 2", id, id+"%")
	if err != nil {
		return nil, fmt.Errorf("query batch: %w", err)
	}
	defer rows.Close()

	var matches []*Batch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, err
		}
		if b.ID == id {
			return b, nil
		}
		matches = append(matches, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrBatchNotFound, id)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("batch id prefix %q is ambiguous", id)
	}
}

// LoadRecords returns a batch's records in their original arrival order
func (a *Archive) LoadRecords(ctx context.Context, batchID string) ([]models.LogRecord, error) {
	rows, err := a.db.QueryContext(ctx,
		`SELECT run_number, generation, code_size_mean, code_size_median,
		        genome_size_mean, genome_size_median, unique_behaviors
		 FROM generation_records WHERE batch_id = ? ORDER BY seq`, batchID)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	records := make([]models.LogRecord, 0)
	for rows.Next() {
		var r models.LogRecord
		if err := rows.Scan(&r.RunNumber, &r.Generation, &r.CodeSizeMean, &r.CodeSizeMedian,
			&r.GenomeSizeMean, &r.GenomeSizeMedian, &r.UniqueBehaviors); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// DeleteBatch removes a batch and its records
func (a *Archive) DeleteBatch(ctx context.Context, batchID string) error {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM generation_records WHERE batch_id = ?", batchID); err != nil {
		return fmt.Errorf("delete records: %w", err)
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM scan_batches WHERE id = ?", batchID)
	if err != nil {
		return fmt.Errorf("delete batch: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrBatchNotFound, batchID)
	}
	return tx.Commit()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBatch(row rowScanner) (*Batch, error) {
	var b Batch
	if err := row.Scan(&b.ID, &b.SourceDir, &b.SchemaVersion, &b.Files, &b.Skipped, &b.CreatedAt, &b.Records); err != nil {
		return nil, fmt.Errorf("scan batch: %w", err)
	}
	return &b, nil
}
