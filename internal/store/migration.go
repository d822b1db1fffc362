package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Migration represents a database schema migration
type Migration struct {
	Version     int
	Description string
	SQL         string
}

// migrations is the ordered list of all archive migrations
var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema with scan batches and generation records",
		SQL: `
CREATE TABLE IF NOT EXISTS scan_batches (
    id TEXT PRIMARY KEY,
    source_dir TEXT NOT NULL,
    schema_version TEXT NOT NULL,
    files INTEGER NOT NULL DEFAULT 0,
    skipped INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS generation_records (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    batch_id TEXT NOT NULL REFERENCES scan_batches(id),
    seq INTEGER NOT NULL,
    run_number INTEGER NOT NULL,
    generation INTEGER NOT NULL,
    code_size_mean TEXT NOT NULL DEFAULT '',
    code_size_median TEXT NOT NULL DEFAULT '',
    unique_behaviors TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_generation_records_batch ON generation_records(batch_id, run_number, generation, seq);
`,
	},
	{
		Version:     2,
		Description: "Add genome-size columns for v3 logs",
		SQL: `
ALTER TABLE generation_records ADD COLUMN genome_size_mean TEXT NOT NULL DEFAULT '';
ALTER TABLE generation_records ADD COLUMN genome_size_median TEXT NOT NULL DEFAULT '';
`,
	},
}

// MigrationVersion is one applied migration
type MigrationVersion struct {
	Version   int
	AppliedAt time.Time
}

// ApplyMigrations applies all pending migrations in a single transaction
func (a *Archive) ApplyMigrations(ctx context.Context) error {
	tx, err := a.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return fmt.Errorf("begin exclusive transaction: %w", err)
	}
	defer tx.Rollback() // no-op if committed

	if _, err := tx.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
)`); err != nil {
		return fmt.Errorf("ensure schema_version table: %w", err)
	}

	applied := make(map[int]bool)
	rows, err := tx.QueryContext(ctx, "SELECT version FROM schema_version")
	if err != nil {
		return fmt.Errorf("get applied versions: %w", err)
	}
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			rows.Close()
			return fmt.Errorf("scan applied version: %w", err)
		}
		applied[v] = true
	}
	rows.Close()

	for _, migration := range migrations {
		if applied[migration.Version] {
			continue
		}
		if _, err := tx.ExecContext(ctx, migration.SQL); err != nil {
			return fmt.Errorf("apply migration %d (%s): %w", migration.Version, migration.Description, err)
		}
		if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", migration.Version); err != nil {
			return fmt.Errorf("record migration %d: %w", migration.Version, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migrations: %w", err)
	}
	return nil
}

// AppliedVersions returns the applied migrations, oldest first
func (a *Archive) AppliedVersions(ctx context.Context) ([]MigrationVersion, error) {
	rows, err := a.db.QueryContext(ctx, "SELECT version, applied_at FROM schema_version ORDER BY version")
	if err != nil {
		return nil, fmt.Errorf("query schema_version: %w", err)
	}
	defer rows.Close()

	var versions []MigrationVersion
	for rows.Next() {
		var v MigrationVersion
		if err := rows.Scan(&v.Version, &v.AppliedAt); err != nil {
			return nil, fmt.Errorf("scan schema_version: %w", err)
		}
		versions = append(versions, v)
	}
	return versions, rows.Err()
}
