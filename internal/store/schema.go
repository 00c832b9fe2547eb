package store

import (
	"context"
	"database/sql"
	"fmt"
)

// SchemaVersion is the current schema version.
const SchemaVersion = 1

// schemaV1 is the initial schema. Records are stored as JSON payloads
// with the columns the query paths filter and sort on pulled out.
const schemaV1 = `
-- One row per shown intervention, pending until the outcome arrives
CREATE TABLE IF NOT EXISTS intervention_results (
    id TEXT PRIMARY KEY,
    app_package TEXT NOT NULL,
    shown_at TEXT NOT NULL,
    resolved INTEGER NOT NULL DEFAULT 0,
    payload TEXT NOT NULL  -- JSON
);
CREATE INDEX IF NOT EXISTS idx_results_shown_at ON intervention_results(shown_at);
CREATE INDEX IF NOT EXISTS idx_results_app ON intervention_results(app_package, shown_at);

-- One row per evaluation, SHOW or SKIP
CREATE TABLE IF NOT EXISTS decision_explanations (
    id TEXT PRIMARY KEY,
    evaluated_at TEXT NOT NULL,
    app_package TEXT NOT NULL,
    decision TEXT NOT NULL,
    reason TEXT NOT NULL,
    payload TEXT NOT NULL  -- JSON
);
CREATE INDEX IF NOT EXISTS idx_explanations_evaluated ON decision_explanations(evaluated_at);

-- Completed sessions of monitored apps
CREATE TABLE IF NOT EXISTS usage_sessions (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    app_package TEXT NOT NULL,
    started_at TEXT NOT NULL,
    duration_ns INTEGER NOT NULL,
    quick_reopen INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_sessions_started ON usage_sessions(started_at);

-- Key/value metadata (install time, learner state)
CREATE TABLE IF NOT EXISTS meta (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

-- Schema version
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TEXT NOT NULL
);
`

// InitSchema creates tables on a fresh database and applies migrations
// on an existing one. Existing databases are integrity-checked first.
func InitSchema(ctx context.Context, db *sql.DB) error {
	currentVersion, err := getSchemaVersion(ctx, db)
	if err != nil {
		// Schema version table doesn't exist yet, create fresh schema
		if err := createSchema(ctx, db); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
		return nil
	}

	if err := ValidateIntegrity(ctx, db); err != nil {
		return fmt.Errorf("database integrity check failed: %w", err)
	}

	if currentVersion < SchemaVersion {
		if err := migrateSchema(ctx, db, currentVersion); err != nil {
			return fmt.Errorf("failed to migrate schema: %w", err)
		}
	}

	return nil
}

func getSchemaVersion(ctx context.Context, db *sql.DB) (int, error) {
	var version int
	err := db.QueryRowContext(ctx, `SELECT MAX(version) FROM schema_version`).Scan(&version)
	if err != nil {
		return 0, err
	}
	return version, nil
}

func createSchema(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, schemaV1); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO schema_version (version, applied_at) VALUES (?, datetime('now'))`,
		SchemaVersion); err != nil {
		return fmt.Errorf("failed to record schema version: %w", err)
	}

	return tx.Commit()
}

// migrateSchema applies migrations from currentVersion to SchemaVersion.
func migrateSchema(ctx context.Context, db *sql.DB, currentVersion int) error {
	// Only one version so far. Migrations for v2 go here.
	_ = currentVersion
	return nil
}

// ValidateIntegrity runs PRAGMA integrity_check and fails on any report
// other than "ok".
func ValidateIntegrity(ctx context.Context, db *sql.DB) error {
	rows, err := db.QueryContext(ctx, `PRAGMA integrity_check`)
	if err != nil {
		return fmt.Errorf("failed to run integrity_check: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var result string
		if err := rows.Scan(&result); err != nil {
			return fmt.Errorf("failed to scan integrity_check result: %w", err)
		}
		if result != "ok" {
			return fmt.Errorf("integrity_check failed: %s", result)
		}
	}
	return rows.Err()
}
