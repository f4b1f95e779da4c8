package database

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/themizzi/saucecheck/internal/config"
)

const createTables = `
	CREATE TABLE IF NOT EXISTS runs (
		id {{uuid}} PRIMARY KEY,
		base_url VARCHAR(1024) NOT NULL,
		driver VARCHAR(32) NOT NULL,
		tag_filter VARCHAR(255) NOT NULL DEFAULT '',
		status VARCHAR(32) NOT NULL,
		passed INTEGER NOT NULL DEFAULT 0,
		failed INTEGER NOT NULL DEFAULT 0,
		skipped INTEGER NOT NULL DEFAULT 0,
		started_at TIMESTAMP NOT NULL,
		finished_at TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS results (
		id {{uuid}} PRIMARY KEY,
		run_id {{uuid}} NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		group_name VARCHAR(255) NOT NULL,
		name VARCHAR(255) NOT NULL,
		tags VARCHAR(255) NOT NULL DEFAULT '',
		outcome VARCHAR(32) NOT NULL,
		message TEXT NOT NULL DEFAULT '',
		duration_ms BIGINT NOT NULL DEFAULT 0,
		screenshot VARCHAR(1024) NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
	CREATE INDEX IF NOT EXISTS idx_results_run_id ON results(run_id);
	CREATE INDEX IF NOT EXISTS idx_results_outcome ON results(outcome);
`

// Schema returns the DDL for the given results driver
func Schema(driver string) (string, error) {
	switch driver {
	case config.ResultsPostgres:
		return strings.ReplaceAll(createTables, "{{uuid}}", "UUID"), nil
	case config.ResultsSQLite:
		return strings.ReplaceAll(createTables, "{{uuid}}", "TEXT"), nil
	default:
		return "", fmt.Errorf("unknown results driver %q", driver)
	}
}

// RunMigrations creates the runs and results tables
func RunMigrations(db *sql.DB, driver string) error {
	if db == nil {
		return fmt.Errorf("database connection not initialized")
	}

	schema, err := Schema(driver)
	if err != nil {
		return err
	}

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create results tables: %w", err)
	}

	return nil
}
