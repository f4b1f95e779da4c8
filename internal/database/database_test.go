package database

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/themizzi/saucecheck/internal/config"
)

func TestSchema(t *testing.T) {
	tests := []struct {
		name     string
		driver   string
		wantType string
		wantErr  bool
	}{
		{name: "postgres uses UUID columns", driver: config.ResultsPostgres, wantType: "id UUID PRIMARY KEY"},
		{name: "sqlite uses TEXT columns", driver: config.ResultsSQLite, wantType: "id TEXT PRIMARY KEY"},
		{name: "unknown driver", driver: "mysql", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schema, err := Schema(tt.driver)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Schema() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if !strings.Contains(schema, tt.wantType) {
				t.Errorf("expected schema to contain %q", tt.wantType)
			}
			if strings.Contains(schema, "{{uuid}}") {
				t.Error("schema still contains a placeholder")
			}
		})
	}
}

func TestOpen_UnknownDriver(t *testing.T) {
	if _, err := Open("mysql", "dsn"); err == nil {
		t.Error("expected error for unknown driver")
	}
}

func TestOpenConfig_SQLite(t *testing.T) {
	cfg := &config.ResultsConfig{
		Driver: config.ResultsSQLite,
		DSN:    filepath.Join(t.TempDir(), "results.db"),
	}

	db, err := OpenConfig(cfg)
	if err != nil {
		t.Fatalf("Failed to open sqlite store: %v", err)
	}
	defer db.Close()

	// migrations are idempotent
	if err := RunMigrations(db, cfg.Driver); err != nil {
		t.Fatalf("Failed to rerun migrations: %v", err)
	}

	for _, table := range []string{"runs", "results"} {
		var count int
		if err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count); err != nil {
			t.Errorf("Failed to query %s: %v", table, err)
		}
	}
}

func TestRunMigrations_NilDB(t *testing.T) {
	if err := RunMigrations(nil, config.ResultsSQLite); err == nil {
		t.Error("expected error for nil database")
	}
}
