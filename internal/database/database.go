package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/themizzi/saucecheck/internal/config"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// sqlDriver maps a results driver name to its database/sql driver
func sqlDriver(driver string) (string, error) {
	switch driver {
	case config.ResultsPostgres:
		return "postgres", nil
	case config.ResultsSQLite:
		return "sqlite", nil
	default:
		return "", fmt.Errorf("unknown results driver %q", driver)
	}
}

// Open establishes a connection to the results store and verifies it
func Open(driver, dsn string) (*sql.DB, error) {
	name, err := sqlDriver(driver)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(name, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	if driver == config.ResultsSQLite {
		// sqlite allows a single writer
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(10)
	}
	db.SetConnMaxLifetime(5 * time.Minute)

	// Verify connection
	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// OpenConfig opens the store described by cfg and runs migrations
func OpenConfig(cfg *config.ResultsConfig) (*sql.DB, error) {
	db, err := Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, err
	}
	if err := RunMigrations(db, cfg.Driver); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
