package config

import "fmt"

// Supported results store drivers
const (
	ResultsPostgres = "postgres"
	ResultsSQLite   = "sqlite"
)

// ResultsConfig holds configuration for the optional results store
type ResultsConfig struct {
	Driver string
	DSN    string
}

// LoadResultsConfig loads results store configuration from environment variables.
// It returns nil when no store is configured.
func LoadResultsConfig(getenv func(string) string) (*ResultsConfig, error) {
	config := &ResultsConfig{
		Driver: getenv("RESULTS_DRIVER"),
		DSN:    getenv("RESULTS_DSN"),
	}

	if config.Driver == "" && config.DSN == "" {
		return nil, nil
	}
	if config.Driver == "" {
		config.Driver = ResultsSQLite
	}

	switch config.Driver {
	case ResultsSQLite:
		if config.DSN == "" {
			config.DSN = "saucecheck.db"
		}
	case ResultsPostgres:
		if config.DSN == "" {
			pg, err := LoadPostgresConfig(getenv)
			if err != nil {
				return nil, fmt.Errorf("postgres results store: %w", err)
			}
			config.DSN = pg.ConnectionString()
		}
	default:
		return nil, fmt.Errorf("unknown results driver %q", config.Driver)
	}

	return config, nil
}
