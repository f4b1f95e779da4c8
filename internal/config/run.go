package config

import (
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// Supported browser drivers
const (
	DriverPlaywright = "playwright"
	DriverRod        = "rod"
)

// DefaultBaseURL is the storefront the suite runs against
const DefaultBaseURL = "https://www.saucedemo.com/"

// RunConfig holds configuration for a suite run
type RunConfig struct {
	BaseURL       string
	Driver        string
	Headless      bool
	SlowMo        time.Duration
	ActionTimeout time.Duration
	Tags          string
	ArtifactsDir  string
	Workers       int
}

// LoadRunConfig loads run configuration from environment variables
func LoadRunConfig(getenv func(string) string) (*RunConfig, error) {
	config := &RunConfig{
		BaseURL:       getenv("SAUCE_BASE_URL"),
		Driver:        getenv("E2E_DRIVER"),
		Headless:      getenv("E2E_HEADLESS") != "false",
		Tags:          getenv("E2E_TAGS"),
		ArtifactsDir:  getenv("E2E_ARTIFACTS_DIR"),
		ActionTimeout: 30 * time.Second,
		Workers:       1,
	}

	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.Driver == "" {
		config.Driver = DriverPlaywright
	}

	if v := getenv("E2E_SLOW_MO"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("E2E_SLOW_MO is not a duration: %w", err)
		}
		config.SlowMo = d
	}
	if v := getenv("E2E_ACTION_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("E2E_ACTION_TIMEOUT is not a duration: %w", err)
		}
		config.ActionTimeout = d
	}
	if v := getenv("E2E_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("E2E_WORKERS is not a number: %w", err)
		}
		config.Workers = n
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks that the configuration can drive a run
func (c *RunConfig) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL %q: %w", c.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("base URL %q must be http or https", c.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("base URL %q has no host", c.BaseURL)
	}
	switch c.Driver {
	case DriverPlaywright, DriverRod:
	default:
		return fmt.Errorf("unknown driver %q", c.Driver)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.ActionTimeout <= 0 {
		return fmt.Errorf("action timeout must be positive")
	}
	return nil
}
