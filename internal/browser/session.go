// Package browser manages browser sessions and hands out one isolated tab per
// test. A Session is a browser process; every Tab owns its own browsing context
// (cookies, storage, cache) and page.
package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/themizzi/saucecheck/internal/config"
	"github.com/themizzi/saucecheck/internal/screens"
)

// Tab is a page bound to its own browsing context
type Tab interface {
	screens.Page
	Screenshot(path string) error
	// Close closes the page and then its browsing context
	Close() error
}

// Session is a long-lived browser process shared by many tabs
type Session interface {
	NewTab(ctx context.Context) (Tab, error)
	Close() error
}

// Viewport is a browsing context window size
type Viewport struct {
	Width  int
	Height int
}

// Options configures how a Session launches the browser and its tabs
type Options struct {
	Headless          bool
	SlowMo            time.Duration
	ActionTimeout     time.Duration
	Viewport          Viewport
	IgnoreHTTPSErrors bool
	// InstallBrowsers downloads the playwright chromium build before launch
	InstallBrowsers bool
}

// DefaultOptions returns the tab settings the suite runs with
func DefaultOptions() Options {
	return Options{
		Headless:          true,
		ActionTimeout:     30 * time.Second,
		Viewport:          Viewport{Width: 1280, Height: 720},
		IgnoreHTTPSErrors: true,
	}
}

// OptionsFromConfig derives session options from a run configuration
func OptionsFromConfig(cfg *config.RunConfig) Options {
	opts := DefaultOptions()
	opts.Headless = cfg.Headless
	opts.SlowMo = cfg.SlowMo
	opts.ActionTimeout = cfg.ActionTimeout
	return opts
}

// Open launches a Session for the named driver
func Open(driver string, opts Options) (Session, error) {
	switch driver {
	case config.DriverPlaywright:
		return NewPlaywrightSession(opts)
	case config.DriverRod:
		return NewRodSession(opts)
	default:
		return nil, fmt.Errorf("unknown driver %q", driver)
	}
}
