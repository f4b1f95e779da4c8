//go:build e2e

// Package e2e runs the Sauce Demo suite against the live storefront through a
// real browser.
//
//	go run ./cmd/saucecheck install   # once, for the playwright driver
//	go test -tags e2e ./e2e/...
//
// E2E_DRIVER selects playwright (default) or rod, E2E_TAGS filters scenarios
// (e.g. "smoke,!checkout"), E2E_HEADLESS=false shows the browser and
// SAUCE_BASE_URL points the suite at another deployment.
package e2e
