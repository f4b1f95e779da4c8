package screenstest

import (
	"context"
	"sync"

	"github.com/themizzi/saucecheck/internal/browser"
)

// Session hands out a fresh Storefront per tab. It is safe for concurrent use.
type Session struct {
	BaseURL string
	// Configure, when set, adjusts every new storefront
	Configure func(*Storefront)

	mu     sync.Mutex
	tabs   []*Storefront
	closed bool
}

// NewSession creates a storefront session served at baseURL
func NewSession(baseURL string) *Session {
	return &Session{BaseURL: baseURL}
}

// NewTab opens a fresh, signed-out storefront
func (s *Session) NewTab(ctx context.Context) (browser.Tab, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tab := NewStorefront(s.BaseURL)
	if s.Configure != nil {
		s.Configure(tab)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tabs = append(s.tabs, tab)
	return tab, nil
}

// Close marks the session closed
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Tabs returns every storefront opened so far
func (s *Session) Tabs() []*Storefront {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*Storefront(nil), s.tabs...)
}

// Closed reports whether Close was called
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
