// Package screens holds one object per Sauce Demo screen on top of a minimal
// page capability set. Screen objects keep no DOM state; every query reads the
// live page again.
package screens

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

// Locator is an opaque element selector (CSS or XPath)
type Locator string

// Wait budgets shared by screens and scenarios
const (
	WaitBudget      = 5 * time.Second
	SlowLoginBudget = 10 * time.Second
	SettleDelay     = 500 * time.Millisecond
	SortSettleDelay = time.Second
)

// Driver errors surfaced through Page implementations
var (
	ErrTimeout  = errors.New("timed out waiting for page")
	ErrNotFound = errors.New("element not found")
)

// ErrorBanner is the validation banner shared by the login and checkout forms
const ErrorBanner Locator = "[data-test='error']"

// Page is the capability set every screen object is built from.
//
// Single-element calls act on the first element matching the locator. Text and
// click calls wait for the element up to the driver's action timeout; IsVisible
// and Count never wait.
type Page interface {
	Navigate(url string) error
	Click(sel Locator) error
	Fill(sel Locator, text string) error
	Text(sel Locator) (string, error)
	IsVisible(sel Locator) (bool, error)
	WaitFor(sel Locator, timeout time.Duration) error

	Count(sel Locator) (int, error)
	TextAt(sel Locator, index int) (string, error)
	ClickAt(sel Locator, index int) error
	Select(sel Locator, value string, timeout time.Duration) error

	Pause(d time.Duration)
	URL() string
	Title() (string, error)
	WaitForURL(pattern string, timeout time.Duration) error
}

// MatchURL reports whether url matches a glob pattern where "**" matches any
// run of characters and "*" any run without a slash.
func MatchURL(pattern, url string) bool {
	var b strings.Builder
	b.WriteString("^")
	for i := 0; i < len(pattern); i++ {
		switch {
		case strings.HasPrefix(pattern[i:], "**"):
			b.WriteString(".*")
			i++
		case pattern[i] == '*':
			b.WriteString("[^/]*")
		default:
			b.WriteString(regexp.QuoteMeta(pattern[i : i+1]))
		}
	}
	b.WriteString("$")

	re, err := regexp.Compile(b.String())
	if err != nil {
		return false
	}
	return re.MatchString(url)
}

// texts reads the text of every element matching sel, in document order
func texts(p Page, count, sel Locator) ([]string, error) {
	n, err := p.Count(count)
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		text, err := p.TextAt(sel, i)
		if err != nil {
			return nil, err
		}
		out = append(out, text)
	}
	return out, nil
}
