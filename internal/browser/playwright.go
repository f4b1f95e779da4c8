package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/themizzi/saucecheck/internal/screens"
)

// InstallPlaywright downloads the chromium build used by the playwright driver
func InstallPlaywright() error {
	if err := playwright.Install(&playwright.RunOptions{
		Browsers: []string{"chromium"},
	}); err != nil {
		return fmt.Errorf("failed to install playwright: %w", err)
	}
	return nil
}

// PlaywrightSession is a chromium process driven by playwright-go
type PlaywrightSession struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	opts    Options
}

// NewPlaywrightSession starts playwright and launches chromium
func NewPlaywrightSession(opts Options) (*PlaywrightSession, error) {
	if opts.InstallBrowsers {
		if err := InstallPlaywright(); err != nil {
			return nil, err
		}
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
		SlowMo:   playwright.Float(millis(opts.SlowMo)),
	})
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("failed to launch chromium: %w", err)
	}

	return &PlaywrightSession{pw: pw, browser: browser, opts: opts}, nil
}

// NewTab creates a fresh browsing context and opens a page in it
func (s *PlaywrightSession) NewTab(ctx context.Context) (Tab, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bctx, err := s.browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  s.opts.Viewport.Width,
			Height: s.opts.Viewport.Height,
		},
		IgnoreHttpsErrors: playwright.Bool(s.opts.IgnoreHTTPSErrors),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create browser context: %w", err)
	}
	bctx.SetDefaultTimeout(millis(s.opts.ActionTimeout))

	page, err := bctx.NewPage()
	if err != nil {
		_ = bctx.Close()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	return &playwrightTab{ctx: bctx, page: page}, nil
}

// Close closes the browser and stops playwright
func (s *PlaywrightSession) Close() error {
	var errs []error
	if err := s.browser.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close browser: %w", err))
	}
	if err := s.pw.Stop(); err != nil {
		errs = append(errs, fmt.Errorf("failed to stop playwright: %w", err))
	}
	return errors.Join(errs...)
}

type playwrightTab struct {
	ctx  playwright.BrowserContext
	page playwright.Page
}

func (t *playwrightTab) first(sel screens.Locator) playwright.Locator {
	return t.page.Locator(string(sel)).First()
}

func (t *playwrightTab) Navigate(url string) error {
	if _, err := t.page.Goto(url); err != nil {
		return playwrightErr("navigate to", screens.Locator(url), err)
	}
	return nil
}

func (t *playwrightTab) Click(sel screens.Locator) error {
	return playwrightErr("click", sel, t.first(sel).Click())
}

func (t *playwrightTab) Fill(sel screens.Locator, text string) error {
	return playwrightErr("fill", sel, t.first(sel).Fill(text))
}

func (t *playwrightTab) Text(sel screens.Locator) (string, error) {
	text, err := t.first(sel).TextContent()
	return text, playwrightErr("read text of", sel, err)
}

func (t *playwrightTab) IsVisible(sel screens.Locator) (bool, error) {
	visible, err := t.first(sel).IsVisible()
	return visible, playwrightErr("check visibility of", sel, err)
}

func (t *playwrightTab) WaitFor(sel screens.Locator, timeout time.Duration) error {
	return playwrightErr("wait for", sel, t.first(sel).WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(millis(timeout)),
	}))
}

func (t *playwrightTab) Count(sel screens.Locator) (int, error) {
	n, err := t.page.Locator(string(sel)).Count()
	return n, playwrightErr("count", sel, err)
}

func (t *playwrightTab) TextAt(sel screens.Locator, index int) (string, error) {
	text, err := t.page.Locator(string(sel)).Nth(index).TextContent()
	return text, playwrightErr("read text of", sel, err)
}

func (t *playwrightTab) ClickAt(sel screens.Locator, index int) error {
	return playwrightErr("click", sel, t.page.Locator(string(sel)).Nth(index).Click())
}

func (t *playwrightTab) Select(sel screens.Locator, value string, timeout time.Duration) error {
	values := []string{value}
	_, err := t.first(sel).SelectOption(playwright.SelectOptionValues{Values: &values},
		playwright.LocatorSelectOptionOptions{Timeout: playwright.Float(millis(timeout))})
	return playwrightErr("select "+value+" in", sel, err)
}

func (t *playwrightTab) Pause(d time.Duration) {
	t.page.WaitForTimeout(millis(d))
}

func (t *playwrightTab) URL() string {
	return t.page.URL()
}

func (t *playwrightTab) Title() (string, error) {
	return t.page.Title()
}

func (t *playwrightTab) WaitForURL(pattern string, timeout time.Duration) error {
	return playwrightErr("wait for url", screens.Locator(pattern), t.page.WaitForURL(pattern,
		playwright.PageWaitForURLOptions{Timeout: playwright.Float(millis(timeout))}))
}

func (t *playwrightTab) Screenshot(path string) error {
	if _, err := t.page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	}); err != nil {
		return fmt.Errorf("failed to take screenshot: %w", err)
	}
	return nil
}

func (t *playwrightTab) Close() error {
	var errs []error
	if err := t.page.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close page: %w", err))
	}
	if err := t.ctx.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close browser context: %w", err))
	}
	return errors.Join(errs...)
}

// playwrightErr maps playwright timeouts onto screens.ErrTimeout
func playwrightErr(op string, sel screens.Locator, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, playwright.ErrTimeout) {
		return fmt.Errorf("%w: %s %s: %w", screens.ErrTimeout, op, sel, err)
	}
	return fmt.Errorf("failed to %s %s: %w", op, sel, err)
}

func millis(d time.Duration) float64 {
	return float64(d.Milliseconds())
}
